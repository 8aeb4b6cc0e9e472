package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartPrice(t *testing.T) {
	testCases := []struct {
		symbol string
		want   float64
	}{
		{symbol: "BTCUSDT", want: 60000},
		{symbol: "ETHUSDT", want: 3000},
		{symbol: "XAUUSD", want: 2300},
		{symbol: "USDJPY", want: 150},
		{symbol: "EURUSD", want: 1.1},
		{symbol: "DOGECOIN", want: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.symbol, func(t *testing.T) {
			assert.Equal(t, tc.want, startPrice(tc.symbol))
		})
	}
}

func TestWalkStaysWithinVolatility(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	price := 100.0

	for i := 0; i < 1000; i++ {
		next := walk(rng, price, 0.01)
		assert.InDelta(t, price, next, price*0.01+1e-9)
		assert.Positive(t, next)
		price = next
	}
}
