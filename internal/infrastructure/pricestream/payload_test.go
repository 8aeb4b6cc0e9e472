package pricestream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		fallback string
		symbol   string
		ok       bool
		assertFn func(t *testing.T, payload map[string]any)
	}{
		{
			name:   "symbol from payload",
			raw:    `{"s":"btcusdt","p":42000.5}`,
			symbol: "BTCUSDT",
			ok:     true,
			assertFn: func(t *testing.T, payload map[string]any) {
				assert.Equal(t, json.Number("42000.5"), payload["p"])
			},
		},
		{
			name:     "fallback symbol",
			raw:      `{"price":1.1}`,
			fallback: " eurusd",
			symbol:   "EURUSD",
			ok:       true,
			assertFn: func(t *testing.T, payload map[string]any) {
				assert.Equal(t, "EURUSD", payload["symbol"])
			},
		},
		{
			name: "no symbol anywhere",
			raw:  `{"price":1.1}`,
		},
		{
			name: "not json",
			raw:  `price=1.1`,
		},
		{
			name: "json null",
			raw:  `null`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payload, symbol, ok := Decode([]byte(tc.raw), tc.fallback)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.symbol, symbol)
			if tc.assertFn != nil {
				tc.assertFn(t, payload)
			}
		})
	}
}

func TestSymbolSet(t *testing.T) {
	set := NewSymbolSet()

	assert.Equal(t, []string{"EURUSD", "BTCUSDT"}, set.Add("eurusd", "BTCUSDT", "EURUSD", ""))
	assert.Nil(t, set.Add("EURUSD"))
	assert.True(t, set.Contains("EURUSD"))
	assert.ElementsMatch(t, []string{"EURUSD", "BTCUSDT"}, set.List())

	assert.Equal(t, []string{"EURUSD"}, set.Remove("eurusd", "XAUUSD"))
	assert.False(t, set.Contains("EURUSD"))
	assert.Equal(t, []string{"BTCUSDT"}, set.List())
}

func TestDispatcher(t *testing.T) {
	var d Dispatcher
	d.Dispatch(map[string]any{"symbol": "EURUSD"})

	var got map[string]any
	d.Set(func(payload map[string]any) { got = payload })
	d.Dispatch(map[string]any{"symbol": "EURUSD"})

	assert.Equal(t, map[string]any{"symbol": "EURUSD"}, got)
}
