package v1

import (
	"math/rand"
	"testing"
	"time"

	"github.com/muhammadchandra19/chart-datafeed/pkg/interval"
	"github.com/stretchr/testify/assert"
)

func TestAdvance(t *testing.T) {
	now := time.Unix(1700000500, 0)
	seeded := &Bar{Time: 1700000000000, Open: 1.09, High: 1.10, Low: 1.08, Close: 1.094, Volume: 12}

	testCases := []struct {
		name      string
		last      *Bar
		tick      Tick
		iv        interval.Interval
		assertFn  func(t *testing.T, got Bar)
	}{
		{
			name:      "no previous bar floors to bucket boundary",
			tick:      Tick{Symbol: "EURUSD", Price: 1.1, Timestamp: 1700000100},
			iv:        interval.Interval1h,
			assertFn: func(t *testing.T, got Bar) {
				assert.Equal(t, Bar{Time: 1699999200000, Open: 1.1, High: 1.1, Low: 1.1, Close: 1.1}, got)
			},
		},
		{
			name:      "no previous bar and no timestamp uses now",
			tick:      Tick{Symbol: "EURUSD", Price: 2},
			iv:        interval.Interval1m,
			assertFn: func(t *testing.T, got Bar) {
				assert.Equal(t, int64(1700000460000), got.Time)
			},
		},
		{
			name:      "no previous bar floors to the daily bucket",
			tick:      Tick{Symbol: "EURUSD", Price: 2, Timestamp: 1700000100},
			iv:        interval.Interval1d,
			assertFn: func(t *testing.T, got Bar) {
				assert.Equal(t, interval.Interval1d.BucketStart(1700000100)*1000, got.Time)
				assert.Equal(t, int64(1699920000000), got.Time)
			},
		},
		{
			name:      "millisecond timestamps are detected",
			tick:      Tick{Symbol: "EURUSD", Price: 2, Timestamp: 1700000100000},
			iv:        interval.Interval1h,
			assertFn: func(t *testing.T, got Bar) {
				assert.Equal(t, int64(1699999200000), got.Time)
			},
		},
		{
			name:      "update within bucket",
			last:      seeded,
			tick:      Tick{Symbol: "EURUSD", Price: 1.095, Timestamp: 1700000100},
			iv:        interval.Interval1h,
			assertFn: func(t *testing.T, got Bar) {
				assert.Equal(t, Bar{Time: 1700000000000, Open: 1.09, High: 1.10, Low: 1.08, Close: 1.095, Volume: 12}, got)
			},
		},
		{
			name:      "update extends high and low",
			last:      seeded,
			tick:      Tick{Symbol: "EURUSD", Price: 1.2, Timestamp: 1700003599},
			iv:        interval.Interval1h,
			assertFn: func(t *testing.T, got Bar) {
				assert.Equal(t, 1.2, got.High)
				assert.Equal(t, 1.08, got.Low)
				assert.Equal(t, 1.2, got.Close)
			},
		},
		{
			name:      "rollover exactly at boundary",
			last:      seeded,
			tick:      Tick{Symbol: "EURUSD", Price: 1.1, Timestamp: 1700003600},
			iv:        interval.Interval1h,
			assertFn: func(t *testing.T, got Bar) {
				assert.Equal(t, Bar{Time: 1700003600000, Open: 1.094, High: 1.1, Low: 1.1, Close: 1.1}, got)
			},
		},
		{
			name:      "rollover opens one bucket after the previous",
			last:      seeded,
			tick:      Tick{Symbol: "EURUSD", Price: 1.1, Timestamp: 1700020000},
			iv:        interval.Interval1h,
			assertFn: func(t *testing.T, got Bar) {
				assert.Equal(t, int64(1700003600000), got.Time)
				assert.Equal(t, float64(0), got.Volume)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var before Bar
			if tc.last != nil {
				before = *tc.last
			}

			got := Advance(tc.last, tc.tick, tc.iv, now)
			tc.assertFn(t, got)

			if tc.last != nil {
				assert.Equal(t, before, *tc.last, "previous bar must not be mutated")
			}
		})
	}
}

func TestAdvance_BoundsHoldWithoutRollover(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	last := &Bar{Time: 1700000000000, Open: 100, High: 100, Low: 100, Close: 100}

	for i := 0; i < 1000; i++ {
		tick := Tick{
			Symbol:    "BTCUSDT",
			Price:     50 + r.Float64()*100,
			Timestamp: float64(1700000000 + r.Int63n(3600)),
		}
		next := Advance(last, tick, interval.Interval1h, time.Now())

		assert.Equal(t, last.Time, next.Time)
		assert.Equal(t, last.Open, next.Open)
		assert.LessOrEqual(t, next.Low, next.Open)
		assert.LessOrEqual(t, next.Low, next.Close)
		assert.GreaterOrEqual(t, next.High, next.Open)
		assert.GreaterOrEqual(t, next.High, next.Close)
		last = &next
	}
}

func TestAdvance_RolloverForAnyLaterTick(t *testing.T) {
	last := &Bar{Time: 1700000000000, Open: 1, High: 3, Low: 0.5, Close: 2}

	for _, iv := range interval.AllIntervals {
		d := interval.DurationSeconds(iv)
		for _, offset := range []int64{0, 1, d, 10 * d} {
			tick := Tick{Price: 7, Timestamp: float64(1700000000 + d + offset)}
			got := Advance(last, tick, iv, time.Now())

			assert.Equal(t, last.Close, got.Open)
			assert.Equal(t, (1700000000+d)*1000, got.Time)
		}
	}
}

func TestAdvance_EURUSDScenario(t *testing.T) {
	last := &Bar{Time: 1700000000000, Open: 1.0900, High: 1.0940, Low: 1.0890, Close: 1.0930}

	updated := Advance(last, Tick{Symbol: "EURUSD", Price: 1.0950, Timestamp: 1700000100}, interval.Interval1h, time.Now())
	assert.Equal(t, int64(1700000000000), updated.Time)
	assert.Equal(t, 1.0950, updated.Close)
	assert.Equal(t, 1.0950, updated.High)
	assert.False(t, IsRollover(last, updated))

	rolled := Advance(&updated, Tick{Symbol: "EURUSD", Price: 1.0960, Timestamp: 1700003700}, interval.Interval1h, time.Now())
	assert.Equal(t, int64(1700003600000), rolled.Time)
	assert.Equal(t, 1.0950, rolled.Open)
	assert.True(t, IsRollover(&updated, rolled))
}
