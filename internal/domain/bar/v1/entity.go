package v1

import (
	"math"
	"time"
)

// Bar represents a single OHLCV candle as delivered to chart consumers.
// Time is the bucket start in epoch milliseconds.
type Bar struct {
	Time   int64   `json:"time" parquet:"time"`
	Open   float64 `json:"open" parquet:"open"`
	High   float64 `json:"high" parquet:"high"`
	Low    float64 `json:"low" parquet:"low"`
	Close  float64 `json:"close" parquet:"close"`
	Volume float64 `json:"volume" parquet:"volume"`
}

// StartSeconds returns the bucket start in epoch seconds.
func (b Bar) StartSeconds() int64 {
	return floorDiv(b.Time, 1000)
}

// Tick is a single normalized price update from the upstream stream.
type Tick struct {
	Symbol string
	Price  float64
	// Timestamp is the raw upstream value. Values above 1e12 are epoch
	// milliseconds, anything else positive is epoch seconds. Zero means absent.
	Timestamp float64
}

// millisecondThreshold separates epoch milliseconds from epoch seconds.
const millisecondThreshold = 1e12

// TimeSeconds returns the tick time in epoch seconds, falling back to now
// when the tick carries no usable timestamp.
func (t Tick) TimeSeconds(now time.Time) int64 {
	ts := t.Timestamp
	if ts <= 0 || math.IsNaN(ts) || math.IsInf(ts, 0) {
		return now.Unix()
	}

	if ts > millisecondThreshold {
		return int64(math.Floor(ts / 1000))
	}

	return int64(math.Floor(ts))
}

// HasValidPrice reports whether the price is a finite number.
func (t Tick) HasValidPrice() bool {
	return !math.IsNaN(t.Price) && !math.IsInf(t.Price, 0)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
