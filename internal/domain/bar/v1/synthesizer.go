package v1

import (
	"time"

	"github.com/muhammadchandra19/chart-datafeed/pkg/interval"
)

// Advance folds a tick into the previous bar of a subscription and returns
// the bar that replaces it. last is never modified.
//
// Without a previous bar a fresh bar is opened at the bucket containing the
// tick. A tick at or past the next bucket boundary rolls over into a bar that
// opens at the previous close; otherwise the current bar is updated in place
// of its high, low and close.
func Advance(last *Bar, tick Tick, iv interval.Interval, now time.Time) Bar {
	tickTime := tick.TimeSeconds(now)
	price := tick.Price

	if last == nil {
		return Bar{
			Time:  iv.BucketStart(tickTime) * 1000,
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		}
	}

	next := last.StartSeconds() + interval.DurationSeconds(iv)
	if tickTime >= next {
		return Bar{
			Time:  next * 1000,
			Open:  last.Close,
			High:  price,
			Low:   price,
			Close: price,
		}
	}

	updated := *last
	updated.High = max(last.High, price)
	updated.Low = min(last.Low, price)
	updated.Close = price
	return updated
}

// IsRollover reports whether next opened a new bucket relative to prev.
func IsRollover(prev *Bar, next Bar) bool {
	return prev != nil && next.Time != prev.Time
}
