package datafeed

import (
	"time"

	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/v1"
	"github.com/muhammadchandra19/chart-datafeed/pkg/interval"
)

// DefaultHistoryEpoch is 2010-01-01T00:00:00Z.
const DefaultHistoryEpoch int64 = 1262304000

// ResolveRange computes the history window to load, in epoch seconds. Daily,
// weekly and monthly resolutions and the first request of a chart claim the
// whole history from epoch up to now; other requests are used verbatim.
func ResolveRange(resolution string, from, to int64, firstRequest bool, now time.Time, epoch int64) v1.Range {
	if !firstRequest && !interval.IsLongTerm(interval.ToInternal(resolution)) {
		return v1.Range{From: from, To: to}
	}

	return v1.Range{
		From: min(epoch, from),
		To:   max(now.Unix(), to),
	}
}
