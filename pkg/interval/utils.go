package interval

import (
	"strings"
	"time"
)

// Interval is one chart timeframe. Name is the internal vocabulary
// ("1m".."1M"), Resolution the charting library code ("1".."M").
type Interval struct {
	Name       string
	Resolution string
	Duration   time.Duration
}

// Supported intervals configuration
var (
	Interval1m  = Interval{Name: "1m", Resolution: "1", Duration: time.Minute}
	Interval5m  = Interval{Name: "5m", Resolution: "5", Duration: 5 * time.Minute}
	Interval15m = Interval{Name: "15m", Resolution: "15", Duration: 15 * time.Minute}
	Interval30m = Interval{Name: "30m", Resolution: "30", Duration: 30 * time.Minute}
	Interval1h  = Interval{Name: "1h", Resolution: "60", Duration: time.Hour}
	Interval4h  = Interval{Name: "4h", Resolution: "240", Duration: 4 * time.Hour}
	Interval1d  = Interval{Name: "1d", Resolution: "D", Duration: 24 * time.Hour}
	Interval1w  = Interval{Name: "1w", Resolution: "W", Duration: 7 * 24 * time.Hour}
	// Interval1M buckets streaming ticks in fixed 30 day months.
	Interval1M = Interval{Name: "1M", Resolution: "M", Duration: 30 * 24 * time.Hour}
)

// AllIntervals lists every supported interval, shortest first.
var AllIntervals = []Interval{
	Interval1m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval4h, Interval1d, Interval1w, Interval1M,
}

// LongTermIntervals always load the full history on every request.
var LongTermIntervals = []Interval{Interval1d, Interval1w, Interval1M}

// DefaultInterval is used for any unrecognized name or resolution code.
var DefaultInterval = Interval1h

var (
	nameRegistry       = make(map[string]Interval)
	resolutionRegistry = make(map[string]Interval)
)

func init() {
	for _, interval := range AllIntervals {
		nameRegistry[interval.Name] = interval
		resolutionRegistry[interval.Resolution] = interval
	}

	// legacy codes some chart builds still send
	resolutionRegistry["1D"] = Interval1d
	resolutionRegistry["1W"] = Interval1w
	resolutionRegistry["1M"] = Interval1M
}

// ToInternal maps a charting resolution code to an interval. Unknown codes
// resolve to DefaultInterval.
func ToInternal(resolution string) Interval {
	interval, exists := resolutionRegistry[strings.TrimSpace(resolution)]
	if !exists {
		return DefaultInterval
	}
	return interval
}

// ToExternal maps an interval to its charting resolution code. Unknown
// intervals resolve to the code of DefaultInterval.
func ToExternal(interval Interval) string {
	known, exists := nameRegistry[interval.Name]
	if !exists {
		return DefaultInterval.Resolution
	}
	return known.Resolution
}

// CanonicalResolution normalizes legacy or unknown resolution codes.
func CanonicalResolution(resolution string) string {
	return ToExternal(ToInternal(resolution))
}

// DurationSeconds returns the bucket duration of the interval in seconds.
func DurationSeconds(interval Interval) int64 {
	known, exists := nameRegistry[interval.Name]
	if !exists {
		known = DefaultInterval
	}
	return int64(known.Duration / time.Second)
}

// SupportedResolutions returns the canonical resolution codes, shortest first.
func SupportedResolutions() []string {
	resolutions := make([]string, 0, len(AllIntervals))
	for _, interval := range AllIntervals {
		resolutions = append(resolutions, interval.Resolution)
	}
	return resolutions
}

// IsLongTerm reports whether the interval is daily, weekly or monthly.
func IsLongTerm(interval Interval) bool {
	for _, long := range LongTermIntervals {
		if long.Name == interval.Name {
			return true
		}
	}
	return false
}
