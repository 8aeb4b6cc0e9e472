package util

import "time"

// UnixSeconds converts epoch seconds to a UTC time.
func UnixSeconds(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
