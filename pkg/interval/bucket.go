package interval

// BucketStart floors an epoch-seconds timestamp to the start of its bucket.
// Buckets are aligned on the Unix epoch.
func (i Interval) BucketStart(unixSeconds int64) int64 {
	size := DurationSeconds(i)
	start := (unixSeconds / size) * size
	if unixSeconds < 0 && unixSeconds%size != 0 {
		start -= size
	}
	return start
}
