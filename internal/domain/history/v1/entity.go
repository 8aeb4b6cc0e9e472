package v1

import (
	"time"
)

// Query selects stored bars of one symbol and interval. Bounds are inclusive.
// A positive Limit keeps only the newest Limit bars.
type Query struct {
	Symbol   string
	Interval string
	From     time.Time
	To       time.Time
	Limit    int
}
