package interval

import (
	"fmt"
)

// ValidateTimeRange validates an epoch-seconds range.
func ValidateTimeRange(from, to int64) error {
	if from < 0 || to < 0 {
		return fmt.Errorf("time range must not be negative")
	}

	if from > to {
		return fmt.Errorf("from time cannot be after to time")
	}

	return nil
}
