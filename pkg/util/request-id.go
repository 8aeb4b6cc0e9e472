package util

import "github.com/google/uuid"

// NewRequestID returns a uuid-v4 string to use as request or session id
func NewRequestID() string {
	return uuid.NewString()
}
