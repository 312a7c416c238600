package web

import (
	"fmt"
	"time"
)

// Config controls dataset fetching over HTTP.
type Config struct {
	RequestTimeout time.Duration
	MaxBytes       int64
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}
