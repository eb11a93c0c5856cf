package upstream

import (
	"fmt"
	"time"
)

// StatusError is a non-2xx reply from the model endpoint.
type StatusError struct {
	// Code is the HTTP status code.
	Code int
	// Status is the upstream status text.
	Status string
	// Detail is the upstream "detail" message, when the body carried one.
	Detail string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream returned %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("upstream returned %s", e.Status)
}

// TimeoutError means the upstream call was abandoned because the latency
// budget elapsed. No retry is attempted and the abandoned call's eventual
// result is never observed.
type TimeoutError struct {
	Tool   string
	Budget time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Tool, e.Budget)
}
