package remote

import "fmt"

// BackendError is a non-2xx answer from the backend. Detail carries the
// backend's human-readable message when one was present, and is what the
// session surfaces to users on a failed match.
type BackendError struct {
	StatusCode int
	Detail     string
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}
