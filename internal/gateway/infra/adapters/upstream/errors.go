package upstream

import "fmt"

// FetchError reports a failed catalog or order-feed query: a network error
// or a non-2xx response. It is never fatal — callers surface it and fall
// back to an empty result set.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream fetch failed: status %d", e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmitError reports a failed meal registration or order submission.
// For order placement it is swallowed after the local save; for meal
// registration it is surfaced to the caller.
type SubmitError struct {
	Status int
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream submit failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream submit failed: status %d", e.Status)
}

func (e *SubmitError) Unwrap() error { return e.Err }
