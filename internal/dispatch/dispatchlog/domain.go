// Package dispatchlog defines the domain types for the order dispatch log.
//
// Order submission to the backend is fire-and-forget: the HTTP handler
// returns as soon as the order is recorded locally, and the submission runs
// on a detached goroutine whose outcome is otherwise discarded. The dispatch
// log is a durable audit trail of those outcomes, so a failed or skipped
// submission can still be found after the fact and correlated with a
// distributed trace via the trace_id field.
package dispatchlog

import "time"

// Status represents the outcome of a single dispatch attempt.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusSubmitted Status = "SUBMITTED"
	StatusFailed    Status = "FAILED"
	StatusSkipped   Status = "SKIPPED"
)

// Entry is a single row in the dispatch_logs table.
type Entry struct {
	// OrderID is the gateway-assigned order identifier, so a log row can be
	// joined with the order the customer saw.
	OrderID string

	// Status is the attempt outcome at the time this row was written.
	Status Status

	// Payload is the JSON-serialised order that was (or would have been)
	// submitted. Stored once on STARTED so the attempt can be replayed.
	Payload string

	// ErrorMessage holds the failure detail on FAILED rows, empty otherwise.
	ErrorMessage string

	// TraceID is the W3C trace ID extracted from the OpenTelemetry span that
	// was active when this entry was written.
	TraceID string

	// SpanID is the specific span within the trace.
	SpanID string

	// CreatedAt is the wall-clock time of this log entry.
	CreatedAt time.Time
}
