// Package dispatch submits placed orders to the backend on a fire-and-forget
// basis and records each attempt in the dispatch log.
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"mealgate/internal/dispatch/dispatchlog"
	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/core/ports"
)

// submitTimeout bounds a single backend submission. The caller's request has
// already been answered by the time Dispatch runs, so the deadline only
// protects the goroutine from hanging on a dead upstream.
const submitTimeout = 10 * time.Second

// Dispatcher submits orders to the backend. Both collaborators may be nil:
// a nil backend turns submission into a recorded no-op, and a nil repository
// disables the audit trail (useful in tests).
type Dispatcher struct {
	backend ports.OrderBackend
	repo    dispatchlog.Repository
}

func New(backend ports.OrderBackend, repo dispatchlog.Repository) *Dispatcher {
	return &Dispatcher{backend: backend, repo: repo}
}

// Dispatch submits the order to the backend and records the outcome. It is
// meant to run on its own goroutine with a context detached from the HTTP
// request; errors are logged and logged only, never surfaced to the customer.
func (d *Dispatcher) Dispatch(ctx context.Context, order *entity.Order) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	payload := ""
	if b, err := json.Marshal(order); err == nil {
		payload = string(b)
	}
	d.record(ctx, dispatchlog.NewEntry(ctx, order.ID, dispatchlog.StatusStarted, payload, ""))

	if d.backend == nil {
		slog.InfoContext(ctx, "no order backend configured, skipping submission", "order_id", order.ID)
		d.record(ctx, dispatchlog.NewEntry(ctx, order.ID, dispatchlog.StatusSkipped, "", ""))
		return
	}

	if err := d.backend.SubmitOrder(ctx, order); err != nil {
		slog.WarnContext(ctx, "order submission failed, discarding", "order_id", order.ID, "error", err)
		d.record(ctx, dispatchlog.NewEntry(ctx, order.ID, dispatchlog.StatusFailed, "", err.Error()))
		return
	}

	d.record(ctx, dispatchlog.NewEntry(ctx, order.ID, dispatchlog.StatusSubmitted, "", ""))
}

func (d *Dispatcher) record(ctx context.Context, entry *dispatchlog.Entry) {
	if d.repo == nil {
		return
	}
	if err := d.repo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to save dispatch log entry", "order_id", entry.OrderID, "status", entry.Status, "error", err)
	}
}
