package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mealgate/internal/dispatch/dispatchlog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := Open(filepath.Join(t.TempDir(), "dispatch.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndGetLatest(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	entries := []*dispatchlog.Entry{
		{OrderID: "ord-1", Status: dispatchlog.StatusStarted, Payload: `{"id":"ord-1"}`, CreatedAt: base},
		{OrderID: "ord-1", Status: dispatchlog.StatusFailed, ErrorMessage: "timeout", CreatedAt: base.Add(time.Second)},
		{OrderID: "ord-2", Status: dispatchlog.StatusStarted, CreatedAt: base},
	}
	for _, e := range entries {
		if err := repo.Save(ctx, e); err != nil {
			t.Fatalf("save %v: %v", e.Status, err)
		}
	}

	latest, err := repo.GetLatest(ctx, "ord-1")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if latest.Status != dispatchlog.StatusFailed {
		t.Errorf("status = %v, want FAILED", latest.Status)
	}
	if latest.ErrorMessage != "timeout" {
		t.Errorf("error message = %q", latest.ErrorMessage)
	}
	if !latest.CreatedAt.Equal(base.Add(time.Second)) {
		t.Errorf("created at = %v", latest.CreatedAt)
	}
}

func TestGetLatestUnknownOrder(t *testing.T) {
	repo := openTestRepo(t)

	if _, err := repo.GetLatest(context.Background(), "no-such-order"); err == nil {
		t.Error("want error for unknown order id")
	}
}

func TestSavePreservesTraceFields(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	entry := &dispatchlog.Entry{
		OrderID:   "ord-1",
		Status:    dispatchlog.StatusSubmitted,
		TraceID:   "4bf92f3577b34da6a3ce929d0e0e4736",
		SpanID:    "00f067aa0ba902b7",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Save(ctx, entry); err != nil {
		t.Fatalf("save: %v", err)
	}

	latest, err := repo.GetLatest(ctx, "ord-1")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if latest.TraceID != entry.TraceID || latest.SpanID != entry.SpanID {
		t.Errorf("trace fields = %q/%q", latest.TraceID, latest.SpanID)
	}
}
