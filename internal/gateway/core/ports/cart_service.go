package ports

import (
	"context"

	"mealgate/internal/gateway/core/domain/entity"
)

// MaterializedCart is a session cart resolved against the current catalog
// snapshot, with the derived totals.
type MaterializedCart struct {
	Lines            []entity.CartLine
	Subtotal         float64
	EstimatedMinutes int
}

// CartService mutates and materializes per-session carts.
type CartService interface {
	AddItem(ctx context.Context, sessionID, mealID string) error
	// RemoveItem decrements one unit; removing an absent item is a no-op.
	RemoveItem(ctx context.Context, sessionID, mealID string) error
	// View materializes the session cart against the area's catalog snapshot,
	// silently dropping entries the snapshot no longer contains.
	View(ctx context.Context, sessionID, area string) (*MaterializedCart, error)
}
