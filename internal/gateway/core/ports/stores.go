package ports

import (
	"context"

	"mealgate/internal/gateway/core/domain/entity"
)

// LastOrderStore is the single process-wide slot holding the most recently
// placed order for the confirmation hand-off. Exactly one slot exists: no
// history, no multiple pending orders. Corrupt or missing data reads as
// absent, never as an error.
type LastOrderStore interface {
	// Save overwrites the slot unconditionally.
	Save(ctx context.Context, order *entity.Order) error
	// Load returns (nil, nil) when the slot is empty or unparseable.
	Load(ctx context.Context) (*entity.Order, error)
	Clear(ctx context.Context) error
}

// CartStore persists one cart per session, whole-value, last-write-wins.
// Absent or unparseable data reads as an empty cart.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (entity.Cart, error)
	Save(ctx context.Context, sessionID string, cart entity.Cart) error
	Clear(ctx context.Context, sessionID string) error
}
