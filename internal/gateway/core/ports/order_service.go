package ports

import (
	"context"

	"mealgate/internal/gateway/core/domain/entity"
)

// OrderService assembles orders from session carts, serves the area order
// feed and owns the last-order hand-off slot.
type OrderService interface {
	// PlaceOrder validates the input, builds an immutable order record from
	// the session cart and saves it to the last-order slot. Submission to the
	// backend is the caller's concern (dispatched fire-and-forget).
	PlaceOrder(ctx context.Context, sessionID, area, address string) (*entity.Order, error)
	// OrdersByArea returns the normalized order feed for a delivery area.
	OrdersByArea(ctx context.Context, area string) ([]entity.Order, error)
	LastOrder(ctx context.Context) (*entity.Order, error)
	ClearLastOrder(ctx context.Context) error
}

// OrderBackend submits placed orders to the managed backend and queries the
// area order feed. Absent (nil) when no upstream is configured.
type OrderBackend interface {
	SubmitOrder(ctx context.Context, order *entity.Order) error
	QueryOrders(ctx context.Context, area string) ([]entity.Order, error)
}
