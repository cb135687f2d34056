package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/core/ports"
)

// OrderService assembles order records from session carts and owns the
// last-order hand-off slot.
type OrderService struct {
	catalog   ports.CatalogService
	backend   ports.OrderBackend // nil when no upstream is configured
	carts     ports.CartStore
	lastOrder ports.LastOrderStore

	pickupMinutes   int
	deliveryMinutes int
}

var _ ports.OrderService = (*OrderService)(nil)

func NewOrderService(catalog ports.CatalogService, backend ports.OrderBackend, carts ports.CartStore, lastOrder ports.LastOrderStore) *OrderService {
	return &OrderService{
		catalog:         catalog,
		backend:         backend,
		carts:           carts,
		lastOrder:       lastOrder,
		pickupMinutes:   entity.FixedPickupMinutes,
		deliveryMinutes: entity.FixedDeliveryMinutes,
	}
}

// PlaceOrder validates its input before any side effect: address first, then
// the materialized cart. On success the record is written to the last-order
// slot and the session cart is cleared. Submission to the backend is not
// attempted here — the handler dispatches it on a detached goroutine so a
// submission failure can never undo a placed order.
func (s *OrderService) PlaceOrder(ctx context.Context, sessionID, area, address string) (*entity.Order, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return nil, entity.ValidationError{Field: "address", Message: "delivery address is required"}
	}

	cart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	snapshot, err := s.catalog.MealsByArea(ctx, area)
	if err != nil {
		// A failed fetch reads as an empty catalog: every cart entry is then
		// stale and the order is rejected as empty rather than failing hard.
		slog.WarnContext(ctx, "catalog fetch failed during order placement", "area", area, "error", err)
		snapshot = nil
	}

	lines := cart.Materialize(snapshot)
	if len(lines) == 0 {
		return nil, entity.ValidationError{Field: "items", Message: "cart is empty"}
	}

	order := entity.NewOrder(
		uuid.NewString(),
		time.Now().UTC().Format(time.RFC3339),
		area,
		addr,
		lines,
		s.pickupMinutes,
		s.deliveryMinutes,
	)

	if err := s.lastOrder.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save last order: %w", err)
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		slog.WarnContext(ctx, "failed to clear session cart", "session_id", sessionID, "error", err)
	}

	return order, nil
}

func (s *OrderService) OrdersByArea(ctx context.Context, area string) ([]entity.Order, error) {
	if s.backend == nil {
		return []entity.Order{}, nil
	}
	return s.backend.QueryOrders(ctx, area)
}

func (s *OrderService) LastOrder(ctx context.Context) (*entity.Order, error) {
	return s.lastOrder.Load(ctx)
}

func (s *OrderService) ClearLastOrder(ctx context.Context) error {
	return s.lastOrder.Clear(ctx)
}
