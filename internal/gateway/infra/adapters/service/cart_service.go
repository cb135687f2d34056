package service

import (
	"context"
	"fmt"
	"strings"

	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/core/ports"
)

// CartService mutates and materializes per-session carts. The cart itself is
// the pure entity.Cart type; this adapter only loads it, applies one
// operation and writes it back.
type CartService struct {
	carts   ports.CartStore
	catalog ports.CatalogService

	pickupMinutes   int
	deliveryMinutes int
}

var _ ports.CartService = (*CartService)(nil)

func NewCartService(carts ports.CartStore, catalog ports.CatalogService) *CartService {
	return &CartService{
		carts:           carts,
		catalog:         catalog,
		pickupMinutes:   entity.FixedPickupMinutes,
		deliveryMinutes: entity.FixedDeliveryMinutes,
	}
}

func (s *CartService) AddItem(ctx context.Context, sessionID, mealID string) error {
	if strings.TrimSpace(mealID) == "" {
		return entity.ValidationError{Field: "meal_id", Message: "meal id is required"}
	}

	cart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	cart.Add(mealID)
	return s.carts.Save(ctx, sessionID, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, mealID string) error {
	cart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	cart.Remove(mealID)
	return s.carts.Save(ctx, sessionID, cart)
}

func (s *CartService) View(ctx context.Context, sessionID, area string) (*ports.MaterializedCart, error) {
	cart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	snapshot, err := s.catalog.MealsByArea(ctx, area)
	if err != nil {
		return nil, err
	}

	lines := cart.Materialize(snapshot)
	view := &ports.MaterializedCart{Lines: lines}
	if len(lines) > 0 {
		view.Subtotal = entity.Subtotal(lines)
		view.EstimatedMinutes = entity.EstimatedMinutes(lines, s.pickupMinutes, s.deliveryMinutes)
	}
	return view, nil
}
