package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/core/ports"
	"mealgate/internal/pkg/cache"
)

// Abandoned carts expire on their own; every write refreshes the clock.
const cartTTL = 24 * time.Hour

// CartStore persists one cart per session as a whole JSON value under a
// single Redis key, last-write-wins. Absent or unparseable data reads as an
// empty cart.
type CartStore struct {
	cache cache.Cache
}

var _ ports.CartStore = (*CartStore)(nil)

func NewCartStore(c cache.Cache) *CartStore {
	return &CartStore{cache: c}
}

func (s *CartStore) Load(ctx context.Context, sessionID string) (entity.Cart, error) {
	raw, err := s.cache.Get(ctx, s.key(sessionID))
	if err != nil {
		return nil, fmt.Errorf("cart store: get: %w", err)
	}
	if raw == "" {
		return entity.Cart{}, nil
	}

	var cart entity.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		slog.WarnContext(ctx, "discarding unparseable cart", "session_id", sessionID, "error", err)
		return entity.Cart{}, nil
	}
	// A stored literal null decodes without error into a nil map.
	if cart == nil {
		cart = entity.Cart{}
	}
	return cart, nil
}

func (s *CartStore) Save(ctx context.Context, sessionID string, cart entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart store: marshal: %w", err)
	}
	return s.cache.Set(ctx, s.key(sessionID), data, cartTTL)
}

func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	return s.cache.Del(ctx, s.key(sessionID))
}

func (s *CartStore) key(sessionID string) string {
	return s.cache.GenerateKey("cart", sessionID)
}
