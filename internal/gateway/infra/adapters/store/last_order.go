package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/core/ports"
	"mealgate/internal/pkg/cache"
)

const lastOrderSlot = "slot"

// LastOrderStore keeps the most recently placed order in a single fixed
// Redis key. Save overwrites; Load treats missing or corrupt data as "no
// order" — the slot is a hand-off to the confirmation view, not a ledger.
type LastOrderStore struct {
	cache cache.Cache
}

var _ ports.LastOrderStore = (*LastOrderStore)(nil)

func NewLastOrderStore(c cache.Cache) *LastOrderStore {
	return &LastOrderStore{cache: c}
}

func (s *LastOrderStore) Save(ctx context.Context, order *entity.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("last order store: marshal: %w", err)
	}
	return s.cache.Set(ctx, s.key(), data, 0)
}

func (s *LastOrderStore) Load(ctx context.Context) (*entity.Order, error) {
	raw, err := s.cache.Get(ctx, s.key())
	if err != nil {
		return nil, fmt.Errorf("last order store: get: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var order entity.Order
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		slog.WarnContext(ctx, "discarding unparseable last order", "error", err)
		return nil, nil
	}
	// A stored literal null decodes without error into a zero-value order;
	// no real order lacks an id.
	if order.ID == "" {
		return nil, nil
	}
	return &order, nil
}

func (s *LastOrderStore) Clear(ctx context.Context) error {
	return s.cache.Del(ctx, s.key())
}

func (s *LastOrderStore) key() string {
	return s.cache.GenerateKey("last_order", lastOrderSlot)
}
