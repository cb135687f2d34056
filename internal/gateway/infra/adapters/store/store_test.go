package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/pkg/cache"
)

func newTestCache(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.NewRedisCache(mr.Addr(), "mealgate-test"), mr
}

func TestLastOrderStoreRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	s := NewLastOrderStore(c)
	ctx := context.Background()

	// Empty slot reads as absent, not as an error.
	order, err := s.Load(ctx)
	if err != nil || order != nil {
		t.Fatalf("empty slot: order = %v, err = %v", order, err)
	}

	saved := &entity.Order{
		ID:               "ord-1",
		CreatedAt:        "2026-08-31T12:00:00Z",
		Area:             "downtown",
		Address:          "1 Main St",
		Items:            []entity.OrderItem{{MealID: "m1", Name: "Ramen", Price: 5, PrepTimeMinutes: 10, Quantity: 2}},
		Subtotal:         10,
		EstimatedMinutes: 35,
	}
	if err := s.Save(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || loaded.ID != "ord-1" || len(loaded.Items) != 1 || loaded.Items[0].Quantity != 2 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLastOrderStoreCorruptSlotReadsAsAbsent(t *testing.T) {
	c, mr := newTestCache(t)
	s := NewLastOrderStore(c)

	mr.Set("mealgate-test:last_order:slot", "{not json")

	order, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt slot must not error: %v", err)
	}
	if order != nil {
		t.Errorf("order = %+v, want nil", order)
	}
}

func TestLastOrderStoreNullSlotReadsAsAbsent(t *testing.T) {
	c, mr := newTestCache(t)
	s := NewLastOrderStore(c)

	mr.Set("mealgate-test:last_order:slot", "null")

	order, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("stored null must not error: %v", err)
	}
	if order != nil {
		t.Errorf("order = %+v, want nil", order)
	}
}

func TestLastOrderStoreClear(t *testing.T) {
	c, _ := newTestCache(t)
	s := NewLastOrderStore(c)
	ctx := context.Background()

	if err := s.Save(ctx, &entity.Order{ID: "ord-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	order, err := s.Load(ctx)
	if err != nil || order != nil {
		t.Errorf("after clear: order = %v, err = %v", order, err)
	}

	// Clearing an already empty slot is fine.
	if err := s.Clear(ctx); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestCartStoreRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	s := NewCartStore(c)
	ctx := context.Background()

	cart, err := s.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cart) != 0 {
		t.Fatalf("fresh session cart = %v", cart)
	}

	cart.Add("m1")
	cart.Add("m1")
	if err := s.Save(ctx, "s1", cart); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded["m1"] != 2 {
		t.Errorf("loaded = %v", loaded)
	}

	other, err := s.Load(ctx, "s2")
	if err != nil || len(other) != 0 {
		t.Errorf("other session cart = %v, err = %v", other, err)
	}
}

func TestCartStoreCorruptValueReadsAsEmpty(t *testing.T) {
	c, mr := newTestCache(t)
	s := NewCartStore(c)

	mr.Set("mealgate-test:cart:s1", "][")

	cart, err := s.Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("corrupt cart must not error: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("cart = %v, want empty", cart)
	}
}

func TestCartStoreNullValueReadsAsEmpty(t *testing.T) {
	c, mr := newTestCache(t)
	s := NewCartStore(c)

	// Literal null is valid JSON and decodes into a nil map; the loaded cart
	// must still be usable.
	mr.Set("mealgate-test:cart:s1", "null")

	cart, err := s.Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("stored null must not error: %v", err)
	}
	if cart == nil {
		t.Fatal("cart is nil, want empty map")
	}

	cart.Add("m1")
	if cart["m1"] != 1 {
		t.Errorf("cart = %v", cart)
	}
}
