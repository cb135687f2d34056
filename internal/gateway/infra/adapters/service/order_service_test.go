package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mealgate/internal/gateway/core/domain/entity"
)

type memCartStore struct {
	carts map[string]entity.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[string]entity.Cart)}
}

func (m *memCartStore) Load(_ context.Context, sessionID string) (entity.Cart, error) {
	cart, ok := m.carts[sessionID]
	if !ok {
		return entity.Cart{}, nil
	}
	return cart, nil
}

func (m *memCartStore) Save(_ context.Context, sessionID string, cart entity.Cart) error {
	m.carts[sessionID] = cart
	return nil
}

func (m *memCartStore) Clear(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type memLastOrderStore struct {
	order *entity.Order
	saves int
}

func (m *memLastOrderStore) Save(_ context.Context, order *entity.Order) error {
	m.order = order
	m.saves++
	return nil
}

func (m *memLastOrderStore) Load(_ context.Context) (*entity.Order, error) {
	return m.order, nil
}

func (m *memLastOrderStore) Clear(_ context.Context) error {
	m.order = nil
	return nil
}

type failingSource struct{}

func (failingSource) QueryMeals(context.Context, string) ([]entity.Meal, error) {
	return nil, errors.New("boom")
}

func (failingSource) RegisterMeal(context.Context, entity.MealRegistration) error {
	return nil
}

func newOrderServiceFixture(meals []entity.Meal) (*OrderService, *memCartStore, *memLastOrderStore) {
	carts := newMemCartStore()
	last := &memLastOrderStore{}
	catalog := NewCatalogService(&scriptedSource{meals: meals}, time.Minute)
	return NewOrderService(catalog, nil, carts, last), carts, last
}

func TestPlaceOrderRequiresAddress(t *testing.T) {
	svc, carts, last := newOrderServiceFixture([]entity.Meal{{ID: "m1", Price: 5, PrepTimeMinutes: 10}})
	carts.carts["s1"] = entity.Cart{"m1": 1}

	for _, address := range []string{"", "   ", "\t\n"} {
		_, err := svc.PlaceOrder(context.Background(), "s1", "downtown", address)

		var ve entity.ValidationError
		if !errors.As(err, &ve) || ve.Field != "address" {
			t.Errorf("address %q: want address ValidationError, got %v", address, err)
		}
	}

	if last.saves != 0 {
		t.Errorf("rejected orders must not touch the store, saves = %d", last.saves)
	}
	if _, ok := carts.carts["s1"]; !ok {
		t.Error("rejected orders must not clear the cart")
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	svc, _, last := newOrderServiceFixture([]entity.Meal{{ID: "m1", Price: 5, PrepTimeMinutes: 10}})

	_, err := svc.PlaceOrder(context.Background(), "s1", "downtown", "1 Main St")

	var ve entity.ValidationError
	if !errors.As(err, &ve) || ve.Field != "items" {
		t.Fatalf("want items ValidationError, got %v", err)
	}
	if last.saves != 0 {
		t.Errorf("saves = %d, want 0", last.saves)
	}
}

func TestPlaceOrderDropsStaleEntries(t *testing.T) {
	svc, carts, _ := newOrderServiceFixture([]entity.Meal{{ID: "m1", Name: "Ramen", Price: 5, PrepTimeMinutes: 10}})
	carts.carts["s1"] = entity.Cart{"m1": 2, "removed-meal": 3}

	order, err := svc.PlaceOrder(context.Background(), "s1", "downtown", "1 Main St")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order.Items) != 1 || order.Items[0].MealID != "m1" {
		t.Errorf("stale entry leaked into order: %+v", order.Items)
	}
}

func TestPlaceOrderOnlyStaleEntriesIsEmpty(t *testing.T) {
	svc, carts, _ := newOrderServiceFixture([]entity.Meal{{ID: "m1", Price: 5, PrepTimeMinutes: 10}})
	carts.carts["s1"] = entity.Cart{"removed-meal": 3}

	_, err := svc.PlaceOrder(context.Background(), "s1", "downtown", "1 Main St")

	var ve entity.ValidationError
	if !errors.As(err, &ve) || ve.Field != "items" {
		t.Fatalf("want items ValidationError, got %v", err)
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	svc, carts, last := newOrderServiceFixture([]entity.Meal{
		{ID: "m1", Name: "Ramen", Price: 5, PrepTimeMinutes: 10},
		{ID: "m2", Name: "Gyoza", Price: 3, PrepTimeMinutes: 5},
	})
	carts.carts["s1"] = entity.Cart{"m1": 2, "m2": 1}

	order, err := svc.PlaceOrder(context.Background(), "s1", "downtown", "  1 Main St  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.ID == "" {
		t.Error("order id is empty")
	}
	if _, perr := time.Parse(time.RFC3339, order.CreatedAt); perr != nil {
		t.Errorf("created_at %q is not RFC3339: %v", order.CreatedAt, perr)
	}
	if order.Address != "1 Main St" {
		t.Errorf("address = %q, want trimmed", order.Address)
	}
	if order.Subtotal != 13 {
		t.Errorf("subtotal = %v, want 13", order.Subtotal)
	}
	if order.EstimatedMinutes != 40 {
		t.Errorf("estimated minutes = %d, want 40", order.EstimatedMinutes)
	}

	if last.order == nil || last.order.ID != order.ID {
		t.Errorf("last order slot = %+v", last.order)
	}
	if _, ok := carts.carts["s1"]; ok {
		t.Error("cart should be cleared after placing the order")
	}
}

func TestPlaceOrderCatalogFetchFailureReadsAsEmpty(t *testing.T) {
	carts := newMemCartStore()
	carts.carts["s1"] = entity.Cart{"m1": 1}
	last := &memLastOrderStore{}
	catalog := NewCatalogService(failingSource{}, time.Minute)
	svc := NewOrderService(catalog, nil, carts, last)

	_, err := svc.PlaceOrder(context.Background(), "s1", "downtown", "1 Main St")

	var ve entity.ValidationError
	if !errors.As(err, &ve) || ve.Field != "items" {
		t.Fatalf("want items ValidationError, got %v", err)
	}
	if last.saves != 0 {
		t.Errorf("saves = %d, want 0", last.saves)
	}
}

func TestOrdersByAreaNoBackend(t *testing.T) {
	svc, _, _ := newOrderServiceFixture(nil)

	orders, err := svc.OrdersByArea(context.Background(), "downtown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Errorf("orders = %v, want empty slice", orders)
	}
}

func TestLastOrderLifecycle(t *testing.T) {
	svc, carts, _ := newOrderServiceFixture([]entity.Meal{{ID: "m1", Price: 5, PrepTimeMinutes: 10}})
	carts.carts["s1"] = entity.Cart{"m1": 1}

	if order, err := svc.LastOrder(context.Background()); err != nil || order != nil {
		t.Fatalf("empty slot: order = %v, err = %v", order, err)
	}

	placed, err := svc.PlaceOrder(context.Background(), "s1", "downtown", "1 Main St")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := svc.LastOrder(context.Background())
	if err != nil || loaded == nil || loaded.ID != placed.ID {
		t.Fatalf("loaded = %v, err = %v", loaded, err)
	}

	if err := svc.ClearLastOrder(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order, err := svc.LastOrder(context.Background()); err != nil || order != nil {
		t.Errorf("after clear: order = %v, err = %v", order, err)
	}
}
