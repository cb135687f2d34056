package upstreamstub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/infra/adapters/upstream"
)

func newStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New().Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRegisterAndQueryMeals(t *testing.T) {
	srv := newStub(t)

	resp := postJSON(t, srv.URL+"/api/ProxyRegisterMeal",
		`{"name":"Ramen","description":"rich broth","price":9.5,"prepTimeMinutes":12,"delivery_area":"downtown"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status = %d", resp.StatusCode)
	}

	listResp, err := http.Get(srv.URL + "/api/QueryMealTable?delivery_area=downtown")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer listResp.Body.Close()

	var rows []mealRow
	if err := json.NewDecoder(listResp.Body).Decode(&rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}
	if !strings.HasPrefix(rows[0].RowKey, "meal-") {
		t.Errorf("RowKey = %q", rows[0].RowKey)
	}
	if rows[0].Name != "Ramen" || rows[0].Time != 12 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestRegisterMealValidation(t *testing.T) {
	srv := newStub(t)

	tests := []struct {
		name string
		body string
	}{
		{"zero price", `{"name":"Ramen","price":0,"prepTimeMinutes":12,"delivery_area":"downtown"}`},
		{"missing name", `{"price":9,"prepTimeMinutes":12,"delivery_area":"downtown"}`},
		{"missing area", `{"name":"Ramen","price":9,"prepTimeMinutes":12}`},
		{"zero prep time", `{"name":"Ramen","price":9,"delivery_area":"downtown"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/ProxyRegisterMeal", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestRegisterOrderRecomputesTotals(t *testing.T) {
	srv := newStub(t)

	resp := postJSON(t, srv.URL+"/api/ProxyRegisterOrder", `{
		"delivery_area":"downtown","address":"1 Main St",
		"items":[
			{"mealId":"m1","name":"Ramen","price":5,"qty":2,"prepTimeMinutes":10},
			{"mealId":"m2","name":"Gyoza","price":3,"qty":1,"prepTimeMinutes":5}
		]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var row orderRow
	if err := json.NewDecoder(resp.Body).Decode(&row); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !strings.HasPrefix(row.RowKey, "ord-") || strings.Contains(row.RowKey[4:], "-") {
		t.Errorf("RowKey = %q", row.RowKey)
	}
	if row.Subtotal != 13 {
		t.Errorf("subtotal = %v, want 13", row.Subtotal)
	}
	// 2*10 + 1*5 prep plus the stub's own 10 + 15 overhead.
	if row.EstimatedMinutes != 50 {
		t.Errorf("estimated minutes = %d, want 50", row.EstimatedMinutes)
	}
	if row.CreatedAt == "" {
		t.Error("createdAt should be filled in")
	}

	var items []orderItem
	if err := json.Unmarshal([]byte(row.ItemsJSON), &items); err != nil {
		t.Fatalf("itemsJson: %v", err)
	}
	if len(items) != 2 || items[0].MealID != "m1" {
		t.Errorf("items = %+v", items)
	}
}

func TestQueryOrdersRequiresFilter(t *testing.T) {
	srv := newStub(t)

	resp, err := http.Get(srv.URL + "/api/QueryOrderTable")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

// The gateway's upstream client and the stub agree on the wire format.
func TestGatewayClientRoundTrip(t *testing.T) {
	srv := newStub(t)
	client := upstream.New(srv.URL + "/api")
	ctx := context.Background()

	err := client.RegisterMeal(ctx, entity.MealRegistration{
		Name:            "Ramen",
		Description:     "rich broth",
		Price:           9.5,
		PrepTimeMinutes: 12,
		Area:            "downtown",
	})
	if err != nil {
		t.Fatalf("register meal: %v", err)
	}

	meals, err := client.QueryMeals(ctx, "downtown")
	if err != nil {
		t.Fatalf("query meals: %v", err)
	}
	if len(meals) != 1 || meals[0].Name != "Ramen" || meals[0].PrepTimeMinutes != 12 {
		t.Fatalf("meals = %+v", meals)
	}

	order := entity.NewOrder("local-id", "2026-08-31T12:00:00Z", "downtown", "1 Main St",
		[]entity.CartLine{{Listing: meals[0], Quantity: 2}},
		entity.FixedPickupMinutes, entity.FixedDeliveryMinutes)
	if err := client.SubmitOrder(ctx, order); err != nil {
		t.Fatalf("submit order: %v", err)
	}

	orders, err := client.QueryOrders(ctx, "downtown")
	if err != nil {
		t.Fatalf("query orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %+v", orders)
	}
	if orders[0].Subtotal != 19 {
		t.Errorf("subtotal = %v, want 19", orders[0].Subtotal)
	}
	if len(orders[0].Items) != 1 || orders[0].Items[0].Quantity != 2 {
		t.Errorf("items = %+v", orders[0].Items)
	}
}
