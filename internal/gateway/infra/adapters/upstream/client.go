// Package upstream is the HTTP adapter for the managed catalog/order
// backend. Queries normalize every record defensively before it reaches the
// rest of the gateway; submissions are plain JSON POSTs with no retry.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/core/ports"
	"mealgate/internal/pkg/meta"
)

// Backend endpoint paths, relative to the configured base URL.
const (
	pathQueryMeals    = "/QueryMealTable"
	pathRegisterMeal  = "/ProxyRegisterMeal"
	pathRegisterOrder = "/ProxyRegisterOrder"
	pathQueryOrders   = "/QueryOrderTable"
)

// Client talks to the managed backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ ports.MealSource   = (*Client)(nil)
	_ ports.OrderBackend = (*Client)(nil)
)

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// QueryMeals fetches the raw meal entities for a delivery area and
// normalizes each one.
func (c *Client) QueryMeals(ctx context.Context, area string) ([]entity.Meal, error) {
	endpoint := c.baseURL + pathQueryMeals + "?delivery_area=" + url.QueryEscape(area)

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode}
	}

	var raw []rawMeal
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode meals: %w", err)}
	}

	meals := make([]entity.Meal, 0, len(raw))
	for _, r := range raw {
		meals = append(meals, normalizeMeal(r, area))
	}
	return meals, nil
}

type registerMealRequest struct {
	Name            string  `json:"name"`
	Restaurant      string  `json:"restaurant"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	PrepTimeMinutes int     `json:"prepTimeMinutes"`
	DeliveryArea    string  `json:"delivery_area"`
}

// RegisterMeal submits a new meal listing to the backend.
func (c *Client) RegisterMeal(ctx context.Context, reg entity.MealRegistration) error {
	body := registerMealRequest{
		Name:            reg.Name,
		Restaurant:      reg.Restaurant,
		Description:     reg.Description,
		Price:           reg.Price,
		PrepTimeMinutes: reg.PrepTimeMinutes,
		DeliveryArea:    reg.Area,
	}
	return c.post(ctx, c.baseURL+pathRegisterMeal, body)
}

// wireOrderItem is the item shape the backend expects on submission and
// stores inside an order entity's itemsJson column.
type wireOrderItem struct {
	MealID          string  `json:"mealId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Qty             int     `json:"qty"`
	PrepTimeMinutes int     `json:"prepTimeMinutes"`
}

type submitOrderRequest struct {
	DeliveryArea string          `json:"delivery_area"`
	Address      string          `json:"address"`
	Items        []wireOrderItem `json:"items"`
}

// SubmitOrder forwards a placed order to the backend. A single attempt, no
// retry: the caller treats any error here as best-effort feedback only.
func (c *Client) SubmitOrder(ctx context.Context, order *entity.Order) error {
	items := make([]wireOrderItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, wireOrderItem{
			MealID:          it.MealID,
			Name:            it.Name,
			Price:           it.Price,
			Qty:             it.Quantity,
			PrepTimeMinutes: it.PrepTimeMinutes,
		})
	}

	body := submitOrderRequest{
		DeliveryArea: order.Area,
		Address:      order.Address,
		Items:        items,
	}
	return c.post(ctx, c.baseURL+pathRegisterOrder, body)
}

// QueryOrders fetches the order feed for a delivery area and normalizes
// each entity.
func (c *Client) QueryOrders(ctx context.Context, area string) ([]entity.Order, error) {
	endpoint := c.baseURL + pathQueryOrders + "?delivery_area=" + url.QueryEscape(area)

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode}
	}

	var raw []rawOrder
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode orders: %w", err)}
	}

	orders := make([]entity.Order, 0, len(raw))
	for _, r := range raw {
		orders = append(orders, normalizeOrder(r, area))
	}
	return orders, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &SubmitError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return &SubmitError{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &SubmitError{Err: err}
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SubmitError{Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := meta.RequestID(ctx); id != "" {
		req.Header.Set(meta.HeaderXRequestID, id)
	}

	return req, nil
}
