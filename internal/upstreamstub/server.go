// Package upstreamstub is an in-memory stand-in for the managed meal backend.
// It speaks the backend's wire format, including its table-row field names,
// so the gateway can be exercised end to end without the real service.
package upstreamstub

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Server-side estimate overhead, in minutes. Intentionally different from the
// gateway's figures: the backend is authoritative for its own feed and the
// gateway never trusts remote totals for orders it assembles itself.
const (
	fixedPickupMinutes   = 10
	fixedDeliveryMinutes = 15
)

const defaultTop = 100

// mealRow mirrors a meal table row as the backend serves it.
type mealRow struct {
	RowKey       string  `json:"RowKey"`
	Name         string  `json:"name"`
	Restaurant   string  `json:"restaurant,omitempty"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Time         int     `json:"time"`
	DeliveryArea string  `json:"delivery_area"`
}

// orderRow mirrors an order table row. Item details live in itemsJson as an
// embedded JSON string, the way the backend stores them.
type orderRow struct {
	RowKey           string  `json:"RowKey"`
	CreatedAt        string  `json:"createdAt"`
	Address          string  `json:"address"`
	Subtotal         float64 `json:"subtotal"`
	EstimatedMinutes int     `json:"estimatedMinutes"`
	ItemsJSON        string  `json:"itemsJson"`
	DeliveryArea     string  `json:"delivery_area"`
}

type orderItem struct {
	MealID          string  `json:"mealId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Qty             int     `json:"qty"`
	PrepTimeMinutes int     `json:"prepTimeMinutes"`
}

// Server holds the in-memory tables and serves the backend API under /api.
type Server struct {
	mu     sync.Mutex
	meals  []mealRow
	orders []orderRow
}

func New() *Server {
	return &Server{}
}

// Router returns the HTTP surface. All routes live under /api to match the
// backend's path layout.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/QueryMealTable", s.queryMeals)
		r.Post("/ProxyRegisterMeal", s.registerMeal)
		r.Post("/ProxyRegisterOrder", s.registerOrder)
		r.Get("/QueryOrderTable", s.queryOrders)
	})
	return r
}

// registerMealRequest tolerates the field spellings different clients use.
type registerMealRequest struct {
	Name            string  `json:"name"`
	Restaurant      string  `json:"restaurant"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	PrepTimeMinutes int     `json:"prepTimeMinutes"`
	PrepTimeAlt     int     `json:"prep_time_minutes"`
	Time            int     `json:"time"`
	DeliveryArea    string  `json:"delivery_area"`
	Area            string  `json:"area"`
}

func (req *registerMealRequest) prep() int {
	if req.PrepTimeMinutes > 0 {
		return req.PrepTimeMinutes
	}
	if req.PrepTimeAlt > 0 {
		return req.PrepTimeAlt
	}
	return req.Time
}

func (req *registerMealRequest) area() string {
	if req.DeliveryArea != "" {
		return req.DeliveryArea
	}
	return req.Area
}

func (s *Server) registerMeal(w http.ResponseWriter, r *http.Request) {
	var req registerMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if strings.TrimSpace(req.Name) == "" || req.area() == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name and delivery_area are required")
		return
	}
	if req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "price must be positive")
		return
	}
	if req.prep() <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "preparation time must be positive")
		return
	}

	row := mealRow{
		RowKey:       "meal-" + uuid.NewString(),
		Name:         req.Name,
		Restaurant:   req.Restaurant,
		Description:  req.Description,
		Price:        req.Price,
		Time:         req.prep(),
		DeliveryArea: req.area(),
	}

	s.mu.Lock()
	s.meals = append(s.meals, row)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) queryMeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	area := q.Get("delivery_area")
	name := strings.ToLower(q.Get("name"))
	minPrice, hasMin := parsePrice(q.Get("min_price"))
	maxPrice, hasMax := parsePrice(q.Get("max_price"))
	top := parseTop(q.Get("top"))

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]mealRow, 0, len(s.meals))
	for _, m := range s.meals {
		if area != "" && m.DeliveryArea != area {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(m.Name), name) {
			continue
		}
		if hasMin && m.Price < minPrice {
			continue
		}
		if hasMax && m.Price > maxPrice {
			continue
		}
		out = append(out, m)
		if len(out) >= top {
			break
		}
	}

	writeJSON(w, http.StatusOK, out)
}

type registerOrderRequest struct {
	DeliveryArea string      `json:"delivery_area"`
	Area         string      `json:"area"`
	Address      string      `json:"address"`
	CreatedAt    string      `json:"createdAt"`
	Items        []orderItem `json:"items"`
}

func (req *registerOrderRequest) area() string {
	if req.DeliveryArea != "" {
		return req.DeliveryArea
	}
	return req.Area
}

func (s *Server) registerOrder(w http.ResponseWriter, r *http.Request) {
	var req registerOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if strings.TrimSpace(req.Address) == "" || req.area() == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "address and delivery_area are required")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "items must not be empty")
		return
	}

	// The backend recomputes totals from the submitted items; client-side
	// figures are never stored.
	var subtotal float64
	estimated := fixedPickupMinutes + fixedDeliveryMinutes
	for _, it := range req.Items {
		subtotal += it.Price * float64(it.Qty)
		estimated += it.PrepTimeMinutes * it.Qty
	}

	createdAt := req.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	row := orderRow{
		RowKey:           "ord-" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		CreatedAt:        createdAt,
		Address:          req.Address,
		Subtotal:         subtotal,
		EstimatedMinutes: estimated,
		ItemsJSON:        string(itemsJSON),
		DeliveryArea:     req.area(),
	}

	s.mu.Lock()
	s.orders = append(s.orders, row)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) queryOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	area := q.Get("delivery_area")
	orderID := q.Get("order_id")
	if area == "" && orderID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "delivery_area or order_id is required")
		return
	}
	top := parseTop(q.Get("top"))

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]orderRow, 0, len(s.orders))
	for _, o := range s.orders {
		if area != "" && o.DeliveryArea != area {
			continue
		}
		if orderID != "" && o.RowKey != orderID {
			continue
		}
		out = append(out, o)
		if len(out) >= top {
			break
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func parsePrice(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseTop(s string) int {
	if s == "" {
		return defaultTop
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultTop
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}
