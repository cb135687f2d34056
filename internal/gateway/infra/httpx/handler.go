package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mealgate/internal/dispatch"
	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/core/ports"
	"mealgate/internal/gateway/infra/adapters/upstream"
	"mealgate/internal/pkg/meta"
)

// Handler handles incoming HTTP requests for the catalog, cart and order
// domains.
type Handler struct {
	catalog    ports.CatalogService
	carts      ports.CartService
	orders     ports.OrderService
	dispatcher *dispatch.Dispatcher
}

func NewHandler(catalog ports.CatalogService, carts ports.CartService, orders ports.OrderService, d *dispatch.Dispatcher) *Handler {
	return &Handler{
		catalog:    catalog,
		carts:      carts,
		orders:     orders,
		dispatcher: d,
	}
}

// ListMeals returns the normalized catalog snapshot for a delivery area.
func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("delivery_area")
	if area == "" {
		writeError(w, http.StatusBadRequest, "area_required", "delivery_area query parameter is required")
		return
	}

	meals, err := h.catalog.MealsByArea(r.Context(), area)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meals)
}

// RegisterMeal validates and forwards a new meal listing.
func (h *Handler) RegisterMeal(w http.ResponseWriter, r *http.Request) {
	var req RegisterMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	err := h.catalog.RegisterMeal(r.Context(), entity.MealRegistration{
		Name:            req.Name,
		Restaurant:      req.Restaurant,
		Description:     req.Description,
		Price:           req.Price,
		PrepTimeMinutes: req.PrepTimeMinutes,
		Area:            req.DeliveryArea,
	})
	if err != nil {
		var ve entity.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "invalid_request", ve.Error())
			return
		}
		writeUpstreamError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// ViewCart materializes the session cart against the area's catalog snapshot.
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("delivery_area")
	if area == "" {
		writeError(w, http.StatusBadRequest, "area_required", "delivery_area query parameter is required")
		return
	}

	cart, err := h.carts.View(r.Context(), meta.SessionID(r.Context()), area)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// AddCartItem increments the quantity for one meal in the session cart.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if err := h.carts.AddItem(r.Context(), meta.SessionID(r.Context()), req.MealID); err != nil {
		var ve entity.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "invalid_request", ve.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveCartItem decrements the quantity for one meal in the session cart.
// Removing an absent item is a no-op and still answers 204.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	mealID := chi.URLParam(r, "mealID")
	if mealID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "meal id is required")
		return
	}

	if err := h.carts.RemoveItem(r.Context(), meta.SessionID(r.Context()), mealID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PlaceOrder assembles an order from the session cart, saves it locally and
// dispatches the backend submission.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	slog.InfoContext(r.Context(), "placing order",
		"request_id", meta.RequestID(r.Context()),
		"delivery_area", req.DeliveryArea,
	)

	order, err := h.orders.PlaceOrder(r.Context(), meta.SessionID(r.Context()), req.DeliveryArea, req.Address)
	if err != nil {
		var ve entity.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "invalid_request", ve.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	// Detach from the HTTP request context so the submission is not cancelled
	// when the response is sent, while still propagating tracing metadata.
	go h.dispatcher.Dispatch(context.WithoutCancel(r.Context()), order)

	writeJSON(w, http.StatusCreated, order)
}

// ListOrders returns the order feed for a delivery area.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("delivery_area")
	if area == "" {
		writeError(w, http.StatusBadRequest, "area_required", "delivery_area query parameter is required")
		return
	}

	orders, err := h.orders.OrdersByArea(r.Context(), area)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// LastOrder returns the most recently placed order, if any.
func (h *Handler) LastOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.LastOrder(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "no_recent_order", "no order has been placed yet")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ClearLastOrder empties the last-order slot. Clearing an already empty slot
// still answers 204.
func (h *Handler) ClearLastOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.ClearLastOrder(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeUpstreamError maps backend failures to 502 and everything else to 500.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *upstream.FetchError
	if errors.As(err, &fe) {
		slog.WarnContext(r.Context(), "upstream fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "remote_fetch_failed", err.Error())
		return
	}

	var se *upstream.SubmitError
	if errors.As(err, &se) {
		slog.WarnContext(r.Context(), "upstream submit failed", "error", err)
		writeError(w, http.StatusBadGateway, "remote_submit_failed", err.Error())
		return
	}

	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
