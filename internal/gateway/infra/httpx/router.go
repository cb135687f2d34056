package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mealgate/internal/gateway/infra/httpx/middlewares"
	"mealgate/internal/pkg/metrics"
)

// NewRouter wires the HTTP surface. m may be nil, in which case request
// metrics and the scrape endpoint are left out (tests).
func NewRouter(handler *Handler, m *metrics.ServerMetrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if m != nil {
		r.Use(instrument(m))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Get("/meals", handler.ListMeals)
	r.Post("/meals", handler.RegisterMeal)

	r.Get("/cart", handler.ViewCart)
	r.Post("/cart/items", handler.AddCartItem)
	r.Delete("/cart/items/{mealID}", handler.RemoveCartItem)

	r.Post("/orders", handler.PlaceOrder)
	r.Get("/orders", handler.ListOrders)
	r.Get("/orders/last", handler.LastOrder)
	r.Delete("/orders/last", handler.ClearLastOrder)

	return r
}

// instrument records a counter and latency sample per request, labelled with
// the chi route pattern so path parameters do not explode cardinality.
func instrument(m *metrics.ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
			m.LatencyMS.WithLabelValues(route, r.Method).Observe(float64(time.Since(start).Milliseconds()))
		})
	}
}
