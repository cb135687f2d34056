package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"mealgate/internal/pkg/meta"
)

// AttachRequestMetadata stores the request id and session id in the request
// context. The session id comes from the X-Session-Id header; a missing or
// empty header gets a fresh one, which is echoed back so the client can pin
// its cart to it on subsequent requests.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		sessionID := r.Header.Get(meta.HeaderXSessionID)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		w.Header().Set(meta.HeaderXSessionID, sessionID)

		ctx := meta.WithRequestID(r.Context(), requestID)
		ctx = meta.WithSessionID(ctx, sessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
