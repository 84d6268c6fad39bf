package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/pkg/backend"
)

const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationIDMiddleware ensures every request carries a correlation ID,
// echoes it on the response, and threads it through the context so both log
// lines and proxied backend calls share it.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(CorrelationIDHeader)
		if cid == "" {
			cid = uuid.NewString()
		}
		w.Header().Set(CorrelationIDHeader, cid)

		ctx := logger.WithCorrelationID(r.Context(), cid)
		ctx = backend.WithCorrelationID(ctx, cid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
