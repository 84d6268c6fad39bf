package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/patrimonia/portal/infrastructure/session"
)

// SessionMiddleware pins every browser to a gateway session via an opaque
// cookie. The session ID selects which backend client (cookie jar, token
// storage) serves the request downstream.
func SessionMiddleware(cookieName string, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			// Re-issue on every request to slide the expiry window.
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(session.WithID(r.Context(), id)))
		})
	}
}
