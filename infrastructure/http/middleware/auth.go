package middleware

import (
	"context"
	"net/http"

	"github.com/patrimonia/portal/application/port/outbound"
	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/infrastructure/http/response"
)

type contextKey string

const authUserKey contextKey = "auth_user"

// AuthMiddleware guards gateway routes on the profile stored in the caller's
// session. The gateway never validates tokens itself; possession of a stored
// profile means the backend accepted a login on this session, and the backend
// re-checks authorization on every proxied call.
type AuthMiddleware struct {
	sessions outbound.SessionAccessor
}

func NewAuthMiddleware(sessions outbound.SessionAccessor) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := m.currentUser(r.Context())
		if user == nil {
			response.Unauthorized(w, "Authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), authUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || !user.IsAdmin() {
			response.Error(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) currentUser(ctx context.Context) *entity.User {
	raw, err := m.sessions.Tokens(ctx).User(ctx)
	if err != nil {
		return nil
	}
	user, err := entity.ParseUser(raw)
	if err != nil {
		return nil
	}
	return user
}

// UserFromContext retrieves the authenticated profile placed by RequireAuth.
func UserFromContext(ctx context.Context) *entity.User {
	if user, ok := ctx.Value(authUserKey).(*entity.User); ok {
		return user
	}
	return nil
}
