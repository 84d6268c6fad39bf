package inbound

import (
	"context"
	"time"

	"github.com/patrimonia/portal/domain/entity"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User *entity.User `json:"user"`
}

// SessionInfo describes the local session without a backend round trip.
type SessionInfo struct {
	Authenticated  bool         `json:"authenticated"`
	User           *entity.User `json:"user,omitempty"`
	TokenExpiresAt *time.Time   `json:"tokenExpiresAt,omitempty"`
}

type AuthUseCase interface {
	// Login authenticates against the backend and persists the profile and
	// bearer token in session storage.
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// Logout notifies the backend (best effort) and tears local state down.
	Logout(ctx context.Context) error

	// Profile fetches the authoritative profile from the backend.
	Profile(ctx context.Context) (*entity.User, error)

	// CurrentUser reads the locally persisted profile without a network
	// call; nil means unauthenticated. Route guards branch on this.
	CurrentUser(ctx context.Context) (*entity.User, error)

	// Session combines the stored profile with the access token's expiry
	// (read from its claims, unverified) for the front-end's boot check.
	Session(ctx context.Context) (*SessionInfo, error)
}
