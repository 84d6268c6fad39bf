package outbound

import (
	"context"
	"net/url"

	"github.com/patrimonia/portal/pkg/backend"
)

// BackendClient is the portal's single dependency on the advisory backend.
// Every page-level feature talks to the backend through this contract; the
// implementation handles bearer/CSRF decoration and expired-token recovery.
type BackendClient interface {
	Get(ctx context.Context, path string, query url.Values) (*backend.Response, error)
	Post(ctx context.Context, path string, body interface{}) (*backend.Response, error)
	Put(ctx context.Context, path string, body interface{}) (*backend.Response, error)
	Delete(ctx context.Context, path string) (*backend.Response, error)
}

// SessionAccessor exposes the per-session token store alongside the client,
// for the auth usecase which persists the profile and token after login.
type SessionAccessor interface {
	Tokens(ctx context.Context) *backend.TokenStore
}
