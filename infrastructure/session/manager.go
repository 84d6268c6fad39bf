package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/patrimonia/portal/pkg/backend"
)

type contextKey string

const sessionIDKey contextKey = "portal_session_id"

// WithID tags a request context with the browser session identifier.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// IDFromContext returns the session identifier, empty when absent.
func IDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// StorageFactory builds the client-local storage namespace for one session.
type StorageFactory func(sessionID string) backend.Storage

type clientEntry struct {
	client   *backend.Client
	lastSeen time.Time
}

// Manager owns one authenticated backend client per browser session. Each
// client carries its own cookie jar and storage namespace, so backend session
// cookies and tokens never leak between visitors. Manager implements the
// outbound BackendClient and SessionAccessor ports by routing every call to
// the session named in the context.
type Manager struct {
	template backend.Config
	factory  StorageFactory
	logger   *logrus.Logger
	ttl      time.Duration

	mu      sync.Mutex
	clients map[string]*clientEntry
}

func NewManager(template backend.Config, factory StorageFactory, logger *logrus.Logger, ttl time.Duration) (*Manager, error) {
	// Validate the template once so per-session construction cannot fail.
	if _, err := backend.New(template, probeStorage{}, logger); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		template: template,
		factory:  factory,
		logger:   logger,
		ttl:      ttl,
		clients:  make(map[string]*clientEntry),
	}, nil
}

type probeStorage struct{}

func (probeStorage) GetItem(context.Context, string) (string, error) { return "", nil }
func (probeStorage) SetItem(context.Context, string, string) error   { return nil }
func (probeStorage) RemoveItem(context.Context, string) error        { return nil }

// Client returns the session's backend client, building one lazily. Requests
// without a session (should not happen behind the session middleware) share
// an anonymous client.
func (m *Manager) Client(ctx context.Context) *backend.Client {
	id := IDFromContext(ctx)
	if id == "" {
		id = "anonymous"
	}
	return m.clientFor(id)
}

func (m *Manager) clientFor(id string) *backend.Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.clients[id]; ok {
		entry.lastSeen = time.Now()
		return entry.client
	}

	cfg := m.template
	cfg.OnDeauthenticated = func(ctx context.Context) {
		// The refresh coordinator already cleared the stored token and user;
		// dropping the client discards the dead backend cookie jar too.
		m.Drop(id)
		m.logger.WithField("session_id", id).Info("session deauthenticated")
	}

	// The template was validated in NewManager, so this cannot fail.
	client, err := backend.New(cfg, m.factory(id), m.logger)
	if err != nil {
		panic(err)
	}

	// Prime the anti-forgery token once per session client so the first
	// mutating call does not pay the lazy fetch. Best effort, off the
	// request path.
	go func() {
		primeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client.PrimeCSRF(primeCtx)
	}()

	m.clients[id] = &clientEntry{client: client, lastSeen: time.Now()}
	return client
}

// Drop removes a session's client; the next request builds a fresh one.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, id)
}

// StartSweeper evicts clients idle past the session TTL until ctx ends.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(m.clients, id)
		}
	}
}

// Port implementations: route each call to the context's session client.

func (m *Manager) Get(ctx context.Context, path string, query url.Values) (*backend.Response, error) {
	return m.Client(ctx).Get(ctx, path, query)
}

func (m *Manager) Post(ctx context.Context, path string, body interface{}) (*backend.Response, error) {
	return m.Client(ctx).Post(ctx, path, body)
}

func (m *Manager) Put(ctx context.Context, path string, body interface{}) (*backend.Response, error) {
	return m.Client(ctx).Put(ctx, path, body)
}

func (m *Manager) Delete(ctx context.Context, path string) (*backend.Response, error) {
	return m.Client(ctx).Delete(ctx, path)
}

func (m *Manager) Tokens(ctx context.Context) *backend.TokenStore {
	return m.Client(ctx).Tokens()
}
