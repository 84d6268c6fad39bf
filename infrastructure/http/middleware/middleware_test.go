package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/infrastructure/session"
	"github.com/patrimonia/portal/pkg/backend"
)

func testLogger() logger.Logger {
	return logger.New(logger.Config{Level: "panic", Format: "text", ServiceName: "test"})
}

type memStorage struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{items: make(map[string]string)}
}

func (s *memStorage) GetItem(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key], nil
}

func (s *memStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *memStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

type stubSessions struct {
	tokens *backend.TokenStore
}

func (s *stubSessions) Tokens(context.Context) *backend.TokenStore {
	return s.tokens
}

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	var gotID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = session.IDFromContext(r.Context())
	})

	handler := SessionMiddleware("portal_session", time.Hour, false)(next)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	require.NotEmpty(t, gotID)
	_, err := uuid.Parse(gotID)
	assert.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "portal_session", cookies[0].Name)
	assert.Equal(t, gotID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionMiddlewareKeepsExistingID(t *testing.T) {
	existing := uuid.NewString()
	var gotID string
	handler := SessionMiddleware("portal_session", time.Hour, false)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = session.IDFromContext(r.Context())
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: existing})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, existing, gotID)
}

func TestSessionMiddlewareRejectsForgedID(t *testing.T) {
	var gotID string
	handler := SessionMiddleware("portal_session", time.Hour, false)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = session.IDFromContext(r.Context())
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "../../etc/passwd"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotEmpty(t, gotID)
	assert.NotEqual(t, "../../etc/passwd", gotID)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	mw := NewAuthMiddleware(&stubSessions{tokens: backend.NewTokenStore(newMemStorage())})
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthInjectsProfile(t *testing.T) {
	sessions := &stubSessions{tokens: backend.NewTokenStore(newMemStorage())}
	require.NoError(t, sessions.tokens.SetUser(context.Background(), `{"id":"u-1","nom":"Durand","role":"visitor"}`))

	mw := NewAuthMiddleware(sessions)
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		require.NotNil(t, user)
		assert.Equal(t, "u-1", user.ID)
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminRejectsVisitor(t *testing.T) {
	sessions := &stubSessions{tokens: backend.NewTokenStore(newMemStorage())}
	require.NoError(t, sessions.tokens.SetUser(context.Background(), `{"id":"u-1","role":"visitor"}`))

	mw := NewAuthMiddleware(sessions)
	handler := mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type stubLimiter struct {
	allow      bool
	allowErr   error
	blocked    bool
	blockedErr error
	blockCalls int
}

func (s *stubLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return s.allow, s.allowErr
}

func (s *stubLimiter) Block(context.Context, string, time.Duration) error {
	s.blockCalls++
	return nil
}

func (s *stubLimiter) IsBlocked(context.Context, string) (bool, error) {
	return s.blocked, s.blockedErr
}

func rateLimitTestConfig() RateLimitConfig {
	return RateLimitConfig{
		IPAttempts:    100,
		IPWindow:      time.Minute,
		LoginAttempts: 5,
		LoginWindow:   15 * time.Minute,
		BlockDuration: 30 * time.Minute,
	}
}

func TestRateLimitFailsOpenOnLimiterError(t *testing.T) {
	limiter := &stubLimiter{allow: false, allowErr: errors.New("redis: connection refused")}
	mw := NewRateLimitMiddleware(limiter, rateLimitTestConfig(), testLogger())

	served := false
	handler := mw.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))

	assert.True(t, served, "a limiter outage must not reject requests")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, limiter.blockCalls, "a limiter error is not a limit breach")
}

func TestRateLimitFailsOpenOnBlockCheckError(t *testing.T) {
	limiter := &stubLimiter{allow: true, blockedErr: errors.New("redis: connection refused")}
	mw := NewRateLimitMiddleware(limiter, rateLimitTestConfig(), testLogger())

	served := false
	handler := mw.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))

	assert.True(t, served)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitRejectsAndBlocksOnBreach(t *testing.T) {
	limiter := &stubLimiter{allow: false}
	mw := NewRateLimitMiddleware(limiter, rateLimitTestConfig(), testLogger())

	handler := mw.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, limiter.blockCalls)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitRejectsBlockedClient(t *testing.T) {
	limiter := &stubLimiter{allow: true, blocked: true}
	mw := NewRateLimitMiddleware(limiter, rateLimitTestConfig(), testLogger())

	handler := mw.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCorrelationIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	handler := CorrelationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(CorrelationIDHeader)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))
}

func TestCorrelationIDPreserved(t *testing.T) {
	handler := CorrelationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationIDHeader, "cid-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "cid-123", rec.Header().Get(CorrelationIDHeader))
}
