package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/pkg/apierror"
	"github.com/patrimonia/portal/pkg/backend"
)

func TestLoginPersistsTokenAndProfile(t *testing.T) {
	be := newMockBackend()
	be.respond(http.MethodPost, "/api/auth/login", okResponse(
		`{"success":true,"user":{"id":"u-1","nom":"Durand","prenom":"Claire","email":"claire@exemple.fr","role":"visitor"},"token":"tok-abc"}`,
	))
	sessions := newMockSessions()
	uc := NewAuthUseCase(be, sessions, testLogger())

	res, err := uc.Login(context.Background(), inbound.LoginRequest{
		Email:    "claire@exemple.fr",
		Password: "motdepasse",
	})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "u-1", res.User.ID)
	assert.Equal(t, "Claire Durand", res.User.FullName())

	ctx := context.Background()
	token, err := sessions.tokens.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)

	stored, err := sessions.tokens.User(ctx)
	require.NoError(t, err)
	assert.Contains(t, stored, `"id":"u-1"`)
}

func TestLoginClearsInProgressFlagOnFailure(t *testing.T) {
	be := newMockBackend()
	be.respond(http.MethodPost, "/api/auth/login", errResponse(http.StatusUnauthorized, "UNAUTHORIZED", "Identifiants invalides"))
	sessions := newMockSessions()
	uc := NewAuthUseCase(be, sessions, testLogger())

	_, err := uc.Login(context.Background(), inbound.LoginRequest{
		Email:    "claire@exemple.fr",
		Password: "mauvais",
	})
	require.Error(t, err)

	var appErr *apierror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "Identifiants invalides", appErr.Message)

	flag, err := sessions.tokens.Storage().GetItem(context.Background(), backend.StorageKeyLoginInProgress)
	require.NoError(t, err)
	assert.Empty(t, flag)
}

func TestLoginRejectsMalformedEmail(t *testing.T) {
	be := newMockBackend()
	uc := NewAuthUseCase(be, newMockSessions(), testLogger())

	_, err := uc.Login(context.Background(), inbound.LoginRequest{Email: "pas-un-email", Password: "x"})
	require.Error(t, err)
	assert.Empty(t, be.calls, "invalid credentials must not reach the backend")
}

func TestLogoutTearsDownLocalStateEvenWhenBackendFails(t *testing.T) {
	be := newMockBackend()
	be.err = errors.New("backend unreachable")
	sessions := newMockSessions()
	ctx := context.Background()
	require.NoError(t, sessions.tokens.SetAccessToken(ctx, "tok"))
	require.NoError(t, sessions.tokens.SetUser(ctx, `{"id":"u-1"}`))
	sessions.tokens.SetCsrfToken("csrf-1")

	uc := NewAuthUseCase(be, sessions, testLogger())
	require.NoError(t, uc.Logout(ctx))

	token, _ := sessions.tokens.AccessToken(ctx)
	assert.Empty(t, token)
	user, _ := sessions.tokens.User(ctx)
	assert.Empty(t, user)
	assert.Empty(t, sessions.tokens.CsrfToken())
}

func TestProfileSyncsStoredUser(t *testing.T) {
	be := newMockBackend()
	be.respond(http.MethodGet, "/api/user/profile", okResponse(
		`{"success":true,"user":{"id":"u-1","nom":"Durand","prenom":"Claire","email":"claire@exemple.fr","role":"admin"}}`,
	))
	sessions := newMockSessions()
	ctx := context.Background()
	require.NoError(t, sessions.tokens.SetUser(ctx, `{"id":"u-1","role":"visitor"}`))

	uc := NewAuthUseCase(be, sessions, testLogger())
	user, err := uc.Profile(ctx)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	stored, err := sessions.tokens.User(ctx)
	require.NoError(t, err)
	assert.Contains(t, stored, `"role":"admin"`)
}

func TestCurrentUserNilWhenLoggedOut(t *testing.T) {
	uc := NewAuthUseCase(newMockBackend(), newMockSessions(), testLogger())

	user, err := uc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSessionReportsTokenExpiry(t *testing.T) {
	sessions := newMockSessions()
	ctx := context.Background()
	require.NoError(t, sessions.tokens.SetUser(ctx, `{"id":"u-1","nom":"Durand","role":"visitor"}`))

	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, sessions.tokens.SetAccessToken(ctx, raw))

	uc := NewAuthUseCase(newMockBackend(), sessions, testLogger())
	info, err := uc.Session(ctx)
	require.NoError(t, err)
	assert.True(t, info.Authenticated)
	require.NotNil(t, info.TokenExpiresAt)
	assert.True(t, info.TokenExpiresAt.Equal(exp))
}

func TestSessionUnauthenticated(t *testing.T) {
	uc := NewAuthUseCase(newMockBackend(), newMockSessions(), testLogger())

	info, err := uc.Session(context.Background())
	require.NoError(t, err)
	assert.False(t, info.Authenticated)
	assert.Nil(t, info.User)
	assert.Nil(t, info.TokenExpiresAt)
}
