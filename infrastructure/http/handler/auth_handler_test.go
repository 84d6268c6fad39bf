package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/pkg/apierror"
)

type stubAuthUseCase struct {
	loginRes   *inbound.LoginResponse
	loginErr   error
	loginCalls int
	sessionRes *inbound.SessionInfo
}

func (s *stubAuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	s.loginCalls++
	return s.loginRes, s.loginErr
}

func (s *stubAuthUseCase) Logout(context.Context) error { return nil }

func (s *stubAuthUseCase) Profile(context.Context) (*entity.User, error) { return nil, nil }

func (s *stubAuthUseCase) CurrentUser(context.Context) (*entity.User, error) { return nil, nil }

func (s *stubAuthUseCase) Session(context.Context) (*inbound.SessionInfo, error) {
	return s.sessionRes, nil
}

func TestLoginHandlerSuccess(t *testing.T) {
	uc := &stubAuthUseCase{
		loginRes: &inbound.LoginResponse{User: &entity.User{ID: "u-1", Nom: "Durand", Role: "visitor"}},
	}
	h := NewAuthHandler(uc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"claire@exemple.fr","password":"motdepasse"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			User *entity.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Data.User)
	assert.Equal(t, "u-1", body.Data.User.ID)
}

func TestLoginHandlerRejectsBadEmailBeforeUseCase(t *testing.T) {
	uc := &stubAuthUseCase{}
	h := NewAuthHandler(uc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"nope","password":"x"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, uc.loginCalls)
}

func TestLoginHandlerMapsApplicationError(t *testing.T) {
	uc := &stubAuthUseCase{loginErr: apierror.NewUnauthorized("Identifiants invalides")}
	h := NewAuthHandler(uc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"claire@exemple.fr","password":"mauvais"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
	assert.Equal(t, "Identifiants invalides", body.Message)
}

func TestSessionHandlerReportsAnonymous(t *testing.T) {
	h := NewAuthHandler(&stubAuthUseCase{sessionRes: &inbound.SessionInfo{}})

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}
