package usecase

import (
	"context"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/application/port/outbound"
	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/domain/valueobject"
	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/pkg/apierror"
	"github.com/patrimonia/portal/pkg/backend"
)

const (
	loginPath   = "/api/auth/login"
	logoutPath  = "/api/auth/logout"
	profilePath = "/api/user/profile"
)

type AuthUseCase struct {
	client   outbound.BackendClient
	sessions outbound.SessionAccessor
	logger   logger.Logger
}

func NewAuthUseCase(client outbound.BackendClient, sessions outbound.SessionAccessor, log logger.Logger) inbound.AuthUseCase {
	return &AuthUseCase{client: client, sessions: sessions, logger: log}
}

type loginPayload struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	creds, err := valueobject.NewCredentials(req.Email, req.Password)
	if err != nil {
		return nil, apierror.NewBadRequest(err.Error())
	}

	tokens := uc.sessions.Tokens(ctx)

	// The flag coordinates the front-end's full reload after login; it must
	// not survive a failed attempt.
	if err := tokens.Storage().SetItem(ctx, backend.StorageKeyLoginInProgress, "true"); err != nil {
		uc.logger.Warn(ctx, "failed to set login flag", map[string]interface{}{"error": err.Error()})
	}
	defer func() {
		if err := tokens.Storage().RemoveItem(ctx, backend.StorageKeyLoginInProgress); err != nil {
			uc.logger.Warn(ctx, "failed to clear login flag", map[string]interface{}{"error": err.Error()})
		}
	}()

	resp, err := uc.client.Post(ctx, loginPath, map[string]string{
		"email":    creds.Email(),
		"password": creds.Password(),
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		logger.LogAuthEvent(ctx, uc.logger, "login_rejected", "", false, map[string]interface{}{
			"email": creds.Email(),
		})
		return nil, err
	}

	var payload loginPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, apierror.NewInternalServer("malformed login response")
	}
	if payload.User == nil {
		return nil, apierror.NewInternalServer("login response missing user")
	}

	if payload.Token != "" {
		if err := tokens.SetAccessToken(ctx, payload.Token); err != nil {
			return nil, err
		}
	}
	serialized, err := payload.User.Serialize()
	if err != nil {
		return nil, err
	}
	if err := tokens.SetUser(ctx, serialized); err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "login", payload.User.ID, true, nil)
	return &inbound.LoginResponse{User: payload.User}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context) error {
	// The backend call is best effort: local teardown happens regardless so
	// the session cannot get stuck half signed-out.
	if resp, err := uc.client.Post(ctx, logoutPath, nil); err != nil {
		uc.logger.Warn(ctx, "backend logout failed", map[string]interface{}{"error": err.Error()})
	} else if err := resp.Err(); err != nil {
		uc.logger.Warn(ctx, "backend logout rejected", map[string]interface{}{"error": err.Error()})
	}

	tokens := uc.sessions.Tokens(ctx)
	tokens.SetCsrfToken("")
	if err := tokens.ClearSession(ctx); err != nil {
		return err
	}
	logger.LogAuthEvent(ctx, uc.logger, "logout", "", true, nil)
	return nil
}

func (uc *AuthUseCase) Profile(ctx context.Context) (*entity.User, error) {
	resp, err := uc.client.Get(ctx, profilePath, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		User *entity.User `json:"user"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, apierror.NewInternalServer("malformed profile response")
	}
	if payload.User == nil {
		return nil, apierror.ErrUnauthorized
	}

	// Keep the stored profile in sync with the authoritative one.
	if serialized, err := payload.User.Serialize(); err == nil {
		if err := uc.sessions.Tokens(ctx).SetUser(ctx, serialized); err != nil {
			uc.logger.Warn(ctx, "failed to refresh stored profile", map[string]interface{}{"error": err.Error()})
		}
	}
	return payload.User, nil
}

func (uc *AuthUseCase) CurrentUser(ctx context.Context) (*entity.User, error) {
	serialized, err := uc.sessions.Tokens(ctx).User(ctx)
	if err != nil {
		return nil, err
	}
	return entity.ParseUser(serialized)
}

func (uc *AuthUseCase) Session(ctx context.Context) (*inbound.SessionInfo, error) {
	user, err := uc.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &inbound.SessionInfo{}, nil
	}

	info := &inbound.SessionInfo{Authenticated: true, User: user}
	if raw, err := uc.sessions.Tokens(ctx).AccessToken(ctx); err == nil && raw != "" {
		if claims, err := backend.InspectToken(raw); err == nil && !claims.ExpiresAt.IsZero() {
			exp := claims.ExpiresAt
			info.TokenExpiresAt = &exp
		}
	}
	return info, nil
}
