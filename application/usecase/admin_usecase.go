package usecase

import (
	"context"
	"net/url"
	"strconv"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/application/port/outbound"
	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/domain/valueobject"
	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/pkg/apierror"
)

const adminUsersPath = "/api/admin/users"

type AdminUseCase struct {
	client   outbound.BackendClient
	sessions outbound.SessionAccessor
	logger   logger.Logger
}

func NewAdminUseCase(client outbound.BackendClient, sessions outbound.SessionAccessor, log logger.Logger) inbound.AdminUseCase {
	return &AdminUseCase{client: client, sessions: sessions, logger: log}
}

// requireAdmin fails fast on the stored role so non-admin dashboards get an
// immediate error instead of a backend round trip. The backend still enforces
// the real authorization.
func (uc *AdminUseCase) requireAdmin(ctx context.Context) error {
	serialized, err := uc.sessions.Tokens(ctx).User(ctx)
	if err != nil {
		return err
	}
	user, err := entity.ParseUser(serialized)
	if err != nil {
		return err
	}
	if user == nil || !user.IsAdmin() {
		return apierror.NewUnauthorized("admin access required")
	}
	return nil
}

func (uc *AdminUseCase) ListUsers(ctx context.Context, req inbound.ListUsersRequest) (*inbound.ListUsersResponse, error) {
	if err := uc.requireAdmin(ctx); err != nil {
		return nil, err
	}

	page, limit := valueobject.NewPageRequest(req.Page, req.Limit)
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if req.Filter.Nom != "" {
		query.Set("nom", req.Filter.Nom)
	}
	if req.Filter.Role != "" {
		query.Set("role", req.Filter.Role)
	}

	resp, err := uc.client.Get(ctx, adminUsersPath, query)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var out inbound.ListUsersResponse
	if err := resp.Decode(&out); err != nil {
		return nil, apierror.NewInternalServer("malformed users response")
	}
	return &out, nil
}

func (uc *AdminUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if err := uc.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apierror.NewBadRequest("user id is required")
	}

	resp, err := uc.client.Get(ctx, adminUsersPath+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		User *entity.User `json:"user"`
	}
	if err := resp.Decode(&payload); err != nil || payload.User == nil {
		return nil, apierror.NewInternalServer("malformed user response")
	}
	return payload.User, nil
}

func (uc *AdminUseCase) CreateUser(ctx context.Context, req inbound.SaveUserRequest) (*entity.User, error) {
	if err := uc.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !valueobject.ValidEmail(req.Email) {
		return nil, apierror.NewBadRequest("invalid email format")
	}
	if req.Nom == "" {
		return nil, apierror.NewBadRequest("nom is required")
	}

	resp, err := uc.client.Post(ctx, adminUsersPath, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		User *entity.User `json:"user"`
	}
	if err := resp.Decode(&payload); err != nil || payload.User == nil {
		return nil, apierror.NewInternalServer("malformed user response")
	}

	uc.logger.Info(ctx, "user created", map[string]interface{}{"user_id": payload.User.ID})
	return payload.User, nil
}

func (uc *AdminUseCase) UpdateUser(ctx context.Context, id string, req inbound.SaveUserRequest) (*entity.User, error) {
	if err := uc.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apierror.NewBadRequest("user id is required")
	}

	resp, err := uc.client.Put(ctx, adminUsersPath+"/"+id, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		User *entity.User `json:"user"`
	}
	if err := resp.Decode(&payload); err != nil || payload.User == nil {
		return nil, apierror.NewInternalServer("malformed user response")
	}
	return payload.User, nil
}

func (uc *AdminUseCase) DeleteUser(ctx context.Context, id string) error {
	if err := uc.requireAdmin(ctx); err != nil {
		return err
	}
	if id == "" {
		return apierror.NewBadRequest("user id is required")
	}

	resp, err := uc.client.Delete(ctx, adminUsersPath+"/"+id)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	uc.logger.Info(ctx, "user deleted", map[string]interface{}{"user_id": id})
	return nil
}
