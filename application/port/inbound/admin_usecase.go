package inbound

import (
	"context"

	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/domain/valueobject"
)

type ListUsersRequest struct {
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Filter ListUsersFilter `json:"filter"`
}

type ListUsersFilter struct {
	Nom  string `json:"nom,omitempty"`
	Role string `json:"role,omitempty"`
}

type ListUsersResponse struct {
	Items []entity.User `json:"items"`
	valueobject.Page
}

type SaveUserRequest struct {
	Nom      string `json:"nom"`
	Prenom   string `json:"prenom"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// AdminUseCase is the admin dashboard's user management surface. All
// authorization decisions belong to the backend; the gateway only pre-checks
// the stored role to fail fast.
type AdminUseCase interface {
	ListUsers(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	CreateUser(ctx context.Context, req SaveUserRequest) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, req SaveUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}
