package inbound

import (
	"context"

	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/domain/valueobject"
)

type ListArticlesRequest struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	Categorie string `json:"categorie,omitempty"`
}

type ListArticlesResponse struct {
	Items []entity.Article `json:"items"`
	valueobject.Page
}

type SaveArticleRequest struct {
	Titre     string `json:"titre"`
	Resume    string `json:"resume,omitempty"`
	Contenu   string `json:"contenu"`
	Categorie string `json:"categorie"`
	Publie    bool   `json:"publie"`
}

type EducationUseCase interface {
	List(ctx context.Context, req ListArticlesRequest) (*ListArticlesResponse, error)
	Get(ctx context.Context, id string) (*entity.Article, error)

	// Create/Update/Publish are admin-only; the backend enforces the role,
	// the gateway pre-checks it for friendlier errors.
	Create(ctx context.Context, req SaveArticleRequest) (*entity.Article, error)
	Update(ctx context.Context, id string, req SaveArticleRequest) (*entity.Article, error)
	Delete(ctx context.Context, id string) error
}
