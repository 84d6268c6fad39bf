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

const articlesPath = "/api/education/articles"

type EducationUseCase struct {
	client outbound.BackendClient
	logger logger.Logger
}

func NewEducationUseCase(client outbound.BackendClient, log logger.Logger) inbound.EducationUseCase {
	return &EducationUseCase{client: client, logger: log}
}

func (uc *EducationUseCase) List(ctx context.Context, req inbound.ListArticlesRequest) (*inbound.ListArticlesResponse, error) {
	page, limit := valueobject.NewPageRequest(req.Page, req.Limit)
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if req.Categorie != "" {
		query.Set("categorie", req.Categorie)
	}

	resp, err := uc.client.Get(ctx, articlesPath, query)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var out inbound.ListArticlesResponse
	if err := resp.Decode(&out); err != nil {
		return nil, apierror.NewInternalServer("malformed articles response")
	}
	return &out, nil
}

func (uc *EducationUseCase) Get(ctx context.Context, id string) (*entity.Article, error) {
	if id == "" {
		return nil, apierror.NewBadRequest("article id is required")
	}

	resp, err := uc.client.Get(ctx, articlesPath+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Article *entity.Article `json:"article"`
	}
	if err := resp.Decode(&payload); err != nil || payload.Article == nil {
		return nil, apierror.NewInternalServer("malformed article response")
	}
	return payload.Article, nil
}

func (uc *EducationUseCase) Create(ctx context.Context, req inbound.SaveArticleRequest) (*entity.Article, error) {
	if err := validateArticle(req); err != nil {
		return nil, err
	}

	resp, err := uc.client.Post(ctx, articlesPath, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Article *entity.Article `json:"article"`
	}
	if err := resp.Decode(&payload); err != nil || payload.Article == nil {
		return nil, apierror.NewInternalServer("malformed article response")
	}

	uc.logger.Info(ctx, "article created", map[string]interface{}{"article_id": payload.Article.ID})
	return payload.Article, nil
}

func (uc *EducationUseCase) Update(ctx context.Context, id string, req inbound.SaveArticleRequest) (*entity.Article, error) {
	if id == "" {
		return nil, apierror.NewBadRequest("article id is required")
	}
	if err := validateArticle(req); err != nil {
		return nil, err
	}

	resp, err := uc.client.Put(ctx, articlesPath+"/"+id, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Article *entity.Article `json:"article"`
	}
	if err := resp.Decode(&payload); err != nil || payload.Article == nil {
		return nil, apierror.NewInternalServer("malformed article response")
	}
	return payload.Article, nil
}

func (uc *EducationUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apierror.NewBadRequest("article id is required")
	}

	resp, err := uc.client.Delete(ctx, articlesPath+"/"+id)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	uc.logger.Info(ctx, "article deleted", map[string]interface{}{"article_id": id})
	return nil
}

func validateArticle(req inbound.SaveArticleRequest) error {
	if req.Titre == "" {
		return apierror.NewBadRequest("titre is required")
	}
	if req.Contenu == "" {
		return apierror.NewBadRequest("contenu is required")
	}
	return nil
}
