package usecase

import (
	"context"
	"net/url"
	"time"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/application/port/outbound"
	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/domain/valueobject"
	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/pkg/apierror"
)

const (
	contactPath = "/api/contact"
	chatPath    = "/api/chat/sessions"
)

// ContactUseCase serves visitors: no bearer token exists yet, but mutating
// calls still carry the anti-forgery token via the shared client pipeline.
type ContactUseCase struct {
	client outbound.BackendClient
	logger logger.Logger
}

func NewContactUseCase(client outbound.BackendClient, log logger.Logger) inbound.ContactUseCase {
	return &ContactUseCase{client: client, logger: log}
}

func (uc *ContactUseCase) Submit(ctx context.Context, req entity.ContactRequest) error {
	if !valueobject.ValidEmail(req.Email) {
		return apierror.NewBadRequest("invalid email format")
	}
	if req.Nom == "" || req.Message == "" {
		return apierror.NewBadRequest("nom and message are required")
	}

	resp, err := uc.client.Post(ctx, contactPath, req)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	uc.logger.Info(ctx, "contact form submitted", map[string]interface{}{"sujet": req.Sujet})
	return nil
}

func (uc *ContactUseCase) StartChat(ctx context.Context, visitorName string) (*inbound.StartChatResponse, error) {
	resp, err := uc.client.Post(ctx, chatPath, map[string]string{"nom": visitorName})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload inbound.StartChatResponse
	if err := resp.Decode(&payload); err != nil || payload.SessionID == "" {
		return nil, apierror.NewInternalServer("malformed chat session response")
	}
	return &payload, nil
}

func (uc *ContactUseCase) SendChat(ctx context.Context, sessionID, contenu string) (*entity.ChatMessage, error) {
	if sessionID == "" {
		return nil, apierror.NewBadRequest("chat session id is required")
	}
	if contenu == "" {
		return nil, apierror.NewBadRequest("message content is required")
	}

	resp, err := uc.client.Post(ctx, chatPath+"/"+sessionID+"/messages", map[string]string{"contenu": contenu})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Message *entity.ChatMessage `json:"message"`
	}
	if err := resp.Decode(&payload); err != nil || payload.Message == nil {
		return nil, apierror.NewInternalServer("malformed chat message response")
	}
	return payload.Message, nil
}

func (uc *ContactUseCase) ChatMessages(ctx context.Context, sessionID string, since time.Time) ([]entity.ChatMessage, error) {
	if sessionID == "" {
		return nil, apierror.NewBadRequest("chat session id is required")
	}
	query := url.Values{}
	if !since.IsZero() {
		query.Set("since", since.UTC().Format(time.RFC3339))
	}

	resp, err := uc.client.Get(ctx, chatPath+"/"+sessionID+"/messages", query)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Messages []entity.ChatMessage `json:"messages"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, apierror.NewInternalServer("malformed chat messages response")
	}
	return payload.Messages, nil
}
