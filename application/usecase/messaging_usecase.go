package usecase

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/application/port/outbound"
	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/domain/valueobject"
	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/pkg/apierror"
)

const conversationsPath = "/api/conversations"

type MessagingUseCase struct {
	client outbound.BackendClient
	logger logger.Logger
}

func NewMessagingUseCase(client outbound.BackendClient, log logger.Logger) inbound.MessagingUseCase {
	return &MessagingUseCase{client: client, logger: log}
}

func (uc *MessagingUseCase) Conversations(ctx context.Context) ([]entity.Conversation, error) {
	resp, err := uc.client.Get(ctx, conversationsPath, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Conversations []entity.Conversation `json:"conversations"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, apierror.NewInternalServer("malformed conversations response")
	}
	return payload.Conversations, nil
}

func (uc *MessagingUseCase) Messages(ctx context.Context, req inbound.ListMessagesRequest) (*inbound.ListMessagesResponse, error) {
	if req.ConversationID == "" {
		return nil, apierror.NewBadRequest("conversation id is required")
	}
	page, limit := valueobject.NewPageRequest(req.Page, req.Limit)
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	resp, err := uc.client.Get(ctx, conversationsPath+"/"+req.ConversationID+"/messages", query)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var out inbound.ListMessagesResponse
	if err := resp.Decode(&out); err != nil {
		return nil, apierror.NewInternalServer("malformed messages response")
	}
	return &out, nil
}

func (uc *MessagingUseCase) Send(ctx context.Context, req inbound.SendMessageRequest) (*entity.Message, error) {
	if req.ConversationID == "" {
		return nil, apierror.NewBadRequest("conversation id is required")
	}
	if req.Contenu == "" {
		return nil, apierror.NewBadRequest("message content is required")
	}

	resp, err := uc.client.Post(ctx, conversationsPath+"/"+req.ConversationID+"/messages", map[string]string{
		"contenu": req.Contenu,
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Message *entity.Message `json:"message"`
	}
	if err := resp.Decode(&payload); err != nil || payload.Message == nil {
		return nil, apierror.NewInternalServer("malformed message response")
	}
	return payload.Message, nil
}

func (uc *MessagingUseCase) MarkRead(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return apierror.NewBadRequest("conversation id is required")
	}

	resp, err := uc.client.Post(ctx, conversationsPath+"/"+conversationID+"/read", nil)
	if err != nil {
		return err
	}
	return resp.Err()
}

func (uc *MessagingUseCase) NewSince(ctx context.Context, conversationID string, since time.Time) ([]entity.Message, error) {
	if conversationID == "" {
		return nil, apierror.NewBadRequest("conversation id is required")
	}
	query := url.Values{}
	if !since.IsZero() {
		query.Set("since", since.UTC().Format(time.RFC3339))
	}

	resp, err := uc.client.Get(ctx, conversationsPath+"/"+conversationID+"/messages/new", query)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Messages []entity.Message `json:"messages"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, apierror.NewInternalServer("malformed messages response")
	}
	return payload.Messages, nil
}
