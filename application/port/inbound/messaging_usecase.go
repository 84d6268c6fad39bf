package inbound

import (
	"context"
	"time"

	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/domain/valueobject"
)

type ListMessagesRequest struct {
	ConversationID string `json:"conversationId"`
	Page           int    `json:"page"`
	Limit          int    `json:"limit"`
}

type ListMessagesResponse struct {
	Items []entity.Message `json:"items"`
	valueobject.Page
}

type SendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Contenu        string `json:"contenu"`
}

type MessagingUseCase interface {
	Conversations(ctx context.Context) ([]entity.Conversation, error)
	Messages(ctx context.Context, req ListMessagesRequest) (*ListMessagesResponse, error)
	Send(ctx context.Context, req SendMessageRequest) (*entity.Message, error)
	MarkRead(ctx context.Context, conversationID string) error

	// NewSince returns messages created after the given instant, the
	// polling primitive the message views are built on.
	NewSince(ctx context.Context, conversationID string, since time.Time) ([]entity.Message, error)
}
