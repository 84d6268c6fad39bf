package inbound

import (
	"context"
	"time"

	"github.com/patrimonia/portal/domain/entity"
)

type StartChatResponse struct {
	SessionID string `json:"sessionId"`
}

type ContactUseCase interface {
	// Submit forwards the visitor contact form to the backend.
	Submit(ctx context.Context, req entity.ContactRequest) error

	// Chat-widget flow: start a visitor session, send entries, poll replies.
	StartChat(ctx context.Context, visitorName string) (*StartChatResponse, error)
	SendChat(ctx context.Context, sessionID, contenu string) (*entity.ChatMessage, error)
	ChatMessages(ctx context.Context, sessionID string, since time.Time) ([]entity.ChatMessage, error)
}
