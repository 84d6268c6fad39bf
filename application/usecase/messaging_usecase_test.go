package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrimonia/portal/application/port/inbound"
)

func TestSendMessageRequiresContent(t *testing.T) {
	be := newMockBackend()
	uc := NewMessagingUseCase(be, testLogger())

	_, err := uc.Send(context.Background(), inbound.SendMessageRequest{ConversationID: "c-1"})
	require.Error(t, err)
	assert.Empty(t, be.calls)
}

func TestSendMessageReturnsCreatedEntry(t *testing.T) {
	be := newMockBackend()
	be.respond(http.MethodPost, "/api/conversations/c-1/messages", okResponse(
		`{"success":true,"message":{"id":"m-1","conversationId":"c-1","contenu":"Bonjour","createdAt":"2026-09-01T10:00:00Z"}}`,
	))
	uc := NewMessagingUseCase(be, testLogger())

	msg, err := uc.Send(context.Background(), inbound.SendMessageRequest{
		ConversationID: "c-1",
		Contenu:        "Bonjour",
	})
	require.NoError(t, err)
	assert.Equal(t, "m-1", msg.ID)
	assert.Equal(t, "Bonjour", msg.Contenu)
}

func TestNewSinceSendsRFC3339Cursor(t *testing.T) {
	be := newMockBackend()
	be.respond(http.MethodGet, "/api/conversations/c-1/messages/new", okResponse(
		`{"success":true,"messages":[]}`,
	))
	uc := NewMessagingUseCase(be, testLogger())

	since := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	msgs, err := uc.NewSince(context.Background(), "c-1", since)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.Len(t, be.calls, 1)
	assert.Equal(t, "2026-09-01T09:30:00Z", be.calls[0].Query.Get("since"))
}
