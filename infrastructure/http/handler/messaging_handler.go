package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/application/usecase"
	"github.com/patrimonia/portal/infrastructure/http/response"
	"github.com/patrimonia/portal/infrastructure/http/validator"
)

type MessagingHandler struct {
	messaging   inbound.MessagingUseCase
	poller      *usecase.Poller
	pollTimeout time.Duration
}

func NewMessagingHandler(messaging inbound.MessagingUseCase, poller *usecase.Poller, pollTimeout time.Duration) *MessagingHandler {
	return &MessagingHandler{messaging: messaging, poller: poller, pollTimeout: pollTimeout}
}

func (h *MessagingHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	convos, err := h.messaging.Conversations(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", convos)
}

func (h *MessagingHandler) Messages(w http.ResponseWriter, r *http.Request) {
	req := inbound.ListMessagesRequest{
		ConversationID: mux.Vars(r)["id"],
		Page:           queryInt(r, "page", 1),
		Limit:          queryInt(r, "limit", 20),
	}

	res, err := h.messaging.Messages(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", res)
}

func (h *MessagingHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Contenu string `json:"contenu"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(body.Contenu) {
		response.BadRequest(w, "Message body is required")
		return
	}

	msg, err := h.messaging.Send(r.Context(), inbound.SendMessageRequest{
		ConversationID: mux.Vars(r)["id"],
		Contenu:        body.Contenu,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Message sent", msg)
}

func (h *MessagingHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.messaging.MarkRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Conversation marked as read", nil)
}

// Poll long-polls for messages newer than the `since` query parameter
// (RFC 3339). It returns an empty list when nothing arrives before the
// timeout, so clients just re-issue the request.
func (h *MessagingHandler) Poll(w http.ResponseWriter, r *http.Request) {
	since := time.Now()
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(w, "since must be RFC 3339")
			return
		}
		since = parsed
	}

	msgs, err := h.poller.WaitForNew(r.Context(), mux.Vars(r)["id"], since, h.pollTimeout)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", msgs)
}
