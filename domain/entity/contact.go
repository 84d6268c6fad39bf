package entity

import "time"

// ContactRequest is the visitor contact form payload forwarded to the backend.
type ContactRequest struct {
	Nom       string `json:"nom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone,omitempty"`
	Sujet     string `json:"sujet"`
	Message   string `json:"message"`
}

// ChatMessage is one entry in a visitor chat-widget session. Replies are
// retrieved by polling; there is no push transport.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	DePart    string    `json:"dePart"` // "visiteur" or "conseiller"
	Contenu   string    `json:"contenu"`
	CreatedAt time.Time `json:"createdAt"`
}
