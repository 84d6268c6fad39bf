package entity

import "time"

// Conversation is a private thread between a user and an advisor.
type Conversation struct {
	ID           string    `json:"id"`
	Sujet        string    `json:"sujet"`
	Participants []string  `json:"participants"`
	NonLus       int       `json:"nonLus"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Message is one entry in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	AuteurID       string    `json:"auteurId"`
	Contenu        string    `json:"contenu"`
	Lu             bool      `json:"lu"`
	CreatedAt      time.Time `json:"createdAt"`
}
