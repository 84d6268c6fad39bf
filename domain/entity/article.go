package entity

import "time"

// Article is a piece of educational content (fiscal guides, glossaries).
// Contenu carries sanitized rich-text HTML produced by the backend.
type Article struct {
	ID        string    `json:"id"`
	Titre     string    `json:"titre"`
	Resume    string    `json:"resume,omitempty"`
	Contenu   string    `json:"contenu"`
	Categorie string    `json:"categorie"`
	Auteur    string    `json:"auteur"`
	Publie    bool      `json:"publie"`
	UpdatedAt time.Time `json:"updatedAt"`
}
