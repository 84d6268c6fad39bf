package entity

import "encoding/json"

// Roles as reported by the backend session profile.
const (
	RoleVisitor = "visitor"
	RoleAdmin   = "admin"
)

// User is the session profile persisted client-side under the "user" key.
// Field names follow the backend's French JSON contract.
type User struct {
	ID     string `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	if u.Prenom == "" {
		return u.Nom
	}
	return u.Prenom + " " + u.Nom
}

// Serialize renders the profile the way it is persisted in session storage.
func (u *User) Serialize() (string, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ParseUser decodes a stored profile; empty input means logged out.
func ParseUser(serialized string) (*User, error) {
	if serialized == "" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(serialized), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
