package valueobject

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrMissingPassword = errors.New("password is required")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether the address has a plausible shape. Deliverability
// is the backend's problem.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Credentials is a validated login pair. The password is forwarded to the
// backend verbatim; only shape checks happen here (strength policy is the
// backend's concern).
type Credentials struct {
	email    string
	password string
}

func NewCredentials(email, password string) (*Credentials, error) {
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}
	return &Credentials{email: email, password: password}, nil
}

func (c *Credentials) Email() string {
	return c.email
}

func (c *Credentials) Password() string {
	return c.password
}
