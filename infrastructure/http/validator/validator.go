package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}
	return emailRegex.MatchString(strings.ToLower(email))
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ValidateDate accepts calendar dates in YYYY-MM-DD form, the format the
// appointment endpoints exchange.
func ValidateDate(value string) bool {
	return dateRegex.MatchString(value)
}

func ValidateMaxLength(value string, max int) bool {
	return len(value) <= max
}
