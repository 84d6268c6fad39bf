package backend

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is the subset of access-token claims the client cares about.
// Signature verification stays with the backend; the client only reads the
// payload to report expiry to callers.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// InspectToken decodes a bearer token's claims without verifying the
// signature.
func InspectToken(raw string) (*TokenInfo, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	info := &TokenInfo{}
	if sub, err := token.Claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := token.Claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
