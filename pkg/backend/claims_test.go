package backend

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectTokenReadsClaimsWithoutVerification(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	iat := time.Now().Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-42",
		"iat": iat.Unix(),
		"exp": exp.Unix(),
	}).SignedString([]byte("a-key-the-client-does-not-know"))
	require.NoError(t, err)

	info, err := InspectToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-42", info.Subject)
	assert.True(t, info.IssuedAt.Equal(iat))
	assert.True(t, info.ExpiresAt.Equal(exp))
}

func TestInspectTokenRejectsGarbage(t *testing.T) {
	_, err := InspectToken("not-a-jwt")
	assert.Error(t, err)
}
