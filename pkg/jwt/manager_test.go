package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("u1", "tester", true)
	assert.NoError(t, err)

	claims, err := m.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "tester", claims.Name)
	assert.True(t, claims.IsAdmin)
}

func TestVerifyToken_Expired(t *testing.T) {
	m := NewManager("secret", -time.Minute, time.Hour)

	token, err := m.GenerateToken("u1", "tester", false)
	assert.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour, time.Hour)
	verifier := NewManager("secret-b", time.Hour, time.Hour)

	token, _ := issuer.GenerateToken("u1", "tester", false)

	_, err := verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
