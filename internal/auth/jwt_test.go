package auth_test

import (
	"testing"
	"time"

	"join/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	manager := auth.NewManager("test-secret-key", 24*time.Hour)

	// Generate a token
	session := auth.Session{UserID: 42, Name: "Ann Bell"}
	token, err := manager.GenerateToken(session)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Parse it back
	parsed, err := manager.ParseToken(token)

	assert.NoError(t, err)
	assert.Equal(t, session, parsed)
}

func TestParseToken_InvalidToken(t *testing.T) {
	manager := auth.NewManager("test-secret-key", time.Hour)

	_, err := manager.ParseToken("invalid-token")

	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.NewManager("other-secret", time.Hour).GenerateToken(auth.Session{UserID: 1})
	assert.NoError(t, err)

	_, err = auth.NewManager("test-secret-key", time.Hour).ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	manager := auth.NewManager("test-secret-key", time.Hour)

	// Token expired an hour ago
	claims := jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte("test-secret-key"))

	_, err := manager.ParseToken(expiredToken)

	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_MissingClaims(t *testing.T) {
	manager := auth.NewManager("test-secret-key", time.Hour)

	// Token without a user id
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutUserID, _ := token.SignedString([]byte("test-secret-key"))

	_, err := manager.ParseToken(tokenWithoutUserID)

	assert.Error(t, err)
	assert.Equal(t, "invalid claims", err.Error())
}
