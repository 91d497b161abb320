package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Session is what a token says about the logged-in user.
type Session struct {
	UserID int
	Name   string
	Guest  bool
}

type Manager struct {
	secret []byte
	expiry time.Duration
}

func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: []byte(secret), expiry: expiry}
}

func (m *Manager) GenerateToken(s Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id": s.UserID,
		"name":    s.Name,
		"guest":   s.Guest,
		"exp":     time.Now().Add(m.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) ParseToken(tokenStr string) (Session, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidClaims
	}
	// JSON numbers decode as float64.
	id, ok := claims["user_id"].(float64)
	if !ok {
		return Session{}, ErrInvalidClaims
	}
	name, _ := claims["name"].(string)
	guest, _ := claims["guest"].(bool)

	return Session{UserID: int(id), Name: name, Guest: guest}, nil
}
