// Package session отвечает за сессии браузера: хранение в redis,
// получение bearer-токена и наблюдение за сменой личности (SessionProbe).
package session

import (
	"context"
	"errors"
)

var (
	// ErrSignedOut возвращается при запросе токена без активной сессии.
	ErrSignedOut = errors.New("session: signed out")
	// ErrNoCredential возвращается, если у личности нет источника токена.
	ErrNoCredential = errors.New("session: no credential source")
)

// TokenSource выдаёт актуальный bearer-токен; вызов может ждать обновления токена.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken — TokenSource с неизменяемым токеном.
type StaticToken string

// Token возвращает сам токен.
func (t StaticToken) Token(_ context.Context) (string, error) {
	return string(t), nil
}

// Identity — аутентифицированный пользователь сессии. nil означает, что вход не выполнен.
// Identity не владеет токеном: он запрашивается у TokenSource при каждом вызове.
type Identity struct {
	SessionID string
	UserUID   string
	Email     string
	tokens    TokenSource
}

// NewIdentity создаёт личность с источником токена.
func NewIdentity(sessionID, userUID, email string, tokens TokenSource) *Identity {
	return &Identity{
		SessionID: sessionID,
		UserUID:   userUID,
		Email:     email,
		tokens:    tokens,
	}
}

// SignedIn сообщает, выполнен ли вход.
func (i *Identity) SignedIn() bool {
	return i != nil
}

// Token возвращает bearer-токен личности.
func (i *Identity) Token(ctx context.Context) (string, error) {
	if i == nil {
		return "", ErrSignedOut
	}
	if i.tokens == nil {
		return "", ErrNoCredential
	}
	return i.tokens.Token(ctx)
}

// Same сообщает, описывают ли две личности одного пользователя в одной сессии.
// Две nil-личности совпадают.
func (i *Identity) Same(other *Identity) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	return i.SessionID == other.SessionID && i.UserUID == other.UserUID
}
