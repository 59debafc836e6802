// Package middlewarectx содержит HTTP middleware фронтенда: чтение cookie
// сессии, проверку доступа к защищённым экранам, вход администратора и
// ограничение частоты запросов. Результаты проверок кладутся в контекст запроса.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/therapy-booking-front/internal/access"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// SessionID — ключ идентификатора сессии из cookie.
	SessionID Key = "session_id"
	// Identity — ключ личности, разрешённой проверкой доступа.
	Identity Key = "identity"
	// GateState — ключ состояния доступа.
	GateState Key = "gate_state"
	// AdminSubject — ключ субъекта токена администратора.
	AdminSubject Key = "admin_subject"
)

// SessionIDFrom возвращает идентификатор сессии или пустую строку.
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(SessionID).(string)
	return id
}

// IdentityFrom возвращает личность, которую положил Guard.
func IdentityFrom(ctx context.Context) *session.Identity {
	ident, _ := ctx.Value(Identity).(*session.Identity)
	return ident
}

// StateFrom возвращает состояние доступа, которое положил Guard.
func StateFrom(ctx context.Context) (access.State, bool) {
	state, ok := ctx.Value(GateState).(access.State)
	return state, ok
}

// AdminSubjectFrom возвращает субъекта токена администратора.
func AdminSubjectFrom(ctx context.Context) string {
	sub, _ := ctx.Value(AdminSubject).(string)
	return sub
}
