package login

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// Service выполняет вход на бэкенде.
type Service interface {
	Login(ctx context.Context, email, password string) (*backend.TokenPair, error)
}

// Sessions заводит сессию браузера после входа.
type Sessions interface {
	Create(ctx context.Context, userUID, email, accessToken, refreshToken string) (*session.Session, error)
}

// Decider вычисляет состояние доступа запроса.
type Decider interface {
	Decide(r *http.Request) (middlewarectx.Decision, error)
}

// Screens отрисовывает HTML-экраны.
type Screens interface {
	Render(w http.ResponseWriter, status int, screen views.Screen, data any) error
}
