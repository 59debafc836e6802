// Package logout завершает сессию пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

// Sessions удаляет сессию.
type Sessions interface {
	Delete(ctx context.Context, id string) error
}

// Handler обрабатывает выход.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	cookie   middlewarectx.CookieConfig
}

// New создает Handler.
func New(log *slog.Logger, sessions Sessions, cookie middlewarectx.CookieConfig) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		cookie:   cookie,
	}
}

// ServeHTTP удаляет сессию и cookie. Удаление сессии оповещает открытые
// потоки событий, и они переходят в unauthenticated.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if id := middlewarectx.SessionIDFrom(r.Context()); id != "" {
		if err := h.sessions.Delete(r.Context(), id); err != nil {
			log.Error("failed to delete session", sl.Err(err))
		}
	}
	h.cookie.SetCookie(w, "")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
