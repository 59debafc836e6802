// Package panel отдаёт панель администратора. Маршрут стоит за AdminGuard.
package panel

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

// Screens отрисовывает HTML-экраны.
type Screens interface {
	Render(w http.ResponseWriter, status int, screen views.Screen, data any) error
}

// Handler отдаёт панель.
type Handler struct {
	log     *slog.Logger
	screens Screens
}

// New создает Handler.
func New(log *slog.Logger, screens Screens) *Handler {
	return &Handler{
		log:     log,
		screens: screens,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.panel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data := views.AdminData{Subject: middlewarectx.AdminSubjectFrom(r.Context())}
	if err := h.screens.Render(w, http.StatusOK, views.ScreenAdmin, data); err != nil {
		log.Error("failed to render admin panel", sl.Err(err))
	}
}
