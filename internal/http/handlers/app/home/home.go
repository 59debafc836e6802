// Package home отдаёт главный экран приложения. Маршрут стоит за Guard,
// поэтому обработчик вызывается только в состоянии active.
package home

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

// Handler отдаёт главный экран.
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
	const op = "handlers.app.home"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var data views.AppData
	if ident := middlewarectx.IdentityFrom(r.Context()); ident != nil {
		data.Email = ident.Email
	}
	if err := h.screens.Render(w, http.StatusOK, views.ScreenApp, data); err != nil {
		log.Error("failed to render app screen", sl.Err(err))
	}
}
