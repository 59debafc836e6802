// Package gate отдаёт текущее решение о доступе в JSON.
package gate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/therapy-booking-front/internal/access"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/response"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

// Decider вычисляет состояние доступа запроса.
type Decider interface {
	Decide(r *http.Request) (middlewarectx.Decision, error)
}

// State решение о доступе для клиента.
type State struct {
	State        string `json:"state" example:"verified_unpaid"`
	SignedIn     bool   `json:"signed_in" example:"true"`
	Verification string `json:"verification,omitempty" example:"verified"`
	Subscription string `json:"subscription,omitempty" example:"none"`
	Protected    bool   `json:"protected" example:"false"`
}

// FromDecision переводит решение в ответ клиенту.
func FromDecision(d middlewarectx.Decision) State {
	s := State{
		State:     string(d.State),
		SignedIn:  d.Inputs.SignedIn,
		Protected: access.AllowsProtected(d.State),
	}
	if d.Inputs.SignedIn {
		s.Verification = string(d.Inputs.Verification)
		// Подписка не раскрывается, пока аккаунт не верифицирован.
		if d.Inputs.Verification == access.VerificationVerified {
			s.Subscription = string(d.Inputs.Subscription)
		}
	}
	return s
}

// Handler отдаёт решение о доступе.
type Handler struct {
	log  *slog.Logger
	gate Decider
}

// New создает Handler.
func New(log *slog.Logger, gate Decider) *Handler {
	return &Handler{
		log:  log,
		gate: gate,
	}
}

// ServeHTTP godoc
// @Summary Состояние доступа
// @Description Возвращает экран, на который сейчас попадает пользователь сессии.
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response{data=State}
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Router /gate [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.gate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	d, err := h.gate.Decide(r)
	if err != nil {
		log.Error("failed to decide access", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("access state unavailable"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(FromDecision(d)))
}
