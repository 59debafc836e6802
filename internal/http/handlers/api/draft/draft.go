// Package draft сохраняет черновик анкеты верификации, пока пользователь её заполняет.
// Черновик удаляется, когда анкета уходит на проверку.
package draft

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/response"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/rut"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/validate"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// Sessions хранит черновики сессий.
type Sessions interface {
	Identity(ctx context.Context, id string) (*session.Identity, error)
	SaveDraft(ctx context.Context, sessionID string, draft any) error
	Draft(ctx context.Context, sessionID string, out any) (bool, error)
}

// Request частично заполненная анкета. Поля не обязательны.
type Request struct {
	Rut      string `json:"rut" validate:"max=32"`
	FullName string `json:"nombre" validate:"max=200"`
}

// Handler обрабатывает черновики.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		validate: validate.New(),
	}
}

// Save godoc
// @Summary Сохранить черновик анкеты
// @Tags Onboarding
// @Accept  json
// @Produce  json
// @Param request body Request true "Черновик"
// @Success 200 {object} response.Response{data=backend.VerificationRequest}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Вход не выполнен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /onboarding/draft [put]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.draft.Save"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ident, ok := h.identity(w, r, log)
	if !ok {
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	saved := backend.VerificationRequest{Rut: rut.Format(req.Rut), FullName: req.FullName}
	if err := h.sessions.SaveDraft(r.Context(), ident.SessionID, saved); err != nil {
		log.Error("failed to save draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(saved))
}

// Get godoc
// @Summary Прочитать черновик анкеты
// @Tags Onboarding
// @Produce  json
// @Success 200 {object} response.Response{data=backend.VerificationRequest}
// @Failure 401 {object} response.ErrorResponse "Вход не выполнен"
// @Failure 404 {object} response.ErrorResponse "Черновика нет"
// @Router /onboarding/draft [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.draft.Get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ident, ok := h.identity(w, r, log)
	if !ok {
		return
	}

	var saved backend.VerificationRequest
	found, err := h.sessions.Draft(r.Context(), ident.SessionID, &saved)
	if err != nil {
		log.Error("failed to read draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("draft not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(saved))
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*session.Identity, bool) {
	ident, err := h.sessions.Identity(r.Context(), middlewarectx.SessionIDFrom(r.Context()))
	if err != nil {
		log.Error("failed to read session", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("session store unavailable"))
		return nil, false
	}
	if !ident.SignedIn() {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return nil, false
	}
	return ident, true
}
