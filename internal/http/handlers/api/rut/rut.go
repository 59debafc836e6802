// Package rut отдаёт форматирование и проверку RUT для поля ввода.
//
// Форматирование не валидирует ввод и подходит для подсказки во время набора;
// проверка контрольной цифры выполняется отдельно, при отправке формы.
package rut

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/therapy-booking-front/internal/http/response"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/rut"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/validate"
)

// Request RUT в том виде, в каком его ввёл пользователь.
type Request struct {
	Rut string `json:"rut" validate:"max=32"`
}

// Result отформатированный RUT и признак корректности.
type Result struct {
	Formatted string `json:"formatted" example:"12.345.678-5"`
	Valid     bool   `json:"valid" example:"true"`
}

// Handler обрабатывает запросы проверки RUT.
type Handler struct {
	log      *slog.Logger
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log:      log,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверка RUT
// @Description Форматирует RUT и проверяет контрольную цифру (Modulus-11).
// @Tags Onboarding
// @Accept  json
// @Produce  json
// @Param request body Request true "Введённый RUT"
// @Success 200 {object} response.Response{data=Result}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /rut [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.rut"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	render.JSON(w, r, response.StatusOKWithData(Result{
		Formatted: rut.Format(req.Rut),
		Valid:     rut.IsValid(req.Rut),
	}))
}
