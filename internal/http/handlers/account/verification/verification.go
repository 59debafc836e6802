// Package verification принимает анкету верификации личности.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/therapy-booking-front/internal/access"
	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/rut"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/validate"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// Service отправляет анкету на бэкенд.
type Service interface {
	SubmitVerification(ctx context.Context, bearer string, in backend.VerificationRequest) error
}

// Decider вычисляет состояние доступа запроса.
type Decider interface {
	Decide(r *http.Request) (middlewarectx.Decision, error)
}

// Screens отрисовывает HTML-экраны.
type Screens interface {
	Render(w http.ResponseWriter, status int, screen views.Screen, data any) error
}

// Request — поля анкеты.
type Request struct {
	Rut      string `validate:"required,rut"`
	FullName string `validate:"required,max=200"`
}

// Handler обрабатывает отправку анкеты.
type Handler struct {
	log      *slog.Logger
	service  Service
	gate     Decider
	screens  Screens
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, gate Decider, screens Screens) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		gate:     gate,
		screens:  screens,
		validate: validate.New(),
	}
}

// ServeHTTP принимает анкету. Отправить её можно только из состояния
// awaiting_verification, пока анкета не на проверке.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.verification"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	d, err := h.gate.Decide(r)
	if err != nil {
		log.Error("failed to decide access", sl.Err(err))
		h.render(w, log, http.StatusBadGateway, views.ScreenError, views.MessageData{Message: "No pudimos verificar tu sesión"})
		return
	}
	switch {
	case d.State == access.Unauthenticated:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case d.State != access.AwaitingVerification || d.Inputs.Verification == access.VerificationPending:
		http.Redirect(w, r, "/cuenta/estado", http.StatusSeeOther)
		return
	}

	req := Request{
		Rut:      strings.TrimSpace(r.PostFormValue("rut")),
		FullName: strings.TrimSpace(r.PostFormValue("nombre")),
	}
	data := views.VerificationData{
		Verification: string(d.Inputs.Verification),
		Draft:        backend.VerificationRequest{Rut: rut.Format(req.Rut), FullName: req.FullName},
	}

	if err = h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		data.Message = validationMessage(err)
		h.render(w, log, http.StatusUnprocessableEntity, views.ScreenAwaitingVerification, data)
		return
	}

	err = h.submit(r.Context(), d.Identity, data.Draft)
	var denied *backend.DeniedError
	switch {
	case err == nil:
		log.Info("verification submitted", slog.String("user_uid", d.Identity.UserUID))
		http.Redirect(w, r, "/cuenta/estado", http.StatusSeeOther)
	case errors.Is(err, session.ErrSignedOut), errors.Is(err, backend.ErrUnauthorized):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.As(err, &denied):
		log.Info("verification denied", slog.String("reason", denied.Reason))
		data.Message = denied.Message()
		h.render(w, log, http.StatusForbidden, views.ScreenAwaitingVerification, data)
	default:
		log.Error("failed to submit verification", sl.Err(err))
		data.Message = "No pudimos enviar tu verificación, intenta nuevamente"
		h.render(w, log, http.StatusBadGateway, views.ScreenAwaitingVerification, data)
	}
}

func (h *Handler) submit(ctx context.Context, ident *session.Identity, in backend.VerificationRequest) error {
	token, err := ident.Token(ctx)
	if err != nil {
		return err
	}
	return h.service.SubmitVerification(ctx, token, in)
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, fe := range errs {
			if fe.Field() == "Rut" {
				return "El RUT ingresado no es válido"
			}
		}
	}
	return "Completa tu RUT y tu nombre completo"
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, status int, screen views.Screen, data any) {
	if err := h.screens.Render(w, status, screen, data); err != nil {
		log.Error("failed to render screen", sl.Err(err))
	}
}
