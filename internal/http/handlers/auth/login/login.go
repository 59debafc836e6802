// Package login обслуживает форму входа пользователя.
//
// Форма доступна только в состоянии unauthenticated: вошедший пользователь
// перенаправляется на главную, где Guard покажет экран его состояния.
package login

import (
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
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/validate"
)

// Request — данные формы входа.
type Request struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required"`
}

// Handler обрабатывает вход пользователя.
type Handler struct {
	log      *slog.Logger
	auth     Service
	sessions Sessions
	gate     Decider
	screens  Screens
	cookie   middlewarectx.CookieConfig
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, auth Service, sessions Sessions, gate Decider, screens Screens, cookie middlewarectx.CookieConfig) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		sessions: sessions,
		gate:     gate,
		screens:  screens,
		cookie:   cookie,
		validate: validate.New(),
	}
}

// Form отдаёт форму входа.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login.Form"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if !h.signInAllowed(w, r, log) {
		return
	}
	h.render(w, log, http.StatusOK, views.LoginData{})
}

// ServeHTTP принимает форму входа.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if !h.signInAllowed(w, r, log) {
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render(w, log, http.StatusBadRequest, views.LoginData{Message: "Solicitud inválida"})
		return
	}
	req := Request{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		h.render(w, log, http.StatusUnprocessableEntity, views.LoginData{Email: req.Email, Message: "Ingresa un correo y una contraseña válidos"})
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, backend.ErrUnauthorized) {
		log.Info("invalid credentials")
		h.render(w, log, http.StatusUnauthorized, views.LoginData{Email: req.Email, Message: "Correo o contraseña incorrectos"})
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		h.render(w, log, http.StatusBadGateway, views.LoginData{Email: req.Email, Message: "No pudimos iniciar sesión, intenta nuevamente"})
		return
	}

	sess, err := h.sessions.Create(r.Context(), pair.UserUID, req.Email, pair.AccessToken, pair.RefreshToken)
	if err != nil {
		log.Error("failed to create session", sl.Err(err))
		h.render(w, log, http.StatusInternalServerError, views.LoginData{Email: req.Email, Message: "No pudimos iniciar sesión, intenta nuevamente"})
		return
	}

	h.cookie.SetCookie(w, sess.ID)
	log.Info("login success", slog.String("user_uid", pair.UserUID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// signInAllowed пропускает только запросы в состоянии unauthenticated.
// Остальные уже ответили: перенаправление или экран ошибки.
func (h *Handler) signInAllowed(w http.ResponseWriter, r *http.Request, log *slog.Logger) bool {
	d, err := h.gate.Decide(r)
	if err != nil {
		log.Error("failed to decide access", sl.Err(err))
		if rerr := h.screens.Render(w, http.StatusBadGateway, views.ScreenError, views.MessageData{Message: "No pudimos verificar tu sesión"}); rerr != nil {
			log.Error("failed to render screen", sl.Err(rerr))
		}
		return false
	}
	if !access.SignInAllowed(d.State) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return false
	}
	return true
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, status int, data views.LoginData) {
	if err := h.screens.Render(w, status, views.ScreenLogin, data); err != nil {
		log.Error("failed to render login screen", sl.Err(err))
	}
}
