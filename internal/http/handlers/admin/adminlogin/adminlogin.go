// Package adminlogin обслуживает вход в панель администратора по общему паролю.
package adminlogin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/password"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

// adminSubject — субъект токена: учётная запись администратора одна.
const adminSubject = "admin"

// TokenIssuer выпускает токены администратора.
type TokenIssuer interface {
	GenerateToken(subject string) (string, error)
}

// Screens отрисовывает HTML-экраны.
type Screens interface {
	Render(w http.ResponseWriter, status int, screen views.Screen, data any) error
}

// Handler обрабатывает вход и выход администратора.
type Handler struct {
	log          *slog.Logger
	tokens       TokenIssuer
	screens      Screens
	passwordHash string
	cookie       middlewarectx.CookieConfig
}

// New создает Handler. passwordHash — bcrypt-хеш общего пароля.
func New(log *slog.Logger, tokens TokenIssuer, screens Screens, passwordHash string, cookie middlewarectx.CookieConfig) *Handler {
	cookie.Name = middlewarectx.AdminCookie
	return &Handler{
		log:          log,
		tokens:       tokens,
		screens:      screens,
		passwordHash: passwordHash,
		cookie:       cookie,
	}
}

// Form отдаёт форму входа администратора.
func (h *Handler) Form(w http.ResponseWriter, _ *http.Request) {
	h.render(w, h.log, http.StatusOK, "")
}

// ServeHTTP проверяет пароль и выдаёт токен в cookie.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := password.Verify(h.passwordHash, r.PostFormValue("password")); err != nil {
		log.Warn("admin login rejected", sl.Err(err))
		h.render(w, log, http.StatusUnauthorized, "Contraseña incorrecta")
		return
	}

	token, err := h.tokens.GenerateToken(adminSubject)
	if err != nil {
		log.Error("failed to issue admin token", sl.Err(err))
		h.render(w, log, http.StatusInternalServerError, "No pudimos iniciar sesión")
		return
	}

	h.cookie.SetCookie(w, token)
	log.Info("admin signed in")
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// Logout удаляет cookie администратора.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookie.SetCookie(w, "")
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, status int, msg string) {
	if err := h.screens.Render(w, status, views.ScreenAdminLogin, views.MessageData{Message: msg}); err != nil {
		log.Error("failed to render admin login", sl.Err(err))
	}
}
