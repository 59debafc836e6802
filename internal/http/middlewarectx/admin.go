package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/therapy-booking-front/internal/access"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/jwt"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

// AdminCookie — имя cookie с токеном администратора.
const AdminCookie = "admin_token"

// AdminTokens проверяет токены администратора.
type AdminTokens interface {
	ParseToken(tokenStr string) (*jwt.AdminClaims, error)
}

// AdminGuard пускает в панель администратора только с действительным токеном
// в cookie. Без токена запрос уходит на форму входа администратора.
func AdminGuard(log *slog.Logger, tokens AdminTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminGuard"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			var claims *jwt.AdminClaims
			if cookie, err := r.Cookie(AdminCookie); err == nil && cookie.Value != "" {
				claims, err = tokens.ParseToken(cookie.Value)
				if err != nil {
					log.Warn("invalid admin token", sl.Err(err))
				}
			}

			gate := access.AdminGate{}
			if gate.Decide(claims != nil) != access.AdminActive {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), AdminSubject, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
