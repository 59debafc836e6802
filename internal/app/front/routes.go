// Package front собирает HTTP-приложение фронтенда: зависимости, маршруты и сервер.
package front

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/therapy-booking-front/internal/access"
	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/config"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/account/verification"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/admin/adminlogin"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/admin/panel"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/api/draft"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/api/events"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/api/gate"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/api/rut"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/app/home"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/payment/checkout"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/payment/paymentreturn"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/jwt"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/metrics"
	"github.com/magabrotheeeer/therapy-booking-front/internal/payment"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// Deps зависимости маршрутов.
type Deps struct {
	Backend   *backend.Client
	Sessions  *session.Store
	Evaluator *access.Evaluator
	Screens   *views.Renderer
	Metrics   *metrics.Metrics
	Publisher *rabbitmq.Publisher
	Gatherer  prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.SessionCookie(cfg.CookieName),
	)

	cookie := middlewarectx.CookieConfig{
		Name:   cfg.CookieName,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}
	guard := middlewarectx.NewGuard(logger, deps.Sessions, deps.Evaluator, deps.Screens, deps.Metrics, cfg.SubscriptionPrice)
	handoff := payment.NewHandoff(deps.Backend, logger)

	loginHandler := login.New(logger, deps.Backend, deps.Sessions, guard, deps.Screens, cookie)
	r.Get("/login", loginHandler.Form)
	r.Post("/login", loginHandler.ServeHTTP)
	r.Post("/logout", logout.New(logger, deps.Sessions, cookie).ServeHTTP)

	// Экран состояния сам решает, что показать, поэтому стоит вне guard.
	r.Get("/cuenta/estado", guard.Status)
	r.Post("/cuenta/verificacion", verification.New(logger, deps.Backend, guard, deps.Screens).ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.CheckoutRPS, cfg.CheckoutBurst))
		r.Post("/pago/checkout", checkout.New(logger, handoff, guard, deps.Screens, deps.Metrics, cfg.SubscriptionPrice).ServeHTTP)
	})
	// Возврат со шлюза приходит без гарантии cookie сессии.
	r.Get("/pago/retorno", paymentreturn.New(logger, deps.Publisher, deps.Screens, deps.Metrics).ServeHTTP)

	// Защищённая часть приложения
	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware)
		homeHandler := home.New(logger, deps.Screens)
		r.Get("/", homeHandler.ServeHTTP)
		r.Get("/app", homeHandler.ServeHTTP)
		r.Get("/app/*", homeHandler.ServeHTTP)
	})

	if cfg.JWTSecretKey != "" {
		registerAdminRoutes(r, logger, cfg, deps)
	} else {
		logger.Warn("admin jwt secret is empty, admin panel disabled")
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/rut", rut.New(logger).ServeHTTP)
		r.Get("/gate", gate.New(logger, guard).ServeHTTP)

		draftHandler := draft.New(logger, deps.Sessions)
		r.Get("/onboarding/draft", draftHandler.Get)
		r.Put("/onboarding/draft", draftHandler.Save)

		r.Get("/session/events", events.New(logger, deps.Sessions, deps.Evaluator, cfg.RecheckInterval).ServeHTTP)
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		if err := deps.Screens.Render(w, http.StatusNotFound, views.ScreenError, views.MessageData{Message: "Página no encontrada"}); err != nil {
			logger.Error("failed to render not found", sl.Err(err))
		}
	})
}

func registerAdminRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, deps Deps) {
	adminTokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	adminCookie := middlewarectx.CookieConfig{TTL: cfg.TokenTTL, Secure: cfg.CookieSecure}
	adminHandler := adminlogin.New(logger, adminTokens, deps.Screens, cfg.PasswordHash, adminCookie)
	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", adminHandler.Form)
		r.Post("/login", adminHandler.ServeHTTP)
		r.Post("/logout", adminHandler.Logout)
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AdminGuard(logger, adminTokens))
			r.Get("/", panel.New(logger, deps.Screens).ServeHTTP)
		})
	})
}
