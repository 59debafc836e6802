package front

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/therapy-booking-front/internal/access"
	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/cache"
	"github.com/magabrotheeeer/therapy-booking-front/internal/config"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/metrics"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"

	_ "github.com/magabrotheeeer/therapy-booking-front/docs" // swagger
)

// App HTTP-приложение фронтенда.
type App struct {
	server *http.Server
	logger *slog.Logger
	cache  *cache.Cache
	amqp   *amqp.Connection
}

// New собирает зависимости и роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	backendClient := backend.NewClient(cfg.BaseURL, cfg.TimeoutBackend)
	sessions := session.NewStore(cacheRedis, cfg.SessionTTL, cfg.RefreshSkew, backendClient, logger)

	screens, err := views.New()
	if err != nil {
		_ = cacheRedis.Close()
		return nil, err
	}

	var (
		conn *amqp.Connection
		ch   rabbitmq.Channel
	)
	if cfg.RabbitMQ.URL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitMQ.URL, 5, 2*time.Second)
		if err != nil {
			_ = cacheRedis.Close()
			return nil, err
		}
		amqpCh, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
		if err != nil {
			_ = conn.Close()
			_ = cacheRedis.Close()
			return nil, err
		}
		ch = amqpCh
	} else {
		logger.Info("rabbitmq url is empty, event publishing disabled")
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, Deps{
		Backend:   backendClient,
		Sessions:  sessions,
		Evaluator: access.NewEvaluator(backendClient, logger),
		Screens:   screens,
		Metrics:   metrics.New(prometheus.DefaultRegisterer),
		Publisher: rabbitmq.NewPublisher(ch, cfg.Exchange, logger),
		Gatherer:  prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		cache:  cacheRedis,
		amqp:   conn,
	}, nil
}

// Run запускает сервер и останавливает его по отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
}
