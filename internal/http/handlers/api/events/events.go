// Package events транслирует браузеру состояние доступа через Server-Sent Events.
//
// Состояние пересчитывается при каждой смене личности сессии и периодически,
// чтобы подхватить изменения на бэкенде (верификация, оплата). Подписка на
// сессию освобождается, когда клиент отключается.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/therapy-booking-front/internal/access"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/handlers/api/gate"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/response"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// Sessions отдаёт наблюдаемый источник личности сессии.
type Sessions interface {
	Source(sessionID string) session.Source
}

// InputsEvaluator собирает входы решения о доступе.
type InputsEvaluator interface {
	Inputs(ctx context.Context, ident *session.Identity) (access.Inputs, error)
}

// DefaultRecheck используется, если период пересчёта не положителен.
const DefaultRecheck = 30 * time.Second

// Handler обслуживает поток событий.
type Handler struct {
	log       *slog.Logger
	sessions  Sessions
	evaluator InputsEvaluator
	recheck   time.Duration
}

// New создает Handler. recheck — период пересчёта без смены личности.
func New(log *slog.Logger, sessions Sessions, evaluator InputsEvaluator, recheck time.Duration) *Handler {
	if recheck <= 0 {
		recheck = DefaultRecheck
	}
	return &Handler{
		log:       log,
		sessions:  sessions,
		evaluator: evaluator,
		recheck:   recheck,
	}
}

// ServeHTTP godoc
// @Summary Поток состояния доступа
// @Description Server-Sent Events: событие state с решением о доступе при каждом его изменении.
// @Tags Session
// @Produce  text/event-stream
// @Success 200 {object} gate.State
// @Failure 503 {object} response.ErrorResponse "Хранилище сессий недоступно"
// @Router /session/events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.events"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	ctx := r.Context()

	changes := make(chan *session.Identity, 1)
	sub, err := session.NewProbe(h.sessions.Source(middlewarectx.SessionIDFrom(ctx)), log).OnChange(ctx, func(ident *session.Identity) {
		latest(changes, ident)
	})
	if err != nil {
		log.Error("failed to watch session", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("session store unavailable"))
		return
	}
	defer sub.Unsubscribe()

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err = rc.Flush(); err != nil {
		log.Error("streaming unsupported", sl.Err(err))
		return
	}

	ticker := time.NewTicker(h.recheck)
	defer ticker.Stop()

	var (
		ident *session.Identity
		ready bool
		last  []byte
	)
	for {
		select {
		case <-ctx.Done():
			log.Debug("client disconnected")
			return
		case ident = <-changes:
			ready = true
			last = nil
		case <-ticker.C:
			if !ready {
				// Первое состояние сессии ещё не получено: решения нет.
				if _, err = fmt.Fprint(w, ": waiting\n\n"); err != nil {
					return
				}
				if err = rc.Flush(); err != nil {
					return
				}
				continue
			}
		}

		payload, err := h.state(ctx, ident)
		if err != nil {
			log.Warn("failed to evaluate access", sl.Err(err))
			payload, _ = json.Marshal(response.Error("access state unavailable"))
			if err = write(w, rc, "error", payload); err != nil {
				return
			}
			last = nil
			continue
		}
		if string(payload) == string(last) {
			continue
		}
		if err = write(w, rc, "state", payload); err != nil {
			return
		}
		last = payload
	}
}

func (h *Handler) state(ctx context.Context, ident *session.Identity) ([]byte, error) {
	in, err := h.evaluator.Inputs(ctx, ident)
	if err != nil {
		return nil, err
	}
	return json.Marshal(gate.FromDecision(middlewarectx.Decision{
		Identity: ident,
		Inputs:   in,
		State:    access.Decide(in),
	}))
}

func write(w http.ResponseWriter, rc *http.ResponseController, event string, data []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return rc.Flush()
}

// latest кладёт ident в канал ёмкостью 1, вытесняя непрочитанное значение.
// Писатель один: колбэки подписки вызываются последовательно.
func latest(ch chan *session.Identity, ident *session.Identity) {
	for {
		select {
		case ch <- ident:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
