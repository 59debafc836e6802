package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/therapy-booking-front/internal/access"
	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// ErrSessionUnresolved возвращается, если состояние сессии не удалось прочитать
// до окончания запроса.
var ErrSessionUnresolved = errors.New("session state unresolved")

// SessionStore — часть хранилища сессий, нужная проверке доступа.
type SessionStore interface {
	Snapshot(sessionID string) session.Source
	Draft(ctx context.Context, sessionID string, out any) (bool, error)
	ClearDraft(ctx context.Context, sessionID string) error
}

// InputsEvaluator собирает входы решения о доступе.
type InputsEvaluator interface {
	Inputs(ctx context.Context, ident *session.Identity) (access.Inputs, error)
}

// Screens отрисовывает HTML-экраны.
type Screens interface {
	Render(w http.ResponseWriter, status int, screen views.Screen, data any) error
}

// GateObserver учитывает решения доступа.
type GateObserver interface {
	ObserveGate(state string)
}

// Decision — решение о доступе для одного запроса.
type Decision struct {
	Identity *session.Identity
	Inputs   access.Inputs
	State    access.State
}

// Guard пускает к защищённым экранам только в состоянии Active.
// Для остальных состояний он сам отвечает экраном состояния, поэтому
// защищённый обработчик не вызывается ни разу.
type Guard struct {
	log       *slog.Logger
	store     SessionStore
	evaluator InputsEvaluator
	screens   Screens
	metrics   GateObserver
	price     int64
}

// NewGuard создаёт Guard. price — цена подписки для экранов оплаты.
func NewGuard(log *slog.Logger, store SessionStore, evaluator InputsEvaluator, screens Screens, metrics GateObserver, price int64) *Guard {
	return &Guard{
		log:       log,
		store:     store,
		evaluator: evaluator,
		screens:   screens,
		metrics:   metrics,
		price:     price,
	}
}

// Decide дожидается первого состояния сессии и вычисляет решение.
// Пока сессия не прочитана, решение не принимается: ожидание ограничено
// только контекстом запроса.
func (g *Guard) Decide(r *http.Request) (Decision, error) {
	const op = "middlewarectx.Guard.Decide"
	ctx := r.Context()

	ident, err := session.NewProbe(g.store.Snapshot(SessionIDFrom(ctx)), g.log).First(ctx)
	if err != nil {
		return Decision{}, errors.Join(ErrSessionUnresolved, err)
	}

	in, err := g.evaluator.Inputs(ctx, ident)
	if err != nil {
		return Decision{}, err
	}
	if !in.SignedIn {
		ident = nil
	}

	state := access.Decide(in)
	g.metrics.ObserveGate(string(state))
	g.log.Debug("gate decision", slog.String("op", op), slog.String("state", string(state)))
	return Decision{Identity: ident, Inputs: in, State: state}, nil
}

// Middleware возвращает обработчик, защищающий next.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := g.Decide(r)
		if err != nil {
			g.RenderError(w, r, err)
			return
		}
		if !access.AllowsProtected(d.State) {
			g.RenderState(w, r, d, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), Identity, d.Identity)
		ctx = context.WithValue(ctx, GateState, d.State)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Status отдаёт экран текущего состояния с кодом 200. Active перенаправляет в приложение.
func (g *Guard) Status(w http.ResponseWriter, r *http.Request) {
	d, err := g.Decide(r)
	if err != nil {
		g.RenderError(w, r, err)
		return
	}
	if access.AllowsProtected(d.State) {
		http.Redirect(w, r, "/app/", http.StatusSeeOther)
		return
	}
	g.RenderState(w, r, d, http.StatusOK)
}

// RenderState отвечает экраном состояния d.State. Unauthenticated уводит на вход.
func (g *Guard) RenderState(w http.ResponseWriter, r *http.Request, d Decision, status int) {
	const op = "middlewarectx.Guard.RenderState"
	log := g.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var err error
	switch d.State {
	case access.Unauthenticated:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case access.AwaitingVerification:
		err = g.screens.Render(w, status, views.ScreenAwaitingVerification, g.verificationData(r.Context(), log, d))
	case access.VerifiedUnpaid:
		err = g.screens.Render(w, status, views.ScreenUnpaid, views.CheckoutData{Price: g.price})
	case access.VerifiedExpired:
		err = g.screens.Render(w, status, views.ScreenExpired, views.CheckoutData{Price: g.price})
	default:
		err = g.screens.Render(w, http.StatusInternalServerError, views.ScreenError, views.MessageData{Message: "Estado de cuenta desconocido"})
	}
	if err != nil {
		log.Error("failed to render state screen", slog.String("state", string(d.State)), sl.Err(err))
	}
}

// verificationData готовит экран верификации. На экране «в проверке»
// черновик анкеты больше не нужен и удаляется.
func (g *Guard) verificationData(ctx context.Context, log *slog.Logger, d Decision) views.VerificationData {
	data := views.VerificationData{Verification: string(d.Inputs.Verification)}
	if d.Identity == nil {
		return data
	}

	if d.Inputs.Verification == access.VerificationPending {
		if err := g.store.ClearDraft(ctx, d.Identity.SessionID); err != nil {
			log.Warn("failed to clear onboarding draft", sl.Err(err))
		}
		return data
	}

	if _, err := g.store.Draft(ctx, d.Identity.SessionID, &data.Draft); err != nil {
		log.Warn("failed to load onboarding draft", sl.Err(err))
	}
	return data
}

// RenderError отвечает экраном ошибки. Защищённое содержимое при ошибке не показывается.
func (g *Guard) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	const op = "middlewarectx.Guard.RenderError"
	log := g.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status := http.StatusBadGateway
	msg := "No pudimos verificar el estado de tu cuenta. Intenta nuevamente."
	var denied *backend.DeniedError
	switch {
	case errors.Is(err, ErrSessionUnresolved):
		status = http.StatusServiceUnavailable
		msg = "No pudimos leer tu sesión. Intenta nuevamente."
	case errors.As(err, &denied):
		status = http.StatusForbidden
		msg = denied.Message()
	}

	log.Error("access check failed", sl.Err(err))
	if rerr := g.screens.Render(w, status, views.ScreenError, views.MessageData{Message: msg}); rerr != nil {
		log.Error("failed to render error screen", sl.Err(rerr))
	}
}
