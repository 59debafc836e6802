// Package checkout начинает оплату подписки и передаёт браузер платёжному шлюзу.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/therapy-booking-front/internal/access"
	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/payment"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// Результаты попытки для метрик.
const (
	ResultHandoff      = "handoff"
	ResultAuthRequired = "auth_required"
	ResultIncomplete   = "incomplete"
	ResultDenied       = "denied"
	ResultError        = "error"
	ResultAlreadyPaid  = "already_paid"
)

// Initiator начинает оплату.
type Initiator interface {
	Initiate(ctx context.Context, ident *session.Identity, amount int64) (*payment.Transfer, error)
}

// Decider вычисляет состояние доступа запроса.
type Decider interface {
	Decide(r *http.Request) (middlewarectx.Decision, error)
}

// Screens отрисовывает HTML-экраны.
type Screens interface {
	Render(w http.ResponseWriter, status int, screen views.Screen, data any) error
}

// Observer учитывает попытки оплаты.
type Observer interface {
	ObserveCheckout(result string)
}

// Handler обрабатывает начало оплаты.
type Handler struct {
	log       *slog.Logger
	initiator Initiator
	gate      Decider
	screens   Screens
	metrics   Observer
	price     int64
}

// New создает Handler. price — цена подписки в минимальных единицах валюты.
func New(log *slog.Logger, initiator Initiator, gate Decider, screens Screens, metrics Observer, price int64) *Handler {
	return &Handler{
		log:       log,
		initiator: initiator,
		gate:      gate,
		screens:   screens,
		metrics:   metrics,
		price:     price,
	}
}

// ServeHTTP запрашивает транзакцию и отдаёт автоматически отправляемую форму
// на шлюз. При любой ошибке формы нет: пользователь видит сообщение и может
// повторить попытку сам.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	d, err := h.gate.Decide(r)
	if err != nil {
		log.Error("failed to decide access", sl.Err(err))
		h.metrics.ObserveCheckout(ResultError)
		h.render(w, log, http.StatusBadGateway, views.ScreenError, views.MessageData{Message: "No pudimos verificar tu cuenta"})
		return
	}
	// Оплата начинается только с экранов неоплаченной и истёкшей подписки.
	// Без входа решение принимает Initiate.
	switch d.State {
	case access.VerifiedUnpaid, access.VerifiedExpired, access.Unauthenticated:
	case access.Active:
		log.Info("checkout with active subscription")
		h.metrics.ObserveCheckout(ResultAlreadyPaid)
		http.Redirect(w, r, "/app/", http.StatusSeeOther)
		return
	default:
		h.metrics.ObserveCheckout(ResultDenied)
		h.render(w, log, http.StatusForbidden, views.ScreenError, views.MessageData{Message: "Debes verificar tu cuenta antes de pagar"})
		return
	}

	transfer, err := h.initiator.Initiate(r.Context(), d.Identity, h.price)
	var denied *backend.DeniedError
	switch {
	case err == nil:
	case errors.Is(err, payment.ErrAuthenticationRequired):
		log.Info("checkout without session")
		h.metrics.ObserveCheckout(ResultAuthRequired)
		h.render(w, log, http.StatusUnauthorized, views.ScreenLogin, views.LoginData{Message: "Inicia sesión para continuar con el pago"})
		return
	case errors.Is(err, payment.ErrIncompleteHandshake):
		h.metrics.ObserveCheckout(ResultIncomplete)
		h.renderCheckout(w, log, d.State, http.StatusBadGateway, "No se pudo iniciar la transacción")
		return
	case errors.As(err, &denied):
		h.metrics.ObserveCheckout(ResultDenied)
		h.renderCheckout(w, log, d.State, http.StatusForbidden, denied.Message())
		return
	default:
		log.Error("checkout failed", sl.Err(err))
		h.metrics.ObserveCheckout(ResultError)
		h.renderCheckout(w, log, d.State, http.StatusBadGateway, "No se pudo iniciar la transacción")
		return
	}

	h.metrics.ObserveCheckout(ResultHandoff)
	h.render(w, log, http.StatusOK, views.ScreenHandoff, views.TransferData{
		Action: transfer.Action,
		Method: transfer.Method,
		Fields: transfer.Fields,
	})
}

// renderCheckout возвращает пользователя на экран оплаты с сообщением.
func (h *Handler) renderCheckout(w http.ResponseWriter, log *slog.Logger, state access.State, status int, msg string) {
	screen := views.ScreenUnpaid
	if state == access.VerifiedExpired {
		screen = views.ScreenExpired
	}
	h.render(w, log, status, screen, views.CheckoutData{Price: h.price, Message: msg})
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, status int, screen views.Screen, data any) {
	if err := h.screens.Render(w, status, screen, data); err != nil {
		log.Error("failed to render screen", sl.Err(err))
	}
}
