// Package paymentreturn разбирает возврат браузера с платёжного шлюза.
//
// Обработчик читает только параметры адреса: после ухода на шлюз никакого
// состояния попытки в памяти не остаётся.
package paymentreturn

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/payment"
)

// Event — событие о возврате со шлюза для сервиса уведомлений.
type Event struct {
	OrderID    string    `json:"order_id,omitempty"`
	Outcome    string    `json:"outcome"`
	ReturnedAt time.Time `json:"returned_at"`
}

// Publisher публикует события.
type Publisher interface {
	Publish(routingKey string, event any) error
}

// Screens отрисовывает HTML-экраны.
type Screens interface {
	Render(w http.ResponseWriter, status int, screen views.Screen, data any) error
}

// Observer учитывает исходы возврата.
type Observer interface {
	ObserveReturn(outcome string)
}

// Handler обрабатывает адрес возврата.
type Handler struct {
	log       *slog.Logger
	publisher Publisher
	screens   Screens
	metrics   Observer
}

// New создает Handler.
func New(log *slog.Logger, publisher Publisher, screens Screens, metrics Observer) *Handler {
	return &Handler{
		log:       log,
		publisher: publisher,
		screens:   screens,
		metrics:   metrics,
	}
}

// ServeHTTP показывает экран итога: успех только для кода оплаты, отказ для
// любого другого кода, ошибку возврата при отсутствии параметров.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.return"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result := payment.Resolve(r.URL.Query())
	log.Info("payment return", slog.String("order_id", result.OrderID), slog.String("outcome", string(result.Outcome)))

	h.metrics.ObserveReturn(string(result.Outcome))
	// Экран итога не зависит от публикации события.
	if err := h.publisher.Publish(rabbitmq.RoutingPaymentReturned, Event{
		OrderID:    result.OrderID,
		Outcome:    string(result.Outcome),
		ReturnedAt: time.Now().UTC(),
	}); err != nil {
		log.Warn("failed to publish payment event", sl.Err(err))
	}

	var err error
	switch result.Outcome {
	case payment.OutcomePaid:
		err = h.screens.Render(w, http.StatusOK, views.ScreenPaymentSuccess, views.PaymentData{OrderID: result.OrderID})
	case payment.OutcomeFailed:
		err = h.screens.Render(w, http.StatusOK, views.ScreenPaymentFailed, views.PaymentData{OrderID: result.OrderID})
	default:
		err = h.screens.Render(w, http.StatusBadRequest, views.ScreenPaymentError, nil)
	}
	if err != nil {
		log.Error("failed to render payment result", sl.Err(err))
	}
}
