// Package payment реализует передачу браузера платёжному шлюзу и разбор
// возврата с него.
//
// Initiate и Resolve не связаны общим состоянием в памяти: между ними браузер
// полностью уходит на шлюз, и единственная связь — параметры адреса возврата.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// TokenField — имя единственного поля формы, которое ждёт шлюз.
const TokenField = "token_ws"

var (
	// ErrAuthenticationRequired — попытка оплаты без входа.
	ErrAuthenticationRequired = errors.New("payment: authentication required")
	// ErrInvalidAmount — сумма не положительна.
	ErrInvalidAmount = errors.New("payment: amount must be positive")
	// ErrIncompleteHandshake — бэкенд не вернул url или token.
	ErrIncompleteHandshake = errors.New("payment: incomplete handshake")
)

// CheckoutInitiator начинает транзакцию на бэкенде.
type CheckoutInitiator interface {
	InitiateCheckout(ctx context.Context, bearer string, amount int64) (*backend.CheckoutResponse, error)
}

// Transfer — одноразовая передача браузера шлюзу: POST-форма на Action
// с полями Fields. Строится на каждую попытку и не переиспользуется.
type Transfer struct {
	Action string
	Method string
	Fields map[string]string
}

// Handoff начинает оплату.
type Handoff struct {
	initiator CheckoutInitiator
	log       *slog.Logger
}

// NewHandoff создаёт Handoff.
func NewHandoff(initiator CheckoutInitiator, log *slog.Logger) *Handoff {
	return &Handoff{
		initiator: initiator,
		log:       log,
	}
}

// Initiate запрашивает у бэкенда транзакцию на amount и возвращает форму
// передачи на шлюз. Без личности или с неположительной суммой сетевой вызов
// не выполняется. Повторных попыток нет: пользователь запускает оплату сам.
func (h *Handoff) Initiate(ctx context.Context, ident *session.Identity, amount int64) (*Transfer, error) {
	const op = "payment.Initiate"
	if !ident.SignedIn() {
		return nil, ErrAuthenticationRequired
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	token, err := ident.Token(ctx)
	if errors.Is(err, session.ErrSignedOut) {
		return nil, ErrAuthenticationRequired
	}
	if err != nil {
		return nil, fmt.Errorf("%s: token: %w", op, err)
	}

	resp, err := h.initiator.InitiateCheckout(ctx, token, amount)
	if errors.Is(err, backend.ErrUnauthorized) {
		return nil, ErrAuthenticationRequired
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp == nil || resp.URL == "" || resp.Token == "" {
		h.log.Error("backend returned incomplete checkout", slog.String("op", op), slog.String("user_uid", ident.UserUID))
		return nil, ErrIncompleteHandshake
	}

	h.log.Info("checkout initiated", slog.String("op", op), slog.String("user_uid", ident.UserUID), slog.Int64("amount", amount))
	return &Transfer{
		Action: resp.URL,
		Method: "POST",
		Fields: map[string]string{TokenField: resp.Token},
	}, nil
}
