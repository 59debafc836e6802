package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

// StatusProvider возвращает статусы аккаунта по bearer-токену.
type StatusProvider interface {
	AccountStatus(ctx context.Context, bearer string) (*backend.AccountStatus, error)
}

// Evaluator собирает входы решения для личности и вызывает Decide.
type Evaluator struct {
	statuses StatusProvider
	log      *slog.Logger
}

// NewEvaluator создаёт Evaluator.
func NewEvaluator(statuses StatusProvider, log *slog.Logger) *Evaluator {
	return &Evaluator{
		statuses: statuses,
		log:      log,
	}
}

// Evaluate вычисляет состояние для личности. nil-личность — Unauthenticated.
func (e *Evaluator) Evaluate(ctx context.Context, ident *session.Identity) (State, error) {
	in, err := e.Inputs(ctx, ident)
	if err != nil {
		return "", err
	}
	return Decide(in), nil
}

// Inputs собирает входы решения. Если бэкенд не принял токен или сессия
// исчезла, пользователь считается вышедшим. Прочие ошибки возвращаются:
// при них нельзя показывать ни один экран, кроме экрана ошибки.
func (e *Evaluator) Inputs(ctx context.Context, ident *session.Identity) (Inputs, error) {
	const op = "access.Inputs"
	if !ident.SignedIn() {
		return Inputs{}, nil
	}

	token, err := ident.Token(ctx)
	if errors.Is(err, session.ErrSignedOut) {
		return Inputs{}, nil
	}
	if err != nil {
		return Inputs{}, fmt.Errorf("%s: token: %w", op, err)
	}

	status, err := e.statuses.AccountStatus(ctx, token)
	if errors.Is(err, backend.ErrUnauthorized) {
		e.log.Info("backend rejected session token", slog.String("op", op), slog.String("user_uid", ident.UserUID))
		return Inputs{}, nil
	}
	if err != nil {
		return Inputs{}, fmt.Errorf("%s: %w", op, err)
	}

	return Inputs{
		SignedIn:     true,
		Verification: ParseVerification(status.Verification),
		Subscription: ParseSubscription(status.Subscription),
	}, nil
}
