// Package access решает, какой экран разрешено показать пользователю,
// по трём входам: вход выполнен или нет, статус верификации аккаунта
// и статус подписки.
//
// Решение — чистая функция входов: пакет не хранит состояние и не кеширует
// решения, поэтому его нужно пересчитывать при каждом изменении входов.
package access

// VerificationStatus — статус проверки аккаунта бэкендом.
type VerificationStatus string

const (
	VerificationUnsubmitted VerificationStatus = "unsubmitted"
	VerificationPending     VerificationStatus = "pending"
	VerificationVerified    VerificationStatus = "verified"
	VerificationRejected    VerificationStatus = "rejected"
)

// ParseVerification приводит значение бэкенда к статусу; неизвестное значение — unsubmitted.
func ParseVerification(s string) VerificationStatus {
	switch v := VerificationStatus(s); v {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return v
	default:
		return VerificationUnsubmitted
	}
}

// SubscriptionStatus — статус оплаченной подписки.
type SubscriptionStatus string

const (
	SubscriptionNone    SubscriptionStatus = "none"
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// ParseSubscription приводит значение бэкенда к статусу; неизвестное значение — none.
func ParseSubscription(s string) SubscriptionStatus {
	switch v := SubscriptionStatus(s); v {
	case SubscriptionActive, SubscriptionExpired:
		return v
	default:
		return SubscriptionNone
	}
}

// State — экран, на который попадает пользователь.
type State string

const (
	Unauthenticated      State = "unauthenticated"
	AwaitingVerification State = "awaiting_verification"
	VerifiedUnpaid       State = "verified_unpaid"
	VerifiedExpired      State = "verified_expired"
	Active               State = "active"
)

// Inputs — входы решения.
type Inputs struct {
	SignedIn     bool
	Verification VerificationStatus
	Subscription SubscriptionStatus
}

// Decide отображает входы в состояние. Active возможен только
// для верифицированного аккаунта с активной подпиской.
func Decide(in Inputs) State {
	if !in.SignedIn {
		return Unauthenticated
	}
	if in.Verification != VerificationVerified {
		return AwaitingVerification
	}
	switch in.Subscription {
	case SubscriptionActive:
		return Active
	case SubscriptionExpired:
		return VerifiedExpired
	default:
		return VerifiedUnpaid
	}
}

// SignInAllowed сообщает, можно ли из состояния перейти к форме входа.
func SignInAllowed(s State) bool {
	return s == Unauthenticated
}

// AllowsProtected сообщает, можно ли показать защищённое содержимое.
func AllowsProtected(s State) bool {
	return s == Active
}
