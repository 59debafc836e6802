package payment

import "net/url"

// Параметры адреса возврата со шлюза.
const (
	OrderParam   = "orden"
	OutcomeParam = "estado"
	// PaidCode — единственный код успешной оплаты.
	PaidCode = "pagado"
)

// Outcome — итог возврата со шлюза.
type Outcome string

const (
	OutcomePaid   Outcome = "paid"
	OutcomeFailed Outcome = "failed"
	// OutcomeBroken — в возврате нет orden или estado: оборван обмен, а не отклонён платёж.
	OutcomeBroken Outcome = "broken"
)

// Result — разобранный возврат.
type Result struct {
	OrderID string
	Outcome Outcome
}

// Resolve разбирает параметры адреса возврата. Функция читает только query
// и не зависит от состояния, пережившего переход на шлюз.
func Resolve(query url.Values) Result {
	order := query.Get(OrderParam)
	code := query.Get(OutcomeParam)
	if order == "" || code == "" {
		return Result{OrderID: order, Outcome: OutcomeBroken}
	}
	if code == PaidCode {
		return Result{OrderID: order, Outcome: OutcomePaid}
	}
	return Result{OrderID: order, Outcome: OutcomeFailed}
}
