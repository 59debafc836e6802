// Package metrics содержит метрики prometheus фронтенда:
// решения доступа, попытки оплаты и итоги возврата со шлюза.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics хранит счётчики приложения.
type Metrics struct {
	GateDecisions   *prometheus.CounterVec
	CheckoutResults *prometheus.CounterVec
	PaymentReturns  *prometheus.CounterVec
}

// New регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "front_gate_decisions_total",
			Help: "Access gate decisions by resulting state",
		}, []string{"state"}),

		CheckoutResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "front_checkout_attempts_total",
			Help: "Checkout initiation attempts by result",
		}, []string{"result"}), // result: "handoff", "auth_required", "incomplete", "denied", "error", "already_paid"

		PaymentReturns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "front_payment_returns_total",
			Help: "Payment gateway return redirects by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveGate учитывает решение доступа.
func (m *Metrics) ObserveGate(state string) {
	if m != nil {
		m.GateDecisions.WithLabelValues(state).Inc()
	}
}

// ObserveCheckout учитывает попытку начать оплату.
func (m *Metrics) ObserveCheckout(result string) {
	if m != nil {
		m.CheckoutResults.WithLabelValues(result).Inc()
	}
}

// ObserveReturn учитывает возврат со шлюза.
func (m *Metrics) ObserveReturn(outcome string) {
	if m != nil {
		m.PaymentReturns.WithLabelValues(outcome).Inc()
	}
}
