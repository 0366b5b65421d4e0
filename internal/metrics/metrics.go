package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics содержит метрики жизненного цикла сделок.
type EscrowMetrics struct {
	// Созданные сделки
	OrdersCreatedTotal       prometheus.Counter
	OrdersCreatedAmountTotal prometheus.Counter

	// Переходы статусов
	TransitionsTotal *prometheus.CounterVec

	// Суммы, прошедшие через терминальные статусы
	OrdersCompletedAmountTotal prometheus.Counter
	OrdersRefundedAmountTotal  prometheus.Counter

	// Отклонённые переходы
	TransitionErrorsTotal *prometheus.CounterVec
}

// NewEscrowMetrics создаёт и регистрирует метрики.
func NewEscrowMetrics() *EscrowMetrics {
	return &EscrowMetrics{
		OrdersCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_orders_created_total",
			Help: "Общее количество созданных сделок",
		}),
		OrdersCreatedAmountTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_orders_created_amount_total",
			Help: "Общая сумма созданных сделок",
		}),
		TransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transitions_total",
				Help: "Количество переходов статусов по рёбрам from/to",
			},
			[]string{"from", "to", "role"},
		),
		OrdersCompletedAmountTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_orders_completed_amount_total",
			Help: "Сумма, начисленная продавцам по завершённым сделкам",
		}),
		OrdersRefundedAmountTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_orders_refunded_amount_total",
			Help: "Сумма сделок, ушедших в возврат",
		}),
		TransitionErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transition_errors_total",
				Help: "Отклонённые переходы по причинам",
			},
			[]string{"reason"},
		),
	}
}

// ObserveTransition фиксирует успешный переход. Нулевой приёмник
// допустим: сервис может работать без метрик.
func (m *EscrowMetrics) ObserveTransition(from, to, role string, amount float64) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(from, to, role).Inc()
	switch to {
	case "COMPLETED":
		m.OrdersCompletedAmountTotal.Add(amount)
	case "REFUNDED":
		m.OrdersRefundedAmountTotal.Add(amount)
	}
}

// ObserveTransitionError фиксирует отклонённый переход.
func (m *EscrowMetrics) ObserveTransitionError(reason string) {
	if m == nil {
		return
	}
	m.TransitionErrorsTotal.WithLabelValues(reason).Inc()
}

// ObserveOrderCreated фиксирует создание сделки.
func (m *EscrowMetrics) ObserveOrderCreated(amount float64) {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.Inc()
	m.OrdersCreatedAmountTotal.Add(amount)
}
