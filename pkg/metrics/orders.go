package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts created orders by payment method.
type OrderMetrics struct {
	created *prometheus.CounterVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created by payment method.",
	}, []string{"payment_method"})
	reg.MustRegister(created)
	return &OrderMetrics{created: created}
}

// IncCreated increments the counter for the payment method.
func (m *OrderMetrics) IncCreated(paymentMethod string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// Counter exposes the per-method counter for assertions.
func (m *OrderMetrics) Counter(paymentMethod string) (prometheus.Counter, error) {
	return m.created.GetMetricWithLabelValues(normalizeLabel(paymentMethod))
}
