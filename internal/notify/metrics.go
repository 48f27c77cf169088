package notify

import "github.com/prometheus/client_golang/prometheus"

// Результаты доставки для метрики hireflow_notifications_total
const (
	ResultSent    = "sent"
	ResultRetry   = "retry"
	ResultFailed  = "failed"
	ResultOffline = "offline"
	ResultDropped = "dropped"
)

type Metrics struct {
	deliveries *prometheus.CounterVec
}

// NewMetrics регистрирует счетчики в reg; nil - без регистрации (тесты)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hireflow_notifications_total",
				Help: "Notification delivery attempts by channel and result.",
			},
			[]string{"channel", "result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.deliveries)
	}
	return m
}

func (m *Metrics) observe(channel, result string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(channel, result).Inc()
}
