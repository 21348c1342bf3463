package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the hold/booking/webhook flows.
type BookingMetrics struct {
	holdsCreated  prometheus.Counter
	holdConflicts prometheus.Counter
	holdsReaped   prometheus.Counter
	webhookTotal  *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		holdsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slotbook",
			Subsystem: "holds",
			Name:      "created_total",
			Help:      "Total holds successfully created",
		}),
		holdConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slotbook",
			Subsystem: "holds",
			Name:      "conflicts_total",
			Help:      "Total hold attempts rejected by the overlap constraint",
		}),
		holdsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slotbook",
			Subsystem: "holds",
			Name:      "reaped_total",
			Help:      "Total expired holds released by the reaper",
		}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotbook",
			Subsystem: "payments",
			Name:      "webhook_total",
			Help:      "Total payment webhooks by provider and outcome",
		}, []string{"provider", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.holdsCreated, m.holdConflicts, m.holdsReaped, m.webhookTotal)
	return m
}

func (m *BookingMetrics) ObserveHoldCreated() {
	if m == nil {
		return
	}
	m.holdsCreated.Inc()
}

func (m *BookingMetrics) ObserveHoldConflict() {
	if m == nil {
		return
	}
	m.holdConflicts.Inc()
}

func (m *BookingMetrics) ObserveReaped(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.holdsReaped.Add(float64(count))
}

func (m *BookingMetrics) ObserveWebhook(provider, outcome string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(provider, outcome).Inc()
}
