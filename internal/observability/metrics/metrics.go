package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the appointment wizard.
type BookingMetrics struct {
	reservasTotal     *prometheus.CounterVec
	pagosTotal        *prometheus.CounterVec
	recuperacionTotal *prometheus.CounterVec
	upstreamLatency   *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		reservasTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "praxia",
			Subsystem: "citas",
			Name:      "reservas_total",
			Help:      "Total reservation attempts",
		}, []string{"status"}),
		pagosTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "praxia",
			Subsystem: "citas",
			Name:      "pagos_total",
			Help:      "Total payment attempts",
		}, []string{"metodo", "status"}),
		recuperacionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "praxia",
			Subsystem: "citas",
			Name:      "recuperaciones_total",
			Help:      "Total pending-session recovery attempts",
		}, []string{"status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "praxia",
			Subsystem: "citas",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of upstream clinical API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reservasTotal, m.pagosTotal, m.recuperacionTotal, m.upstreamLatency)
	return m
}

func (m *BookingMetrics) ObserveReserva(status string) {
	if m == nil {
		return
	}
	m.reservasTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObservePago(metodo, status string) {
	if m == nil {
		return
	}
	m.pagosTotal.WithLabelValues(metodo, status).Inc()
}

func (m *BookingMetrics) ObserveRecuperacion(status string) {
	if m == nil {
		return
	}
	m.recuperacionTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveUpstreamLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(endpoint).Observe(seconds)
}
