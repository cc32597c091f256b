package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drakos74/free-transit/internal/model"
)

// Observer is the global metrics recorder of the service.
var Observer = &Metrics{
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.Collectors()...)
}

// Metrics records the service events.
type Metrics struct {
	prometheus Prometheus
}

// Classified counts a verdict.
func (m *Metrics) Classified(v model.Verdict) {
	m.prometheus.Classifications.WithLabelValues(v.Label.String(), v.ModelUsed).Inc()
}

// Rejected counts the fields that failed the validation of a record.
func (m *Metrics) Rejected(fields ...model.Field) {
	for _, f := range fields {
		m.prometheus.ValidationFailures.WithLabelValues(string(f)).Inc()
	}
}

// Observe records the duration of a request since the given start.
func (m *Metrics) Observe(route string, start time.Time) {
	m.prometheus.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// Handler exposes the metrics in the prometheus format.
func Handler() http.Handler {
	return promhttp.Handler()
}
