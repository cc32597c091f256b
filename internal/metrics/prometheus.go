package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "transit"

// Prometheus holds the collectors of the service.
type Prometheus struct {
	Classifications    *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Verdicts produced by label and model.",
			}, []string{"label", "model"}),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Rejected records by offending field.",
			}, []string{"field"}),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of the http requests by route.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
	}
}

// Collectors returns all collectors for registration.
func (p Prometheus) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.Classifications,
		p.ValidationFailures,
		p.RequestDuration,
	}
}
