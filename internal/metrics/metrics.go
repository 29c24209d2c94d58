// Package metrics регистрирует прикладные счётчики Prometheus.
// Сами метрики отдаются на /metrics через promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — набор прикладных счётчиков сервиса.
type Metrics struct {
	GenerationRequests *prometheus.CounterVec
	RateLimited        *prometheus.CounterVec
	WebhookEvents      *prometheus.CounterVec
}

// New регистрирует счётчики в переданном регистраторе.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GenerationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resumeai_generation_requests_total",
			Help: "Generation requests by endpoint and resolved tier.",
		}, []string{"endpoint", "tier"}),
		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resumeai_rate_limited_total",
			Help: "Requests rejected by the per-identity rate limiter.",
		}, []string{"tier"}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resumeai_webhook_events_total",
			Help: "Payment webhook events by type and outcome.",
		}, []string{"event", "outcome"}),
	}
}
