// Package metrics регистрирует счётчики Prometheus для учёта квот.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics содержит счётчики решений о допуске и записанного расхода.
type Metrics struct {
	EntitlementDecisions *prometheus.CounterVec
	UsageRecorded        *prometheus.CounterVec
	CacheHits            prometheus.Counter
	CacheMisses          prometheus.Counter
}

// New регистрирует метрики в реестре reg и возвращает их.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EntitlementDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kapture_entitlement_decisions_total",
			Help: "Entitlement check decisions by action kind and outcome.",
		}, []string{"action_kind", "decision"}),
		UsageRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kapture_usage_recorded_total",
			Help: "Metered usage units recorded by action kind.",
		}, []string{"action_kind"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "kapture_usage_cache_hits_total",
			Help: "Usage reads served from the cache front.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "kapture_usage_cache_misses_total",
			Help: "Usage reads that fell back to the ledger.",
		}),
	}
}
