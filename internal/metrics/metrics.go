// Package metrics holds the Prometheus collectors shared by the HTTP layer,
// the request gate and the infra configuration reader. Kept standalone to
// avoid import cycles between those packages.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	GateDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authwire_gate_decisions_total",
		Help: "Decisiones del gate SSO por proveedor",
	}, []string{"provider", "outcome"}) // outcome: forwarded|rejected|unavailable

	InfraConfigReadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authwire_infra_config_reads_total",
		Help: "Lecturas de la allow-list de infra config",
	}, []string{"result"}) // result: hit|miss|error

	ActiveProviders = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "authwire_active_providers",
		Help: "1 si la integración del proveedor está registrada",
	}, []string{"provider"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
		GateDecisionsTotal,
		InfraConfigReadsTotal,
		ActiveProviders,
	}
}

// Register registers every collector on reg (or the default registerer if nil).
// Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

// Handler expone /metrics para el gatherer dado (o el default si nil).
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func ObserveGateDecision(provider, outcome string) {
	GateDecisionsTotal.WithLabelValues(provider, outcome).Inc()
}

func ObserveInfraConfigRead(result string) {
	InfraConfigReadsTotal.WithLabelValues(result).Inc()
}

// SetActiveProviders marca con 1 los proveedores activos y con 0 el resto.
func SetActiveProviders(all, active []string) {
	on := make(map[string]bool, len(active))
	for _, p := range active {
		on[p] = true
	}
	for _, p := range all {
		v := 0.0
		if on[p] {
			v = 1
		}
		ActiveProviders.WithLabelValues(p).Set(v)
	}
}
