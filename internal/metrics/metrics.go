// Package metrics holds the Prometheus collectors shared by the services.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the application collectors.
type Metrics struct {
	GeocodeCacheLookups *prometheus.CounterVec
	UpstreamDuration    *prometheus.HistogramVec
	HospitalCandidates  *prometheus.CounterVec
	BillAnalyses        *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
}

// Singleton so that collectors are registered once per registry.
var (
	instance        *Metrics
	once            sync.Once
	defaultRegistry = prometheus.DefaultRegisterer
)

// Get returns the process-wide collectors, registering them on first use.
func Get() *Metrics {
	once.Do(func() {
		factory := promauto.With(defaultRegistry)
		instance = &Metrics{
			GeocodeCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "billchill_geocode_cache_lookups_total",
				Help: "Geocoding cache lookups by operation and result",
			}, []string{"operation", "result"}),
			UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "billchill_upstream_request_duration_seconds",
				Help:    "Duration of calls to external services",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 45},
			}, []string{"upstream", "outcome"}),
			HospitalCandidates: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "billchill_hospital_candidates_total",
				Help: "Model-suggested hospitals by normalization outcome",
			}, []string{"outcome"}),
			BillAnalyses: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "billchill_bill_analyses_total",
				Help: "Completed bill analyses by whether overcharges were found",
			}, []string{"overcharges_found"}),
			HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "billchill_http_requests_total",
				Help: "HTTP requests by route and status code",
			}, []string{"route", "method", "status"}),
		}
	})
	return instance
}

// ResetForTesting swaps in a fresh registry and returns it. Only for tests.
func ResetForTesting() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	defaultRegistry = reg
	instance = nil
	once = sync.Once{}
	return reg
}
