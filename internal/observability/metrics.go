package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	httpErrorsTotal        *prometheus.CounterVec
	realtimeClientsActive  prometheus.Gauge
	realtimeBroadcastsVec  *prometheus.CounterVec
	applicationsTotal      *prometheus.CounterVec
	matchComputationsTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campus_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		realtimeClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "campus_realtime_clients_active",
			Help: "Number of websocket clients currently connected.",
		})

		realtimeBroadcastsVec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_realtime_broadcasts_total",
			Help: "Realtime events published, labelled by event kind.",
		}, []string{"event"})

		applicationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_applications_total",
			Help: "Opportunity applications, labelled by outcome.",
		}, []string{"outcome"})

		matchComputationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campus_match_computations_total",
			Help: "Recommendation match scores computed.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			realtimeClientsActive,
			realtimeBroadcastsVec,
			applicationsTotal,
			matchComputationsTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// RealtimeClients exposes the connected-client gauge.
func RealtimeClients() prometheus.Gauge {
	RegisterMetrics()
	return realtimeClientsActive
}

// RealtimeBroadcasts exposes the broadcast counter.
func RealtimeBroadcasts() *prometheus.CounterVec {
	RegisterMetrics()
	return realtimeBroadcastsVec
}

// Applications exposes the application outcome counter.
func Applications() *prometheus.CounterVec {
	RegisterMetrics()
	return applicationsTotal
}

// MatchComputations exposes the recommendation scoring counter.
func MatchComputations() prometheus.Counter {
	RegisterMetrics()
	return matchComputationsTotal
}
