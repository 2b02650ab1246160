// Package metrics provides Prometheus instrumentation for the storefront.
//
// Wire it up once in the router:
//
//	r.Use(MetricsMiddleware)
//	r.Handle("/metrics", metrics.Handler())
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks HTTP request latency by method, route and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// CacheHits / CacheMisses track cart cache effectiveness.
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cart cache hits.",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cart cache misses.",
	})

	// UpstreamFailures counts failed calls to the generative-language API,
	// kept separate from input errors so they can be alerted on.
	UpstreamFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "assistant",
		Name:      "upstream_failures_total",
		Help:      "Total failed calls to the generative-language API.",
	})

	// ChatRequests counts chat relay calls by outcome.
	ChatRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "assistant",
		Name:      "chat_requests_total",
		Help:      "Total chat requests by outcome.",
	}, []string{"outcome"}) // "ok" | "invalid" | "upstream_error"
)

// Registry is the Prometheus registry used by the storefront.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	Registry.MustRegister(
		RequestDuration,
		RequestTotal,
		CacheHits,
		CacheMisses,
		UpstreamFailures,
		ChatRequests,
	)
}

// Handler serves the /metrics endpoint for Prometheus scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
