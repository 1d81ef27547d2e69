package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	compiledRoutes  *prometheus.CounterVec
	routeHops       prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexrouter",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dexrouter",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		compiledRoutes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexrouter",
			Name:      "compiled_routes_total",
			Help:      "Route compilations by result.",
		}, []string{"result"}),
		routeHops: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dexrouter",
			Name:      "route_hops",
			Help:      "Number of hops in successfully compiled routes.",
			Buckets:   prometheus.LinearBuckets(1, 1, 6),
		}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.compiledRoutes, m.routeHops)
	return m
}

func (m *metrics) observeRequest(method string, route string, code int, duration time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *metrics) observeCompile(result string, hops int) {
	m.compiledRoutes.WithLabelValues(result).Inc()
	if result == "ok" {
		m.routeHops.Observe(float64(hops))
	}
}
