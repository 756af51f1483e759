package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exposed on RouteMetrics.
type Metrics struct {
	registry       *prometheus.Registry
	httpRequests   *prometheus.CounterVec
	tokenResponses *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry so parallel
// servers (and tests) never collide on registration.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockauth_http_requests_total",
				Help: "Total number of HTTP requests by route, scheme and status",
			},
			[]string{"route", "scheme", "status"},
		),
		tokenResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockauth_token_responses_total",
				Help: "Token endpoint responses by decision outcome",
			},
			[]string{"outcome", "status"},
		),
	}
	m.registry.MustRegister(m.httpRequests, m.tokenResponses)
	return m
}

func (m *Metrics) ObserveRequest(route, scheme string, status int) {
	m.httpRequests.WithLabelValues(route, scheme, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveTokenResponse(outcome string, status int) {
	m.tokenResponses.WithLabelValues(outcome, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
