// Package metrics exposes Prometheus collectors for checkout, discount codes and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "minishop"

// Outcome labels for checkouts that did not fail with a domain error code.
const (
	OutcomeSuccess  = "success"
	OutcomeInternal = "internal_error"
)

// Metrics records store activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	checkouts       *prometheus.CounterVec
	checkoutSeconds prometheus.Histogram
	codesMinted     *prometheus.CounterVec
	codesConsumed   prometheus.Counter
	mintExhausted   prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpSeconds     *prometheus.HistogramVec
	gatherer        prometheus.Gatherer
}

// New registers the store collectors on reg. A nil registry yields a no-op recorder.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		checkoutSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_duration_seconds",
			Help:      "Duration of checkout transactions in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		codesMinted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_codes_minted_total",
			Help:      "Discount codes minted by scope.",
		}, []string{"scope"}),
		codesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_codes_consumed_total",
			Help:      "Discount codes consumed by committed checkouts.",
		}),
		mintExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_code_mint_exhausted_total",
			Help:      "Mint attempts that ran out of unique candidates.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.checkouts,
		m.checkoutSeconds,
		m.codesMinted,
		m.codesConsumed,
		m.mintExhausted,
		m.httpRequests,
		m.httpSeconds,
	)

	return m
}

// ObserveCheckout records a finished checkout with its outcome label.
func (m *Metrics) ObserveCheckout(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.checkoutSeconds.Observe(duration.Seconds())
}

// IncCodeMinted counts a minted code. global selects the scope label.
func (m *Metrics) IncCodeMinted(global bool) {
	if m == nil {
		return
	}
	scope := "user"
	if global {
		scope = "global"
	}
	m.codesMinted.WithLabelValues(scope).Inc()
}

// IncCodeConsumed counts a code spent by a committed checkout.
func (m *Metrics) IncCodeConsumed() {
	if m == nil {
		return
	}
	m.codesConsumed.Inc()
}

// IncMintExhausted counts a mint that gave up after its attempt budget.
func (m *Metrics) IncMintExhausted() {
	if m == nil {
		return
	}
	m.mintExhausted.Inc()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	route = normalizeLabel(route)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
