// Package metrics exposes Prometheus collectors for the licensing service.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without a registry in tests and CLI commands.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brolli"

// Metrics holds every collector the service records into
type Metrics struct {
	registry *prometheus.Registry

	vouchersIssued  *prometheus.CounterVec
	vouchersFailed  *prometheus.CounterVec
	classifications *prometheus.CounterVec
	riskActions     *prometheus.CounterVec
	chatReplies     *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates the collectors on a private registry, including the process
// and Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		vouchersIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vouchers_issued_total",
			Help:      "Signed mint vouchers by issuance variant.",
		}, []string{"variant"}),
		vouchersFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vouchers_failed_total",
			Help:      "Rejected voucher requests by variant and error code.",
		}, []string{"variant", "code"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "FAQ classifications by resulting topic.",
		}, []string{"topic"}),
		riskActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_assessments_total",
			Help:      "Risk assessments by resulting action.",
		}, []string{"action"}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_replies_total",
			Help:      "Chat replies by source (llm, cache, agent).",
		}, []string{"source"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.vouchersIssued,
		m.vouchersFailed,
		m.classifications,
		m.riskActions,
		m.chatReplies,
		m.httpDuration,
	)
	return m
}

// Registry returns the underlying registry for gathering in tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) VoucherIssued(variant string, n int) {
	if m == nil {
		return
	}
	m.vouchersIssued.WithLabelValues(variant).Add(float64(n))
}

func (m *Metrics) VoucherFailed(variant, code string) {
	if m == nil {
		return
	}
	m.vouchersFailed.WithLabelValues(variant, code).Inc()
}

func (m *Metrics) Classified(topic string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(topic).Inc()
}

func (m *Metrics) RiskAssessed(action string) {
	if m == nil {
		return
	}
	m.riskActions.WithLabelValues(action).Inc()
}

func (m *Metrics) ChatReplied(source string) {
	if m == nil {
		return
	}
	m.chatReplies.WithLabelValues(source).Inc()
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
