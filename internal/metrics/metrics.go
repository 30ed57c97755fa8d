// Package metrics — Prometheus-метрики comment-ranker.
// Методы безопасны на nil-получателе (метрики отключены).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Планы выполнения GetPage.
const (
	PlanStore    = "store"
	PlanFiltered = "store_filtered"
	PlanMemory   = "memory"
	PlanSession  = "session"
)

// Metrics — набор коллекторов сервиса.
type Metrics struct {
	QueriesTotal      *prometheus.CounterVec
	QueryDuration     *prometheus.HistogramVec
	StoreFailures     *prometheus.CounterVec
	SupersededResults prometheus.Counter
	SessionsActive    prometheus.Gauge

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New создаёт и регистрирует метрики в reg (nil — prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)

	return &Metrics{
		QueriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comment_ranker_queries_total",
				Help: "Total number of page queries by execution plan",
			},
			[]string{"plan"},
		),
		QueryDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "comment_ranker_query_duration_seconds",
				Help:    "Duration of page queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"plan"},
		),
		StoreFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comment_ranker_store_failures_total",
				Help: "Total number of persisted store failures by operation",
			},
			[]string{"op"},
		),
		SupersededResults: f.NewCounter(
			prometheus.CounterOpts{
				Name: "comment_ranker_superseded_results_total",
				Help: "Total number of query results discarded because a newer query started",
			},
		),
		SessionsActive: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "comment_ranker_sessions_active",
				Help: "Number of open viewing sessions",
			},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comment_ranker_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "comment_ranker_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// ObserveQuery учитывает выполненный запрос страницы.
func (m *Metrics) ObserveQuery(plan string, started time.Time) {
	if m == nil {
		return
	}

	m.QueriesTotal.WithLabelValues(plan).Inc()
	m.QueryDuration.WithLabelValues(plan).Observe(time.Since(started).Seconds())
}

// StoreFailed учитывает ошибку хранилища.
func (m *Metrics) StoreFailed(op string) {
	if m == nil {
		return
	}

	m.StoreFailures.WithLabelValues(op).Inc()
}

// Superseded учитывает отброшенный устаревший результат.
func (m *Metrics) Superseded() {
	if m == nil {
		return
	}

	m.SupersededResults.Inc()
}

// SessionOpened/SessionClosed ведут число открытых сессий.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}

	m.SessionsActive.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}

	m.SessionsActive.Dec()
}

// ObserveHTTP учитывает HTTP-запрос (route — шаблон chi, а не сырой путь).
func (m *Metrics) ObserveHTTP(method, route string, status int, started time.Time) {
	if m == nil {
		return
	}

	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(started).Seconds())
}
