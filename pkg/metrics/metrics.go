package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueries       *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
	dbWaitCount     prometheus.Gauge

	transitions   *prometheus.CounterVec
	compensations *prometheus.CounterVec
	sessions      *prometheus.CounterVec
	openSessions  prometheus.Gauge
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном реестре (для тестов)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_open_connections", Help: "Open connections", ConstLabels: labels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_in_use_connections", Help: "Connections in use", ConstLabels: labels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_idle_connections", Help: "Idle connections", ConstLabels: labels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_wait_count", Help: "Total number of connections waited for", ConstLabels: labels,
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_status_transitions_total",
			Help:        "Reservation status transitions applied",
			ConstLabels: labels,
		}, []string{"from", "to"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_compensations_total",
			Help:        "Compensating cancellations issued for abandoned bookings",
			ConstLabels: labels,
		}, []string{"trigger", "outcome"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_sessions_total",
			Help:        "Booking session lifecycle events",
			ConstLabels: labels,
		}, []string{"event"}),
		openSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "booking_sessions_open", Help: "Currently open booking sessions", ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.dbQueries, m.dbQueryDuration, m.dbOpenConns, m.dbInUseConns, m.dbIdleConns, m.dbWaitCount,
		m.transitions, m.compensations, m.sessions, m.openSessions,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery реализует dbmetrics.Collector
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil && err != sql.ErrNoRows {
		status = "error"
	}
	m.dbQueries.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats реализует dbmetrics.Collector
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.dbOpenConns.Set(float64(stats.OpenConnections))
	m.dbInUseConns.Set(float64(stats.InUse))
	m.dbIdleConns.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}

// StatusTransition фиксирует переход статуса бронирования
func (m *Metrics) StatusTransition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

// Compensation фиксирует компенсирующую отмену (trigger: abandon, navigation, unload, ttl)
func (m *Metrics) Compensation(trigger string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.compensations.WithLabelValues(trigger, outcome).Inc()
}

// SessionEvent фиксирует событие сессии бронирования (opened, confirmed, abandoned, expired, detached)
func (m *Metrics) SessionEvent(event string) {
	m.sessions.WithLabelValues(event).Inc()
	switch event {
	case "opened":
		m.openSessions.Inc()
	case "confirmed", "abandoned", "expired", "detached":
		m.openSessions.Dec()
	}
}

// Recorder доменные метрики, общие для *Metrics и Nop
type Recorder interface {
	StatusTransition(from, to string)
	Compensation(trigger string, err error)
	SessionEvent(event string)
}

// Nop реализация с тем же набором методов, ничего не делающая
// Используется, когда метрики выключены в конфиге
type Nop struct{}

func (Nop) StatusTransition(string, string) {}
func (Nop) Compensation(string, error)      {}
func (Nop) SessionEvent(string)             {}
