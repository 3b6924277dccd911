package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	ReservationsCreated    *prometheus.CounterVec
	ReservationTransitions *prometheus.CounterVec
	BookingRejections      *prometheus.CounterVec
	RefundAmountRequested  prometheus.Counter
	ExpiredHoldsCancelled  prometheus.Counter
	OccupancyCorrections   prometheus.Counter
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_open_connections", Help: "Open connections", ConstLabels: labels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_in_use_connections", Help: "Connections in use", ConstLabels: labels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_idle_connections", Help: "Idle connections", ConstLabels: labels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_wait_count", Help: "Total connections waited for", ConstLabels: labels,
		}),

		ReservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Reservations created by payment method",
			ConstLabels: labels,
		}, []string{"payment_method"}),
		ReservationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_transitions_total",
			Help:        "Reservation lifecycle transitions by action",
			ConstLabels: labels,
		}, []string{"action"}),
		BookingRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_rejections_total",
			Help:        "Rejected booking attempts by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		RefundAmountRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "refund_amount_requested_total",
			Help:        "Sum of refund amounts computed at cancellation",
			ConstLabels: labels,
		}),
		ExpiredHoldsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "expired_holds_cancelled_total",
			Help:        "On-hold reservations cancelled after hold expiry",
			ConstLabels: labels,
		}),
		OccupancyCorrections: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "occupancy_corrections_total",
			Help:        "Space status or slot counter corrections made by reconciliation",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.ReservationsCreated,
		m.ReservationTransitions,
		m.BookingRejections,
		m.RefundAmountRequested,
		m.ExpiredHoldsCancelled,
		m.OccupancyCorrections,
	)

	return m
}
