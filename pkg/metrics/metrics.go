package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллектор Prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration     *prometheus.HistogramVec
	DBQueryErrors       *prometheus.CounterVec
	DBOpenConnections   prometheus.Gauge
	DBInUseConnections  prometheus.Gauge
	DBIdleConnections   prometheus.Gauge
	DBWaitCount         prometheus.Gauge
	DBTxRetries         prometheus.Counter

	// Бизнес-метрики
	AppointmentTransitions *prometheus.CounterVec
	CapacityDenied         *prometheus.CounterVec
	RefundRequestsCreated  prometheus.Counter
	SideEffectFailures     *prometheus.CounterVec
	RemindersSent          prometheus.Counter
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики с указанным registerer (в тестах - отдельный registry)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open database connections",
			ConstLabels: constLabels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Database connections in use",
			ConstLabels: constLabels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle database connections",
			ConstLabels: constLabels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),
		DBTxRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "db_tx_retries_total",
			Help:        "Serializable transactions retried after a conflict",
			ConstLabels: constLabels,
		}),

		AppointmentTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_transitions_total",
			Help:        "Appointment lifecycle transitions",
			ConstLabels: constLabels,
		}, []string{"action"}),
		CapacityDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "capacity_denied_total",
			Help:        "Admissions rejected because a block was full",
			ConstLabels: constLabels,
		}, []string{"stage"}),
		RefundRequestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "refund_requests_created_total",
			Help:        "Refund requests spawned by cancellations",
			ConstLabels: constLabels,
		}),
		SideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "side_effect_failures_total",
			Help:        "Best-effort side effects (notify, audit) that failed",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "appointment_reminders_sent_total",
			Help:        "Appointment reminders dispatched",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBTxRetries,
		m.AppointmentTransitions,
		m.CapacityDenied,
		m.RefundRequestsCreated,
		m.SideEffectFailures,
		m.RemindersSent,
	)

	return m
}

// Методы ниже безопасны для nil-получателя: метрики могут быть выключены в конфиге

// IncTransition учитывает переход жизненного цикла записи
func (m *Metrics) IncTransition(action string) {
	if m == nil {
		return
	}
	m.AppointmentTransitions.WithLabelValues(action).Inc()
}

// IncCapacityDenied учитывает отказ по вместимости
func (m *Metrics) IncCapacityDenied(stage string) {
	if m == nil {
		return
	}
	m.CapacityDenied.WithLabelValues(stage).Inc()
}

// IncRefundRequest учитывает созданную заявку на возврат
func (m *Metrics) IncRefundRequest() {
	if m == nil {
		return
	}
	m.RefundRequestsCreated.Inc()
}

// IncSideEffectFailure учитывает сбой побочного эффекта
func (m *Metrics) IncSideEffectFailure(kind string) {
	if m == nil {
		return
	}
	m.SideEffectFailures.WithLabelValues(kind).Inc()
}

// IncReminderSent учитывает отправленное напоминание
func (m *Metrics) IncReminderSent() {
	if m == nil {
		return
	}
	m.RemindersSent.Inc()
}

// IncTxRetry учитывает повтор транзакции
func (m *Metrics) IncTxRetry() {
	if m == nil {
		return
	}
	m.DBTxRetries.Inc()
}
