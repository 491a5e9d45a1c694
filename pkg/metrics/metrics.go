package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллекторы prometheus для сервиса
type Metrics struct {
	// HTTP метрики
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Метрики базы данных
	DBQueriesTotal    *prometheus.CounterVec
	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBIdleConnections *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	// Метрики планировщика завершения записей
	SchedulerArmedJobs        *prometheus.GaugeVec
	SchedulerCompletionsTotal *prometheus.CounterVec
}

// New создает и регистрирует коллекторы метрик
// serviceName добавляется в качестве значения лейбла service
func New(serviceName string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"service", "operation"}),

		DBOpenConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of open database connections",
		}, []string{"service"}),

		DBIdleConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle database connections",
		}, []string{"service"}),

		DBWaitCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		SchedulerArmedJobs: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scheduler_armed_jobs",
			Help: "Number of currently armed completion jobs",
		}, []string{"service"}),

		SchedulerCompletionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_completions_total",
			Help: "Total number of fired completion jobs by result",
		}, []string{"service", "result"}),
	}

	// Инициализируем нулевые значения, чтобы серии появились сразу
	m.DBOpenConnections.WithLabelValues(serviceName).Set(0)
	m.DBIdleConnections.WithLabelValues(serviceName).Set(0)
	m.SchedulerArmedJobs.WithLabelValues(serviceName).Set(0)

	return m
}
