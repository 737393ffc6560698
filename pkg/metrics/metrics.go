// Package metrics — Prometheus метрики координатора и HTTP server для /metrics.
//
// Базовые метрики (requests_total, request_duration_seconds) пишутся gin
// middleware. Сверх них координатор считает исходы саг и выполненные
// компенсации — это главные операционные сигналы оркестратора.
//
// Использование:
//
//	go metrics.NewServer(":9090", "saga-coordinator").Start()
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/saga-coordinator/pkg/logger"
)

var (
	// RequestsTotal — счётчик входящих запросов.
	// PromQL: rate(requests_total{service="saga-coordinator"}[5m])
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_total",
			Help: "Общее количество запросов по сервису, методу и статусу",
		},
		[]string{"service", "method", "status"},
	)

	// RequestDuration — гистограмма latency запросов.
	// PromQL: histogram_quantile(0.95, rate(request_duration_seconds_bucket[5m]))
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "request_duration_seconds",
			Help: "Время выполнения запроса в секундах",
			// Сага — это цепочка сетевых вызовов, поэтому хвост длиннее
			// обычного API: от 5ms до 10s.
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method"},
	)

	// SagasTotal — исходы саг: result = "success" | "rolled_back".
	SagasTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sagas_total",
			Help: "Количество выполненных саг по имени и результату",
		},
		[]string{"saga", "result"},
	)

	// CompensationsTotal — выполненные компенсации по саге и стадии.
	// Рост этой метрики означает, что downstream сервисы стали падать
	// посреди саг.
	CompensationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compensations_total",
			Help: "Количество выполненных компенсирующих вызовов по саге и стадии",
		},
		[]string{"saga", "stage"},
	)
)

// ReadinessChecker — проверка готовности сервиса для /readyz.
type ReadinessChecker func(ctx context.Context) error

// Server — HTTP сервер для экспорта метрик.
type Server struct {
	httpServer     *http.Server
	service        string
	readinessCheck ReadinessChecker
}

// Option — функциональная опция Server.
type Option func(*Server)

// WithReadinessCheck добавляет проверку готовности для /readyz.
// Если checker возвращает ошибку — /readyz отвечает 503.
func WithReadinessCheck(checker ReadinessChecker) Option {
	return func(s *Server) {
		s.readinessCheck = checker
	}
}

// NewServer создаёт metrics server на отдельном порту.
func NewServer(addr, service string, opts ...Option) *Server {
	s := &Server{
		service: service,
	}

	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()

	// /metrics — сюда приходит Prometheus за метриками.
	mux.Handle("/metrics", promhttp.Handler())

	// /health — простой health check, оставлен для совместимости.
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// /healthz — liveness probe.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"alive"}`))
	})

	// /readyz — readiness probe.
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if s.readinessCheck == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ready"}`))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.readinessCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			// Детали ошибки наружу не отдаём.
			_, _ = w.Write([]byte(`{"status":"not_ready"}`))
			logger.Warn().Err(err).Str("service", service).Msg("Readiness check failed")
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Start запускает сервер. Блокирующий вызов — запускать в горутине.
func (s *Server) Start() error {
	log := logger.With().Str("service", s.service).Logger()
	log.Info().Str("addr", s.httpServer.Addr).Msg("Запуск Metrics Server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully останавливает сервер.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// RecordRequest записывает метрики одного запроса.
func RecordRequest(service, method, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(service, method, status).Inc()
	RequestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordSaga записывает исход саги.
func RecordSaga(saga, result string) {
	SagasTotal.WithLabelValues(saga, result).Inc()
}

// RecordCompensation записывает выполненную компенсацию.
func RecordCompensation(saga, stage string) {
	CompensationsTotal.WithLabelValues(saga, stage).Inc()
}

// GinMetricsMiddleware собирает HTTP метрики для каждого запроса роутера.
func GinMetricsMiddleware(service string) func(c *gin.Context) {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := "success"
		if c.Writer.Status() >= 400 {
			status = "error"
		}

		RecordRequest(service, c.FullPath(), status, time.Since(start))
	}
}
