// Package middleware содержит HTTP middleware координатора саг.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/pkg/logger"
)

// HTTP заголовки трассировки. Correlation id использует имя заголовка
// платформы: то же значение уезжает в каждый downstream вызов саги,
// по нему сшиваются логи всех сервисов, задетых одной транзакцией.
const (
	HeaderTraceID       = "X-Trace-ID"
	HeaderRequestID     = "X-Request-ID" // Алиас для Trace ID
	HeaderCorrelationID = domain.HeaderCorrelationID
)

// Health probes опрашивают координатор каждые несколько секунд
// и в access log не попадают.
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/healthz": {},
	"/readyz":  {},
}

// TracingMiddleware проставляет trace_id и correlation_id запроса.
// Отсутствующие ID генерируются заново.
type TracingMiddleware struct{}

// NewTracingMiddleware создаёт middleware трассировки.
func NewTracingMiddleware() *TracingMiddleware {
	return &TracingMiddleware{}
}

// Handle возвращает Gin handler function для middleware.
func (m *TracingMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Извлекаем или генерируем trace_id
		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = c.GetHeader(HeaderRequestID)
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}

		// Извлекаем или генерируем correlation_id
		correlationID := c.GetHeader(HeaderCorrelationID)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		// Добавляем ID в контекст запроса (используем pkg/logger для единообразия)
		ctx := logger.NewContextWithIDs(c.Request.Context(), traceID, correlationID)
		c.Request = c.Request.WithContext(ctx)

		// Устанавливаем заголовки в ответ для клиента
		c.Header(HeaderTraceID, traceID)
		c.Header(HeaderCorrelationID, correlationID)

		// Сохраняем в Gin context для удобства
		c.Set("trace_id", traceID)
		c.Set("correlation_id", correlationID)

		_, quiet := quietPaths[c.Request.URL.Path]

		log := logger.FromContext(ctx)
		if !quiet {
			log.Info().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP()).
				Msg("Входящий запрос")
		}

		// Обрабатываем запрос
		c.Next()

		if quiet {
			return
		}

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		logEvent := log.Info()
		if statusCode >= 400 {
			logEvent = log.Warn()
		}
		if statusCode >= 500 {
			logEvent = log.Error()
		}

		logEvent.
			Int("status", statusCode).
			Dur("duration", duration).
			Msg("Запрос завершён")
	}
}
