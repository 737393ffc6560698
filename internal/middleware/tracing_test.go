package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"example.com/saga-coordinator/pkg/logger"
)

// traceRequest прогоняет запрос через middleware трассировки.
func traceRequest(path string, headers map[string]string) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}

	NewTracingMiddleware().Handle()(c)
	return w, c
}

func TestTracingMiddleware_GeneratesTraceID(t *testing.T) {
	// Без X-Trace-ID в запросе — должен сгенерироваться
	w, c := traceRequest("/create_account", nil)

	traceID := w.Header().Get(HeaderTraceID)
	assert.NotEmpty(t, traceID, "X-Trace-ID должен быть в ответе")

	_, err := uuid.Parse(traceID)
	assert.NoError(t, err, "trace_id должен быть валидным UUID")

	ctxTraceID, exists := c.Get("trace_id")
	assert.True(t, exists, "trace_id должен быть в контексте")
	assert.Equal(t, traceID, ctxTraceID)
}

func TestTracingMiddleware_UsesExistingTraceID(t *testing.T) {
	existingTraceID := "existing-trace-id-12345"

	w, c := traceRequest("/create_account", map[string]string{
		HeaderTraceID: existingTraceID,
	})

	assert.Equal(t, existingTraceID, w.Header().Get(HeaderTraceID))

	ctxTraceID, _ := c.Get("trace_id")
	assert.Equal(t, existingTraceID, ctxTraceID)
}

func TestTracingMiddleware_UsesRequestIDAsTraceID(t *testing.T) {
	requestID := "request-id-from-client"

	// X-Request-ID как альтернатива X-Trace-ID
	w, _ := traceRequest("/create_account", map[string]string{
		HeaderRequestID: requestID,
	})

	assert.Equal(t, requestID, w.Header().Get(HeaderTraceID))
}

func TestTracingMiddleware_GeneratesCorrelationID(t *testing.T) {
	w, c := traceRequest("/create_account", nil)

	correlationID := w.Header().Get(HeaderCorrelationID)
	assert.NotEmpty(t, correlationID, "X-Correlation-ID должен быть в ответе")

	_, err := uuid.Parse(correlationID)
	assert.NoError(t, err, "correlation_id должен быть валидным UUID")

	ctxCorrelationID, exists := c.Get("correlation_id")
	assert.True(t, exists)
	assert.Equal(t, correlationID, ctxCorrelationID)
}

func TestTracingMiddleware_UsesExistingCorrelationID(t *testing.T) {
	// Платформа передаёт correlation id сквозь все сервисы транзакции
	existingCorrelationID := "existing-correlation-id"

	w, _ := traceRequest("/create_account", map[string]string{
		HeaderCorrelationID: existingCorrelationID,
	})

	assert.Equal(t, existingCorrelationID, w.Header().Get(HeaderCorrelationID))
}

func TestTracingMiddleware_PropagatesIDsToContext(t *testing.T) {
	// ID из контекста запроса дальше снимают клиенты downstream вызовов
	_, c := traceRequest("/create_order", map[string]string{
		HeaderTraceID:       "trace-1",
		HeaderCorrelationID: "corr-1",
	})

	ctx := c.Request.Context()
	assert.Equal(t, "trace-1", logger.TraceIDFromContext(ctx))
	assert.Equal(t, "corr-1", logger.CorrelationIDFromContext(ctx))
}

func TestTracingMiddleware_HealthProbesGetHeaders(t *testing.T) {
	// Probes не пишутся в access log, но заголовки трассировки получают
	w, _ := traceRequest("/healthz", nil)

	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
	assert.NotEmpty(t, w.Header().Get(HeaderCorrelationID))
}
