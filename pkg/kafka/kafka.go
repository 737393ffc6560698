// Package kafka — обёртка над kafka-go для публикации операционных событий
// координатора. Producer добавляет в каждое сообщение headers трассировки,
// чтобы crash report можно было связать с конкретной сагой в Jaeger.
package kafka

import (
	"context"

	"example.com/saga-coordinator/pkg/logger"
)

// Топики координатора.
const (
	// TopicCrashReports - топик для отчётов о внутренних ошибках саг.
	// Каждый ответ 500 публикуется сюда для операторского канала.
	TopicCrashReports = "saga.crash-reports"
)

// Ключи для headers сообщений Kafka.
const (
	// HeaderTraceID - идентификатор трассировки для distributed tracing.
	HeaderTraceID = "trace_id"

	// HeaderCorrelationID - идентификатор корреляции, связывает отчёт с сагой.
	HeaderCorrelationID = "correlation_id"

	// HeaderTimestamp - временная метка создания сообщения.
	HeaderTimestamp = "timestamp"
)

// Config содержит настройки для подключения к Kafka.
type Config struct {
	// Brokers - список адресов брокеров Kafka.
	Brokers []string
}

// TraceIDFromContext извлекает trace_id из context.
// Делегирует в pkg/logger для единообразной работы с контекстом.
func TraceIDFromContext(ctx context.Context) string {
	return logger.TraceIDFromContext(ctx)
}

// CorrelationIDFromContext извлекает correlation_id из context.
// Делегирует в pkg/logger для единообразной работы с контекстом.
func CorrelationIDFromContext(ctx context.Context) string {
	return logger.CorrelationIDFromContext(ctx)
}
