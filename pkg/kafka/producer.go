package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/saga-coordinator/pkg/logger"
)

// Producer отправляет операционные события координатора в Kafka.
// Публикация асинхронная: crash report пишется в момент ответа 500
// и не должен задерживать ответ пользователю из-за медленного брокера.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer создаёт Producer для отправки сообщений в Kafka.
func NewProducer(cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("не указаны брокеры Kafka")
	}

	writer := &kafka.Writer{
		Addr: kafka.TCP(cfg.Brokers...),
		// Ключ сообщения — маршрут саги: отчёты одного маршрута
		// попадают в одну партицию и читаются по порядку
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion:   logDeliveryErrors,
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Msg("Создан Kafka Producer")

	return &Producer{writer: writer}, nil
}

// logDeliveryErrors фиксирует недоставленные асинхронные сообщения.
func logDeliveryErrors(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, msg := range messages {
		logger.Error().
			Err(err).
			Str("topic", msg.Topic).
			Str("key", string(msg.Key)).
			Msg("Сообщение не доставлено в Kafka")
	}
}

// Send отправляет сообщение в указанный топик.
// Headers trace_id, correlation_id и timestamp добавляются из context.
func (p *Producer) Send(ctx context.Context, topic string, key, value []byte) error {
	return p.SendWithHeaders(ctx, topic, key, value, nil)
}

// SendWithHeaders отправляет сообщение с дополнительными headers.
// Стандартные headers (trace_id, correlation_id, timestamp) добавляются
// всегда. Возврат без ошибки означает постановку в очередь producer,
// доставку подтверждает Completion callback.
func (p *Producer) SendWithHeaders(ctx context.Context, topic string, key, value []byte, extraHeaders map[string]string) error {
	msg := kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Headers: buildHeaders(ctx, extraHeaders),
		Time:    time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error().
			Err(err).
			Str("topic", topic).
			Str("key", string(key)).
			Str("trace_id", TraceIDFromContext(ctx)).
			Msg("Ошибка отправки сообщения в Kafka")
		return fmt.Errorf("ошибка отправки в Kafka: %w", err)
	}

	logger.Debug().
		Str("topic", topic).
		Str("key", string(key)).
		Str("correlation_id", CorrelationIDFromContext(ctx)).
		Msg("Сообщение поставлено в очередь Kafka")

	return nil
}

// buildHeaders собирает headers сообщения из context и дополнительных параметров.
func buildHeaders(ctx context.Context, extra map[string]string) []kafka.Header {
	headers := make([]kafka.Header, 0, 3+len(extra))

	if traceID := TraceIDFromContext(ctx); traceID != "" {
		headers = append(headers, kafka.Header{Key: HeaderTraceID, Value: []byte(traceID)})
	}

	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		headers = append(headers, kafka.Header{Key: HeaderCorrelationID, Value: []byte(correlationID)})
	}

	headers = append(headers, kafka.Header{
		Key:   HeaderTimestamp,
		Value: []byte(time.Now().UTC().Format(time.RFC3339Nano)),
	})

	for k, v := range extra {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	return headers
}

// Close сбрасывает очередь producer и закрывает соединение с Kafka.
func (p *Producer) Close() error {
	logger.Info().Msg("Закрытие Kafka Producer")

	if err := p.writer.Close(); err != nil {
		logger.Error().Err(err).Msg("Ошибка при закрытии Kafka Producer")
		return fmt.Errorf("ошибка закрытия producer: %w", err)
	}

	return nil
}
