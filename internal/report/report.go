// Package report публикует записи о фатальных ошибках координатора.
//
// Каждый ответ 500 порождает структурированную запись: в error-лог
// всегда, в Kafka-топик — когда публикация включена в конфигурации.
// Записи читает дежурная смена платформы.
package report

import (
	"context"
	"encoding/json"
	"time"

	"example.com/saga-coordinator/internal/config"
	"example.com/saga-coordinator/pkg/kafka"
	"example.com/saga-coordinator/pkg/logger"
)

// CrashRecord — запись о фатальной ошибке обработчика.
type CrashRecord struct {
	Service       string    `json:"service"`
	Method        string    `json:"method"`
	Path          string    `json:"path"`
	Status        int       `json:"status"`
	Kind          string    `json:"kind"`
	Message       string    `json:"message"`
	TraceID       string    `json:"trace_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Sink публикует записи о фатальных ошибках.
type Sink struct {
	producer *kafka.Producer
	topic    string
	service  string
}

// NewSink создаёт sink поверх продюсера. Продюсер может быть nil,
// тогда записи уходят только в лог.
func NewSink(producer *kafka.Producer, cfg config.CrashReportConfig, service string) *Sink {
	return &Sink{producer: producer, topic: cfg.Topic, service: service}
}

// Publish фиксирует запись о фатальной ошибке. Пустые trace id,
// correlation id и время дозаполняются из контекста. Ошибки самой
// публикации логируются и наружу не выходят.
func (s *Sink) Publish(ctx context.Context, rec CrashRecord) {
	log := logger.FromContext(ctx)

	rec.Service = s.service
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.TraceID == "" {
		rec.TraceID = logger.TraceIDFromContext(ctx)
	}
	if rec.CorrelationID == "" {
		rec.CorrelationID = logger.CorrelationIDFromContext(ctx)
	}

	log.Error().
		Str("method", rec.Method).
		Str("path", rec.Path).
		Int("status", rec.Status).
		Str("kind", rec.Kind).
		Msg(rec.Message)

	if s.producer == nil {
		return
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		log.Error().Err(err).Msg("Запись о падении не сериализована")
		return
	}
	if err := s.producer.SendWithHeaders(ctx, s.topic, []byte(rec.Path), payload, nil); err != nil {
		log.Error().Err(err).Msg("Запись о падении не опубликована в Kafka")
	}
}
