package saga

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"example.com/saga-coordinator/pkg/logger"
	"example.com/saga-coordinator/pkg/metrics"
)

// Исходы саг для метрик.
const (
	resultSuccess    = "success"
	resultRolledBack = "rolled_back"
)

// Compensator выполняет компенсирующий запрос для одного начатого шага.
// Реализация у каждой саги своя: по Stage маркера выбирается удаляющий
// вызов, по Key — его цель.
type Compensator interface {
	Compensate(ctx context.Context, m Marker) error
}

// Rollback проигрывает журнал в обратном порядке добавления и
// компенсирует каждый начатый шаг. Маркеры Complete пропускаются:
// факта начала достаточно, чтобы шаг потребовал компенсации, а успел
// ли нижестоящий сервис применить запись, выясняет сам удаляющий вызов.
// Ошибки компенсаций логируются и не прерывают откат, хвост журнала
// отрабатывается до конца. Каждая компенсация видна в span саги
// отдельным событием.
func Rollback(ctx context.Context, oplog *OperationLog, sagaName string, comp Compensator) {
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)
	entries := oplog.Snapshot()

	for i := len(entries) - 1; i >= 0; i-- {
		m := entries[i]
		if m.Phase != PhaseStart {
			continue
		}

		metrics.RecordCompensation(sagaName, string(m.Stage))

		if err := comp.Compensate(ctx, m); err != nil {
			span.AddEvent("compensation_failed", trace.WithAttributes(
				attribute.String("stage", string(m.Stage)),
				attribute.String("key", m.Key),
			))
			log.Error().Err(err).
				Str("saga", sagaName).
				Str("stage", string(m.Stage)).
				Str("key", m.Key).
				Msg("Компенсация шага не удалась")
			continue
		}

		span.AddEvent("step_compensated", trace.WithAttributes(
			attribute.String("stage", string(m.Stage)),
			attribute.String("key", m.Key),
		))
		log.Info().
			Str("saga", sagaName).
			Str("stage", string(m.Stage)).
			Str("key", m.Key).
			Msg("Шаг саги компенсирован")
	}
}
