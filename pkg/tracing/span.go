package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName — имя инструментации, видно в атрибутах span.
const tracerName = "example.com/saga-coordinator"

// StartSpan открывает child span текущего trace из контекста.
// Если tracing отключен, глобальный провайдер otel возвращает no-op
// tracer и span ничего не стоит.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}
