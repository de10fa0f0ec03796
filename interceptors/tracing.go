package interceptors

import (
	"context"
	"fmt"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/registry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/glimte/hookable-go/interceptors"

// TracingInterceptor opens a span around every call of a method
type TracingInterceptor struct {
	tracer trace.Tracer
}

// NewTracingInterceptor creates a tracing interceptor. A nil tracer uses the
// global tracer provider.
func NewTracingInterceptor(tracer trace.Tracer) *TracingInterceptor {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &TracingInterceptor{tracer: tracer}
}

// Attach implements Interceptor
func (i *TracingInterceptor) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	return b.Method(key, func(self contracts.Instance, original contracts.Func, args []any) (any, error) {
		typ, member := typeName(self), keyName(key)

		_, span := i.tracer.Start(context.Background(), fmt.Sprintf("%s.%s", typ, member),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				attribute.String("hookable.type", typ),
				attribute.String("hookable.key", member),
				attribute.Int("hookable.args", len(args)),
			),
		)

		result, err := original(args...)
		_, async := asFuture(result)
		span.SetAttributes(attribute.Bool("hookable.async", async && err == nil))

		return settle(result, err, func(_ any, err error) {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.End()
		})
	})
}

// Name implements Interceptor
func (i *TracingInterceptor) Name() string {
	return "TracingInterceptor"
}

// Tracing attaches a TracingInterceptor to key
func Tracing(b *hooks.Builder, key contracts.Key, tracer trace.Tracer) (*registry.Registration, error) {
	return NewTracingInterceptor(tracer).Attach(b, key)
}
