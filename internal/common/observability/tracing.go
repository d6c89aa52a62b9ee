package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps the OpenTelemetry tracer provider with a Jaeger exporter.
type Tracing struct {
	provider *tracesdk.TracerProvider
	tracer   trace.Tracer
}

// NewTracing sets up a Jaeger-backed tracer provider. An empty endpoint
// returns a no-op Tracing so callers never branch on tracing being enabled.
func NewTracing(serviceName, jaegerEndpoint string) (*Tracing, error) {
	if jaegerEndpoint == "" {
		return &Tracing{tracer: otel.Tracer(serviceName)}, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
	}

	provider := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)
	otel.SetTracerProvider(provider)

	return &Tracing{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
	}, nil
}

// StartJobSpan starts a span for a worker job execution.
func (t *Tracing) StartJobSpan(ctx context.Context, taskType string, jobKey int64) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, taskType, trace.WithAttributes(
		attribute.String("worker.task_type", taskType),
		attribute.Int64("worker.job_key", jobKey),
	))
}

func (t *Tracing) Shutdown() {
	if t.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		t.provider.Shutdown(ctx)
	}
}
