// Package tracing configures OpenTelemetry trace export and context propagation
// for the fulfillment application. Spans are exported over OTLP/HTTP and trace
// context is carried across Kafka publishes via record headers.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fulfillment"

// Config holds the settings for the OTLP trace exporter.
type Config struct {
	// ExporterURL is the host:port of the OTLP/HTTP collector endpoint.
	ExporterURL string
	// SampleRate is the trace sampling ratio in [0..1]. Child spans follow
	// their parent's sampling decision.
	SampleRate float64
	// ServiceName identifies this service in exported traces.
	ServiceName string
	// Environment tags spans with the deployment environment (e.g. "dev", "prod").
	Environment string
}

// InitTracer configures the global OpenTelemetry tracer provider with an
// OTLP/HTTP exporter and parent-based ratio sampling.
//
// The returned shutdown function flushes pending spans and must be called
// before process exit.
func InitTracer(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	client := otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(cfg.ExporterURL),
		otlptracehttp.WithInsecure(),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		)),
	)

	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// StartSpan starts a span named after the given operation using the global
// tracer provider. The caller must end the returned span.
func StartSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, operation)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}
