// Package observe sets up OpenTelemetry tracing for a probe run.
package observe

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ServiceName identifies the probe in exported spans.
const ServiceName = "cbprobe"

// Exporter names accepted by NewTracerProvider.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Tracing holds the provider for one run and flushes it on Shutdown.
type Tracing struct {
	provider trace.TracerProvider
	shutdown func(context.Context) error
}

// Tracer returns a tracer scoped to name.
func (t *Tracing) Tracer(name string) trace.Tracer {
	return t.provider.Tracer(name)
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.shutdown == nil {
		return nil
	}
	return t.shutdown(ctx)
}

// NewTracing creates tracing for the named exporter. "stdout" writes spans to w
// (stderr when nil, keeping stdout for the plugin line); "otlp" uses the standard
// OTEL_EXPORTER_OTLP_* variables; "none" or "" disables tracing.
func NewTracing(ctx context.Context, exporter string, w io.Writer, version string) (*Tracing, error) {
	var exp sdktrace.SpanExporter
	switch strings.ToLower(strings.TrimSpace(exporter)) {
	case ExporterNone, "":
		return &Tracing{provider: tracenoop.NewTracerProvider()}, nil

	case ExporterStdout:
		if w == nil {
			w = os.Stderr
		}
		e, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		exp = e

	case ExporterOTLP:
		endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		if endpoint == "" {
			endpoint = os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
		}
		if endpoint == "" {
			return nil, fmt.Errorf("OTLP endpoint not configured: set OTEL_EXPORTER_OTLP_ENDPOINT or OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
		}
		e, err := otlptracegrpc.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		exp = e

	default:
		return nil, fmt.Errorf("unknown trace exporter: %q", exporter)
	}

	res := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(version),
	)
	// Spans are exported synchronously; the process exits after one round of requests.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)
	return &Tracing{provider: tp, shutdown: tp.Shutdown}, nil
}
