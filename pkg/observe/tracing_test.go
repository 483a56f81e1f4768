package observe

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewTracing_None(t *testing.T) {
	for _, name := range []string{"", "none", "NONE"} {
		tr, err := NewTracing(context.Background(), name, nil, "test")
		if err != nil {
			t.Fatalf("NewTracing(%q) error = %v", name, err)
		}
		_, span := tr.Tracer("test").Start(context.Background(), "noop")
		if span.SpanContext().IsValid() {
			t.Errorf("NewTracing(%q) produced a recording span", name)
		}
		span.End()
		if err := tr.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	}
}

func TestNewTracing_Stdout(t *testing.T) {
	var buf bytes.Buffer
	tr, err := NewTracing(context.Background(), "stdout", &buf, "1.2.3")
	if err != nil {
		t.Fatalf("NewTracing() error = %v", err)
	}

	_, span := tr.Tracer("test").Start(context.Background(), "couchbase.get")
	span.End()
	if err := tr.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"couchbase.get", ServiceName, "1.2.3"} {
		if !strings.Contains(out, want) {
			t.Errorf("exported span missing %q:\n%s", want, out)
		}
	}
}

func TestNewTracing_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	if _, err := NewTracing(context.Background(), "otlp", nil, "test"); err == nil {
		t.Error("expected error without an OTLP endpoint")
	}
}

func TestNewTracing_Unknown(t *testing.T) {
	if _, err := NewTracing(context.Background(), "zipkin", nil, "test"); err == nil {
		t.Error("expected error for unknown exporter")
	}
}
