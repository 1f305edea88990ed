package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestNewLoggerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, logrus.InfoLevel)
	log.WithField("user_id", "u").Info("hello")
	log.Debug("dropped")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not a single JSON object: %v\n%s", err, buf.String())
	}
	for _, key := range []string{"timestamp", "severity", "message", "user_id"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("missing key %q in %v", key, entry)
		}
	}
	if entry["severity"] != "info" || entry["message"] != "hello" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestProvidersWithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	tp, err := InitTracerProvider(ctx, "")
	if err != nil {
		t.Fatalf("InitTracerProvider: %v", err)
	}
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })
	if otel.GetTracerProvider() != tp {
		t.Error("tracer provider was not installed globally")
	}
	_, span := otel.Tracer("test").Start(ctx, "op")
	if !span.SpanContext().IsValid() {
		t.Error("spans are not recorded without an exporter")
	}
	span.End()

	mp, err := InitMeterProvider(ctx, "")
	if err != nil {
		t.Fatalf("InitMeterProvider: %v", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		t.Errorf("MeterProvider.Shutdown: %v", err)
	}
}

func TestPropagatorReadsB3(t *testing.T) {
	ctx := context.Background()
	tp, err := InitTracerProvider(ctx, "")
	if err != nil {
		t.Fatalf("InitTracerProvider: %v", err)
	}
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	carrier := propagation.MapCarrier{
		"x-b3-traceid": "80f198ee56343ba864fe8b2a57d3eff7",
		"x-b3-spanid":  "e457b5a2e4d86bd1",
		"x-b3-sampled": "1",
	}
	sc := trace.SpanContextFromContext(otel.GetTextMapPropagator().Extract(ctx, carrier))
	if got := sc.TraceID().String(); got != "80f198ee56343ba864fe8b2a57d3eff7" {
		t.Errorf("extracted trace id %q from B3 headers", got)
	}
}
