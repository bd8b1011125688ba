package apm

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestTracerStart(t *testing.T) {
	rec := withSpanRecorder(t)

	tr := NewTracer("test")
	_, span := tr.Start(context.Background(), "fetch",
		trace.WithAttributes(attribute.String("provider", "mirror")))
	span.SetAttributes(attribute.Int("attempt", 1))
	span.SetStatus(codes.Ok, "done")
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "fetch" {
		t.Errorf("span name = %q, want %q", s.Name(), "fetch")
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want %v", s.Status().Code, codes.Ok)
	}

	var gotProvider, gotAttempt bool
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case "provider":
			gotProvider = kv.Value.AsString() == "mirror"
		case "attempt":
			gotAttempt = kv.Value.AsInt64() == 1
		}
	}
	if !gotProvider || !gotAttempt {
		t.Errorf("attributes = %v, want provider=mirror and attempt=1", s.Attributes())
	}
}

func TestSpanNoticeError(t *testing.T) {
	rec := withSpanRecorder(t)

	tr := NewTracer("test")
	_, span := tr.Start(context.Background(), "fetch")
	span.NoticeError(errors.New("connection refused"))
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	s := spans[0]
	if s.Status().Code != codes.Error || s.Status().Description != "connection refused" {
		t.Errorf("status = %v %q, want Error with the error text", s.Status().Code, s.Status().Description)
	}
	if len(s.Events()) != 1 || s.Events()[0].Name != "exception" {
		t.Errorf("events = %v, want a single exception event", s.Events())
	}
}
