package apm

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span narrows trace.Span to what the adapters use and adds NoticeError,
// which records the error and marks the span failed in one call.
type Span interface {
	SetAttributes(values ...attribute.KeyValue)
	End(options ...trace.SpanEndOption)
	RecordError(err error, options ...trace.EventOption)
	SetStatus(code codes.Code, description string)
	NoticeError(err error)
}

type traceSpan struct {
	trace.Span
}

// NewSpan wraps a trace.Span.
func NewSpan(span trace.Span) Span {
	return traceSpan{span}
}

func (t traceSpan) NoticeError(err error) {
	t.RecordError(err)
	t.SetStatus(codes.Error, err.Error())
}
