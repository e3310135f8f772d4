package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// newTestTracer installs an in-memory span recorder as the global tracer
// provider and restores the previous one when the test ends.
func newTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := newTestTracer(t)

	ctx, span := StartServiceSpan(context.Background(), "payment", "create_payment")
	assert.NotEmpty(t, GetTraceID(ctx))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "payment.create_payment", spans[0].Name())
}

func TestStartSpan_WithAttribute(t *testing.T) {
	recorder := newTestTracer(t)

	_, span := StartSpan(context.Background(), "recalc.run",
		WithAttribute(SpanAttrTargetKind, "sale"),
		WithAttribute("count", 3),
	)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, SpanAttrTargetKind, string(attrs[0].Key))
	assert.Equal(t, "sale", attrs[0].Value.AsString())
	assert.Equal(t, int64(3), attrs[1].Value.AsInt64())
}

func TestSetAttributes(t *testing.T) {
	recorder := newTestTracer(t)

	_, span := StartSpan(context.Background(), "test")
	SetAttributes(span,
		SpanAttrPaymentID, "abc",
		SpanAttrAmount, 400.0,
		42, "dropped because the key is not a string",
	)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Len(t, spans[0].Attributes(), 2)
}

func TestRecordError(t *testing.T) {
	recorder := newTestTracer(t)

	_, span := StartSpan(context.Background(), "test")
	RecordError(span, errors.New("payment exceeds remaining"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "payment exceeds remaining", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestRecordError_NilSafe(t *testing.T) {
	// Must not panic on nil span or nil error
	RecordError(nil, errors.New("boom"))

	_, span := StartSpan(context.Background(), "test")
	RecordError(span, nil)
	span.End()
}

func TestAddEvent(t *testing.T) {
	recorder := newTestTracer(t)

	_, span := StartSpan(context.Background(), "test")
	AddEvent(span, "status_recalculated", "changed", true)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "status_recalculated", events[0].Name)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}
