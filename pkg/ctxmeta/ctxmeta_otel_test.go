//go:build otel

package ctxmeta_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/printshop_console/pkg/ctxmeta"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestTraceAndSpanIDs_ActiveSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("console-test").Start(context.Background(), "refresh")
	defer span.End()

	traceID, ok := ctxmeta.TraceIDFromContext(ctx)
	if !ok || traceID != span.SpanContext().TraceID().String() {
		t.Fatalf("trace id: got %q ok=%v", traceID, ok)
	}
	spanID, ok := ctxmeta.SpanIDFromContext(ctx)
	if !ok || spanID != span.SpanContext().SpanID().String() {
		t.Fatalf("span id: got %q ok=%v", spanID, ok)
	}
}

func TestTraceAndSpanIDs_NoSpan(t *testing.T) {
	var nilCtx context.Context
	for _, ctx := range []context.Context{context.Background(), nilCtx} {
		if id, ok := ctxmeta.TraceIDFromContext(ctx); ok || id != "" {
			t.Fatalf("TraceIDFromContext => %q,%v; want \"\", false", id, ok)
		}
		if id, ok := ctxmeta.SpanIDFromContext(ctx); ok || id != "" {
			t.Fatalf("SpanIDFromContext => %q,%v; want \"\", false", id, ok)
		}
	}
}
