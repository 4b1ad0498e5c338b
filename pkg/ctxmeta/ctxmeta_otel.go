//go:build otel && !gopls

package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Сборка с тегом `otel`: trace/span берём из активного спана.

func TraceIDFromContext(ctx context.Context) (string, bool) {
	sc, ok := spanContext(ctx)
	if !ok {
		return "", false
	}
	return sc.TraceID().String(), true
}

func SpanIDFromContext(ctx context.Context) (string, bool) {
	sc, ok := spanContext(ctx)
	if !ok {
		return "", false
	}
	return sc.SpanID().String(), true
}

func spanContext(ctx context.Context) (trace.SpanContext, bool) {
	if ctx == nil {
		return trace.SpanContext{}, false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	return sc, sc.IsValid()
}
