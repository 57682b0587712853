package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipOTelLog(t *testing.T) {
	if !shouldSkipOTelLog("http_request", map[string]any{"path": "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if shouldSkipOTelLog("http_request", map[string]any{"path": "/v1/tournaments"}) {
		t.Fatalf("did not expect tournament request log to be skipped")
	}
	if shouldSkipOTelLog("workflow action failed", map[string]any{"path": "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestFieldValuesMergesCoreAndEntryFields(t *testing.T) {
	values := fieldValues(
		[]zapcore.Field{zap.String("service", "club-tournaments-api")},
		[]zapcore.Field{zap.String("tournament_id", "torneo-2026-02-14"), zap.Int("teams", 2)},
	)
	if values["service"] != "club-tournaments-api" || values["tournament_id"] != "torneo-2026-02-14" {
		t.Fatalf("unexpected values %v", values)
	}
	if values["teams"] != int64(2) {
		t.Fatalf("expected int64 teams, got %T", values["teams"])
	}
}

func TestBuildOTelLogAttributes_SortedWithoutTraceIDs(t *testing.T) {
	attrs := buildOTelLogAttributes(map[string]any{
		"tournament_id": "torneo-2026-02-14",
		"attempt":       int64(2),
		"trace_id":      "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":       "00f067aa0ba902b7",
	})
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "attempt" || attrs[0].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute")
	}
	if attrs[1].Key != "tournament_id" || attrs[1].Value.AsString() != "torneo-2026-02-14" {
		t.Fatalf("unexpected tournament_id attribute")
	}
}

func TestContextFromTraceFields(t *testing.T) {
	ctx := contextFromTraceFields(map[string]any{
		"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":  "00f067aa0ba902b7",
	})
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() || sc.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("expected span context from fields, got %+v", sc)
	}

	if trace.SpanContextFromContext(contextFromTraceFields(map[string]any{"trace_id": "nope"})).IsValid() {
		t.Fatalf("expected invalid span context for malformed ids")
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"goals": 3,
		"won":   true,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	if items := v.AsMap(); len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
}

func TestOTelLogCore_RespectsLevel(t *testing.T) {
	core := newOTelLogCore("test", zapcore.WarnLevel)
	if core.Enabled(zapcore.InfoLevel) {
		t.Fatalf("info must be filtered at warn level")
	}
	if ce := core.Check(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "boom"}, nil); ce == nil {
		t.Fatalf("expected error entry to be accepted")
	}
}
