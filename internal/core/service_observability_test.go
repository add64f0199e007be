package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

type capturedLog struct {
	level string
	msg   string
	args  []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []capturedLog
}

func (l *captureLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, capturedLog{level: level, msg: msg, args: args})
}

func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *captureLogger) byLevel(level string) []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []capturedLog
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

type captureAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (a *captureAudit) Record(_ context.Context, entry AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

type captureMetrics struct {
	mu       sync.Mutex
	observed []struct {
		operation string
		success   bool
	}
}

func (m *captureMetrics) Observe(_ context.Context, operation string, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed = append(m.observed, struct {
		operation string
		success   bool
	}{operation, success})
}

func TestServiceAuditTrail(t *testing.T) {
	ctx := context.Background()
	audit := &captureAudit{}
	svc := newTestService(t, WithAuditRecorder(audit))
	guardian, _, err := svc.CreateGuardian(ctx, Guardian{Name: "Aurora"})
	if err != nil {
		t.Fatalf("create guardian: %v", err)
	}
	if _, _, err := svc.CreateSeedling(ctx, guardian.ID, "Nova", 0.5); err != nil {
		t.Fatalf("create seedling: %v", err)
	}

	if len(audit.entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(audit.entries))
	}
	first := audit.entries[0]
	if first.Operation != "create_guardian" || first.Entity != EntityGuardian || first.Action != ActionCreate {
		t.Fatalf("unexpected first audit entry: %+v", first)
	}
	if first.Status != AuditStatusSuccess || first.EntityID != guardian.ID {
		t.Fatalf("unexpected audit status: %+v", first)
	}
	if !first.Timestamp.Equal(testEpoch) {
		t.Fatalf("audit timestamp should come from the injected clock, got %v", first.Timestamp)
	}
}

func TestServiceAuditRecordsFailures(t *testing.T) {
	ctx := context.Background()
	audit := &captureAudit{}
	svc := newTestService(t, WithAuditRecorder(audit))

	if _, _, err := svc.CreateSeedling(ctx, "missing", "Nova", 0.5); err == nil {
		t.Fatal("expected error for unknown guardian")
	}
	if len(audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audit.entries))
	}
	entry := audit.entries[0]
	if entry.Status != AuditStatusError || entry.Error == "" {
		t.Fatalf("failed operation must be audited with its error: %+v", entry)
	}
}

func TestServiceMetricsObserveOutcomes(t *testing.T) {
	ctx := context.Background()
	metrics := &captureMetrics{}
	svc := newTestService(t, WithMetricsRecorder(metrics))

	if _, _, err := svc.CreateGuardian(ctx, Guardian{Name: "Aurora"}); err != nil {
		t.Fatalf("create guardian: %v", err)
	}
	if _, _, err := svc.CreateSeedling(ctx, "missing", "Nova", 0.5); err == nil {
		t.Fatal("expected error")
	}

	if len(metrics.observed) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(metrics.observed))
	}
	if !metrics.observed[0].success || metrics.observed[0].operation != "create_guardian" {
		t.Fatalf("unexpected first observation: %+v", metrics.observed[0])
	}
	if metrics.observed[1].success {
		t.Fatal("failed operation must be observed as error")
	}
}

func TestServiceWarnsOnRuleWarnings(t *testing.T) {
	ctx := context.Background()
	logger := &captureLogger{}
	svc := newTestService(t, WithLogger(logger))
	guardian, _, shelter := newTriad(t, svc)

	if _, _, err := svc.BlockEntity(ctx, shelter.ID, guardian.ID, "drill"); err != nil {
		t.Fatalf("block: %v", err)
	}
	warns := logger.byLevel("warn")
	if len(warns) != 1 || warns[0].msg != "rule warning" {
		t.Fatalf("expected one rule warning log, got %+v", warns)
	}
}

func TestJSONTracerRecordsSpans(t *testing.T) {
	ctx := context.Background()
	tracer := NewJSONTracer(nil)
	svc := newTestService(t, WithTracer(tracer))

	if _, _, err := svc.CreateGuardian(ctx, Guardian{Name: "Aurora"}); err != nil {
		t.Fatalf("create guardian: %v", err)
	}
	if _, _, err := svc.CreateSeedling(ctx, "missing", "Nova", 0.5); err == nil {
		t.Fatal("expected error")
	}

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(entries))
	}
	if entries[0].Operation != "create_guardian" || entries[0].Status != "success" {
		t.Fatalf("unexpected first span: %+v", entries[0])
	}
	if entries[1].Status != "error" || entries[1].Error == "" {
		t.Fatalf("failed span must carry the error: %+v", entries[1])
	}
}

func TestExpvarMetricsRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	rec.Observe(context.Background(), "attempt_learning", true, 20*time.Millisecond)
	rec.Observe(context.Background(), "attempt_learning", false, 10*time.Millisecond)

	snap := rec.Snapshot()
	if snap.Results["attempt_learning"]["success"] != 1 || snap.Results["attempt_learning"]["error"] != 1 {
		t.Fatalf("unexpected result counters: %+v", snap.Results)
	}
	if snap.DurationsMS["attempt_learning"] != 30 {
		t.Fatalf("expected 30ms total, got %v", snap.DurationsMS)
	}
}
