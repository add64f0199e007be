package zaplog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerForwardsKeyValues(t *testing.T) {
	obs, logs := observer.New(zap.DebugLevel)
	logger := New(zap.New(obs))

	logger.Info("operation committed", "operation", "attempt_learning", "success", true)
	logger.Warn("rule warning", "rule", "trust_conflict")

	infos := logs.FilterMessage("operation committed").All()
	if len(infos) != 1 {
		t.Fatalf("expected one info entry, got %d", len(infos))
	}
	ctx := infos[0].ContextMap()
	if ctx["operation"] != "attempt_learning" {
		t.Fatalf("structured field lost: %v", ctx)
	}
	if got := logs.FilterMessage("rule warning").Len(); got != 1 {
		t.Fatalf("expected one warn entry, got %d", got)
	}
}

func TestNewDevelopmentLevels(t *testing.T) {
	quiet, err := NewDevelopment(false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	verbose, err := NewDevelopment(true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if quiet == nil || verbose == nil {
		t.Fatal("expected loggers")
	}
}
