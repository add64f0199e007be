package core

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rec.Observe(context.Background(), "attempt_learning", true, 5*time.Millisecond)
	rec.Observe(context.Background(), "attempt_learning", false, 5*time.Millisecond)
	rec.Observe(context.Background(), "", true, 0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var sawDurations, sawResults bool
	for _, mf := range families {
		switch mf.GetName() {
		case "liminalcore_service_operation_duration_seconds":
			sawDurations = true
		case "liminalcore_service_operation_results_total":
			sawResults = true
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			if total != 2 {
				t.Fatalf("expected 2 counted outcomes, got %v", total)
			}
		}
	}
	if !sawDurations || !sawResults {
		t.Fatalf("missing metric families: durations=%v results=%v", sawDurations, sawResults)
	}
}

func TestPrometheusMetricsRecorderRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatal("second registration on the same registry must fail")
	}
}
