package core

import (
	"context"
	"math"
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) Clock {
	return ClockFunc(func() time.Time { return at })
}

// fixedRand returns the given values in order and repeats the last one.
func fixedRand(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	all := append([]ServiceOption{WithClock(fixedClock(testEpoch))}, opts...)
	return NewInMemoryService(NewDefaultRulesEngine(), all...)
}

// newTriad creates a guardian, a seedling under it, and a shelter assigned
// to the seedling.
func newTriad(t *testing.T, svc *Service) (Guardian, Seedling, Shelter) {
	t.Helper()
	ctx := context.Background()
	guardian, _, err := svc.CreateGuardian(ctx, Guardian{Name: "Aurora"})
	if err != nil {
		t.Fatalf("create guardian: %v", err)
	}
	seedling, _, err := svc.CreateSeedling(ctx, guardian.ID, "Nova", 0.5)
	if err != nil {
		t.Fatalf("create seedling: %v", err)
	}
	shelter, _, err := svc.CreateShelter(ctx, guardian.ID, seedling.ID, IsolationHigh)
	if err != nil {
		t.Fatalf("create shelter: %v", err)
	}
	return guardian, seedling, shelter
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
