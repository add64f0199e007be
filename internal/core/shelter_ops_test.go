package core

import (
	"context"
	"testing"

	"liminalcore/pkg/domain"
)

func TestEvaluateAccessTier(t *testing.T) {
	cases := []struct {
		name      string
		isolation IsolationLevel
		threshold float64
		trust     float64
		want      AccessPermission
	}{
		{"high at threshold", IsolationHigh, 0.8, 0.8, PermissionSupervised},
		{"high above 70 percent", IsolationHigh, 0.8, 0.56, PermissionLimited},
		{"high below 70 percent", IsolationHigh, 0.8, 0.5, PermissionDenied},
		{"medium at threshold", IsolationMedium, 0.8, 0.8, PermissionAllowed},
		{"medium above 60 percent", IsolationMedium, 0.8, 0.5, PermissionSupervised},
		{"medium below 60 percent", IsolationMedium, 0.8, 0.4, PermissionLimited},
		{"low above 80 percent", IsolationLow, 0.8, 0.64, PermissionAllowed},
		{"low above 50 percent", IsolationLow, 0.8, 0.4, PermissionSupervised},
		{"low below 50 percent", IsolationLow, 0.8, 0.3, PermissionLimited},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sh := domain.NewShelter("g", "s", tc.isolation)
			sh.TrustThreshold = tc.threshold
			if got := evaluateAccessTier(&sh, tc.trust); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRequestAccessTrustedOverride(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, shelter := newTriad(t, svc)

	if _, _, err := svc.AddTrustedEntity(ctx, shelter.ID, "companion", "long-standing ally"); err != nil {
		t.Fatalf("add trusted: %v", err)
	}
	decision, _, err := svc.RequestAccess(ctx, shelter.ID, "companion", "external_model", "read", 0, "check override")
	if err != nil {
		t.Fatalf("request access: %v", err)
	}
	if !decision.AccessGranted || decision.PermissionLevel != PermissionAllowed {
		t.Fatalf("trusted entity should be allowed regardless of trust level, got %+v", decision)
	}
}

func TestRequestAccessBlockedBeatsTrustLevel(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, shelter := newTriad(t, svc)

	if _, _, err := svc.BlockEntity(ctx, shelter.ID, "intruder", "hostile probing"); err != nil {
		t.Fatalf("block entity: %v", err)
	}
	decision, _, err := svc.RequestAccess(ctx, shelter.ID, "intruder", "external_model", "execute", 1.0, "retry")
	if err != nil {
		t.Fatalf("request access: %v", err)
	}
	if decision.AccessGranted || decision.PermissionLevel != PermissionDenied {
		t.Fatalf("blocked entity must be denied, got %+v", decision)
	}

	updated, _ := svc.Store().GetShelter(shelter.ID)
	attempts := updated.AccessLog.Entries()
	if len(attempts) != 1 {
		t.Fatalf("expected 1 access attempt logged, got %d", len(attempts))
	}
	if attempts[0].PermissionGranted {
		t.Fatal("logged attempt should record the denial")
	}
	var denialEvents int
	for _, marker := range updated.EmotionalLog.Entries() {
		if marker.Event == domain.EventAccessDenied {
			denialEvents++
			if marker.Reaction != domain.ReactionConcern || !almostEqual(marker.Intensity, 0.6) {
				t.Fatalf("unexpected denial event: %+v", marker)
			}
			if marker.TriggeredBy != "intruder" {
				t.Fatalf("denial should be attributed to the entity, got %q", marker.TriggeredBy)
			}
		}
	}
	if denialEvents != 1 {
		t.Fatalf("expected exactly one access_denied event, got %d", denialEvents)
	}
}

func TestLogEmotionalEventAdjustsClimate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, shelter := newTriad(t, svc)
	before, _ := svc.Store().GetShelter(shelter.ID)

	marker, _, err := svc.LogEmotionalEvent(ctx, shelter.ID,
		domain.EventLearningSuccess, domain.ReactionJoy, "solved a puzzle", 0.8, "")
	if err != nil {
		t.Fatalf("log emotional event: %v", err)
	}
	// joy at 0.8 contributes 0.04, learning_success another 0.02
	if !almostEqual(marker.GrowthImpact, 0.06) {
		t.Fatalf("expected growth impact 0.06, got %v", marker.GrowthImpact)
	}
	if marker.TriggeredBy != "system" {
		t.Fatalf("empty trigger should default to system, got %q", marker.TriggeredBy)
	}

	after, _ := svc.Store().GetShelter(shelter.ID)
	if !almostEqual(after.GrowthScore, before.GrowthScore+0.06) {
		t.Fatalf("expected growth %v, got %v", before.GrowthScore+0.06, after.GrowthScore)
	}
	if !almostEqual(after.Environment.Safety, minFloat(before.Environment.Safety+0.04, 1)) {
		t.Fatalf("expected safety raised by joy, got %v", after.Environment.Safety)
	}
	if !almostEqual(after.Environment.Challenge, minFloat(before.Environment.Challenge+0.02, 1)) {
		t.Fatalf("expected challenge raised by learning_success, got %v", after.Environment.Challenge)
	}
}

func TestLogEmotionalEventWorryFloorsSafety(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, shelter := newTriad(t, svc)

	for i := 0; i < 10; i++ {
		if _, _, err := svc.LogEmotionalEvent(ctx, shelter.ID,
			"disturbance", domain.ReactionWorry, "unsettling signal", 1.0, "sensor"); err != nil {
			t.Fatalf("log emotional event: %v", err)
		}
	}
	after, _ := svc.Store().GetShelter(shelter.ID)
	if !almostEqual(after.Environment.Safety, 0.5) {
		t.Fatalf("safety should bottom out at 0.5, got %v", after.Environment.Safety)
	}
}

func TestGrowthImpactClamped(t *testing.T) {
	if got := emotionalGrowthImpact(domain.EventMilestone, domain.ReactionPride, 2.0); !almostEqual(got, 0.1) {
		t.Fatalf("expected clamp at 0.1, got %v", got)
	}
	if got := emotionalGrowthImpact("setback", domain.ReactionConcern, 5.0); !almostEqual(got, -0.1) {
		t.Fatalf("expected clamp at -0.1, got %v", got)
	}
	if got := emotionalGrowthImpact("noted", domain.ReactionNeutral, 0.9); got != 0 {
		t.Fatalf("neutral reaction of unknown event should be zero, got %v", got)
	}
}

func TestActivateShelterModeIsOneWay(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, shelter := newTriad(t, svc)

	first, _, err := svc.ActivateShelterMode(ctx, shelter.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !first.ModeActivated || first.AlreadyActive {
		t.Fatalf("unexpected first activation: %+v", first)
	}
	if !almostEqual(first.NewThreshold, first.OriginalThreshold+0.1) {
		t.Fatalf("threshold should raise by 0.1: %+v", first)
	}

	second, _, err := svc.ActivateShelterMode(ctx, shelter.ID)
	if err != nil {
		t.Fatalf("second activate: %v", err)
	}
	if second.ModeActivated || !second.AlreadyActive {
		t.Fatalf("second activation must be a no-op: %+v", second)
	}
	if !almostEqual(second.NewThreshold, first.NewThreshold) {
		t.Fatalf("threshold must not raise twice: %+v", second)
	}
}

func TestUpdateTrustThreshold(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, shelter := newTriad(t, svc)

	update, _, err := svc.UpdateTrustThreshold(ctx, shelter.ID, 0.5, "easing restrictions")
	if err != nil {
		t.Fatalf("update threshold: %v", err)
	}
	if update.EmotionalImpact != domain.ReactionJoy {
		t.Fatalf("lowering the threshold should register joy, got %v", update.EmotionalImpact)
	}
	if !almostEqual(update.Change, -0.3) {
		t.Fatalf("expected change -0.3, got %v", update.Change)
	}

	clamped, _, err := svc.UpdateTrustThreshold(ctx, shelter.ID, 1.5, "overcorrecting")
	if err != nil {
		t.Fatalf("update threshold: %v", err)
	}
	if !almostEqual(clamped.NewThreshold, 1.0) {
		t.Fatalf("threshold must clamp to 1, got %v", clamped.NewThreshold)
	}
	if clamped.EmotionalImpact != domain.ReactionConcern {
		t.Fatalf("raising the threshold should register concern, got %v", clamped.EmotionalImpact)
	}
}

func TestAddTrustedEntityIdempotentAndUnblocks(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, shelter := newTriad(t, svc)

	if _, _, err := svc.BlockEntity(ctx, shelter.ID, "redeemed", "earlier misbehaviour"); err != nil {
		t.Fatalf("block: %v", err)
	}
	grant, _, err := svc.AddTrustedEntity(ctx, shelter.ID, "redeemed", "has earned trust")
	if err != nil {
		t.Fatalf("add trusted: %v", err)
	}
	if !grant.EntityAdded {
		t.Fatalf("expected entity added, got %+v", grant)
	}
	sh, _ := svc.Store().GetShelter(shelter.ID)
	if sh.BlockedEntities["redeemed"] {
		t.Fatal("trusting an entity must remove it from the blocked set")
	}

	again, _, err := svc.AddTrustedEntity(ctx, shelter.ID, "redeemed", "repeat")
	if err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	if again.EntityAdded {
		t.Fatal("second add must report entity_added=false")
	}
}

func TestBlockTrustedEntityWarnsWithoutBlockingCommit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	guardian, _, shelter := newTriad(t, svc)

	// The creating guardian is auto-trusted, so blocking it creates the
	// trusted/blocked overlap the warn rule watches for.
	block, res, err := svc.BlockEntity(ctx, shelter.ID, guardian.ID, "testing boundaries")
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if !block.EntityBlocked {
		t.Fatalf("block should commit, got %+v", block)
	}
	warns := res.Warnings()
	if len(warns) != 1 || warns[0].Rule != "trust_conflict" {
		t.Fatalf("expected one trust_conflict warning, got %+v", warns)
	}

	decision, _, err := svc.RequestAccess(ctx, shelter.ID, guardian.ID, "guardian", "read", 1.0, "visit")
	if err != nil {
		t.Fatalf("request access: %v", err)
	}
	if decision.AccessGranted {
		t.Fatal("block must win over trusted membership")
	}
}

func TestShelterSummaries(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, shelter := newTriad(t, svc)

	if _, _, err := svc.LogEmotionalEvent(ctx, shelter.ID, "visit", domain.ReactionJoy, "friendly visit", 0.4, ""); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, _, err := svc.LogEmotionalEvent(ctx, shelter.ID, "visit", domain.ReactionJoy, "another visit", 0.6, ""); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, _, err := svc.RequestAccess(ctx, shelter.ID, "stranger", "external_model", "read", 0.1, "probe"); err != nil {
		t.Fatalf("access: %v", err)
	}

	emotional, err := svc.EmotionalSummary(ctx, shelter.ID, 24)
	if err != nil {
		t.Fatalf("emotional summary: %v", err)
	}
	// child_assigned + two visits + one access denial
	if emotional.EventsCount != 4 {
		t.Fatalf("expected 4 events, got %d", emotional.EventsCount)
	}
	if emotional.DominantEmotion != domain.ReactionJoy {
		t.Fatalf("expected joy dominant, got %v", emotional.DominantEmotion)
	}

	access, err := svc.AccessSummary(ctx, shelter.ID, 24)
	if err != nil {
		t.Fatalf("access summary: %v", err)
	}
	if access.TotalAttempts != 1 || access.Denied != 1 || access.GrantRate != 0 {
		t.Fatalf("unexpected access summary: %+v", access)
	}
	if access.ByEntityType["external_model"] != 1 {
		t.Fatalf("expected per-type count, got %+v", access.ByEntityType)
	}
	if access.TrustedEntities != 1 {
		t.Fatalf("creator should be the single trusted entity, got %d", access.TrustedEntities)
	}
}

func TestSummaryUnknownShelter(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.EmotionalSummary(context.Background(), "missing", 24); err == nil {
		t.Fatal("expected not-found error")
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
