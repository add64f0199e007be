package report

import (
	"math"
	"testing"
	"time"

	"liminalcore/pkg/domain"
)

func sampleSeedling() domain.Seedling {
	sd := domain.NewSeedling("Nova")
	sd.ID = "sd-1"
	sd.GrowthScore = 0.6
	sd.LearningAttempts = 4
	sd.SuccessfulLearnings = 3
	sd.EmotionalHistory.Append(domain.EmotionRecord{Event: "learning_success", Emotion: domain.SeedlingJoy})
	sd.EmotionalHistory.Append(domain.EmotionRecord{Event: "learning_success", Emotion: domain.SeedlingJoy})
	sd.EmotionalHistory.Append(domain.EmotionRecord{Event: "learning_failure", Emotion: domain.SeedlingConfusion})
	sd.EmotionalHistory.Append(domain.EmotionRecord{Event: "received_care", Emotion: domain.SeedlingGratitude})
	sd.CareInteractions.Append(domain.CareInteraction{InteractionType: domain.CareReceived, Intensity: 0.8})
	sd.CareInteractions.Append(domain.CareInteraction{InteractionType: domain.CareReceived, Intensity: 0.6})
	sd.CareInteractions.Append(domain.CareInteraction{InteractionType: domain.CareGiven, Intensity: 0.3})
	sd.Milestones.Append(domain.GrowthMilestone{MilestoneType: domain.MilestoneFirstLearningSuccess})
	return sd
}

func TestEmotionalStatesShares(t *testing.T) {
	states := emotionalStates(sampleSeedling())
	if got := states[string(domain.SeedlingJoy)]; got != 0.5 {
		t.Fatalf("expected joy share 0.5, got %v", got)
	}
	if got := states[string(domain.SeedlingGratitude)]; got != 0.25 {
		t.Fatalf("expected gratitude share 0.25, got %v", got)
	}
}

func TestEmotionalStatesEmptyHistory(t *testing.T) {
	if states := emotionalStates(domain.NewSeedling("Blank")); states != nil {
		t.Fatalf("expected nil for empty history, got %v", states)
	}
}

func TestCareMatrixTotals(t *testing.T) {
	matrix := careMatrix(sampleSeedling())
	if len(matrix) != 2 || len(matrix[0]) != 2 {
		t.Fatalf("expected 2x2 matrix, got %v", matrix)
	}
	if math.Abs(matrix[0][1]-1.4) > 1e-9 {
		t.Fatalf("expected guardian->seedling total 1.4, got %v", matrix[0][1])
	}
	if matrix[1][0] != 0.3 {
		t.Fatalf("expected seedling->guardian total 0.3, got %v", matrix[1][0])
	}
	if matrix[0][0] != 0 || matrix[1][1] != 0 {
		t.Fatalf("diagonal must stay zero, got %v", matrix)
	}
}

func TestRecorderSamples(t *testing.T) {
	var rec Recorder
	sd := sampleSeedling()
	rec.Sample(sd)
	sd.TrustLevel = 0.7
	sd.CurrentEmotion = domain.SeedlingJoy
	rec.Sample(sd)

	if rec.Samples() != 2 {
		t.Fatalf("expected 2 samples, got %d", rec.Samples())
	}
}

func TestBuildReport(t *testing.T) {
	g := domain.NewGuardian("Aurora")
	g.ID = "g-1"
	g.ChildIDs = []string{"sd-1"}
	g.ShelterIDs = []string{"sh-1"}
	g.WisdomAccumulated = 0.12
	sd := sampleSeedling()
	sh := domain.NewShelter("g-1", "sd-1", domain.IsolationHigh)
	sh.ID = "sh-1"
	sh.ShelterModeActive = true

	var rec Recorder
	rec.Sample(sd)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	got := Build(now, g, sd, sh,
		domain.DevelopmentSummary{SeedlingID: sd.ID, Name: sd.Name, GrowthScore: sd.GrowthScore},
		domain.EmotionalSummary{}, domain.AccessSummary{}, &rec)

	if got.FinalGrowthScore != 0.6 {
		t.Fatalf("expected final growth 0.6, got %v", got.FinalGrowthScore)
	}
	if got.CoreEntities.Guardian.Name != "Aurora" || got.CoreEntities.Guardian.Children != 1 {
		t.Fatalf("unexpected guardian slice: %+v", got.CoreEntities.Guardian)
	}
	if got.CoreEntities.Seedling.SeedlingID != "sd-1" {
		t.Fatalf("unexpected seedling slice: %+v", got.CoreEntities.Seedling)
	}
	if !got.CoreEntities.Shelter.ShelterMode {
		t.Fatal("shelter mode flag lost")
	}
	if len(got.EmotionalJourney) != 4 {
		t.Fatalf("expected 4 journey points, got %d", len(got.EmotionalJourney))
	}
	if len(got.Series.TrustHistory) != 1 || len(got.Series.ClimateHistory) != 1 {
		t.Fatalf("recorder series missing: %+v", got.Series)
	}

	var sawMilestone, sawShelterMode bool
	for _, a := range got.KeyAchievements {
		if a == "Milestone reached: "+domain.MilestoneFirstLearningSuccess {
			sawMilestone = true
		}
		if a == "Shelter mode activated for enhanced protection" {
			sawShelterMode = true
		}
	}
	if !sawMilestone || !sawShelterMode {
		t.Fatalf("missing achievements: %v", got.KeyAchievements)
	}
}
