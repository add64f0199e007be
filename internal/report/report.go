// Package report assembles the read-only JSON report a demonstration run
// produces, along with the plotting series downstream visualisation tools
// consume. Builders never mutate store state.
package report

import (
	"fmt"
	"time"

	"liminalcore/pkg/domain"
)

// GuardianReport is the guardian slice of the demo report.
type GuardianReport struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	WisdomAccumulated float64 `json:"wisdom_accumulated"`
	Children          int     `json:"children"`
	Shelters          int     `json:"shelters"`
	ResonanceEntries  int     `json:"resonance_entries"`
}

// ShelterReport is the shelter slice of the demo report.
type ShelterReport struct {
	ID             string                    `json:"id"`
	IsolationLevel domain.IsolationLevel     `json:"isolation_level"`
	TrustThreshold float64                   `json:"trust_threshold"`
	ShelterMode    bool                      `json:"shelter_mode_active"`
	GrowthScore    float64                   `json:"growth_score"`
	Emotional      domain.EmotionalSummary   `json:"emotional_summary"`
	Access         domain.AccessSummary      `json:"access_summary"`
}

// CoreEntities groups the per-entity report slices.
type CoreEntities struct {
	Guardian GuardianReport            `json:"guardian"`
	Seedling domain.DevelopmentSummary `json:"seedling"`
	Shelter  ShelterReport             `json:"shelter"`
}

// JourneyPoint is one step of the seedling's emotional journey.
type JourneyPoint struct {
	Timestamp time.Time              `json:"timestamp"`
	Event     string                 `json:"event"`
	Emotion   domain.SeedlingEmotion `json:"emotion"`
}

// ClimatePoint is one sampled reading of the relationship climate.
type ClimatePoint struct {
	TrustLevel     float64 `json:"trust_level"`
	EmotionalState string  `json:"emotional_state"`
}

// Series holds the plotting series downstream tools consume.
type Series struct {
	TrustHistory    []float64          `json:"trust_history"`
	EmotionalStates map[string]float64 `json:"emotional_states"`
	CareMatrix      [][]float64        `json:"care_matrix"`
	ClimateHistory  []ClimatePoint     `json:"climate_history"`
}

// DemoReport is the complete demonstration run output.
type DemoReport struct {
	GeneratedAt      time.Time      `json:"generated_at"`
	CoreEntities     CoreEntities   `json:"core_entities"`
	KeyAchievements  []string       `json:"key_achievements"`
	EmotionalJourney []JourneyPoint `json:"emotional_journey"`
	FinalGrowthScore float64        `json:"final_growth_score"`
	Series           Series         `json:"series"`
}

// Recorder samples seedling state between scenario steps so the report can
// plot trust and climate over the run.
type Recorder struct {
	trust   []float64
	climate []ClimatePoint
}

// Sample appends one reading taken from current entity state.
func (r *Recorder) Sample(sd domain.Seedling) {
	r.trust = append(r.trust, sd.TrustLevel)
	r.climate = append(r.climate, ClimatePoint{
		TrustLevel:     sd.TrustLevel,
		EmotionalState: string(sd.CurrentEmotion),
	})
}

// Samples reports how many readings were taken.
func (r *Recorder) Samples() int { return len(r.trust) }

// emotionalStates computes the share of history entries spent in each
// emotion.
func emotionalStates(sd domain.Seedling) map[string]float64 {
	entries := sd.EmotionalHistory.Entries()
	if len(entries) == 0 {
		return nil
	}
	states := make(map[string]float64)
	for _, rec := range entries {
		states[string(rec.Emotion)]++
	}
	total := float64(len(entries))
	for state := range states {
		states[state] /= total
	}
	return states
}

// careMatrix totals care intensity exchanged between guardian and seedling.
// Row 0 is the guardian, row 1 the seedling; matrix[i][j] is the total
// intensity i gave j.
func careMatrix(sd domain.Seedling) [][]float64 {
	matrix := [][]float64{{0, 0}, {0, 0}}
	for _, ci := range sd.CareInteractions.Entries() {
		switch ci.InteractionType {
		case domain.CareReceived:
			matrix[0][1] += ci.Intensity
		case domain.CareGiven:
			matrix[1][0] += ci.Intensity
		}
	}
	return matrix
}

// journey flattens the seedling's emotional history.
func journey(sd domain.Seedling) []JourneyPoint {
	entries := sd.EmotionalHistory.Entries()
	points := make([]JourneyPoint, 0, len(entries))
	for _, rec := range entries {
		points = append(points, JourneyPoint{
			Timestamp: rec.Timestamp,
			Event:     rec.Event,
			Emotion:   rec.Emotion,
		})
	}
	return points
}

// achievements derives the run's headline accomplishments.
func achievements(g domain.Guardian, sd domain.Seedling, sh domain.Shelter) []string {
	var out []string
	if sd.SuccessfulLearnings > 0 {
		out = append(out, fmt.Sprintf("%s succeeded at %d of %d learning attempts",
			sd.Name, sd.SuccessfulLearnings, sd.LearningAttempts))
	}
	for _, m := range sd.Milestones.Entries() {
		out = append(out, "Milestone reached: "+m.MilestoneType)
	}
	if sh.ShelterModeActive {
		out = append(out, "Shelter mode activated for enhanced protection")
	}
	if g.WisdomAccumulated > 0 {
		out = append(out, fmt.Sprintf("%s accumulated %.2f wisdom through reciprocal care",
			g.Name, g.WisdomAccumulated))
	}
	return out
}

// Build assembles the final report from current entity state, the shelter
// summaries, and the recorder's samples.
func Build(now time.Time, g domain.Guardian, sd domain.Seedling, sh domain.Shelter,
	dev domain.DevelopmentSummary, emotional domain.EmotionalSummary, access domain.AccessSummary,
	rec *Recorder) DemoReport {
	series := Series{
		EmotionalStates: emotionalStates(sd),
		CareMatrix:      careMatrix(sd),
	}
	if rec != nil {
		series.TrustHistory = append([]float64(nil), rec.trust...)
		series.ClimateHistory = append([]ClimatePoint(nil), rec.climate...)
	}
	return DemoReport{
		GeneratedAt: now,
		CoreEntities: CoreEntities{
			Guardian: GuardianReport{
				ID:                g.ID,
				Name:              g.Name,
				WisdomAccumulated: g.WisdomAccumulated,
				Children:          len(g.ChildIDs),
				Shelters:          len(g.ShelterIDs),
				ResonanceEntries:  g.ResonanceLog.Len(),
			},
			Seedling: dev,
			Shelter: ShelterReport{
				ID:             sh.ID,
				IsolationLevel: sh.IsolationLevel,
				TrustThreshold: sh.TrustThreshold,
				ShelterMode:    sh.ShelterModeActive,
				GrowthScore:    sh.GrowthScore,
				Emotional:      emotional,
				Access:         access,
			},
		},
		KeyAchievements:  achievements(g, sd, sh),
		EmotionalJourney: journey(sd),
		FinalGrowthScore: sd.GrowthScore,
		Series:           series,
	}
}
