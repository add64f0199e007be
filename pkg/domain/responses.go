package domain

import "time"

// AccessDecision is the outcome of a shelter access request.
type AccessDecision struct {
	AccessGranted      bool             `json:"access_granted"`
	PermissionLevel    AccessPermission `json:"permission_level"`
	TrustLevelRequired float64          `json:"trust_level_required"`
	EntityTrust        float64          `json:"entity_trust"`
	IsolationLevel     IsolationLevel   `json:"isolation_level"`
	Reason             string           `json:"reason,omitempty"`
}

// ShelterModeStatus reports an activation attempt of enhanced protection.
type ShelterModeStatus struct {
	ModeActivated     bool    `json:"mode_activated"`
	AlreadyActive     bool    `json:"already_active"`
	OriginalThreshold float64 `json:"original_threshold"`
	NewThreshold      float64 `json:"new_threshold"`
}

// ThresholdUpdate reports a trust threshold change and its emotional impact.
type ThresholdUpdate struct {
	OldThreshold    float64  `json:"old_threshold"`
	NewThreshold    float64  `json:"new_threshold"`
	Change          float64  `json:"change"`
	Reason          string   `json:"reason"`
	EmotionalImpact Reaction `json:"emotional_impact"`
}

// TrustGrant reports adding an entity to a shelter's trusted set.
type TrustGrant struct {
	EntityAdded  bool   `json:"entity_added"`
	EntityID     string `json:"entity_id"`
	Reason       string `json:"reason"`
	TotalTrusted int    `json:"total_trusted"`
}

// EntityBlock reports adding an entity to a shelter's blocked set.
type EntityBlock struct {
	EntityBlocked bool   `json:"entity_blocked"`
	EntityID      string `json:"entity_id"`
	Reason        string `json:"reason"`
	TotalBlocked  int    `json:"total_blocked"`
}

// EmotionalSummary aggregates a shelter's emotional log over a window.
type EmotionalSummary struct {
	PeriodHours           int                  `json:"period_hours"`
	EventsCount           int                  `json:"events_count"`
	EmotionalDistribution map[Reaction]int     `json:"emotional_distribution,omitempty"`
	DominantEmotion       Reaction             `json:"dominant_emotion,omitempty"`
	AverageIntensity      float64              `json:"average_intensity"`
	AverageGrowthImpact   float64              `json:"average_growth_impact"`
	GrowthScore           float64              `json:"growth_score"`
	Environment           EnvironmentalFactors `json:"environmental_factors"`
}

// AccessSummary aggregates a shelter's access log over a window.
type AccessSummary struct {
	PeriodHours     int            `json:"period_hours"`
	TotalAttempts   int            `json:"total_attempts"`
	Granted         int            `json:"granted"`
	Denied          int            `json:"denied"`
	GrantRate       float64        `json:"grant_rate"`
	ByEntityType    map[string]int `json:"by_entity_type,omitempty"`
	TrustedEntities int            `json:"trusted_entities"`
	BlockedEntities int            `json:"blocked_entities"`
}

// LearningOutcome is the result of a single learning attempt.
type LearningOutcome struct {
	AttemptNumber      int             `json:"attempt_number"`
	Task               string          `json:"task"`
	Success            bool            `json:"success"`
	Difficulty         float64         `json:"difficulty"`
	SuccessProbability float64         `json:"success_probability"`
	GrowthGain         float64         `json:"growth_gain"`
	CurrentGrowth      float64         `json:"current_growth"`
	EmotionalResponse  SeedlingEmotion `json:"emotional_response"`
	ResilienceImpact   float64         `json:"resilience_impact"`
	MilestoneReached   bool            `json:"milestone_reached"`
}

// CareReceipt is the seedling's response to care received from a guardian.
type CareReceipt struct {
	CareType          string          `json:"care_type"`
	Intensity         float64         `json:"intensity"`
	TrustChange       float64         `json:"trust_change"`
	GrowthImpact      float64         `json:"growth_impact"`
	ResilienceBoost   float64         `json:"resilience_boost"`
	EmotionalResponse SeedlingEmotion `json:"emotional_response"`
}

// CareOffer is the result of a seedling giving care back to a guardian.
// A refusal is a normal outcome, not an error: CareGiven is false and Reason
// names the missing prerequisite.
type CareOffer struct {
	CareGiven         bool            `json:"care_given"`
	Reason            string          `json:"reason,omitempty"`
	CareType          string          `json:"care_type,omitempty"`
	IntendedIntensity float64         `json:"intended_intensity"`
	ActualIntensity   float64         `json:"actual_intensity"`
	PersonalGrowth    float64         `json:"personal_growth"`
	EmotionalResponse SeedlingEmotion `json:"emotional_response,omitempty"`
}

// EmotionalImpact is the result of a seedling experiencing an event.
type EmotionalImpact struct {
	EventType         string          `json:"event_type"`
	Description       string          `json:"description"`
	EmotionalResponse SeedlingEmotion `json:"emotional_response"`
	GrowthImpact      float64         `json:"growth_impact"`
	ResilienceImpact  float64         `json:"resilience_impact"`
	ExternalTrigger   bool            `json:"external_trigger"`
}

// LearningStats summarise a seedling's attempt counters.
type LearningStats struct {
	Attempts    int     `json:"attempts"`
	Successes   int     `json:"successes"`
	SuccessRate float64 `json:"success_rate"`
}

// CareStats summarise cumulative care intensity exchanged.
type CareStats struct {
	ReceivedTotal float64 `json:"received_total"`
	GivenTotal    float64 `json:"given_total"`
	CareBalance   float64 `json:"care_balance"`
}

// DevelopmentSummary is a read-only aggregate of a seedling's state.
type DevelopmentSummary struct {
	SeedlingID     string            `json:"seedling_id"`
	Name           string            `json:"name"`
	AgeDays        int               `json:"age_days"`
	GrowthScore    float64           `json:"growth_score"`
	TrustLevel     float64           `json:"trust_level"`
	Learning       LearningStats     `json:"learning_stats"`
	CurrentEmotion SeedlingEmotion   `json:"current_emotion"`
	RecentEmotions []SeedlingEmotion `json:"recent_emotions"`
	EmotionsLogged int               `json:"total_emotions_logged"`
	Care           CareStats         `json:"care_stats"`
	Adaptability   float64           `json:"adaptability"`
	Resilience     float64           `json:"resilience"`
	Curiosity      float64           `json:"curiosity"`
	Milestones     int               `json:"milestones_achieved"`
	HasShelter     bool              `json:"has_shelter"`
	HasParent      bool              `json:"has_parent"`
}

// Reflection is the guardian's assessment of a child observation.
type Reflection struct {
	ReflectionTime   time.Time       `json:"reflection_time"`
	ChildName        string          `json:"child_name"`
	Observation      string          `json:"observation"`
	GuardianEmotion  GuardianEmotion `json:"guardian_emotion"`
	GrowthAssessment float64         `json:"growth_assessment"`
	TrustAssessment  float64         `json:"trust_assessment"`
	Recommendations  []string        `json:"recommendations"`
}

// CareAcknowledgement is the guardian's response to care from a child.
type CareAcknowledgement struct {
	CareType         string          `json:"care_received"`
	Intensity        float64         `json:"intensity"`
	GuardianResponse GuardianEmotion `json:"guardian_response"`
	WisdomGain       float64         `json:"wisdom_gain"`
	BondStrengthened bool            `json:"bond_strengthened"`
}

// DateRange bounds the timestamps covered by a summary.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ResonanceSummary aggregates a guardian's resonance log, optionally
// filtered to a single child.
type ResonanceSummary struct {
	TotalEntries          int                     `json:"total_entries"`
	DateRange             DateRange               `json:"date_range"`
	EmotionalDistribution map[GuardianEmotion]int `json:"emotional_distribution,omitempty"`
	TotalGrowthImpact     float64                 `json:"total_growth_impact"`
	AverageGrowthImpact   float64                 `json:"average_growth_impact"`
	WisdomAccumulated     float64                 `json:"wisdom_accumulated"`
	ActiveRelationships   int                     `json:"active_relationships"`
}
