package domain

import "time"

// Event names the emotional and lifecycle engines branch on. Callers may log
// arbitrary event strings; only these carry event-specific adjustments.
const (
	EventLearningSuccess  = "learning_success"
	EventLearningFailure  = "learning_failure"
	EventMistake          = "mistake"
	EventMilestone        = "milestone"
	EventFailure          = "failure"
	EventAccessDenied     = "access_denied"
	EventChildAssigned    = "child_assigned"
	EventEntityTrusted    = "entity_trusted"
	EventEntityBlocked    = "entity_blocked"
	EventShelterActivated = "shelter_mode_activated"
	EventThresholdUpdated = "trust_threshold_updated"
)

// Care types with dedicated trust-gain multipliers in the care engine.
const (
	CareEmotionalSupport = "emotional_support"
	CareGuidance         = "guidance"
	CareProtection       = "protection"
)

// Care interaction directions.
const (
	CareReceived = "received_care"
	CareGiven    = "gave_care"
)

// MilestoneFirstLearningSuccess is recorded at most once per seedling.
const MilestoneFirstLearningSuccess = "first_learning_success"

// EmotionalMarker is one entry in a shelter's emotional log. GrowthImpact is
// the bounded delta the event applied to the shelter growth score.
type EmotionalMarker struct {
	Timestamp    time.Time `json:"timestamp"`
	Event        string    `json:"event"`
	Reaction     Reaction  `json:"reaction"`
	Description  string    `json:"description"`
	Intensity    float64   `json:"intensity"`
	TriggeredBy  string    `json:"triggered_by"`
	GrowthImpact float64   `json:"growth_impact"`
}

// AccessAttempt is one entry in a shelter's access log.
type AccessAttempt struct {
	Timestamp         time.Time `json:"timestamp"`
	EntityID          string    `json:"entity_id"`
	EntityType        string    `json:"entity_type"`
	AccessType        string    `json:"access_type"`
	PermissionGranted bool      `json:"permission_granted"`
	TrustLevel        float64   `json:"trust_level"`
	Reason            string    `json:"reason,omitempty"`
}

// ResonanceEntry is one entry in a guardian's resonance log, tracking an
// interaction with a specific child.
type ResonanceEntry struct {
	Timestamp    time.Time       `json:"timestamp"`
	EventType    string          `json:"event_type"`
	ChildID      string          `json:"child_id"`
	Emotion      GuardianEmotion `json:"emotional_state"`
	Description  string          `json:"description"`
	GrowthImpact float64         `json:"growth_impact"`
	Notes        string          `json:"notes,omitempty"`
}

// EmotionRecord is one entry in a seedling's emotional history.
type EmotionRecord struct {
	Timestamp   time.Time       `json:"timestamp"`
	Event       string          `json:"event"`
	Emotion     SeedlingEmotion `json:"emotion"`
	Description string          `json:"description"`
}

// GrowthMilestone marks a significant growth achievement.
type GrowthMilestone struct {
	Timestamp       time.Time       `json:"timestamp"`
	MilestoneType   string          `json:"milestone_type"`
	Description     string          `json:"description"`
	Significance    float64         `json:"significance"`
	EmotionalImpact SeedlingEmotion `json:"emotional_impact"`
	Notes           string          `json:"notes,omitempty"`
}

// CareInteraction records care exchanged between seedling and guardian.
type CareInteraction struct {
	Timestamp         time.Time       `json:"timestamp"`
	InteractionType   string          `json:"interaction_type"`
	FromEntity        string          `json:"from_entity"`
	CareType          string          `json:"care_type"`
	Intensity         float64         `json:"intensity"`
	EmotionalResponse SeedlingEmotion `json:"emotional_response"`
	ImpactOnGrowth    float64         `json:"impact_on_growth"`
}
