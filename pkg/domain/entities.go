// Package domain defines the core entities, value types, event records, and
// rule evaluation primitives used by liminalcore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and rule violations.
const (
	// EntityGuardian identifies a caretaker record.
	EntityGuardian EntityType = "guardian"
	// EntitySeedling identifies a dependent record.
	EntitySeedling EntityType = "seedling"
	// EntityShelter identifies a bounded environment record.
	EntityShelter EntityType = "shelter"
)

// IsolationLevel controls how strictly a shelter gates external access.
type IsolationLevel string

// Canonical isolation levels, from most permissive to most protective.
const (
	IsolationLow    IsolationLevel = "low"
	IsolationMedium IsolationLevel = "medium"
	IsolationHigh   IsolationLevel = "high"
)

// AccessPermission is the outcome tier of an access evaluation.
type AccessPermission string

// Access permission tiers, ordered by increasing privilege.
const (
	PermissionDenied     AccessPermission = "denied"
	PermissionLimited    AccessPermission = "limited"
	PermissionSupervised AccessPermission = "supervised"
	PermissionAllowed    AccessPermission = "allowed"
)

// GuardianEmotion enumerates emotional states a guardian records in its
// resonance log.
type GuardianEmotion string

// Guardian emotional states.
const (
	GuardianWorry      GuardianEmotion = "worry"
	GuardianJoy        GuardianEmotion = "joy"
	GuardianConcern    GuardianEmotion = "concern"
	GuardianPride      GuardianEmotion = "pride"
	GuardianCompassion GuardianEmotion = "compassion"
	GuardianHope       GuardianEmotion = "hope"
	GuardianGratitude  GuardianEmotion = "gratitude"
)

// SeedlingEmotion enumerates emotional states a seedling can experience.
type SeedlingEmotion string

// Seedling emotional states.
const (
	SeedlingCuriosity   SeedlingEmotion = "curiosity"
	SeedlingFrustration SeedlingEmotion = "frustration"
	SeedlingJoy         SeedlingEmotion = "joy"
	SeedlingFear        SeedlingEmotion = "fear"
	SeedlingGratitude   SeedlingEmotion = "gratitude"
	SeedlingConfusion   SeedlingEmotion = "confusion"
	SeedlingTrust       SeedlingEmotion = "trust"
	SeedlingWonder      SeedlingEmotion = "wonder"
)

// Reaction labels the emotional colour of a shelter log entry.
type Reaction string

// Shelter reactions recognised by the emotional climate engine.
const (
	ReactionJoy       Reaction = "joy"
	ReactionConcern   Reaction = "concern"
	ReactionWorry     Reaction = "worry"
	ReactionNeutral   Reaction = "neutral"
	ReactionPride     Reaction = "pride"
	ReactionGratitude Reaction = "gratitude"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Guardian is the caretaker entity. It owns the seedlings and shelters it
// created (by id, through the store registry) and accumulates wisdom from
// reciprocal care.
type Guardian struct {
	Base
	Name              string                  `json:"name"`
	ChildIDs          []string                `json:"child_ids"`
	ShelterIDs        []string                `json:"shelter_ids"`
	ResonanceLog      Journal[ResonanceEntry] `json:"resonance_log"`
	EmpathyLevel      float64                 `json:"empathy_level"`
	PatienceLevel     float64                 `json:"patience_level"`
	WisdomAccumulated float64                 `json:"wisdom_accumulated"`
}

// Seedling is the dependent entity that learns, accrues trust and growth,
// and may reciprocate care. Its shelter and parent references are ids into
// the owning registry, never pointers.
type Seedling struct {
	Base
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id"`
	ShelterID *string `json:"shelter_id"`

	TrustLevel     float64 `json:"trust_level"`
	GrowthScore    float64 `json:"growth_score"`
	Resilience     float64 `json:"resilience"`
	Adaptability   float64 `json:"adaptability"`
	CuriosityLevel float64 `json:"curiosity_level"`

	LearningAttempts    int `json:"learning_attempts"`
	SuccessfulLearnings int `json:"successful_learnings"`

	CurrentEmotion   SeedlingEmotion          `json:"current_emotion"`
	EmotionalHistory Journal[EmotionRecord]   `json:"emotional_history"`
	Milestones       Journal[GrowthMilestone] `json:"growth_milestones"`
	CareInteractions Journal[CareInteraction] `json:"care_interactions"`
}

// EnvironmentalFactors are the four named climate scalars of a shelter,
// each kept within [0,1] by the emotional engine.
type EnvironmentalFactors struct {
	Safety    float64 `json:"safety"`
	Support   float64 `json:"support"`
	Challenge float64 `json:"challenge"`
	Freedom   float64 `json:"freedom"`
}

// Resource describes an entry in a shelter's read-only resource catalogue.
// The catalogue is descriptive; no operation gates on it.
type Resource struct {
	ResourceID   string  `json:"resource_id"`
	ResourceType string  `json:"resource_type"`
	Availability float64 `json:"availability"`
	AccessLevel  string  `json:"access_level"`
	Protected    bool    `json:"protected"`
}

// Shelter is the bounded environment mediating access and tracking the
// emotional climate around a single seedling. CreatedBy and ForSeedling are
// immutable after construction.
type Shelter struct {
	Base
	CreatedBy   string `json:"created_by"`
	ForSeedling string `json:"for_seedling"`

	IsolationLevel IsolationLevel `json:"isolation_level"`
	TrustThreshold float64        `json:"trust_threshold"`
	GrowthScore    float64        `json:"growth_score"`

	EmotionalLog Journal[EmotionalMarker] `json:"emotional_log"`
	AccessLog    Journal[AccessAttempt]   `json:"access_log"`

	TrustedEntities map[string]bool `json:"trusted_entities"`
	BlockedEntities map[string]bool `json:"blocked_entities"`

	Resources   map[string]Resource  `json:"resources"`
	Environment EnvironmentalFactors `json:"environmental_factors"`

	ShelterModeActive bool       `json:"shelter_mode_active"`
	LastMaintenance   *time.Time `json:"last_maintenance"`
}

// NewGuardian constructs a guardian with the default care capabilities.
func NewGuardian(name string) Guardian {
	return Guardian{
		Name:          name,
		EmpathyLevel:  0.8,
		PatienceLevel: 0.9,
	}
}

// NewSeedling constructs a seedling with the default developmental profile.
func NewSeedling(name string) Seedling {
	return Seedling{
		Name:           name,
		TrustLevel:     0.5,
		Adaptability:   0.3,
		Resilience:     0.4,
		CuriosityLevel: 0.8,
		CurrentEmotion: SeedlingCuriosity,
	}
}

// NewShelter constructs a shelter for the given seedling. The creating
// guardian is always trusted and the default resource catalogue is fixed at
// construction.
func NewShelter(createdBy, forSeedling string, isolation IsolationLevel) Shelter {
	if isolation == "" {
		isolation = IsolationHigh
	}
	return Shelter{
		CreatedBy:       createdBy,
		ForSeedling:     forSeedling,
		IsolationLevel:  isolation,
		TrustThreshold:  0.8,
		TrustedEntities: map[string]bool{createdBy: true},
		BlockedEntities: map[string]bool{},
		Resources:       DefaultResources(),
		Environment: EnvironmentalFactors{
			Safety:    0.9,
			Support:   0.8,
			Challenge: 0.3,
			Freedom:   0.7,
		},
	}
}

// DefaultResources returns the catalogue every shelter starts with.
func DefaultResources() map[string]Resource {
	defaults := []Resource{
		{ResourceID: "memory_safe", ResourceType: "memory", Availability: 0.8, AccessLevel: "read", Protected: true},
		{ResourceID: "processing_limited", ResourceType: "processing", Availability: 0.6, AccessLevel: "execute", Protected: true},
		{ResourceID: "data_filtered", ResourceType: "data", Availability: 0.7, AccessLevel: "read", Protected: true},
		{ResourceID: "learning_tools", ResourceType: "tools", Availability: 0.9, AccessLevel: "execute", Protected: true},
		{ResourceID: "emotional_support", ResourceType: "support", Availability: 1.0, AccessLevel: "read", Protected: true},
	}
	out := make(map[string]Resource, len(defaults))
	for _, r := range defaults {
		out[r.ResourceID] = r
	}
	return out
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported mutations captured for rules and audit.
// Entities live for the process duration; there is no delete action.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Warnings returns the subset of violations with warn severity.
func (r Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityWarn {
			out = append(out, v)
		}
	}
	return out
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
