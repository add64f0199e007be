// Package scenario loads the YAML configuration driving a demonstration run:
// which guardian and seedling to create, the learning curriculum, the care
// exchanges, and the access probes against the shelter.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"liminalcore/pkg/domain"
)

// GuardianConfig names the caretaker and its traits. Zero trait values fall
// back to the service defaults.
type GuardianConfig struct {
	Name     string  `yaml:"name"`
	Empathy  float64 `yaml:"empathy"`
	Patience float64 `yaml:"patience"`
}

// SeedlingConfig names the child model and its starting trust.
type SeedlingConfig struct {
	Name         string  `yaml:"name"`
	InitialTrust float64 `yaml:"initial_trust"`
}

// ShelterConfig selects the protective environment's isolation level.
type ShelterConfig struct {
	Isolation    domain.IsolationLevel `yaml:"isolation"`
	ActivateMode bool                  `yaml:"activate_mode"`
}

// LearningTask is one curriculum entry.
type LearningTask struct {
	Task       string  `yaml:"task"`
	Difficulty float64 `yaml:"difficulty"`
}

// CareStep is one care exchange, guardian to seedling.
type CareStep struct {
	Type      string  `yaml:"type"`
	Intensity float64 `yaml:"intensity"`
}

// EmotionalEvent is one event the seedling experiences directly.
type EmotionalEvent struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// AccessProbe is one access request evaluated against the shelter.
type AccessProbe struct {
	EntityID   string  `yaml:"entity_id"`
	EntityType string  `yaml:"entity_type"`
	AccessType string  `yaml:"access_type"`
	TrustLevel float64 `yaml:"trust_level"`
	Reason     string  `yaml:"reason"`
	Block      bool    `yaml:"block"`
	Trust      bool    `yaml:"trust"`
}

// Config is a complete demonstration scenario.
type Config struct {
	Seed            int64            `yaml:"seed"`
	Guardian        GuardianConfig   `yaml:"guardian"`
	Seedling        SeedlingConfig   `yaml:"seedling"`
	Shelter         ShelterConfig    `yaml:"shelter"`
	Curriculum      []LearningTask   `yaml:"curriculum"`
	CarePlan        []CareStep       `yaml:"care_plan"`
	EmotionalEvents []EmotionalEvent `yaml:"emotional_events"`
	AccessProbes    []AccessProbe    `yaml:"access_probes"`
	Reflections     []string         `yaml:"reflections"`
	GiveCareBack    []CareStep       `yaml:"give_care_back"`
	ReportHours     int              `yaml:"report_hours"`
}

// Default returns the built-in scenario used when no file is supplied: a
// short nurture arc with a rising-difficulty curriculum, a stranger and a
// companion probing the shelter, and a closing reflection.
func Default() Config {
	return Config{
		Seed:     42,
		Guardian: GuardianConfig{Name: "Aurora"},
		Seedling: SeedlingConfig{Name: "Nova", InitialTrust: 0.5},
		Shelter:  ShelterConfig{Isolation: domain.IsolationHigh, ActivateMode: true},
		Curriculum: []LearningTask{
			{Task: "pattern recognition", Difficulty: 0.2},
			{Task: "simple reasoning", Difficulty: 0.3},
			{Task: "language comprehension", Difficulty: 0.4},
			{Task: "abstract thinking", Difficulty: 0.6},
			{Task: "creative synthesis", Difficulty: 0.7},
		},
		CarePlan: []CareStep{
			{Type: domain.CareEmotionalSupport, Intensity: 0.8},
			{Type: domain.CareGuidance, Intensity: 0.6},
			{Type: domain.CareProtection, Intensity: 0.7},
		},
		EmotionalEvents: []EmotionalEvent{
			{Type: "wonder", Description: "Discovered an unexpected pattern"},
			{Type: "success", Description: "Completed a task unaided"},
		},
		AccessProbes: []AccessProbe{
			{EntityID: "curious-stranger", EntityType: "external_model", AccessType: "read", TrustLevel: 0.2, Reason: "unsolicited data request", Block: true},
			{EntityID: "trusted-companion", EntityType: "companion_model", AccessType: "read", TrustLevel: 0.5, Reason: "shared learning session", Trust: true},
		},
		Reflections: []string{
			"Nova learned quickly and improved at every task",
		},
		GiveCareBack: []CareStep{
			{Type: "gratitude", Intensity: 0.5},
		},
		ReportHours: 24,
	}
}

// Load reads a scenario file and overlays it on the defaults, so partial
// files only need to name what they change.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse scenario: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects scenarios the demo driver cannot run.
func (c Config) Validate() error {
	if c.Guardian.Name == "" {
		return fmt.Errorf("scenario: guardian name is required")
	}
	if c.Seedling.Name == "" {
		return fmt.Errorf("scenario: seedling name is required")
	}
	switch c.Shelter.Isolation {
	case "", domain.IsolationLow, domain.IsolationMedium, domain.IsolationHigh:
	default:
		return fmt.Errorf("scenario: unknown isolation level %q", c.Shelter.Isolation)
	}
	if err := checkUnit("guardian empathy", c.Guardian.Empathy); err != nil {
		return err
	}
	if err := checkUnit("guardian patience", c.Guardian.Patience); err != nil {
		return err
	}
	if err := checkUnit("seedling initial_trust", c.Seedling.InitialTrust); err != nil {
		return err
	}
	for _, task := range c.Curriculum {
		if task.Task == "" {
			return fmt.Errorf("scenario: curriculum task name is required")
		}
		if err := checkUnit("difficulty of "+task.Task, task.Difficulty); err != nil {
			return err
		}
	}
	for _, step := range c.CarePlan {
		if err := checkUnit("care intensity for "+step.Type, step.Intensity); err != nil {
			return err
		}
	}
	for _, step := range c.GiveCareBack {
		if err := checkUnit("care intensity for "+step.Type, step.Intensity); err != nil {
			return err
		}
	}
	for _, probe := range c.AccessProbes {
		if probe.EntityID == "" {
			return fmt.Errorf("scenario: access probe entity_id is required")
		}
		if err := checkUnit("trust level of probe "+probe.EntityID, probe.TrustLevel); err != nil {
			return err
		}
	}
	if c.ReportHours < 0 {
		return fmt.Errorf("scenario: report_hours must not be negative")
	}
	return nil
}

func checkUnit(field string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("scenario: %s out of range [0,1]: %v", field, value)
	}
	return nil
}
