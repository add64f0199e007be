package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"liminalcore/pkg/domain"
)

func TestDefaultScenarioIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default scenario must validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	content := []byte("seed: 7\nguardian:\n  name: Sage\nshelter:\n  isolation: medium\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 7 || cfg.Guardian.Name != "Sage" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Shelter.Isolation != domain.IsolationMedium {
		t.Fatalf("expected medium isolation, got %v", cfg.Shelter.Isolation)
	}
	// untouched sections keep their defaults
	if cfg.Seedling.Name != "Nova" || len(cfg.Curriculum) == 0 {
		t.Fatalf("defaults lost on overlay: %+v", cfg)
	}
}

func TestLoadRejectsInvalidScenario(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad isolation", "shelter:\n  isolation: fortress\n"},
		{"difficulty out of range", "curriculum:\n  - task: impossible\n    difficulty: 1.5\n"},
		{"missing guardian name", "guardian:\n  name: \"\"\n"},
		{"probe without id", "access_probes:\n  - entity_type: external\n    trust_level: 0.5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenario.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
