package core

import (
	"context"
	"fmt"

	"liminalcore/pkg/domain"
)

// BoundedScalarsRule verifies that every bounded scalar committed to the
// store lies inside [0, 1]. Mutators clamp on write, so a violation here
// means an engine bug rather than bad input.
func BoundedScalarsRule() domain.Rule {
	return boundedScalarsRule{}
}

type boundedScalarsRule struct{}

func (boundedScalarsRule) Name() string { return "bounded_scalars" }

func (boundedScalarsRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	for _, change := range changes {
		if change.After == nil {
			continue
		}
		switch after := change.After.(type) {
		case domain.Guardian:
			checkBounds(&res, domain.EntityGuardian, after.ID, "empathy_level", after.EmpathyLevel)
			checkBounds(&res, domain.EntityGuardian, after.ID, "patience_level", after.PatienceLevel)
			if after.WisdomAccumulated < 0 {
				res.Violations = append(res.Violations, boundsViolation(domain.EntityGuardian, after.ID,
					fmt.Sprintf("wisdom_accumulated is negative: %f", after.WisdomAccumulated)))
			}
		case domain.Seedling:
			checkBounds(&res, domain.EntitySeedling, after.ID, "trust_level", after.TrustLevel)
			checkBounds(&res, domain.EntitySeedling, after.ID, "growth_score", after.GrowthScore)
			checkBounds(&res, domain.EntitySeedling, after.ID, "resilience", after.Resilience)
			checkBounds(&res, domain.EntitySeedling, after.ID, "adaptability", after.Adaptability)
			checkBounds(&res, domain.EntitySeedling, after.ID, "curiosity_level", after.CuriosityLevel)
		case domain.Shelter:
			checkBounds(&res, domain.EntityShelter, after.ID, "trust_threshold", after.TrustThreshold)
			checkBounds(&res, domain.EntityShelter, after.ID, "growth_score", after.GrowthScore)
			checkBounds(&res, domain.EntityShelter, after.ID, "safety", after.Environment.Safety)
			checkBounds(&res, domain.EntityShelter, after.ID, "support", after.Environment.Support)
			checkBounds(&res, domain.EntityShelter, after.ID, "challenge", after.Environment.Challenge)
			checkBounds(&res, domain.EntityShelter, after.ID, "freedom", after.Environment.Freedom)
			for _, resource := range after.Resources {
				checkBounds(&res, domain.EntityShelter, after.ID, "resource "+resource.ResourceID+" availability", resource.Availability)
			}
		}
	}

	return res, nil
}

func checkBounds(res *domain.Result, entity domain.EntityType, entityID, field string, value float64) {
	if value >= 0 && value <= 1 {
		return
	}
	res.Violations = append(res.Violations, boundsViolation(entity, entityID,
		fmt.Sprintf("%s out of range [0,1]: %f", field, value)))
}

func boundsViolation(entity domain.EntityType, entityID, message string) domain.Violation {
	return domain.Violation{
		Rule:     "bounded_scalars",
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   entity,
		EntityID: entityID,
	}
}
