package core

import (
	"context"
	"fmt"

	"liminalcore/pkg/domain"
)

// LineageIntegrityRule enforces referential integrity between guardians,
// seedlings, and shelters: every id held by one entity must name an existing
// entity of the right kind, and parent/child links must agree on both sides.
func LineageIntegrityRule() domain.Rule {
	return lineageIntegrityRule{}
}

type lineageIntegrityRule struct{}

func (lineageIntegrityRule) Name() string { return "lineage_integrity" }

func (lineageIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	guardians := view.ListGuardians()
	guardianIndex := make(map[string]domain.Guardian, len(guardians))
	for _, g := range guardians {
		guardianIndex[g.ID] = g
	}
	seedlings := view.ListSeedlings()
	seedlingIndex := make(map[string]domain.Seedling, len(seedlings))
	for _, sd := range seedlings {
		seedlingIndex[sd.ID] = sd
	}
	shelters := view.ListShelters()
	shelterIndex := make(map[string]domain.Shelter, len(shelters))
	for _, sh := range shelters {
		shelterIndex[sh.ID] = sh
	}

	for _, sd := range seedlings {
		if sd.ParentID != nil {
			parent, ok := guardianIndex[*sd.ParentID]
			if !ok {
				res.Violations = append(res.Violations, lineageViolation(domain.EntitySeedling, sd.ID,
					fmt.Sprintf("seedling %s references missing guardian %s", sd.ID, *sd.ParentID)))
			} else if !containsID(parent.ChildIDs, sd.ID) {
				res.Violations = append(res.Violations, lineageViolation(domain.EntitySeedling, sd.ID,
					fmt.Sprintf("seedling %s names guardian %s that does not list it as a child", sd.ID, parent.ID)))
			}
		}
		if sd.ShelterID != nil {
			if _, ok := shelterIndex[*sd.ShelterID]; !ok {
				res.Violations = append(res.Violations, lineageViolation(domain.EntitySeedling, sd.ID,
					fmt.Sprintf("seedling %s references missing shelter %s", sd.ID, *sd.ShelterID)))
			}
		}
	}

	for _, g := range guardians {
		for _, childID := range g.ChildIDs {
			if _, ok := seedlingIndex[childID]; !ok {
				res.Violations = append(res.Violations, lineageViolation(domain.EntityGuardian, g.ID,
					fmt.Sprintf("guardian %s lists missing child %s", g.ID, childID)))
			}
		}
		for _, shelterID := range g.ShelterIDs {
			if _, ok := shelterIndex[shelterID]; !ok {
				res.Violations = append(res.Violations, lineageViolation(domain.EntityGuardian, g.ID,
					fmt.Sprintf("guardian %s lists missing shelter %s", g.ID, shelterID)))
			}
		}
	}

	for _, sh := range shelters {
		if sh.CreatedBy != "" {
			if _, ok := guardianIndex[sh.CreatedBy]; !ok {
				res.Violations = append(res.Violations, lineageViolation(domain.EntityShelter, sh.ID,
					fmt.Sprintf("shelter %s references missing creator %s", sh.ID, sh.CreatedBy)))
			}
		}
		if sh.ForSeedling != "" {
			if _, ok := seedlingIndex[sh.ForSeedling]; !ok {
				res.Violations = append(res.Violations, lineageViolation(domain.EntityShelter, sh.ID,
					fmt.Sprintf("shelter %s references missing seedling %s", sh.ID, sh.ForSeedling)))
			}
		}
	}

	return res, nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func lineageViolation(entity domain.EntityType, entityID, message string) domain.Violation {
	return domain.Violation{
		Rule:     "lineage_integrity",
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   entity,
		EntityID: entityID,
	}
}
