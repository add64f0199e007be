package core

import (
	"context"
	"fmt"
	"sort"

	"liminalcore/pkg/domain"
)

// TrustConflictRule flags entities that appear in both the trusted and
// blocked set of the same shelter. The access engine resolves the conflict
// in favour of the block, so the contradiction is surfaced as a warning
// rather than rejected.
func TrustConflictRule() domain.Rule {
	return trustConflictRule{}
}

type trustConflictRule struct{}

func (trustConflictRule) Name() string { return "trust_conflict" }

func (trustConflictRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	for _, sh := range view.ListShelters() {
		var conflicted []string
		for entityID := range sh.TrustedEntities {
			if sh.BlockedEntities[entityID] {
				conflicted = append(conflicted, entityID)
			}
		}
		sort.Strings(conflicted)
		for _, entityID := range conflicted {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "trust_conflict",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("entity %s is both trusted and blocked in shelter %s", entityID, sh.ID),
				Entity:   domain.EntityShelter,
				EntityID: sh.ID,
			})
		}
	}

	return res, nil
}
