package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"liminalcore/pkg/domain"
)

// evaluateAccessTier maps (isolation level, trust level, threshold) to a
// permission tier. Blocked and trusted overrides are applied by the caller.
func evaluateAccessTier(sh *Shelter, trustLevel float64) AccessPermission {
	threshold := sh.TrustThreshold
	switch sh.IsolationLevel {
	case IsolationHigh:
		switch {
		case trustLevel >= threshold:
			return PermissionSupervised
		case trustLevel >= threshold*0.7:
			return PermissionLimited
		default:
			return PermissionDenied
		}
	case IsolationMedium:
		switch {
		case trustLevel >= threshold:
			return PermissionAllowed
		case trustLevel >= threshold*0.6:
			return PermissionSupervised
		default:
			return PermissionLimited
		}
	default: // low
		switch {
		case trustLevel >= threshold*0.8:
			return PermissionAllowed
		case trustLevel >= threshold*0.5:
			return PermissionSupervised
		default:
			return PermissionLimited
		}
	}
}

// emotionalGrowthImpact computes the bounded growth delta of one emotional
// event: a reaction-derived base plus an event-specific adjustment, clamped
// to [-0.1, 0.1].
func emotionalGrowthImpact(event string, reaction Reaction, intensity float64) float64 {
	var impact float64
	switch reaction {
	case domain.ReactionJoy, domain.ReactionPride, domain.ReactionGratitude:
		impact = intensity * 0.05
	case domain.ReactionConcern, domain.ReactionWorry:
		impact = -intensity * 0.03
	}
	switch event {
	case domain.EventLearningSuccess:
		impact += 0.02
	case domain.EventMistake:
		impact -= 0.01
	case domain.EventMilestone:
		impact += 0.03
	}
	return domain.Clamp(impact, -0.1, 0.1)
}

// shiftEnvironment nudges the climate scalars after an emotional event.
// Safety never drops below 0.5 and challenge never below 0.1.
func shiftEnvironment(sh *Shelter, marker domain.EmotionalMarker) {
	switch marker.Reaction {
	case domain.ReactionWorry, domain.ReactionConcern:
		sh.Environment.Safety = domain.Clamp(sh.Environment.Safety-marker.Intensity*0.1, 0.5, 1)
	case domain.ReactionJoy, domain.ReactionPride:
		sh.Environment.Safety = domain.Clamp01(sh.Environment.Safety + marker.Intensity*0.05)
	}
	if marker.Reaction == domain.ReactionGratitude {
		sh.Environment.Support = domain.Clamp01(sh.Environment.Support + marker.Intensity*0.05)
	}
	switch marker.Event {
	case domain.EventLearningSuccess:
		sh.Environment.Challenge = domain.Clamp01(sh.Environment.Challenge + 0.02)
	case domain.EventFailure:
		sh.Environment.Challenge = domain.Clamp(sh.Environment.Challenge-0.01, 0.1, 1)
	}
}

// appendEmotionalEvent records an emotional marker on the shelter, applies
// its growth delta, and shifts the environmental factors.
func appendEmotionalEvent(now time.Time, sh *Shelter, event string, reaction Reaction, description string, intensity float64, triggeredBy string) domain.EmotionalMarker {
	if triggeredBy == "" {
		triggeredBy = "system"
	}
	marker := domain.EmotionalMarker{
		Timestamp:    now,
		Event:        event,
		Reaction:     reaction,
		Description:  description,
		Intensity:    intensity,
		TriggeredBy:  triggeredBy,
		GrowthImpact: emotionalGrowthImpact(event, reaction, intensity),
	}
	sh.EmotionalLog.Append(marker)
	sh.GrowthScore = domain.Clamp01(sh.GrowthScore + marker.GrowthImpact)
	shiftEnvironment(sh, marker)
	return marker
}

// LogEmotionalEvent records an emotional event in the shelter's log,
// adjusting its growth score and environmental factors.
func (s *Service) LogEmotionalEvent(ctx context.Context, shelterID, event string, reaction Reaction, description string, intensity float64, triggeredBy string) (domain.EmotionalMarker, Result, error) {
	var marker domain.EmotionalMarker
	res, err := s.instrument(ctx, "log_emotional_event", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			_, err := tx.UpdateShelter(shelterID, func(sh *Shelter) error {
				marker = appendEmotionalEvent(tx.Now(), sh, event, reaction, description, intensity, triggeredBy)
				return nil
			})
			return err
		})
		return shelterID, res, err
	})
	return marker, res, err
}

// RequestAccess evaluates an access request against the shelter's access
// policy. Blocked entities are always denied and trusted entities always
// allowed; everyone else lands on an isolation-dependent permission tier.
// Every request is logged, and denials raise a concern event.
func (s *Service) RequestAccess(ctx context.Context, shelterID, entityID, entityType, accessType string, trustLevel float64, reason string) (domain.AccessDecision, Result, error) {
	var decision domain.AccessDecision
	res, err := s.instrument(ctx, "request_access", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			_, err := tx.UpdateShelter(shelterID, func(sh *Shelter) error {
				var permission AccessPermission
				switch {
				case sh.BlockedEntities[entityID]:
					permission = PermissionDenied
				case sh.TrustedEntities[entityID]:
					permission = PermissionAllowed
				default:
					permission = evaluateAccessTier(sh, trustLevel)
				}
				granted := permission != PermissionDenied

				sh.AccessLog.Append(domain.AccessAttempt{
					Timestamp:         tx.Now(),
					EntityID:          entityID,
					EntityType:        entityType,
					AccessType:        accessType,
					PermissionGranted: granted,
					TrustLevel:        trustLevel,
					Reason:            reason,
				})
				if !granted {
					appendEmotionalEvent(tx.Now(), sh, domain.EventAccessDenied, domain.ReactionConcern,
						fmt.Sprintf("Access denied to %s %s for %s", entityType, entityID, accessType), 0.6, entityID)
				}

				decision = domain.AccessDecision{
					AccessGranted:      granted,
					PermissionLevel:    permission,
					TrustLevelRequired: sh.TrustThreshold,
					EntityTrust:        trustLevel,
					IsolationLevel:     sh.IsolationLevel,
					Reason:             reason,
				}
				return nil
			})
			return err
		})
		return shelterID, res, err
	})
	return decision, res, err
}

// ActivateShelterMode turns on enhanced protection. The transition is
// one-way and idempotent: the first call raises the trust threshold by 0.1
// and logs a joy event; later calls report the mode as already active.
func (s *Service) ActivateShelterMode(ctx context.Context, shelterID string) (domain.ShelterModeStatus, Result, error) {
	var status domain.ShelterModeStatus
	res, err := s.instrument(ctx, "activate_shelter_mode", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			_, err := tx.UpdateShelter(shelterID, func(sh *Shelter) error {
				if sh.ShelterModeActive {
					status = domain.ShelterModeStatus{
						AlreadyActive:     true,
						OriginalThreshold: sh.TrustThreshold,
						NewThreshold:      sh.TrustThreshold,
					}
					return nil
				}
				sh.ShelterModeActive = true
				appendEmotionalEvent(tx.Now(), sh, domain.EventShelterActivated, domain.ReactionJoy,
					"Enhanced protection mode activated for maximum safety", 0.8, sh.CreatedBy)
				original := sh.TrustThreshold
				sh.TrustThreshold = domain.Clamp01(sh.TrustThreshold + 0.1)
				status = domain.ShelterModeStatus{
					ModeActivated:     true,
					OriginalThreshold: original,
					NewThreshold:      sh.TrustThreshold,
				}
				return nil
			})
			return err
		})
		return shelterID, res, err
	})
	return status, res, err
}

// UpdateTrustThreshold clamps and applies a new trust threshold, logging an
// emotional event whose reaction follows the sign of the change.
func (s *Service) UpdateTrustThreshold(ctx context.Context, shelterID string, newThreshold float64, reason string) (domain.ThresholdUpdate, Result, error) {
	var update domain.ThresholdUpdate
	res, err := s.instrument(ctx, "update_trust_threshold", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			_, err := tx.UpdateShelter(shelterID, func(sh *Shelter) error {
				old := sh.TrustThreshold
				sh.TrustThreshold = domain.Clamp01(newThreshold)
				change := sh.TrustThreshold - old

				var reaction Reaction
				var description string
				switch {
				case change > 0:
					reaction = domain.ReactionConcern
					description = "Trust threshold increased for enhanced protection: " + reason
				case change < 0:
					reaction = domain.ReactionJoy
					description = "Trust threshold decreased to allow more interaction: " + reason
				default:
					reaction = domain.ReactionNeutral
					description = "Trust threshold maintained: " + reason
				}
				abs := change
				if abs < 0 {
					abs = -abs
				}
				appendEmotionalEvent(tx.Now(), sh, domain.EventThresholdUpdated, reaction, description, abs, sh.CreatedBy)

				update = domain.ThresholdUpdate{
					OldThreshold:    old,
					NewThreshold:    sh.TrustThreshold,
					Change:          change,
					Reason:          reason,
					EmotionalImpact: reaction,
				}
				return nil
			})
			return err
		})
		return shelterID, res, err
	})
	return update, res, err
}

// AddTrustedEntity grants an entity automatic access. The add is idempotent
// and removes the entity from the blocked set when present.
func (s *Service) AddTrustedEntity(ctx context.Context, shelterID, entityID, reason string) (domain.TrustGrant, Result, error) {
	var grant domain.TrustGrant
	res, err := s.instrument(ctx, "add_trusted_entity", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			_, err := tx.UpdateShelter(shelterID, func(sh *Shelter) error {
				if sh.TrustedEntities[entityID] {
					grant = domain.TrustGrant{
						EntityID:     entityID,
						Reason:       "entity already trusted",
						TotalTrusted: len(sh.TrustedEntities),
					}
					return nil
				}
				sh.TrustedEntities[entityID] = true
				delete(sh.BlockedEntities, entityID)
				appendEmotionalEvent(tx.Now(), sh, domain.EventEntityTrusted, domain.ReactionJoy,
					fmt.Sprintf("Entity %s added to trusted list: %s", entityID, reason), 0.7, sh.CreatedBy)
				grant = domain.TrustGrant{
					EntityAdded:  true,
					EntityID:     entityID,
					Reason:       reason,
					TotalTrusted: len(sh.TrustedEntities),
				}
				return nil
			})
			return err
		})
		return shelterID, res, err
	})
	return grant, res, err
}

// BlockEntity denies an entity all future access. Blocking does not remove
// the entity from the trusted set; the trust_conflict rule flags the
// contradiction instead of resolving it silently.
func (s *Service) BlockEntity(ctx context.Context, shelterID, entityID, reason string) (domain.EntityBlock, Result, error) {
	var block domain.EntityBlock
	res, err := s.instrument(ctx, "block_entity", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			_, err := tx.UpdateShelter(shelterID, func(sh *Shelter) error {
				if sh.BlockedEntities[entityID] {
					block = domain.EntityBlock{
						EntityID:     entityID,
						Reason:       "entity already blocked",
						TotalBlocked: len(sh.BlockedEntities),
					}
					return nil
				}
				sh.BlockedEntities[entityID] = true
				appendEmotionalEvent(tx.Now(), sh, domain.EventEntityBlocked, domain.ReactionConcern,
					fmt.Sprintf("Entity %s blocked from shelter: %s", entityID, reason), 0.6, sh.CreatedBy)
				block = domain.EntityBlock{
					EntityBlocked: true,
					EntityID:      entityID,
					Reason:        reason,
					TotalBlocked:  len(sh.BlockedEntities),
				}
				return nil
			})
			return err
		})
		return shelterID, res, err
	})
	return block, res, err
}

// EmotionalSummary aggregates the shelter's emotional log over the trailing
// window. Read-only.
func (s *Service) EmotionalSummary(ctx context.Context, shelterID string, hoursBack int) (domain.EmotionalSummary, error) {
	sh, ok := s.store.GetShelter(shelterID)
	if !ok {
		return domain.EmotionalSummary{}, ErrNotFound{Entity: EntityShelter, ID: shelterID}
	}
	cutoff := s.clock.Now().Add(-time.Duration(hoursBack) * time.Hour)

	summary := domain.EmotionalSummary{
		PeriodHours: hoursBack,
		GrowthScore: sh.GrowthScore,
		Environment: sh.Environment,
	}
	var totalIntensity, totalImpact float64
	counts := make(map[Reaction]int)
	for _, marker := range sh.EmotionalLog.Entries() {
		if !marker.Timestamp.After(cutoff) {
			continue
		}
		summary.EventsCount++
		counts[marker.Reaction]++
		totalIntensity += marker.Intensity
		totalImpact += marker.GrowthImpact
	}
	if summary.EventsCount == 0 {
		return summary, nil
	}
	summary.EmotionalDistribution = counts
	summary.AverageIntensity = totalIntensity / float64(summary.EventsCount)
	summary.AverageGrowthImpact = totalImpact / float64(summary.EventsCount)
	summary.DominantEmotion = dominantReaction(counts)
	return summary, nil
}

// dominantReaction picks the most frequent reaction; ties resolve to the
// lexicographically smallest so summaries are deterministic.
func dominantReaction(counts map[Reaction]int) Reaction {
	reactions := make([]Reaction, 0, len(counts))
	for r := range counts {
		reactions = append(reactions, r)
	}
	sort.Slice(reactions, func(i, j int) bool { return reactions[i] < reactions[j] })
	var dominant Reaction
	best := -1
	for _, r := range reactions {
		if counts[r] > best {
			dominant = r
			best = counts[r]
		}
	}
	return dominant
}

// AccessSummary aggregates the shelter's access log over the trailing
// window. Read-only.
func (s *Service) AccessSummary(ctx context.Context, shelterID string, hoursBack int) (domain.AccessSummary, error) {
	sh, ok := s.store.GetShelter(shelterID)
	if !ok {
		return domain.AccessSummary{}, ErrNotFound{Entity: EntityShelter, ID: shelterID}
	}
	cutoff := s.clock.Now().Add(-time.Duration(hoursBack) * time.Hour)

	summary := domain.AccessSummary{
		PeriodHours:     hoursBack,
		TrustedEntities: len(sh.TrustedEntities),
		BlockedEntities: len(sh.BlockedEntities),
	}
	byType := make(map[string]int)
	for _, attempt := range sh.AccessLog.Entries() {
		if !attempt.Timestamp.After(cutoff) {
			continue
		}
		summary.TotalAttempts++
		byType[attempt.EntityType]++
		if attempt.PermissionGranted {
			summary.Granted++
		} else {
			summary.Denied++
		}
	}
	if summary.TotalAttempts == 0 {
		return summary, nil
	}
	summary.ByEntityType = byType
	summary.GrantRate = float64(summary.Granted) / float64(summary.TotalAttempts)
	return summary, nil
}
