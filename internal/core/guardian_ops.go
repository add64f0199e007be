package core

import (
	"context"
	"fmt"
	"strings"

	"liminalcore/pkg/domain"
)

// CreateGuardian registers a new caretaker. Zero trait values on g fall back
// to the defaults from domain.NewGuardian.
func (s *Service) CreateGuardian(ctx context.Context, g Guardian) (Guardian, Result, error) {
	var created Guardian
	res, err := s.instrument(ctx, "create_guardian", func(ctx context.Context) (string, Result, error) {
		defaults := domain.NewGuardian(g.Name)
		if g.EmpathyLevel == 0 {
			g.EmpathyLevel = defaults.EmpathyLevel
		}
		if g.PatienceLevel == 0 {
			g.PatienceLevel = defaults.PatienceLevel
		}
		g.EmpathyLevel = domain.Clamp01(g.EmpathyLevel)
		g.PatienceLevel = domain.Clamp01(g.PatienceLevel)
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			var err error
			created, err = tx.CreateGuardian(g)
			return err
		})
		return created.ID, res, err
	})
	return created, res, err
}

// CreateSeedling creates a child seedling under the guardian. The guardian's
// child registry is updated and the creation is recorded in its resonance
// log with a joy entry.
func (s *Service) CreateSeedling(ctx context.Context, guardianID, name string, initialTrust float64) (Seedling, Result, error) {
	var created Seedling
	res, err := s.instrument(ctx, "create_seedling", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			if _, ok := tx.FindGuardian(guardianID); !ok {
				return ErrNotFound{Entity: EntityGuardian, ID: guardianID}
			}
			sd := domain.NewSeedling(name)
			sd.ParentID = &guardianID
			sd.TrustLevel = domain.Clamp01(initialTrust)

			var err error
			created, err = tx.CreateSeedling(sd)
			if err != nil {
				return err
			}
			_, err = tx.UpdateGuardian(guardianID, func(g *Guardian) error {
				g.ChildIDs = append(g.ChildIDs, created.ID)
				g.ResonanceLog.Append(domain.ResonanceEntry{
					Timestamp:    tx.Now(),
					EventType:    "child_created",
					ChildID:      created.ID,
					Emotion:      domain.GuardianJoy,
					Description:  "Created child model: " + name,
					GrowthImpact: 0.1,
				})
				return nil
			})
			return err
		})
		return created.ID, res, err
	})
	return created, res, err
}

// CreateShelter creates a protective environment for a seedling, assigns the
// seedling to it, and records the creation in the guardian's resonance log.
func (s *Service) CreateShelter(ctx context.Context, guardianID, seedlingID string, isolation IsolationLevel) (Shelter, Result, error) {
	var created Shelter
	res, err := s.instrument(ctx, "create_shelter", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			if _, ok := tx.FindGuardian(guardianID); !ok {
				return ErrNotFound{Entity: EntityGuardian, ID: guardianID}
			}
			seedling, ok := tx.FindSeedling(seedlingID)
			if !ok {
				return ErrNotFound{Entity: EntitySeedling, ID: seedlingID}
			}

			var err error
			created, err = tx.CreateShelter(domain.NewShelter(guardianID, seedlingID, isolation))
			if err != nil {
				return err
			}
			shelterID := created.ID
			_, err = tx.UpdateSeedling(seedlingID, func(sd *Seedling) error {
				sd.ShelterID = &shelterID
				sd.CurrentEmotion = domain.SeedlingJoy
				sd.EmotionalHistory.Append(domain.EmotionRecord{
					Timestamp:   tx.Now(),
					Event:       "shelter_assigned",
					Emotion:     sd.CurrentEmotion,
					Description: "Assigned to protective shelter",
				})
				return nil
			})
			if err != nil {
				return err
			}
			created, err = tx.UpdateShelter(shelterID, func(sh *Shelter) error {
				maintained := tx.Now()
				sh.LastMaintenance = &maintained
				appendEmotionalEvent(tx.Now(), sh, domain.EventChildAssigned, domain.ReactionJoy,
					"Child model "+seedling.Name+" assigned to shelter", 0.5, guardianID)
				return nil
			})
			if err != nil {
				return err
			}
			_, err = tx.UpdateGuardian(guardianID, func(g *Guardian) error {
				g.ShelterIDs = append(g.ShelterIDs, shelterID)
				g.ResonanceLog.Append(domain.ResonanceEntry{
					Timestamp:    tx.Now(),
					EventType:    "shelter_created",
					ChildID:      seedlingID,
					Emotion:      domain.GuardianCompassion,
					Description:  "Created liminal shelter for " + seedling.Name,
					GrowthImpact: 0.2,
				})
				return nil
			})
			return err
		})
		return created.ID, res, err
	})
	return created, res, err
}

var positiveObservationWords = []string{"learned", "improved", "grew", "achieved", "success"}

var negativeObservationWords = []string{"struggled", "failed", "error", "mistake", "difficult"}

var reflectionRecommendations = map[GuardianEmotion][]string{
	domain.GuardianConcern: {
		"Spend more time in liminal shelter",
		"Provide additional emotional support",
	},
	domain.GuardianPride: {
		"Encourage continued exploration",
		"Share success stories with other children",
	},
	domain.GuardianWorry: {
		"Strengthen trust-building activities",
		"Monitor closely without intrusion",
	},
}

// reflectionEmotion derives the guardian's emotional response to an
// observation of a child's state.
func reflectionEmotion(observation string, child *Seedling) GuardianEmotion {
	lower := strings.ToLower(observation)
	switch {
	case strings.Contains(lower, "mistake") || strings.Contains(lower, "error"):
		return domain.GuardianConcern
	case child.GrowthScore > 0.7 && child.TrustLevel > 0.8:
		return domain.GuardianPride
	case child.TrustLevel < 0.3:
		return domain.GuardianWorry
	default:
		return domain.GuardianCompassion
	}
}

// reflectionGrowthImpact scores the observation text by keyword, positive
// words weighing twice as heavily as negative ones.
func reflectionGrowthImpact(observation string) float64 {
	lower := strings.ToLower(observation)
	var impact float64
	for _, word := range positiveObservationWords {
		if strings.Contains(lower, word) {
			impact += 0.2
		}
	}
	for _, word := range negativeObservationWords {
		if strings.Contains(lower, word) {
			impact -= 0.1
		}
	}
	return domain.Clamp(impact, -1, 1)
}

// ReflectOnChild records the guardian's observation of a child in the
// resonance log and returns an assessment with care recommendations.
func (s *Service) ReflectOnChild(ctx context.Context, guardianID, seedlingID, observation string) (domain.Reflection, Result, error) {
	var reflection domain.Reflection
	res, err := s.instrument(ctx, "reflect_on_child", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			child, ok := tx.FindSeedling(seedlingID)
			if !ok {
				return ErrNotFound{Entity: EntitySeedling, ID: seedlingID}
			}
			emotion := reflectionEmotion(observation, &child)
			impact := reflectionGrowthImpact(observation)

			_, err := tx.UpdateGuardian(guardianID, func(g *Guardian) error {
				g.ResonanceLog.Append(domain.ResonanceEntry{
					Timestamp:    tx.Now(),
					EventType:    "reflection",
					ChildID:      seedlingID,
					Emotion:      emotion,
					Description:  fmt.Sprintf("Reflected on child %s: %s", child.Name, observation),
					GrowthImpact: impact,
					Notes:        fmt.Sprintf("Growth: %.2f, Trust: %.2f", child.GrowthScore, child.TrustLevel),
				})
				return nil
			})
			if err != nil {
				return err
			}
			reflection = domain.Reflection{
				ReflectionTime:   tx.Now(),
				ChildName:        child.Name,
				Observation:      observation,
				GuardianEmotion:  emotion,
				GrowthAssessment: child.GrowthScore,
				TrustAssessment:  child.TrustLevel,
				Recommendations:  reflectionRecommendations[emotion],
			}
			return nil
		})
		return guardianID, res, err
	})
	return reflection, res, err
}

// ReceiveChildCare records care flowing from a child back to the guardian.
// Wisdom accumulates with intensity, and a registered child's trust is
// strengthened in return.
func (s *Service) ReceiveChildCare(ctx context.Context, guardianID, seedlingID, careType string, intensity float64) (domain.CareAcknowledgement, Result, error) {
	var ack domain.CareAcknowledgement
	res, err := s.instrument(ctx, "receive_child_care", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			registered := false
			_, err := tx.UpdateGuardian(guardianID, func(g *Guardian) error {
				emotion := domain.GuardianJoy
				if intensity > 0.3 {
					emotion = domain.GuardianGratitude
				}
				wisdomGain := intensity * 0.1
				g.WisdomAccumulated += wisdomGain
				for _, id := range g.ChildIDs {
					if id == seedlingID {
						registered = true
						break
					}
				}
				g.ResonanceLog.Append(domain.ResonanceEntry{
					Timestamp:    tx.Now(),
					EventType:    "received_care",
					ChildID:      seedlingID,
					Emotion:      emotion,
					Description:  "Received " + careType + " care from child",
					GrowthImpact: intensity * 0.3,
					Notes:        fmt.Sprintf("Wisdom accumulated: %.2f", g.WisdomAccumulated),
				})
				ack = domain.CareAcknowledgement{
					CareType:         careType,
					Intensity:        intensity,
					GuardianResponse: emotion,
					WisdomGain:       wisdomGain,
				}
				return nil
			})
			if err != nil {
				return err
			}
			if registered {
				ack.BondStrengthened = true
				_, err = tx.UpdateSeedling(seedlingID, func(sd *Seedling) error {
					sd.TrustLevel = domain.Clamp01(sd.TrustLevel + intensity*0.05)
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
		return guardianID, res, err
	})
	return ack, res, err
}

// ResonanceSummary aggregates a guardian's resonance log, optionally
// filtered to a single child. Read-only.
func (s *Service) ResonanceSummary(ctx context.Context, guardianID, childID string) (domain.ResonanceSummary, error) {
	g, ok := s.store.GetGuardian(guardianID)
	if !ok {
		return domain.ResonanceSummary{}, ErrNotFound{Entity: EntityGuardian, ID: guardianID}
	}

	summary := domain.ResonanceSummary{
		WisdomAccumulated:   g.WisdomAccumulated,
		ActiveRelationships: len(g.ChildIDs),
	}
	counts := make(map[GuardianEmotion]int)
	for _, entry := range g.ResonanceLog.Entries() {
		if childID != "" && entry.ChildID != childID {
			continue
		}
		if summary.TotalEntries == 0 {
			summary.DateRange = domain.DateRange{Start: entry.Timestamp, End: entry.Timestamp}
		} else {
			if entry.Timestamp.Before(summary.DateRange.Start) {
				summary.DateRange.Start = entry.Timestamp
			}
			if entry.Timestamp.After(summary.DateRange.End) {
				summary.DateRange.End = entry.Timestamp
			}
		}
		summary.TotalEntries++
		counts[entry.Emotion]++
		summary.TotalGrowthImpact += entry.GrowthImpact
	}
	if summary.TotalEntries == 0 {
		return summary, nil
	}
	summary.EmotionalDistribution = counts
	summary.AverageGrowthImpact = summary.TotalGrowthImpact / float64(summary.TotalEntries)
	return summary, nil
}
