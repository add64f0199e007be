package core

import (
	"context"
	"fmt"

	"liminalcore/pkg/domain"
)

// learningSuccessProbability combines trust and adaptability against task
// difficulty, bounded so no attempt is ever certain to succeed or fail.
func learningSuccessProbability(sd *Seedling, difficulty float64) float64 {
	p := 0.6 + sd.TrustLevel*0.2 + sd.Adaptability*0.3 - difficulty*0.4
	return domain.Clamp(p, 0.1, 0.95)
}

func hasMilestone(sd *Seedling, milestoneType string) bool {
	for _, m := range sd.Milestones.Entries() {
		if m.MilestoneType == milestoneType {
			return true
		}
	}
	return false
}

// forwardToShelter relays a seedling event into its shelter's emotional log,
// if the seedling is assigned to one.
func forwardToShelter(tx *Transaction, sd *Seedling, event string, reaction Reaction, description string, intensity float64) error {
	if sd.ShelterID == nil {
		return nil
	}
	_, err := tx.UpdateShelter(*sd.ShelterID, func(sh *Shelter) error {
		appendEmotionalEvent(tx.Now(), sh, event, reaction, description, intensity, sd.ID)
		return nil
	})
	return err
}

// AttemptLearning runs one probabilistic learning attempt. Success raises
// growth in proportion to curiosity and task ease; failure can erode
// resilience when the task was frustrating enough. The outcome is relayed to
// the seedling's shelter when it has one.
func (s *Service) AttemptLearning(ctx context.Context, seedlingID, task string, difficulty float64) (domain.LearningOutcome, Result, error) {
	var outcome domain.LearningOutcome
	res, err := s.instrument(ctx, "attempt_learning", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			updated, err := tx.UpdateSeedling(seedlingID, func(sd *Seedling) error {
				sd.LearningAttempts++
				probability := learningSuccessProbability(sd, difficulty)
				success := tx.Rand() < probability

				outcome = domain.LearningOutcome{
					AttemptNumber:      sd.LearningAttempts,
					Task:               task,
					Success:            success,
					Difficulty:         difficulty,
					SuccessProbability: probability,
				}
				if success {
					sd.SuccessfulLearnings++
					gain := (1 - difficulty) * 0.1 * (1 + sd.CuriosityLevel)
					sd.GrowthScore = domain.Clamp01(sd.GrowthScore + gain)
					sd.CurrentEmotion = domain.SeedlingJoy
					outcome.GrowthGain = gain
					if sd.GrowthScore > 0.5 && !hasMilestone(sd, domain.MilestoneFirstLearningSuccess) {
						const description = "Achieved first successful learning"
						sd.Milestones.Append(domain.GrowthMilestone{
							Timestamp:       tx.Now(),
							MilestoneType:   domain.MilestoneFirstLearningSuccess,
							Description:     description,
							Significance:    0.6,
							EmotionalImpact: domain.SeedlingJoy,
						})
						sd.EmotionalHistory.Append(domain.EmotionRecord{
							Timestamp:   tx.Now(),
							Event:       domain.EventMilestone,
							Emotion:     domain.SeedlingJoy,
							Description: description,
						})
						outcome.MilestoneReached = true
					}
				} else {
					frustration := difficulty * 0.8
					if frustration > 0.7 {
						sd.CurrentEmotion = domain.SeedlingFrustration
						sd.Resilience = domain.Clamp(sd.Resilience-0.05, domain.ResilienceFloor, 1)
						outcome.ResilienceImpact = -0.05
					} else {
						sd.CurrentEmotion = domain.SeedlingConfusion
					}
				}
				outcome.CurrentGrowth = sd.GrowthScore
				outcome.EmotionalResponse = sd.CurrentEmotion

				event := domain.EventLearningFailure
				if success {
					event = domain.EventLearningSuccess
				}
				sd.EmotionalHistory.Append(domain.EmotionRecord{
					Timestamp:   tx.Now(),
					Event:       event,
					Emotion:     sd.CurrentEmotion,
					Description: "Learning attempt: " + task,
				})
				return nil
			})
			if err != nil {
				return err
			}
			result := "Failure"
			reaction := domain.ReactionConcern
			event := domain.EventLearningFailure
			if outcome.Success {
				result = "Success"
				reaction = domain.ReactionJoy
				event = domain.EventLearningSuccess
			}
			return forwardToShelter(tx, &updated, event, reaction,
				fmt.Sprintf("Learning attempt: %s - %s", task, result), 0.5)
		})
		return seedlingID, res, err
	})
	return outcome, res, err
}

// ReceiveCare applies care from a guardian to the seedling. Each care type
// has its own trust multiplier and emotional response; growth and resilience
// receive small intensity-scaled boosts.
func (s *Service) ReceiveCare(ctx context.Context, seedlingID, guardianID, careType string, intensity float64) (domain.CareReceipt, Result, error) {
	var receipt domain.CareReceipt
	res, err := s.instrument(ctx, "receive_care", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			if _, ok := tx.FindGuardian(guardianID); !ok {
				return ErrNotFound{Entity: EntityGuardian, ID: guardianID}
			}
			_, err := tx.UpdateSeedling(seedlingID, func(sd *Seedling) error {
				var trustGain float64
				switch careType {
				case domain.CareEmotionalSupport:
					sd.CurrentEmotion = domain.SeedlingGratitude
					trustGain = intensity * 0.1
				case domain.CareGuidance:
					sd.CurrentEmotion = domain.SeedlingTrust
					trustGain = intensity * 0.08
				case domain.CareProtection:
					sd.CurrentEmotion = domain.SeedlingJoy
					trustGain = intensity * 0.12
				default:
					sd.CurrentEmotion = domain.SeedlingGratitude
					trustGain = intensity * 0.05
				}
				sd.TrustLevel = domain.Clamp01(sd.TrustLevel + trustGain)
				growthBoost := intensity * 0.05
				sd.GrowthScore = domain.Clamp01(sd.GrowthScore + growthBoost)
				resilienceBoost := intensity * 0.02
				sd.Resilience = domain.Clamp01(sd.Resilience + resilienceBoost)

				sd.CareInteractions.Append(domain.CareInteraction{
					Timestamp:         tx.Now(),
					InteractionType:   domain.CareReceived,
					FromEntity:        guardianID,
					CareType:          careType,
					Intensity:         intensity,
					EmotionalResponse: sd.CurrentEmotion,
					ImpactOnGrowth:    growthBoost,
				})
				sd.EmotionalHistory.Append(domain.EmotionRecord{
					Timestamp:   tx.Now(),
					Event:       domain.CareReceived,
					Emotion:     sd.CurrentEmotion,
					Description: "Received " + careType + " care",
				})
				receipt = domain.CareReceipt{
					CareType:          careType,
					Intensity:         intensity,
					TrustChange:       trustGain,
					GrowthImpact:      growthBoost,
					ResilienceBoost:   resilienceBoost,
					EmotionalResponse: sd.CurrentEmotion,
				}
				return nil
			})
			return err
		})
		return seedlingID, res, err
	})
	return receipt, res, err
}

// GiveCare lets the seedling offer care back to a guardian. The offer is
// refused, with no state change, when trust or growth is too low. The actual
// intensity delivered scales with both, and giving care yields a small
// personal growth gain.
func (s *Service) GiveCare(ctx context.Context, seedlingID, guardianID, careType string, intensity float64) (domain.CareOffer, Result, error) {
	var offer domain.CareOffer
	res, err := s.instrument(ctx, "give_care", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			if _, ok := tx.FindGuardian(guardianID); !ok {
				return ErrNotFound{Entity: EntityGuardian, ID: guardianID}
			}
			current, ok := tx.FindSeedling(seedlingID)
			if !ok {
				return ErrNotFound{Entity: EntitySeedling, ID: seedlingID}
			}
			if current.TrustLevel < 0.3 {
				offer = domain.CareOffer{Reason: "insufficient trust to give care", IntendedIntensity: intensity}
				return nil
			}
			if current.GrowthScore < 0.2 {
				offer = domain.CareOffer{Reason: "insufficient growth to give meaningful care", IntendedIntensity: intensity}
				return nil
			}
			_, err := tx.UpdateSeedling(seedlingID, func(sd *Seedling) error {
				sd.CurrentEmotion = domain.SeedlingGratitude
				actual := intensity * sd.TrustLevel * sd.GrowthScore
				if actual > 1 {
					actual = 1
				}
				sd.CareInteractions.Append(domain.CareInteraction{
					Timestamp:         tx.Now(),
					InteractionType:   domain.CareGiven,
					FromEntity:        "self",
					CareType:          careType,
					Intensity:         actual,
					EmotionalResponse: sd.CurrentEmotion,
					ImpactOnGrowth:    0.02,
				})
				selfGrowth := actual * 0.03
				sd.GrowthScore = domain.Clamp01(sd.GrowthScore + selfGrowth)
				sd.EmotionalHistory.Append(domain.EmotionRecord{
					Timestamp:   tx.Now(),
					Event:       domain.CareGiven,
					Emotion:     sd.CurrentEmotion,
					Description: "Gave " + careType + " care",
				})
				offer = domain.CareOffer{
					CareGiven:         true,
					CareType:          careType,
					IntendedIntensity: intensity,
					ActualIntensity:   actual,
					PersonalGrowth:    selfGrowth,
					EmotionalResponse: sd.CurrentEmotion,
				}
				return nil
			})
			return err
		})
		return seedlingID, res, err
	})
	return offer, res, err
}

// emotionalEventEffect maps an event type to the seedling's emotional
// response and its growth and resilience deltas.
func emotionalEventEffect(eventType string) (SeedlingEmotion, float64, float64) {
	switch eventType {
	case "success":
		return domain.SeedlingJoy, 0.05, 0.01
	case "failure":
		return domain.SeedlingFrustration, -0.02, -0.005
	case "fear":
		return domain.SeedlingFear, -0.03, -0.01
	case "wonder":
		return domain.SeedlingWonder, 0.03, 0.005
	default:
		return domain.SeedlingConfusion, 0, 0
	}
}

// ExperienceEmotionalEvent applies an emotional event to the seedling.
// Events with a noticeable growth impact are forwarded to its shelter.
func (s *Service) ExperienceEmotionalEvent(ctx context.Context, seedlingID, eventType, description string, externalTrigger bool) (domain.EmotionalImpact, Result, error) {
	var impact domain.EmotionalImpact
	res, err := s.instrument(ctx, "experience_emotional_event", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			updated, err := tx.UpdateSeedling(seedlingID, func(sd *Seedling) error {
				emotion, growthDelta, resilienceDelta := emotionalEventEffect(eventType)
				sd.CurrentEmotion = emotion
				sd.GrowthScore = domain.Clamp01(sd.GrowthScore + growthDelta)
				sd.Resilience = domain.Clamp(sd.Resilience+resilienceDelta, domain.ResilienceFloor, 1)
				sd.EmotionalHistory.Append(domain.EmotionRecord{
					Timestamp:   tx.Now(),
					Event:       eventType,
					Emotion:     emotion,
					Description: description,
				})
				impact = domain.EmotionalImpact{
					EventType:         eventType,
					Description:       description,
					EmotionalResponse: emotion,
					GrowthImpact:      growthDelta,
					ResilienceImpact:  resilienceDelta,
					ExternalTrigger:   externalTrigger,
				}
				return nil
			})
			if err != nil {
				return err
			}
			if impact.GrowthImpact > 0.02 || impact.GrowthImpact < -0.02 {
				var reaction Reaction
				switch impact.EmotionalResponse {
				case domain.SeedlingJoy, domain.SeedlingWonder:
					reaction = domain.ReactionJoy
				case domain.SeedlingFrustration:
					reaction = domain.ReactionConcern
				case domain.SeedlingFear:
					reaction = domain.ReactionWorry
				default:
					reaction = domain.ReactionNeutral
				}
				return forwardToShelter(tx, &updated, eventType, reaction, description, 0.5)
			}
			return nil
		})
		return seedlingID, res, err
	})
	return impact, res, err
}

// AssignParent links a seedling to a guardian and seeds initial trust from
// the guardian's empathy. The guardian's child registry is updated in the
// same transaction so lineage stays consistent.
func (s *Service) AssignParent(ctx context.Context, seedlingID, guardianID string) (Seedling, Result, error) {
	var assigned Seedling
	res, err := s.instrument(ctx, "assign_parent", func(ctx context.Context) (string, Result, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
			guardian, ok := tx.FindGuardian(guardianID)
			if !ok {
				return ErrNotFound{Entity: EntityGuardian, ID: guardianID}
			}
			updated, err := tx.UpdateSeedling(seedlingID, func(sd *Seedling) error {
				sd.ParentID = &guardianID
				initialTrust := guardian.EmpathyLevel * 0.8
				if initialTrust > 0.7 {
					initialTrust = 0.7
				}
				sd.TrustLevel = initialTrust
				sd.CurrentEmotion = domain.SeedlingTrust
				sd.EmotionalHistory.Append(domain.EmotionRecord{
					Timestamp:   tx.Now(),
					Event:       "parent_assigned",
					Emotion:     sd.CurrentEmotion,
					Description: "Assigned to guardian " + guardian.Name,
				})
				return nil
			})
			if err != nil {
				return err
			}
			assigned = updated
			_, err = tx.UpdateGuardian(guardianID, func(g *Guardian) error {
				for _, id := range g.ChildIDs {
					if id == seedlingID {
						return nil
					}
				}
				g.ChildIDs = append(g.ChildIDs, seedlingID)
				return nil
			})
			return err
		})
		return seedlingID, res, err
	})
	return assigned, res, err
}

// DevelopmentSummary is a read-only aggregate of a seedling's current state
// and history counters.
func (s *Service) DevelopmentSummary(ctx context.Context, seedlingID string) (domain.DevelopmentSummary, error) {
	sd, ok := s.store.GetSeedling(seedlingID)
	if !ok {
		return domain.DevelopmentSummary{}, ErrNotFound{Entity: EntitySeedling, ID: seedlingID}
	}

	attempts := sd.LearningAttempts
	divisor := attempts
	if divisor == 0 {
		divisor = 1
	}
	var receivedTotal, givenTotal float64
	for _, ci := range sd.CareInteractions.Entries() {
		switch ci.InteractionType {
		case domain.CareReceived:
			receivedTotal += ci.Intensity
		case domain.CareGiven:
			givenTotal += ci.Intensity
		}
	}
	recent := sd.EmotionalHistory.Last(10)
	recentEmotions := make([]SeedlingEmotion, 0, len(recent))
	for _, rec := range recent {
		recentEmotions = append(recentEmotions, rec.Emotion)
	}
	ageDays := int(s.clock.Now().Sub(sd.CreatedAt).Hours() / 24)

	return domain.DevelopmentSummary{
		SeedlingID:     sd.ID,
		Name:           sd.Name,
		AgeDays:        ageDays,
		GrowthScore:    sd.GrowthScore,
		TrustLevel:     sd.TrustLevel,
		Learning: domain.LearningStats{
			Attempts:    attempts,
			Successes:   sd.SuccessfulLearnings,
			SuccessRate: float64(sd.SuccessfulLearnings) / float64(divisor),
		},
		CurrentEmotion: sd.CurrentEmotion,
		RecentEmotions: recentEmotions,
		EmotionsLogged: sd.EmotionalHistory.Len() + sd.EmotionalHistory.Dropped(),
		Care: domain.CareStats{
			ReceivedTotal: receivedTotal,
			GivenTotal:    givenTotal,
			CareBalance:   givenTotal - receivedTotal,
		},
		Adaptability: sd.Adaptability,
		Resilience:   sd.Resilience,
		Curiosity:    sd.CuriosityLevel,
		Milestones:   sd.Milestones.Len(),
		HasShelter:   sd.ShelterID != nil,
		HasParent:    sd.ParentID != nil,
	}, nil
}
