package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/port"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// RoutingEngine resolves underwriter assignments for submissions using
// producer pairings first, then prioritized routing rules. It records each
// resolution as an immutable RoutingDecision; it never mutates the
// submission itself.
type RoutingEngine struct {
	pairings  port.PairingRepository
	rules     port.RoutingRuleRepository
	rotations port.RotationStore
}

// NewRoutingEngine wires the lookup and rotation dependencies.
func NewRoutingEngine(
	pairings port.PairingRepository,
	rules port.RoutingRuleRepository,
	rotations port.RotationStore,
) *RoutingEngine {
	return &RoutingEngine{
		pairings:  pairings,
		rules:     rules,
		rotations: rotations,
	}
}

// Resolve produces a routing decision for the submission. Resolution order:
// active producer pairings (highest priority, ties by most recent
// effective-from), then active routing rules (highest priority, ties by
// earliest creation), then an unassigned manual-queue fallback.
func (e *RoutingEngine) Resolve(ctx context.Context, s model.Submission, now time.Time) (model.RoutingDecision, error) {
	decision := model.RoutingDecision{
		ID:                         uuid.New().String(),
		TenantID:                   s.TenantID(),
		SubmissionID:               s.ID(),
		AppetiteScoreAtDecision:    copyScore(s.AppetiteScore()),
		WinnabilityScoreAtDecision: copyScore(s.WinnabilityScore()),
		QualityScoreAtDecision:     copyScore(s.QualityScore()),
		DecidedAt:                  now,
	}

	pairing, found, err := e.matchPairing(ctx, s, now)
	if err != nil {
		return model.RoutingDecision{}, err
	}
	if found {
		decision.MatchedPairingID = pairing.ID
		decision.Strategy = valueobject.RoutingStrategyDirect
		decision.UnderwriterID = pairing.UnderwriterID
		decision.UnderwriterName = pairing.UnderwriterName
		decision.Reason = fmt.Sprintf("producer pairing %q", pairing.ProducerName)
		return decision, nil
	}

	rule, found, err := e.matchRule(ctx, s)
	if err != nil {
		return model.RoutingDecision{}, err
	}
	if !found {
		decision.Strategy = valueobject.RoutingStrategyManualQueue
		decision.ManualQueue = true
		decision.Reason = "no matching rule"
		return decision, nil
	}

	decision.MatchedRuleID = rule.ID
	decision.Strategy = rule.Strategy

	switch {
	case rule.Strategy.Equal(valueobject.RoutingStrategyDirect):
		decision.UnderwriterID = rule.TargetUnderwriterID
		decision.UnderwriterName = rule.TargetUnderwriterName
		decision.TeamID = rule.TargetTeamID
		decision.Reason = fmt.Sprintf("rule %q direct assignment", rule.Name)

	case rule.Strategy.Equal(valueobject.RoutingStrategyRoundRobin):
		if len(rule.UnderwriterPool) == 0 {
			decision.ManualQueue = true
			decision.Reason = fmt.Sprintf("rule %q has an empty rotation pool", rule.Name)
			return decision, nil
		}
		idx, err := e.rotations.Next(ctx, s.TenantID(), rule.ID, len(rule.UnderwriterPool))
		if err != nil {
			return model.RoutingDecision{}, fmt.Errorf("advance rotation for rule %s: %w", rule.ID, err)
		}
		target := rule.UnderwriterPool[idx%len(rule.UnderwriterPool)]
		decision.UnderwriterID = target.UnderwriterID
		decision.UnderwriterName = target.UnderwriterName
		decision.Reason = fmt.Sprintf("rule %q round-robin position %d", rule.Name, idx)

	default: // ManualQueue
		decision.ManualQueue = true
		decision.Reason = fmt.Sprintf("rule %q routes to the manual queue", rule.Name)
	}

	return decision, nil
}

func (e *RoutingEngine) matchPairing(ctx context.Context, s model.Submission, now time.Time) (model.ProducerUnderwriterPairing, bool, error) {
	if s.ProducerID() == "" {
		return model.ProducerUnderwriterPairing{}, false, nil
	}

	pairings, err := e.pairings.FindActiveByProducer(ctx, s.TenantID(), s.ProducerID())
	if err != nil {
		return model.ProducerUnderwriterPairing{}, false, fmt.Errorf("find pairings: %w", err)
	}

	var candidates []model.ProducerUnderwriterPairing
	for _, p := range pairings {
		if !p.Active {
			continue
		}
		if !p.IsEffectiveAt(now) {
			continue
		}
		if !p.CoversSubmission(s) {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return model.ProducerUnderwriterPairing{}, false, nil
	}

	// Highest priority first; ties break by most recent effective-from.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return effectiveFrom(candidates[i]).After(effectiveFrom(candidates[j]))
	})
	return candidates[0], true, nil
}

func (e *RoutingEngine) matchRule(ctx context.Context, s model.Submission) (model.RoutingRule, bool, error) {
	rules, err := e.rules.FindActiveByTenant(ctx, s.TenantID())
	if err != nil {
		return model.RoutingRule{}, false, fmt.Errorf("find routing rules: %w", err)
	}

	var candidates []model.RoutingRule
	for _, r := range rules {
		if !r.Status.Equal(valueobject.GuidelineStatusActive) {
			continue
		}
		if !r.Conditions.Matches(s) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return model.RoutingRule{}, false, nil
	}

	// Highest priority first; ties break by creation order, earliest first.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return candidates[0], true, nil
}

func effectiveFrom(p model.ProducerUnderwriterPairing) time.Time {
	if p.EffectiveFrom == nil {
		return time.Time{}
	}
	return *p.EffectiveFrom
}

func copyScore(s *int) *int {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
