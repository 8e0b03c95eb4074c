package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// TriggeredRule records one rule that fired during evaluation, for audit.
type TriggeredRule struct {
	GuidelineID     string
	GuidelineName   string
	RuleID          string
	RuleName        string
	Type            valueobject.RuleType
	Action          valueobject.RuleAction
	ScoreAdjustment int
	PricingModifier decimal.Decimal
	Message         string
}

// EvaluationResult is the outcome of evaluating guidelines over a submission.
type EvaluationResult struct {
	Action               valueobject.EvaluationAction
	TotalScoreAdjustment int
	TotalPricingModifier decimal.Decimal
	TriggeredRules       []TriggeredRule
}

// GuidelineEvaluator applies underwriting guideline rules to submissions.
// Stateless and safe for concurrent use.
type GuidelineEvaluator struct{}

// NewGuidelineEvaluator returns a new evaluator instance.
func NewGuidelineEvaluator() *GuidelineEvaluator {
	return &GuidelineEvaluator{}
}

// Evaluate filters guidelines to active, effective, applicable ones, then
// evaluates their rules in ascending priority order. A Decline rule
// short-circuits evaluation immediately. Refer rules accumulate without
// short-circuiting; the action stays Refer unless a later Decline overrides
// it. ApplyModifier rules accumulate score and pricing deltas without
// changing the action. With no Decline or Refer the action is Approve.
func (e *GuidelineEvaluator) Evaluate(
	s model.Submission,
	guidelines []model.UnderwritingGuideline,
	now time.Time,
) EvaluationResult {
	result := EvaluationResult{
		Action:               valueobject.EvaluationActionApprove,
		TotalPricingModifier: decimal.Zero,
	}

	for _, g := range guidelines {
		if !g.Status.Equal(valueobject.GuidelineStatusActive) {
			continue
		}
		if !g.IsEffectiveAt(now) {
			continue
		}
		if !g.AppliesTo(s) {
			continue
		}

		rules := make([]model.GuidelineRule, len(g.Rules))
		copy(rules, g.Rules)
		sort.SliceStable(rules, func(i, j int) bool {
			return rules[i].Priority < rules[j].Priority
		})

		for _, rule := range rules {
			if rule.Condition == nil || !rule.Condition(s) {
				continue
			}

			triggered := TriggeredRule{
				GuidelineID:     g.ID,
				GuidelineName:   g.Name,
				RuleID:          rule.ID,
				RuleName:        rule.Name,
				Type:            rule.Type,
				Action:          rule.Action,
				ScoreAdjustment: rule.ScoreAdjustment,
				PricingModifier: rule.PricingModifier,
				Message:         rule.Message,
			}
			result.TriggeredRules = append(result.TriggeredRules, triggered)

			switch {
			case rule.Action.Equal(valueobject.RuleActionDecline):
				result.Action = valueobject.EvaluationActionDecline
				return result
			case rule.Action.Equal(valueobject.RuleActionRefer):
				result.Action = valueobject.EvaluationActionRefer
			case rule.Action.Equal(valueobject.RuleActionApplyModifier):
				result.TotalScoreAdjustment += rule.ScoreAdjustment
				result.TotalPricingModifier = result.TotalPricingModifier.Add(rule.PricingModifier)
			}
		}
	}

	return result
}
