package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/service"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

var evalNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func evaluableSubmission() model.Submission {
	return model.ReconstructSubmission(model.SubmissionState{
		ID:               "sub-1",
		TenantID:         "tenant-1",
		SubmissionNumber: "SUB-2026-000001",
		Status:           valueobject.SubmissionStatusReceived,
		ClearanceStatus:  valueobject.ClearanceStatusPassed,
		Insured: model.InsuredParty{
			Name:            "Acme Manufacturing",
			MailingAddress:  model.Address{State: "CA"},
			NAICSCode:       "332710",
			YearsInBusiness: 2,
		},
		Coverages: []model.Coverage{{
			ID:             "cov-1",
			Type:           model.CoverageProperty,
			RequestedLimit: decimal.NewFromInt(5_000_000),
		}},
		Version:   1,
		CreatedAt: evalNow,
		UpdatedAt: evalNow,
	})
}

func activeGuideline(rules ...model.GuidelineRule) model.UnderwritingGuideline {
	return model.UnderwritingGuideline{
		ID:       "guide-1",
		TenantID: "tenant-1",
		Name:     "Property Appetite",
		Status:   valueobject.GuidelineStatusActive,
		Rules:    rules,
	}
}

func alwaysTrue(model.Submission) bool  { return true }
func alwaysFalse(model.Submission) bool { return false }

func TestGuidelineEvaluator_Evaluate(t *testing.T) {
	evaluator := service.NewGuidelineEvaluator()

	t.Run("approves when nothing triggers", func(t *testing.T) {
		g := activeGuideline(model.GuidelineRule{
			ID: "rule-1", Name: "never fires", Priority: 10,
			Action: valueobject.RuleActionDecline, Condition: alwaysFalse,
		})

		result := evaluator.Evaluate(evaluableSubmission(), []model.UnderwritingGuideline{g}, evalNow)

		assert.True(t, result.Action.Equal(valueobject.EvaluationActionApprove))
		assert.Empty(t, result.TriggeredRules)
	})

	t.Run("decline short-circuits lower-priority rules", func(t *testing.T) {
		g := activeGuideline(
			model.GuidelineRule{
				ID: "rule-refer", Name: "refer late", Priority: 20,
				Action: valueobject.RuleActionRefer, Condition: alwaysTrue,
			},
			model.GuidelineRule{
				ID: "rule-decline", Name: "decline early", Priority: 10,
				Action: valueobject.RuleActionDecline, Condition: alwaysTrue,
				Message: "new ventures are outside appetite",
			},
		)

		result := evaluator.Evaluate(evaluableSubmission(), []model.UnderwritingGuideline{g}, evalNow)

		assert.True(t, result.Action.Equal(valueobject.EvaluationActionDecline))
		require.Len(t, result.TriggeredRules, 1, "the priority-20 refer rule must not run")
		assert.Equal(t, "rule-decline", result.TriggeredRules[0].RuleID)
	})

	t.Run("refer accumulates without short-circuiting", func(t *testing.T) {
		g := activeGuideline(
			model.GuidelineRule{
				ID: "rule-refer", Name: "refer", Priority: 10,
				Action: valueobject.RuleActionRefer, Condition: alwaysTrue,
			},
			model.GuidelineRule{
				ID: "rule-mod", Name: "surcharge", Priority: 20,
				Action: valueobject.RuleActionApplyModifier, Condition: alwaysTrue,
				ScoreAdjustment: -10, PricingModifier: decimal.NewFromFloat(0.15),
			},
		)

		result := evaluator.Evaluate(evaluableSubmission(), []model.UnderwritingGuideline{g}, evalNow)

		assert.True(t, result.Action.Equal(valueobject.EvaluationActionRefer))
		assert.Len(t, result.TriggeredRules, 2)
		assert.Equal(t, -10, result.TotalScoreAdjustment)
		assert.True(t, result.TotalPricingModifier.Equal(decimal.NewFromFloat(0.15)))
	})

	t.Run("modifiers accumulate across guidelines", func(t *testing.T) {
		g1 := activeGuideline(model.GuidelineRule{
			ID: "rule-a", Priority: 10, Action: valueobject.RuleActionApplyModifier,
			Condition: alwaysTrue, ScoreAdjustment: -5, PricingModifier: decimal.NewFromFloat(0.10),
		})
		g2 := activeGuideline(model.GuidelineRule{
			ID: "rule-b", Priority: 10, Action: valueobject.RuleActionApplyModifier,
			Condition: alwaysTrue, ScoreAdjustment: 8, PricingModifier: decimal.NewFromFloat(-0.02),
		})
		g2.ID = "guide-2"

		result := evaluator.Evaluate(evaluableSubmission(), []model.UnderwritingGuideline{g1, g2}, evalNow)

		assert.True(t, result.Action.Equal(valueobject.EvaluationActionApprove))
		assert.Equal(t, 3, result.TotalScoreAdjustment)
		assert.True(t, result.TotalPricingModifier.Equal(decimal.NewFromFloat(0.08)))
	})

	t.Run("skips inactive, expired, and inapplicable guidelines", func(t *testing.T) {
		declineAll := model.GuidelineRule{
			ID: "rule-1", Priority: 10,
			Action: valueobject.RuleActionDecline, Condition: alwaysTrue,
		}

		archived := activeGuideline(declineAll)
		archived.Status = valueobject.GuidelineStatusArchived

		expired := activeGuideline(declineAll)
		past := evalNow.Add(-time.Hour)
		expired.ExpiresAt = &past

		wrongState := activeGuideline(declineAll)
		wrongState.States = []string{"NY"}

		wrongCoverage := activeGuideline(declineAll)
		wrongCoverage.CoverageTypes = []string{model.CoverageWorkersComp}

		result := evaluator.Evaluate(evaluableSubmission(),
			[]model.UnderwritingGuideline{archived, expired, wrongState, wrongCoverage}, evalNow)

		assert.True(t, result.Action.Equal(valueobject.EvaluationActionApprove))
		assert.Empty(t, result.TriggeredRules)
	})

	t.Run("nil conditions never trigger", func(t *testing.T) {
		g := activeGuideline(model.GuidelineRule{
			ID: "rule-1", Priority: 10, Action: valueobject.RuleActionDecline,
		})

		result := evaluator.Evaluate(evaluableSubmission(), []model.UnderwritingGuideline{g}, evalNow)

		assert.True(t, result.Action.Equal(valueobject.EvaluationActionApprove))
	})
}
