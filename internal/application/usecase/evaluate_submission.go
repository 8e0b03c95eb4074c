package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/port"
	"github.com/clearline/submission-engine/internal/domain/service"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// baseAppetiteScore is the neutral appetite before guideline adjustments.
const baseAppetiteScore = 50

// EvaluateSubmissionUseCase runs guideline evaluation and data-quality
// scoring over a submission and persists the resulting scores. A guideline
// decline is applied to the lifecycle in the same operation.
type EvaluateSubmissionUseCase struct {
	repo       port.SubmissionRepository
	guidelines port.GuidelineRepository
	evaluator  *service.GuidelineEvaluator
	scorer     *service.DataQualityScorer
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewEvaluateSubmissionUseCase wires dependencies.
func NewEvaluateSubmissionUseCase(
	repo port.SubmissionRepository,
	guidelines port.GuidelineRepository,
	evaluator *service.GuidelineEvaluator,
	scorer *service.DataQualityScorer,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *EvaluateSubmissionUseCase {
	return &EvaluateSubmissionUseCase{
		repo:       repo,
		guidelines: guidelines,
		evaluator:  evaluator,
		scorer:     scorer,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute evaluates guidelines, computes scores, and applies any decline.
func (uc *EvaluateSubmissionUseCase) Execute(
	ctx context.Context,
	req dto.EvaluateSubmissionRequest,
) (dto.EvaluationResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("find submission: %w", err)
	}

	guidelines, err := uc.guidelines.FindActiveByTenant(ctx, req.TenantID)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("find guidelines: %w", err)
	}

	// 1. Rule evaluation.
	result := uc.evaluator.Evaluate(sub, guidelines, now)

	// 2. Data-quality scoring.
	quality := uc.scorer.CalculateSubmissionScore(sub)

	appetite := clamp(baseAppetiteScore+result.TotalScoreAdjustment, 0, 100)
	qualityScore := quality.Overall
	sub, err = sub.SetScores(&appetite, nil, &qualityScore, now)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("set scores: %w", err)
	}

	// 3. Apply a guideline decline to the lifecycle.
	if result.Action.Equal(valueobject.EvaluationActionDecline) {
		sub, err = sub.Decline(declineReason(result), now)
		if err != nil {
			return dto.EvaluationResponse{}, fmt.Errorf("apply guideline decline: %w", err)
		}
	}

	// 4. Persist, then drain events.
	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	rules := make([]dto.TriggeredRuleView, 0, len(result.TriggeredRules))
	for _, r := range result.TriggeredRules {
		rules = append(rules, dto.TriggeredRuleView{
			GuidelineName:   r.GuidelineName,
			RuleName:        r.RuleName,
			RuleType:        r.Type.String(),
			Action:          r.Action.String(),
			ScoreAdjustment: r.ScoreAdjustment,
			PricingModifier: r.PricingModifier,
			Message:         r.Message,
		})
	}

	return dto.EvaluationResponse{
		Submission:           toSubmissionResponse(sub),
		Action:               result.Action.String(),
		TotalScoreAdjustment: result.TotalScoreAdjustment,
		TotalPricingModifier: result.TotalPricingModifier,
		TriggeredRules:       rules,
	}, nil
}

func declineReason(result service.EvaluationResult) string {
	for _, r := range result.TriggeredRules {
		if r.Action.Equal(valueobject.RuleActionDecline) && r.Message != "" {
			return r.Message
		}
	}
	return "declined by underwriting guidelines"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
