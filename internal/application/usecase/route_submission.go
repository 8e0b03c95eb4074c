package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/event"
	"github.com/clearline/submission-engine/internal/domain/port"
	"github.com/clearline/submission-engine/internal/domain/service"
)

// RouteSubmissionUseCase resolves a routing decision for a submission and
// records it for audit. Assignment is a separate, explicit step: it only
// happens here when the caller opts into AutoAssign.
type RouteSubmissionUseCase struct {
	repo      port.SubmissionRepository
	engine    *service.RoutingEngine
	decisions port.RoutingDecisionRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewRouteSubmissionUseCase wires dependencies.
func NewRouteSubmissionUseCase(
	repo port.SubmissionRepository,
	engine *service.RoutingEngine,
	decisions port.RoutingDecisionRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *RouteSubmissionUseCase {
	return &RouteSubmissionUseCase{
		repo:      repo,
		engine:    engine,
		decisions: decisions,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute resolves and records a routing decision.
func (uc *RouteSubmissionUseCase) Execute(
	ctx context.Context,
	req dto.RouteSubmissionRequest,
) (dto.RoutingDecisionResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.RoutingDecisionResponse{}, fmt.Errorf("find submission: %w", err)
	}

	// 1. Resolve.
	decision, err := uc.engine.Resolve(ctx, sub, now)
	if err != nil {
		return dto.RoutingDecisionResponse{}, fmt.Errorf("resolve routing: %w", err)
	}

	// 2. Record the immutable audit decision.
	if err := uc.decisions.Save(ctx, decision); err != nil {
		return dto.RoutingDecisionResponse{}, fmt.Errorf("save routing decision: %w", err)
	}

	// 3. Optionally apply the assignment.
	if req.AutoAssign && decision.Assigned() {
		sub, err = sub.AssignToUnderwriter(decision.UnderwriterID, decision.UnderwriterName, now)
		if err != nil {
			return dto.RoutingDecisionResponse{}, fmt.Errorf("assign underwriter: %w", err)
		}
		if err := uc.repo.Save(ctx, sub); err != nil {
			return dto.RoutingDecisionResponse{}, fmt.Errorf("save submission: %w", err)
		}
		publishEvents(ctx, uc.logger, uc.publisher, sub)
	}

	// 4. Notify.
	routed := event.NewSubmissionRouted(
		sub.ID(), sub.TenantID(),
		decision.UnderwriterID, decision.TeamID, decision.ManualQueue, decision.Reason,
	)
	if err := uc.publisher.Publish(ctx, routed); err != nil {
		uc.logger.Error("failed to publish routing event",
			"submission_id", sub.ID(), "error", err)
	}

	return dto.RoutingDecisionResponse{
		DecisionID:       decision.ID,
		SubmissionID:     decision.SubmissionID,
		Strategy:         decision.Strategy.String(),
		UnderwriterID:    decision.UnderwriterID,
		UnderwriterName:  decision.UnderwriterName,
		TeamID:           decision.TeamID,
		ManualQueue:      decision.ManualQueue,
		Reason:           decision.Reason,
		MatchedRuleID:    decision.MatchedRuleID,
		MatchedPairingID: decision.MatchedPairingID,
		DecidedAt:        decision.DecidedAt,
	}, nil
}
