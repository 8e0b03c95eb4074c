package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/port"
)

// OverrideClearanceUseCase records a supervisor's decision to proceed despite
// a failed clearance check.
type OverrideClearanceUseCase struct {
	repo      port.SubmissionRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewOverrideClearanceUseCase wires dependencies.
func NewOverrideClearanceUseCase(
	repo port.SubmissionRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *OverrideClearanceUseCase {
	return &OverrideClearanceUseCase{repo: repo, publisher: publisher, logger: logger}
}

// Execute overrides the failed clearance and moves the submission to received.
func (uc *OverrideClearanceUseCase) Execute(
	ctx context.Context,
	req dto.OverrideClearanceRequest,
) (dto.SubmissionResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("find submission: %w", err)
	}

	sub, err = sub.OverrideClearance(req.Reason, req.ActorID, now)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("override clearance: %w", err)
	}

	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	return toSubmissionResponse(sub), nil
}
