package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/port"
)

// DeclineSubmissionUseCase declines a submission with a recorded reason.
type DeclineSubmissionUseCase struct {
	repo      port.SubmissionRepository
	crm       port.CrmService
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewDeclineSubmissionUseCase wires dependencies.
func NewDeclineSubmissionUseCase(
	repo port.SubmissionRepository,
	crm port.CrmService,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *DeclineSubmissionUseCase {
	return &DeclineSubmissionUseCase{repo: repo, crm: crm, publisher: publisher, logger: logger}
}

// Execute declines the submission and persists it.
func (uc *DeclineSubmissionUseCase) Execute(
	ctx context.Context,
	req dto.DeclineSubmissionRequest,
) (dto.SubmissionResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("find submission: %w", err)
	}

	sub, err = sub.Decline(req.Reason, now)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("decline submission: %w", err)
	}

	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	if err := uc.crm.RecordActivity(ctx, port.RecordActivityRequest{
		TenantID:     sub.TenantID(),
		SubmissionID: sub.ID(),
		Activity:     "submission_declined",
		Detail:       req.Reason,
	}); err != nil {
		uc.logger.Warn("failed to record CRM activity",
			"submission_id", sub.ID(), "error", err)
	}

	return toSubmissionResponse(sub), nil
}
