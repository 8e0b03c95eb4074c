package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/port"
)

// RequestInformationUseCase parks the submission while the producer supplies
// missing information. The CRM is notified best-effort.
type RequestInformationUseCase struct {
	repo      port.SubmissionRepository
	crm       port.CrmService
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewRequestInformationUseCase wires dependencies.
func NewRequestInformationUseCase(
	repo port.SubmissionRepository,
	crm port.CrmService,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *RequestInformationUseCase {
	return &RequestInformationUseCase{repo: repo, crm: crm, publisher: publisher, logger: logger}
}

// Execute transitions the submission to pending-information.
func (uc *RequestInformationUseCase) Execute(
	ctx context.Context,
	req dto.RequestInformationRequest,
) (dto.SubmissionResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("find submission: %w", err)
	}

	sub, err = sub.RequestInformation(req.Message, now)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("request information: %w", err)
	}

	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	if err := uc.crm.RecordActivity(ctx, port.RecordActivityRequest{
		TenantID:     sub.TenantID(),
		SubmissionID: sub.ID(),
		Activity:     "information_requested",
		Detail:       req.Message,
	}); err != nil {
		uc.logger.Warn("failed to record CRM activity",
			"submission_id", sub.ID(), "error", err)
	}

	return toSubmissionResponse(sub), nil
}
