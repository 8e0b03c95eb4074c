package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/port"
)

// AssignUnderwriterUseCase assigns or reassigns the owning underwriter.
type AssignUnderwriterUseCase struct {
	repo      port.SubmissionRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewAssignUnderwriterUseCase wires dependencies.
func NewAssignUnderwriterUseCase(
	repo port.SubmissionRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *AssignUnderwriterUseCase {
	return &AssignUnderwriterUseCase{repo: repo, publisher: publisher, logger: logger}
}

// Execute applies the assignment and persists it.
func (uc *AssignUnderwriterUseCase) Execute(
	ctx context.Context,
	req dto.AssignUnderwriterRequest,
) (dto.SubmissionResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("find submission: %w", err)
	}

	sub, err = sub.AssignToUnderwriter(req.UnderwriterID, req.UnderwriterName, now)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("assign underwriter: %w", err)
	}

	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	return toSubmissionResponse(sub), nil
}
