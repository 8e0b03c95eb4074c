package usecase

import (
	"context"
	"fmt"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/port"
)

// GetSubmissionUseCase reads a single submission.
type GetSubmissionUseCase struct {
	repo port.SubmissionRepository
}

// NewGetSubmissionUseCase wires dependencies.
func NewGetSubmissionUseCase(repo port.SubmissionRepository) *GetSubmissionUseCase {
	return &GetSubmissionUseCase{repo: repo}
}

// Execute fetches the submission by id within the tenant.
func (uc *GetSubmissionUseCase) Execute(
	ctx context.Context,
	req dto.GetSubmissionRequest,
) (dto.SubmissionResponse, error) {
	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("find submission: %w", err)
	}
	return toSubmissionResponse(sub), nil
}
