package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/port"
)

// WithdrawSubmissionUseCase withdraws a submission at the producer's request.
type WithdrawSubmissionUseCase struct {
	repo      port.SubmissionRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewWithdrawSubmissionUseCase wires dependencies.
func NewWithdrawSubmissionUseCase(
	repo port.SubmissionRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *WithdrawSubmissionUseCase {
	return &WithdrawSubmissionUseCase{repo: repo, publisher: publisher, logger: logger}
}

// Execute withdraws the submission.
func (uc *WithdrawSubmissionUseCase) Execute(
	ctx context.Context,
	req dto.CloseSubmissionRequest,
) (dto.SubmissionResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("find submission: %w", err)
	}

	sub, err = sub.Withdraw(req.Reason, now)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("withdraw submission: %w", err)
	}

	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	return toSubmissionResponse(sub), nil
}

// ExpireSubmissionUseCase expires a stale submission, typically driven by a
// scheduled sweep rather than a user action.
type ExpireSubmissionUseCase struct {
	repo      port.SubmissionRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewExpireSubmissionUseCase wires dependencies.
func NewExpireSubmissionUseCase(
	repo port.SubmissionRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ExpireSubmissionUseCase {
	return &ExpireSubmissionUseCase{repo: repo, publisher: publisher, logger: logger}
}

// Execute expires the submission.
func (uc *ExpireSubmissionUseCase) Execute(
	ctx context.Context,
	req dto.CloseSubmissionRequest,
) (dto.SubmissionResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("find submission: %w", err)
	}

	sub, err = sub.Expire(req.Reason, now)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("expire submission: %w", err)
	}

	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	return toSubmissionResponse(sub), nil
}
