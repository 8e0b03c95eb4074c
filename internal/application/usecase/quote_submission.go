package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/port"
)

// QuoteSubmissionUseCase records a quoted premium on an assigned submission.
type QuoteSubmissionUseCase struct {
	repo      port.SubmissionRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewQuoteSubmissionUseCase wires dependencies.
func NewQuoteSubmissionUseCase(
	repo port.SubmissionRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *QuoteSubmissionUseCase {
	return &QuoteSubmissionUseCase{repo: repo, publisher: publisher, logger: logger}
}

// Execute quotes the submission and persists it.
func (uc *QuoteSubmissionUseCase) Execute(
	ctx context.Context,
	req dto.QuoteSubmissionRequest,
) (dto.SubmissionResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("find submission: %w", err)
	}

	sub, err = sub.Quote(req.Premium, req.Currency, now)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("quote submission: %w", err)
	}

	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	return toSubmissionResponse(sub), nil
}
