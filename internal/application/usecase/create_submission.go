package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/port"
	"github.com/clearline/submission-engine/internal/domain/service"
)

// CreateSubmissionUseCase orchestrates intake of a new submission: number
// generation, aggregate creation, enrichment, and the clearance check.
type CreateSubmissionUseCase struct {
	repo      port.SubmissionRepository
	matcher   *service.ClearanceMatcher
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewCreateSubmissionUseCase wires dependencies.
func NewCreateSubmissionUseCase(
	repo port.SubmissionRepository,
	matcher *service.ClearanceMatcher,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *CreateSubmissionUseCase {
	return &CreateSubmissionUseCase{
		repo:      repo,
		matcher:   matcher,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute creates, enriches, and clears a submission. A clearance-service
// failure does not prevent creation: the submission is received with its
// clearance left unchecked and the failure logged for follow-up.
func (uc *CreateSubmissionUseCase) Execute(
	ctx context.Context,
	req dto.CreateSubmissionRequest,
) (dto.SubmissionResponse, error) {
	now := time.Now().UTC()

	// 1. Reserve a tenant-unique submission number.
	number, err := uc.repo.NextSubmissionNumber(ctx, req.TenantID)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("generate submission number: %w", err)
	}

	// 2. Create the aggregate.
	sub, err := model.NewSubmission(req.TenantID, number, req.InsuredName, req.ProducerID, now)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("create submission: %w", err)
	}

	// 3. Enrich with insured details and requested coverages.
	sub, err = sub.SetInsured(model.InsuredParty{
		Name:            req.InsuredName,
		DBA:             req.DBA,
		TaxID:           req.TaxID,
		MailingAddress:  toAddress(req.MailingAddress),
		NAICSCode:       req.NAICSCode,
		YearsInBusiness: req.YearsInBusiness,
		EmployeeCount:   req.EmployeeCount,
		AnnualRevenue:   req.AnnualRevenue,
	}, now)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("set insured: %w", err)
	}
	for _, c := range req.Coverages {
		sub, err = sub.AddCoverage(model.Coverage{
			Type:                c.Type,
			RequestedLimit:      c.RequestedLimit,
			RequestedDeductible: c.RequestedDeductible,
			PriorCarrier:        c.PriorCarrier,
		}, now)
		if err != nil {
			return dto.SubmissionResponse{}, fmt.Errorf("add coverage: %w", err)
		}
	}

	// 4. Run the clearance check, best-effort.
	matches, err := uc.matcher.Check(ctx, sub, now)
	if err != nil {
		uc.logger.Warn("clearance check failed; submission received unchecked",
			"submission_number", number,
			"tenant_id", req.TenantID,
			"error", err,
		)
		sub, err = sub.MarkAsReceived(now)
	} else {
		sub, err = sub.CompleteClearance(matches, now)
	}
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("complete intake: %w", err)
	}

	// 5. Persist, then drain events.
	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	return toSubmissionResponse(sub), nil
}

func toAddress(in dto.AddressInput) model.Address {
	return model.Address{
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
	}
}
