package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/port"
)

// BindSubmissionUseCase binds a quoted submission. The downstream policy
// issuance and CRM sync are best-effort: their failures are logged and the
// bind stands, with the external identifiers left empty for a later retry.
type BindSubmissionUseCase struct {
	repo      port.SubmissionRepository
	policies  port.PolicyService
	crm       port.CrmService
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewBindSubmissionUseCase wires dependencies.
func NewBindSubmissionUseCase(
	repo port.SubmissionRepository,
	policies port.PolicyService,
	crm port.CrmService,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *BindSubmissionUseCase {
	return &BindSubmissionUseCase{
		repo:      repo,
		policies:  policies,
		crm:       crm,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute binds the submission, then notifies the policy system and CRM.
func (uc *BindSubmissionUseCase) Execute(
	ctx context.Context,
	req dto.BindSubmissionRequest,
) (dto.BindSubmissionResponse, error) {
	now := time.Now().UTC()

	sub, err := uc.repo.FindByID(ctx, req.TenantID, req.SubmissionID)
	if err != nil {
		return dto.BindSubmissionResponse{}, fmt.Errorf("find submission: %w", err)
	}

	// 1. Transition and commit first: issuance must never gate the bind.
	sub, err = sub.Bind(now)
	if err != nil {
		return dto.BindSubmissionResponse{}, fmt.Errorf("bind submission: %w", err)
	}
	if err := uc.repo.Save(ctx, sub); err != nil {
		return dto.BindSubmissionResponse{}, fmt.Errorf("save submission: %w", err)
	}
	publishEvents(ctx, uc.logger, uc.publisher, sub)

	// 2. Request policy issuance downstream.
	var result port.CreatePolicyResult
	result, err = uc.policies.CreatePolicy(ctx, port.CreatePolicyRequest{
		TenantID:         sub.TenantID(),
		SubmissionID:     sub.ID(),
		SubmissionNumber: sub.SubmissionNumber(),
		InsuredName:      sub.Insured().Name,
		Premium:          sub.QuotedPremium(),
		Currency:         sub.QuotedCurrency(),
		EffectiveDate:    sub.PolicyEffective(),
		ExpirationDate:   sub.PolicyExpiration(),
	})
	if err != nil {
		uc.logger.Error("policy issuance failed after bind",
			"submission_id", sub.ID(), "error", err)
		result = port.CreatePolicyResult{}
	}

	// 3. Record the bind in the CRM.
	if err := uc.crm.RecordActivity(ctx, port.RecordActivityRequest{
		TenantID:     sub.TenantID(),
		SubmissionID: sub.ID(),
		Activity:     "submission_bound",
		Detail:       fmt.Sprintf("premium %s %s", sub.QuotedPremium(), sub.QuotedCurrency()),
	}); err != nil {
		uc.logger.Warn("failed to record CRM activity",
			"submission_id", sub.ID(), "error", err)
	}

	return dto.BindSubmissionResponse{
		Submission:       toSubmissionResponse(sub),
		ExternalPolicyID: result.ExternalPolicyID,
		PolicyNumber:     result.PolicyNumber,
	}, nil
}
