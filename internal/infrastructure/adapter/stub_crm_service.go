package adapter

import (
	"context"
	"log/slog"

	"github.com/clearline/submission-engine/internal/domain/port"
)

// StubCrmService is a development/test adapter that records CRM calls in the
// log instead of calling out. It implements port.CrmService.
type StubCrmService struct {
	logger *slog.Logger
}

// NewStubCrmService creates a new stub adapter.
func NewStubCrmService(logger *slog.Logger) *StubCrmService {
	return &StubCrmService{logger: logger}
}

func (s *StubCrmService) SyncCustomer(_ context.Context, req port.SyncCustomerRequest) error {
	s.logger.Info("crm sync customer",
		"tenant_id", req.TenantID,
		"insured_name", req.InsuredName,
		"state", req.State,
	)
	return nil
}

func (s *StubCrmService) RecordActivity(_ context.Context, req port.RecordActivityRequest) error {
	s.logger.Info("crm record activity",
		"tenant_id", req.TenantID,
		"submission_id", req.SubmissionID,
		"activity", req.Activity,
	)
	return nil
}
