package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearline/submission-engine/internal/domain/event"
	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/port"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSubmissionRepo records saved aggregates and serves canned lookups.
type mockSubmissionRepo struct {
	saved []model.Submission

	saveFunc       func(ctx context.Context, s model.Submission) error
	findByIDFunc   func(ctx context.Context, tenantID, id string) (model.Submission, error)
	nextNumberFunc func(ctx context.Context, tenantID string) (string, error)
}

func (m *mockSubmissionRepo) Save(ctx context.Context, s model.Submission) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, s); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, s)
	return nil
}

func (m *mockSubmissionRepo) FindByID(ctx context.Context, tenantID, id string) (model.Submission, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.Submission{}, valueobject.ErrNotFound
}

func (m *mockSubmissionRepo) FindBySubmissionNumber(ctx context.Context, tenantID, number string) (model.Submission, error) {
	return model.Submission{}, valueobject.ErrNotFound
}

func (m *mockSubmissionRepo) NextSubmissionNumber(ctx context.Context, tenantID string) (string, error) {
	if m.nextNumberFunc != nil {
		return m.nextNumberFunc(ctx, tenantID)
	}
	return "SUB-2026-000042", nil
}

func (m *mockSubmissionRepo) lastSaved() model.Submission {
	return m.saved[len(m.saved)-1]
}

// mockClearanceLookup feeds the clearance matcher.
type mockClearanceLookup struct {
	clearedFunc func(ctx context.Context, tenantID string) ([]model.Submission, error)
}

func (m *mockClearanceLookup) ClearedSubmissions(ctx context.Context, tenantID string) ([]model.Submission, error) {
	if m.clearedFunc != nil {
		return m.clearedFunc(ctx, tenantID)
	}
	return nil, nil
}

// mockPublisher records every published event.
type mockPublisher struct {
	published   []event.DomainEvent
	publishFunc func(ctx context.Context, events ...event.DomainEvent) error
}

func (m *mockPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if m.publishFunc != nil {
		if err := m.publishFunc(ctx, events...); err != nil {
			return err
		}
	}
	m.published = append(m.published, events...)
	return nil
}

func (m *mockPublisher) eventTypes() []string {
	types := make([]string, 0, len(m.published))
	for _, e := range m.published {
		types = append(types, e.EventType())
	}
	return types
}

// failingPublisher always errors, to exercise the best-effort dispatch paths.
type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, ...event.DomainEvent) error {
	return errors.New("broker unavailable")
}

type mockGuidelineRepo struct {
	findFunc func(ctx context.Context, tenantID string) ([]model.UnderwritingGuideline, error)
}

func (m *mockGuidelineRepo) FindActiveByTenant(ctx context.Context, tenantID string) ([]model.UnderwritingGuideline, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, tenantID)
	}
	return nil, nil
}

type mockRuleRepo struct {
	findFunc func(ctx context.Context, tenantID string) ([]model.RoutingRule, error)
}

func (m *mockRuleRepo) FindActiveByTenant(ctx context.Context, tenantID string) ([]model.RoutingRule, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, tenantID)
	}
	return nil, nil
}

type mockPairingRepo struct {
	findFunc func(ctx context.Context, tenantID, producerID string) ([]model.ProducerUnderwriterPairing, error)
}

func (m *mockPairingRepo) FindActiveByProducer(ctx context.Context, tenantID, producerID string) ([]model.ProducerUnderwriterPairing, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, tenantID, producerID)
	}
	return nil, nil
}

type mockDecisionRepo struct {
	saved    []model.RoutingDecision
	saveFunc func(ctx context.Context, d model.RoutingDecision) error
}

func (m *mockDecisionRepo) Save(ctx context.Context, d model.RoutingDecision) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, d); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, d)
	return nil
}

func (m *mockDecisionRepo) FindBySubmissionID(ctx context.Context, tenantID, submissionID string) ([]model.RoutingDecision, error) {
	return m.saved, nil
}

type mockRotationStore struct {
	nextFunc func(ctx context.Context, tenantID, ruleID string, poolSize int) (int, error)
}

func (m *mockRotationStore) Next(ctx context.Context, tenantID, ruleID string, poolSize int) (int, error) {
	if m.nextFunc != nil {
		return m.nextFunc(ctx, tenantID, ruleID, poolSize)
	}
	return 0, nil
}

type mockPolicyService struct {
	requests   []port.CreatePolicyRequest
	createFunc func(ctx context.Context, req port.CreatePolicyRequest) (port.CreatePolicyResult, error)
}

func (m *mockPolicyService) CreatePolicy(ctx context.Context, req port.CreatePolicyRequest) (port.CreatePolicyResult, error) {
	m.requests = append(m.requests, req)
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return port.CreatePolicyResult{ExternalPolicyID: "pol_0001", PolicyNumber: "CL-0000001"}, nil
}

type mockCrmService struct {
	activities []port.RecordActivityRequest
	syncFunc   func(ctx context.Context, req port.SyncCustomerRequest) error
	recordFunc func(ctx context.Context, req port.RecordActivityRequest) error
}

func (m *mockCrmService) SyncCustomer(ctx context.Context, req port.SyncCustomerRequest) error {
	if m.syncFunc != nil {
		return m.syncFunc(ctx, req)
	}
	return nil
}

func (m *mockCrmService) RecordActivity(ctx context.Context, req port.RecordActivityRequest) error {
	m.activities = append(m.activities, req)
	if m.recordFunc != nil {
		return m.recordFunc(ctx, req)
	}
	return nil
}

// submissionInStatus reconstructs a stored submission for lookup mocks.
func submissionInStatus(status valueobject.SubmissionStatus, opts ...func(*model.SubmissionState)) model.Submission {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	st := model.SubmissionState{
		ID:               "sub-1",
		TenantID:         "tenant-1",
		SubmissionNumber: "SUB-2026-000007",
		Status:           status,
		ClearanceStatus:  valueobject.ClearanceStatusPassed,
		ProducerID:       "prod-1",
		Insured: model.InsuredParty{
			Name:           "Acme Manufacturing",
			TaxID:          "12-3456789",
			MailingAddress: model.Address{Line1: "200 Industrial Way", City: "Fresno", State: "CA"},
			NAICSCode:      "332710",
		},
		Coverages: []model.Coverage{{
			ID:             "cov-1",
			Type:           model.CoverageProperty,
			RequestedLimit: decimal.NewFromInt(5_000_000),
		}},
		Version:   3,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&st)
	}
	return model.ReconstructSubmission(st)
}

func findByIDReturning(sub model.Submission) func(context.Context, string, string) (model.Submission, error) {
	return func(_ context.Context, tenantID, id string) (model.Submission, error) {
		if tenantID != sub.TenantID() || id != sub.ID() {
			return model.Submission{}, valueobject.ErrNotFound
		}
		return sub, nil
	}
}
