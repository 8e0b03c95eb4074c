package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearline/submission-engine/internal/domain/event"
	"github.com/clearline/submission-engine/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// SubmissionRepository persists and retrieves submissions. Save performs an
// optimistic-concurrency check against the aggregate version and returns an
// error in the valueobject.ErrConflict family when it detects a concurrent
// modification.
type SubmissionRepository interface {
	Save(ctx context.Context, s model.Submission) error
	FindByID(ctx context.Context, tenantID, id string) (model.Submission, error)
	FindBySubmissionNumber(ctx context.Context, tenantID, number string) (model.Submission, error)
	NextSubmissionNumber(ctx context.Context, tenantID string) (string, error)
}

// ClearanceLookup returns the cleared submissions of a tenant that a
// candidate must be checked against. Used only by the clearance matcher.
type ClearanceLookup interface {
	ClearedSubmissions(ctx context.Context, tenantID string) ([]model.Submission, error)
}

// GuidelineRepository retrieves underwriting guidelines for evaluation.
type GuidelineRepository interface {
	FindActiveByTenant(ctx context.Context, tenantID string) ([]model.UnderwritingGuideline, error)
}

// RoutingRuleRepository retrieves routing rules for resolution, ordered by
// priority descending then creation time ascending.
type RoutingRuleRepository interface {
	FindActiveByTenant(ctx context.Context, tenantID string) ([]model.RoutingRule, error)
}

// PairingRepository retrieves producer-underwriter pairings for a producer.
type PairingRepository interface {
	FindActiveByProducer(ctx context.Context, tenantID, producerID string) ([]model.ProducerUnderwriterPairing, error)
}

// RoutingDecisionRepository persists routing decisions for audit.
type RoutingDecisionRepository interface {
	Save(ctx context.Context, d model.RoutingDecision) error
	FindBySubmissionID(ctx context.Context, tenantID, submissionID string) ([]model.RoutingDecision, error)
}

// RotationStore holds the durable round-robin rotation pointer for each
// routing rule. Next atomically advances the pointer for (tenantID, ruleID)
// and returns the index to use against a pool of poolSize underwriters.
// Implementations must guarantee that concurrent calls for the same rule
// never skip or duplicate an index.
type RotationStore interface {
	Next(ctx context.Context, tenantID, ruleID string, poolSize int) (int, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports (best-effort collaborators)
// ---------------------------------------------------------------------------

// CreatePolicyRequest asks the external policy system to issue a policy for
// a bound submission.
type CreatePolicyRequest struct {
	TenantID         string
	SubmissionID     string
	SubmissionNumber string
	InsuredName      string
	Premium          decimal.Decimal
	Currency         string
	EffectiveDate    *time.Time
	ExpirationDate   *time.Time
}

// CreatePolicyResult carries the identifiers issued by the policy system.
type CreatePolicyResult struct {
	ExternalPolicyID string
	PolicyNumber     string
}

// PolicyService issues policies downstream of Bind. Failures must not block
// the Bind transition.
type PolicyService interface {
	CreatePolicy(ctx context.Context, req CreatePolicyRequest) (CreatePolicyResult, error)
}

// SyncCustomerRequest pushes insured details to the CRM.
type SyncCustomerRequest struct {
	TenantID    string
	InsuredName string
	TaxID       string
	State       string
}

// RecordActivityRequest records a lifecycle touch-point in the CRM.
type RecordActivityRequest struct {
	TenantID     string
	SubmissionID string
	Activity     string
	Detail       string
}

// CrmService is the best-effort CRM integration.
type CrmService interface {
	SyncCustomer(ctx context.Context, req SyncCustomerRequest) error
	RecordActivity(ctx context.Context, req RecordActivityRequest) error
}
