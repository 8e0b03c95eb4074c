package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// AddressInput is a postal address supplied by an intake channel.
type AddressInput struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

// CoverageInput is one requested line of coverage.
type CoverageInput struct {
	Type                string          `json:"type"`
	RequestedLimit      decimal.Decimal `json:"requested_limit"`
	RequestedDeductible decimal.Decimal `json:"requested_deductible"`
	PriorCarrier        string          `json:"prior_carrier,omitempty"`
}

// CreateSubmissionRequest opens a new submission for a tenant.
type CreateSubmissionRequest struct {
	TenantID        string          `json:"tenant_id"`
	InsuredName     string          `json:"insured_name"`
	DBA             string          `json:"dba,omitempty"`
	TaxID           string          `json:"tax_id,omitempty"`
	MailingAddress  AddressInput    `json:"mailing_address"`
	NAICSCode       string          `json:"naics_code,omitempty"`
	YearsInBusiness int             `json:"years_in_business,omitempty"`
	EmployeeCount   int             `json:"employee_count,omitempty"`
	AnnualRevenue   decimal.Decimal `json:"annual_revenue"`
	ProducerID      string          `json:"producer_id"`
	Coverages       []CoverageInput `json:"coverages"`
}

// EvaluateSubmissionRequest runs guideline evaluation and quality scoring.
type EvaluateSubmissionRequest struct {
	TenantID     string `json:"tenant_id"`
	SubmissionID string `json:"submission_id"`
}

// RouteSubmissionRequest resolves a routing decision for the submission.
// When AutoAssign is set and the decision resolves a concrete underwriter,
// the submission is also assigned in the same operation.
type RouteSubmissionRequest struct {
	TenantID     string `json:"tenant_id"`
	SubmissionID string `json:"submission_id"`
	AutoAssign   bool   `json:"auto_assign,omitempty"`
}

// AssignUnderwriterRequest assigns (or reassigns) an underwriter.
type AssignUnderwriterRequest struct {
	TenantID        string `json:"tenant_id"`
	SubmissionID    string `json:"submission_id"`
	UnderwriterID   string `json:"underwriter_id"`
	UnderwriterName string `json:"underwriter_name"`
}

// OverrideClearanceRequest overrides a failed clearance check.
type OverrideClearanceRequest struct {
	TenantID     string `json:"tenant_id"`
	SubmissionID string `json:"submission_id"`
	Reason       string `json:"reason"`
	ActorID      string `json:"actor_id"`
}

// RequestInformationRequest asks the producer for more information.
type RequestInformationRequest struct {
	TenantID     string `json:"tenant_id"`
	SubmissionID string `json:"submission_id"`
	Message      string `json:"message"`
}

// QuoteSubmissionRequest records a quoted premium.
type QuoteSubmissionRequest struct {
	TenantID     string          `json:"tenant_id"`
	SubmissionID string          `json:"submission_id"`
	Premium      decimal.Decimal `json:"premium"`
	Currency     string          `json:"currency,omitempty"`
}

// DeclineSubmissionRequest declines the submission.
type DeclineSubmissionRequest struct {
	TenantID     string `json:"tenant_id"`
	SubmissionID string `json:"submission_id"`
	Reason       string `json:"reason"`
}

// BindSubmissionRequest binds a quoted submission.
type BindSubmissionRequest struct {
	TenantID     string `json:"tenant_id"`
	SubmissionID string `json:"submission_id"`
}

// CloseSubmissionRequest withdraws or expires a submission.
type CloseSubmissionRequest struct {
	TenantID     string `json:"tenant_id"`
	SubmissionID string `json:"submission_id"`
	Reason       string `json:"reason,omitempty"`
}

// GetSubmissionRequest fetches a submission by id.
type GetSubmissionRequest struct {
	TenantID     string `json:"tenant_id"`
	SubmissionID string `json:"submission_id"`
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// ClearanceMatchView is one duplicate match on a submission.
type ClearanceMatchView struct {
	MatchedSubmissionID     string  `json:"matched_submission_id"`
	MatchedSubmissionNumber string  `json:"matched_submission_number"`
	MatchType               string  `json:"match_type"`
	Confidence              float64 `json:"confidence"`
	Details                 string  `json:"details,omitempty"`
}

// SubmissionResponse is the read model of a submission returned by every
// lifecycle use case.
type SubmissionResponse struct {
	ID               string               `json:"id"`
	TenantID         string               `json:"tenant_id"`
	SubmissionNumber string               `json:"submission_number"`
	Status           string               `json:"status"`
	ClearanceStatus  string               `json:"clearance_status"`
	InsuredName      string               `json:"insured_name"`
	TaxID            string               `json:"tax_id,omitempty"`
	State            string               `json:"state,omitempty"`
	ProducerID       string               `json:"producer_id,omitempty"`
	UnderwriterID    string               `json:"underwriter_id,omitempty"`
	UnderwriterName  string               `json:"underwriter_name,omitempty"`
	AppetiteScore    *int                 `json:"appetite_score,omitempty"`
	WinnabilityScore *int                 `json:"winnability_score,omitempty"`
	QualityScore     *int                 `json:"quality_score,omitempty"`
	DeclineReason    string               `json:"decline_reason,omitempty"`
	QuotedPremium    decimal.Decimal      `json:"quoted_premium"`
	QuotedCurrency   string               `json:"quoted_currency,omitempty"`
	ClearanceMatches []ClearanceMatchView `json:"clearance_matches"`
	ReceivedAt       *time.Time           `json:"received_at,omitempty"`
	AssignedAt       *time.Time           `json:"assigned_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// TriggeredRuleView is one guideline rule that fired during evaluation.
type TriggeredRuleView struct {
	GuidelineName   string          `json:"guideline_name"`
	RuleName        string          `json:"rule_name"`
	RuleType        string          `json:"rule_type"`
	Action          string          `json:"action"`
	ScoreAdjustment int             `json:"score_adjustment"`
	PricingModifier decimal.Decimal `json:"pricing_modifier"`
	Message         string          `json:"message,omitempty"`
}

// EvaluationResponse reports the outcome of guideline evaluation plus the
// recomputed scores.
type EvaluationResponse struct {
	Submission           SubmissionResponse  `json:"submission"`
	Action               string              `json:"action"`
	TotalScoreAdjustment int                 `json:"total_score_adjustment"`
	TotalPricingModifier decimal.Decimal     `json:"total_pricing_modifier"`
	TriggeredRules       []TriggeredRuleView `json:"triggered_rules"`
}

// RoutingDecisionResponse reports one routing resolution.
type RoutingDecisionResponse struct {
	DecisionID       string    `json:"decision_id"`
	SubmissionID     string    `json:"submission_id"`
	Strategy         string    `json:"strategy"`
	UnderwriterID    string    `json:"underwriter_id,omitempty"`
	UnderwriterName  string    `json:"underwriter_name,omitempty"`
	TeamID           string    `json:"team_id,omitempty"`
	ManualQueue      bool      `json:"manual_queue"`
	Reason           string    `json:"reason"`
	MatchedRuleID    string    `json:"matched_rule_id,omitempty"`
	MatchedPairingID string    `json:"matched_pairing_id,omitempty"`
	DecidedAt        time.Time `json:"decided_at"`
}

// BindSubmissionResponse reports the bind outcome. The external policy
// identifiers are empty when the downstream policy service failed; the bind
// itself still committed.
type BindSubmissionResponse struct {
	Submission       SubmissionResponse `json:"submission"`
	ExternalPolicyID string             `json:"external_policy_id,omitempty"`
	PolicyNumber     string             `json:"policy_number,omitempty"`
}
