package event

import (
	"github.com/shopspring/decimal"

	"github.com/clearline/submission-engine/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Submission lifecycle events
// ---------------------------------------------------------------------------

// SubmissionCreated is raised when a new submission enters the system.
type SubmissionCreated struct {
	events.BaseEvent
	SubmissionNumber string `json:"submission_number"`
	InsuredName      string `json:"insured_name"`
}

func NewSubmissionCreated(submissionID, tenantID, submissionNumber, insuredName string) SubmissionCreated {
	return SubmissionCreated{
		BaseEvent:        events.NewBaseEvent("submission.created", submissionID, "Submission", tenantID),
		SubmissionNumber: submissionNumber,
		InsuredName:      insuredName,
	}
}

// SubmissionReceived is raised when a submission reaches Received.
type SubmissionReceived struct {
	events.BaseEvent
	SubmissionNumber string `json:"submission_number"`
}

func NewSubmissionReceived(submissionID, tenantID, submissionNumber string) SubmissionReceived {
	return SubmissionReceived{
		BaseEvent:        events.NewBaseEvent("submission.received", submissionID, "Submission", tenantID),
		SubmissionNumber: submissionNumber,
	}
}

// ClearanceFailed is raised when duplicate matches force a submission into
// pending clearance.
type ClearanceFailed struct {
	events.BaseEvent
	MatchCount int `json:"match_count"`
}

func NewClearanceFailed(submissionID, tenantID string, matchCount int) ClearanceFailed {
	return ClearanceFailed{
		BaseEvent:  events.NewBaseEvent("submission.clearance_failed", submissionID, "Submission", tenantID),
		MatchCount: matchCount,
	}
}

// ClearancePassed is raised when the clearance check finds no duplicates.
type ClearancePassed struct {
	events.BaseEvent
}

func NewClearancePassed(submissionID, tenantID string) ClearancePassed {
	return ClearancePassed{
		BaseEvent: events.NewBaseEvent("submission.clearance_passed", submissionID, "Submission", tenantID),
	}
}

// ClearanceOverridden is raised when a clearance failure is manually overridden.
type ClearanceOverridden struct {
	events.BaseEvent
	Reason       string `json:"reason"`
	OverriddenBy string `json:"overridden_by"`
}

func NewClearanceOverridden(submissionID, tenantID, reason, actorID string) ClearanceOverridden {
	return ClearanceOverridden{
		BaseEvent:    events.NewBaseEvent("submission.clearance_overridden", submissionID, "Submission", tenantID),
		Reason:       reason,
		OverriddenBy: actorID,
	}
}

// SubmissionAssigned is raised when a submission is assigned to an underwriter.
type SubmissionAssigned struct {
	events.BaseEvent
	UnderwriterID   string `json:"underwriter_id"`
	UnderwriterName string `json:"underwriter_name"`
}

func NewSubmissionAssigned(submissionID, tenantID, underwriterID, underwriterName string) SubmissionAssigned {
	return SubmissionAssigned{
		BaseEvent:       events.NewBaseEvent("submission.assigned", submissionID, "Submission", tenantID),
		UnderwriterID:   underwriterID,
		UnderwriterName: underwriterName,
	}
}

// InformationRequested is raised when an underwriter requests more information.
type InformationRequested struct {
	events.BaseEvent
	Message string `json:"message"`
}

func NewInformationRequested(submissionID, tenantID, message string) InformationRequested {
	return InformationRequested{
		BaseEvent: events.NewBaseEvent("submission.information_requested", submissionID, "Submission", tenantID),
		Message:   message,
	}
}

// SubmissionQuoted is raised when a premium has been quoted.
type SubmissionQuoted struct {
	events.BaseEvent
	Premium  decimal.Decimal `json:"premium"`
	Currency string          `json:"currency"`
}

func NewSubmissionQuoted(submissionID, tenantID string, premium decimal.Decimal, currency string) SubmissionQuoted {
	return SubmissionQuoted{
		BaseEvent: events.NewBaseEvent("submission.quoted", submissionID, "Submission", tenantID),
		Premium:   premium,
		Currency:  currency,
	}
}

// SubmissionDeclined is raised when a submission is declined.
type SubmissionDeclined struct {
	events.BaseEvent
	Reason string `json:"reason"`
}

func NewSubmissionDeclined(submissionID, tenantID, reason string) SubmissionDeclined {
	return SubmissionDeclined{
		BaseEvent: events.NewBaseEvent("submission.declined", submissionID, "Submission", tenantID),
		Reason:    reason,
	}
}

// SubmissionBound is raised when a quoted submission is bound to a policy.
type SubmissionBound struct {
	events.BaseEvent
	Premium  decimal.Decimal `json:"premium"`
	Currency string          `json:"currency"`
}

func NewSubmissionBound(submissionID, tenantID string, premium decimal.Decimal, currency string) SubmissionBound {
	return SubmissionBound{
		BaseEvent: events.NewBaseEvent("submission.bound", submissionID, "Submission", tenantID),
		Premium:   premium,
		Currency:  currency,
	}
}

// SubmissionWithdrawn is raised when the applicant withdraws the submission.
type SubmissionWithdrawn struct {
	events.BaseEvent
	Reason string `json:"reason"`
}

func NewSubmissionWithdrawn(submissionID, tenantID, reason string) SubmissionWithdrawn {
	return SubmissionWithdrawn{
		BaseEvent: events.NewBaseEvent("submission.withdrawn", submissionID, "Submission", tenantID),
		Reason:    reason,
	}
}

// SubmissionExpired is raised when a submission ages out without action.
type SubmissionExpired struct {
	events.BaseEvent
	Reason string `json:"reason"`
}

func NewSubmissionExpired(submissionID, tenantID, reason string) SubmissionExpired {
	return SubmissionExpired{
		BaseEvent: events.NewBaseEvent("submission.expired", submissionID, "Submission", tenantID),
		Reason:    reason,
	}
}

// ---------------------------------------------------------------------------
// Routing events
// ---------------------------------------------------------------------------

// SubmissionRouted is raised when the routing engine records a decision.
type SubmissionRouted struct {
	events.BaseEvent
	UnderwriterID string `json:"underwriter_id,omitempty"`
	TeamID        string `json:"team_id,omitempty"`
	ManualQueue   bool   `json:"manual_queue"`
	Reason        string `json:"reason"`
}

func NewSubmissionRouted(submissionID, tenantID, underwriterID, teamID string, manualQueue bool, reason string) SubmissionRouted {
	return SubmissionRouted{
		BaseEvent:     events.NewBaseEvent("submission.routed", submissionID, "Submission", tenantID),
		UnderwriterID: underwriterID,
		TeamID:        teamID,
		ManualQueue:   manualQueue,
		Reason:        reason,
	}
}

// compile-time interface checks
var (
	_ DomainEvent = SubmissionCreated{}
	_ DomainEvent = SubmissionReceived{}
	_ DomainEvent = ClearanceFailed{}
	_ DomainEvent = ClearancePassed{}
	_ DomainEvent = ClearanceOverridden{}
	_ DomainEvent = SubmissionAssigned{}
	_ DomainEvent = InformationRequested{}
	_ DomainEvent = SubmissionQuoted{}
	_ DomainEvent = SubmissionDeclined{}
	_ DomainEvent = SubmissionBound{}
	_ DomainEvent = SubmissionWithdrawn{}
	_ DomainEvent = SubmissionExpired{}
	_ DomainEvent = SubmissionRouted{}
)
