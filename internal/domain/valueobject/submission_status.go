package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// SubmissionStatus – immutable value object
// ---------------------------------------------------------------------------

// SubmissionStatus represents the lifecycle stage of a submission.
type SubmissionStatus struct {
	value string
}

const (
	submissionStatusDraft              = "DRAFT"
	submissionStatusReceived           = "RECEIVED"
	submissionStatusInReview           = "IN_REVIEW"
	submissionStatusPendingInformation = "PENDING_INFORMATION"
	submissionStatusPendingClearance   = "PENDING_CLEARANCE"
	submissionStatusQuoted             = "QUOTED"
	submissionStatusDeclined           = "DECLINED"
	submissionStatusWithdrawn          = "WITHDRAWN"
	submissionStatusExpired            = "EXPIRED"
	submissionStatusBound              = "BOUND"
)

var (
	SubmissionStatusDraft              = SubmissionStatus{value: submissionStatusDraft}
	SubmissionStatusReceived           = SubmissionStatus{value: submissionStatusReceived}
	SubmissionStatusInReview           = SubmissionStatus{value: submissionStatusInReview}
	SubmissionStatusPendingInformation = SubmissionStatus{value: submissionStatusPendingInformation}
	SubmissionStatusPendingClearance   = SubmissionStatus{value: submissionStatusPendingClearance}
	SubmissionStatusQuoted             = SubmissionStatus{value: submissionStatusQuoted}
	SubmissionStatusDeclined           = SubmissionStatus{value: submissionStatusDeclined}
	SubmissionStatusWithdrawn          = SubmissionStatus{value: submissionStatusWithdrawn}
	SubmissionStatusExpired            = SubmissionStatus{value: submissionStatusExpired}
	SubmissionStatusBound              = SubmissionStatus{value: submissionStatusBound}
)

var validSubmissionStatuses = map[string]SubmissionStatus{
	submissionStatusDraft:              SubmissionStatusDraft,
	submissionStatusReceived:           SubmissionStatusReceived,
	submissionStatusInReview:           SubmissionStatusInReview,
	submissionStatusPendingInformation: SubmissionStatusPendingInformation,
	submissionStatusPendingClearance:   SubmissionStatusPendingClearance,
	submissionStatusQuoted:             SubmissionStatusQuoted,
	submissionStatusDeclined:           SubmissionStatusDeclined,
	submissionStatusWithdrawn:          SubmissionStatusWithdrawn,
	submissionStatusExpired:            SubmissionStatusExpired,
	submissionStatusBound:              SubmissionStatusBound,
}

// submissionTransitions is the legal transition graph. A submission may only
// move along one of these edges; everything else is an invalid transition.
var submissionTransitions = map[string][]string{
	submissionStatusDraft: {
		submissionStatusReceived, submissionStatusPendingClearance,
		submissionStatusDeclined, submissionStatusWithdrawn, submissionStatusExpired,
	},
	submissionStatusPendingClearance: {
		submissionStatusReceived,
		submissionStatusDeclined, submissionStatusWithdrawn, submissionStatusExpired,
	},
	submissionStatusReceived: {
		submissionStatusInReview, submissionStatusPendingInformation, submissionStatusQuoted,
		submissionStatusDeclined, submissionStatusWithdrawn, submissionStatusExpired,
	},
	submissionStatusInReview: {
		submissionStatusPendingInformation, submissionStatusQuoted,
		submissionStatusDeclined, submissionStatusWithdrawn, submissionStatusExpired,
	},
	submissionStatusPendingInformation: {
		submissionStatusQuoted,
		submissionStatusDeclined, submissionStatusWithdrawn, submissionStatusExpired,
	},
	submissionStatusQuoted: {
		submissionStatusBound,
		submissionStatusDeclined, submissionStatusWithdrawn, submissionStatusExpired,
	},
	// Terminal statuses have no outgoing edges.
	submissionStatusDeclined:  {},
	submissionStatusWithdrawn: {},
	submissionStatusExpired:   {},
	submissionStatusBound:     {},
}

// NewSubmissionStatus creates a SubmissionStatus from a raw string.
func NewSubmissionStatus(s string) (SubmissionStatus, error) {
	v, ok := validSubmissionStatuses[s]
	if !ok {
		return SubmissionStatus{}, fmt.Errorf("invalid submission status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s SubmissionStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s SubmissionStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s SubmissionStatus) Equal(other SubmissionStatus) bool {
	return s.value == other.value
}

// IsTerminal reports whether the status permits no further lifecycle actions.
func (s SubmissionStatus) IsTerminal() bool {
	switch s.value {
	case submissionStatusDeclined, submissionStatusWithdrawn,
		submissionStatusExpired, submissionStatusBound:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition graph has an edge from s to next.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	for _, allowed := range submissionTransitions[s.value] {
		if allowed == next.value {
			return true
		}
	}
	return false
}

// ReachableStatuses returns the statuses directly reachable from s.
func (s SubmissionStatus) ReachableStatuses() []SubmissionStatus {
	edges := submissionTransitions[s.value]
	out := make([]SubmissionStatus, 0, len(edges))
	for _, e := range edges {
		out = append(out, validSubmissionStatuses[e])
	}
	return out
}

// AllSubmissionStatuses returns every defined status. Primarily for tests
// that sweep the full transition graph.
func AllSubmissionStatuses() []SubmissionStatus {
	return []SubmissionStatus{
		SubmissionStatusDraft,
		SubmissionStatusReceived,
		SubmissionStatusInReview,
		SubmissionStatusPendingInformation,
		SubmissionStatusPendingClearance,
		SubmissionStatusQuoted,
		SubmissionStatusDeclined,
		SubmissionStatusWithdrawn,
		SubmissionStatusExpired,
		SubmissionStatusBound,
	}
}
