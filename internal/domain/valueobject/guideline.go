package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// GuidelineStatus – administrative state of an underwriting guideline
// ---------------------------------------------------------------------------

// GuidelineStatus represents the administrative state of a guideline or
// routing rule: drafts are invisible to evaluation, archived ones retired.
type GuidelineStatus struct {
	value string
}

var (
	GuidelineStatusDraft    = GuidelineStatus{value: "DRAFT"}
	GuidelineStatusActive   = GuidelineStatus{value: "ACTIVE"}
	GuidelineStatusArchived = GuidelineStatus{value: "ARCHIVED"}
)

// GuidelineStatusFromString reconstructs a GuidelineStatus from its string form.
func GuidelineStatusFromString(s string) (GuidelineStatus, error) {
	switch s {
	case "DRAFT":
		return GuidelineStatusDraft, nil
	case "ACTIVE":
		return GuidelineStatusActive, nil
	case "ARCHIVED":
		return GuidelineStatusArchived, nil
	default:
		return GuidelineStatus{}, fmt.Errorf("invalid guideline status: %q", s)
	}
}

// String returns the string representation.
func (g GuidelineStatus) String() string { return g.value }

// IsZero returns true when not initialised.
func (g GuidelineStatus) IsZero() bool { return g.value == "" }

// Equal checks equality with another GuidelineStatus.
func (g GuidelineStatus) Equal(other GuidelineStatus) bool { return g.value == other.value }

// ---------------------------------------------------------------------------
// RuleType – category of an underwriting guideline rule
// ---------------------------------------------------------------------------

// RuleType classifies a guideline rule as eligibility, appetite, or pricing.
type RuleType struct {
	value string
}

var (
	RuleTypeEligibility = RuleType{value: "ELIGIBILITY"}
	RuleTypeAppetite    = RuleType{value: "APPETITE"}
	RuleTypePricing     = RuleType{value: "PRICING"}
)

// RuleTypeFromString reconstructs a RuleType from its string form.
func RuleTypeFromString(s string) (RuleType, error) {
	switch s {
	case "ELIGIBILITY":
		return RuleTypeEligibility, nil
	case "APPETITE":
		return RuleTypeAppetite, nil
	case "PRICING":
		return RuleTypePricing, nil
	default:
		return RuleType{}, fmt.Errorf("invalid rule type: %q", s)
	}
}

// String returns the string representation.
func (r RuleType) String() string { return r.value }

// IsZero returns true when not initialised.
func (r RuleType) IsZero() bool { return r.value == "" }

// Equal checks equality with another RuleType.
func (r RuleType) Equal(other RuleType) bool { return r.value == other.value }

// ---------------------------------------------------------------------------
// RuleAction – what a triggered rule does to the evaluation outcome
// ---------------------------------------------------------------------------

// RuleAction is the effect a triggered rule has on the evaluation.
type RuleAction struct {
	value string
}

var (
	RuleActionDecline       = RuleAction{value: "DECLINE"}
	RuleActionRefer         = RuleAction{value: "REFER"}
	RuleActionApplyModifier = RuleAction{value: "APPLY_MODIFIER"}
)

// RuleActionFromString reconstructs a RuleAction from its string form.
func RuleActionFromString(s string) (RuleAction, error) {
	switch s {
	case "DECLINE":
		return RuleActionDecline, nil
	case "REFER":
		return RuleActionRefer, nil
	case "APPLY_MODIFIER":
		return RuleActionApplyModifier, nil
	default:
		return RuleAction{}, fmt.Errorf("invalid rule action: %q", s)
	}
}

// String returns the string representation.
func (r RuleAction) String() string { return r.value }

// IsZero returns true when not initialised.
func (r RuleAction) IsZero() bool { return r.value == "" }

// Equal checks equality with another RuleAction.
func (r RuleAction) Equal(other RuleAction) bool { return r.value == other.value }

// ---------------------------------------------------------------------------
// EvaluationAction – aggregate outcome of a guideline evaluation
// ---------------------------------------------------------------------------

// EvaluationAction is the overall outcome across all evaluated rules.
type EvaluationAction struct {
	value string
}

var (
	EvaluationActionApprove = EvaluationAction{value: "APPROVE"}
	EvaluationActionRefer   = EvaluationAction{value: "REFER"}
	EvaluationActionDecline = EvaluationAction{value: "DECLINE"}
)

// EvaluationActionFromString reconstructs an EvaluationAction from its string form.
func EvaluationActionFromString(s string) (EvaluationAction, error) {
	switch s {
	case "APPROVE":
		return EvaluationActionApprove, nil
	case "REFER":
		return EvaluationActionRefer, nil
	case "DECLINE":
		return EvaluationActionDecline, nil
	default:
		return EvaluationAction{}, fmt.Errorf("invalid evaluation action: %q", s)
	}
}

// String returns the string representation.
func (a EvaluationAction) String() string { return a.value }

// IsZero returns true when not initialised.
func (a EvaluationAction) IsZero() bool { return a.value == "" }

// Equal checks equality with another EvaluationAction.
func (a EvaluationAction) Equal(other EvaluationAction) bool { return a.value == other.value }
