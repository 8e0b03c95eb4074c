package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// ClearanceStatus – immutable value object
// ---------------------------------------------------------------------------

// ClearanceStatus represents the duplicate-detection outcome for a submission.
type ClearanceStatus struct {
	value string
}

const (
	clearanceStatusNotChecked = "NOT_CHECKED"
	clearanceStatusPassed     = "PASSED"
	clearanceStatusFailed     = "FAILED"
	clearanceStatusOverridden = "OVERRIDDEN"
)

var (
	ClearanceStatusNotChecked = ClearanceStatus{value: clearanceStatusNotChecked}
	ClearanceStatusPassed     = ClearanceStatus{value: clearanceStatusPassed}
	ClearanceStatusFailed     = ClearanceStatus{value: clearanceStatusFailed}
	ClearanceStatusOverridden = ClearanceStatus{value: clearanceStatusOverridden}
)

var validClearanceStatuses = map[string]ClearanceStatus{
	clearanceStatusNotChecked: ClearanceStatusNotChecked,
	clearanceStatusPassed:     ClearanceStatusPassed,
	clearanceStatusFailed:     ClearanceStatusFailed,
	clearanceStatusOverridden: ClearanceStatusOverridden,
}

// NewClearanceStatus creates a ClearanceStatus from a raw string.
func NewClearanceStatus(s string) (ClearanceStatus, error) {
	v, ok := validClearanceStatuses[s]
	if !ok {
		return ClearanceStatus{}, fmt.Errorf("invalid clearance status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s ClearanceStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s ClearanceStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s ClearanceStatus) Equal(other ClearanceStatus) bool {
	return s.value == other.value
}

// Blocks reports whether this clearance status blocks underwriter assignment.
func (s ClearanceStatus) Blocks() bool {
	return s.value == clearanceStatusFailed
}

// ---------------------------------------------------------------------------
// MatchType – how a clearance duplicate was detected
// ---------------------------------------------------------------------------

// MatchType identifies the algorithm that produced a clearance match.
type MatchType struct {
	value string
}

var (
	MatchTypeTaxID       = MatchType{value: "TAX_ID"}
	MatchTypeNameAddress = MatchType{value: "NAME_ADDRESS"}
)

// MatchTypeFromString reconstructs a MatchType from its string representation.
func MatchTypeFromString(s string) (MatchType, error) {
	switch s {
	case "TAX_ID":
		return MatchTypeTaxID, nil
	case "NAME_ADDRESS":
		return MatchTypeNameAddress, nil
	default:
		return MatchType{}, fmt.Errorf("invalid match type: %q", s)
	}
}

// String returns the string representation.
func (m MatchType) String() string { return m.value }

// IsZero returns true when not initialised.
func (m MatchType) IsZero() bool { return m.value == "" }

// Equal checks equality with another MatchType.
func (m MatchType) Equal(other MatchType) bool { return m.value == other.value }
