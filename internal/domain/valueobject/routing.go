package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// RoutingStrategy – how a matched routing rule resolves an assignee
// ---------------------------------------------------------------------------

// RoutingStrategy selects how a routing rule or pairing picks an underwriter.
type RoutingStrategy struct {
	value string
}

var (
	RoutingStrategyDirect      = RoutingStrategy{value: "DIRECT"}
	RoutingStrategyRoundRobin  = RoutingStrategy{value: "ROUND_ROBIN"}
	RoutingStrategyManualQueue = RoutingStrategy{value: "MANUAL_QUEUE"}
)

// RoutingStrategyFromString reconstructs a RoutingStrategy from its string form.
func RoutingStrategyFromString(s string) (RoutingStrategy, error) {
	switch s {
	case "DIRECT":
		return RoutingStrategyDirect, nil
	case "ROUND_ROBIN":
		return RoutingStrategyRoundRobin, nil
	case "MANUAL_QUEUE":
		return RoutingStrategyManualQueue, nil
	default:
		return RoutingStrategy{}, fmt.Errorf("invalid routing strategy: %q", s)
	}
}

// String returns the string representation.
func (r RoutingStrategy) String() string { return r.value }

// IsZero returns true when not initialised.
func (r RoutingStrategy) IsZero() bool { return r.value == "" }

// Equal checks equality with another RoutingStrategy.
func (r RoutingStrategy) Equal(other RoutingStrategy) bool { return r.value == other.value }
