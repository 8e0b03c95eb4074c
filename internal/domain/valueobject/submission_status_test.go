package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

func TestNewSubmissionStatus(t *testing.T) {
	t.Run("accepts every defined status", func(t *testing.T) {
		for _, status := range valueobject.AllSubmissionStatuses() {
			parsed, err := valueobject.NewSubmissionStatus(status.String())
			require.NoError(t, err)
			assert.True(t, parsed.Equal(status))
		}
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		_, err := valueobject.NewSubmissionStatus("APPROVED")
		require.Error(t, err)

		_, err = valueobject.NewSubmissionStatus("")
		require.Error(t, err)
	})
}

func TestSubmissionStatus_IsTerminal(t *testing.T) {
	terminal := map[string]bool{
		"DECLINED":  true,
		"WITHDRAWN": true,
		"EXPIRED":   true,
		"BOUND":     true,
	}
	for _, status := range valueobject.AllSubmissionStatuses() {
		assert.Equal(t, terminal[status.String()], status.IsTerminal(),
			"IsTerminal mismatch for %s", status)
	}
}

func TestSubmissionStatus_TransitionGraph(t *testing.T) {
	type edge struct{ from, to string }

	legal := map[edge]bool{}
	addEdges := func(from string, tos ...string) {
		for _, to := range tos {
			legal[edge{from, to}] = true
		}
	}
	closers := []string{"DECLINED", "WITHDRAWN", "EXPIRED"}
	addEdges("DRAFT", append([]string{"RECEIVED", "PENDING_CLEARANCE"}, closers...)...)
	addEdges("PENDING_CLEARANCE", append([]string{"RECEIVED"}, closers...)...)
	addEdges("RECEIVED", append([]string{"IN_REVIEW", "PENDING_INFORMATION", "QUOTED"}, closers...)...)
	addEdges("IN_REVIEW", append([]string{"PENDING_INFORMATION", "QUOTED"}, closers...)...)
	addEdges("PENDING_INFORMATION", append([]string{"QUOTED"}, closers...)...)
	addEdges("QUOTED", append([]string{"BOUND"}, closers...)...)

	// Full sweep: every ordered pair must agree with the expected graph.
	for _, from := range valueobject.AllSubmissionStatuses() {
		for _, to := range valueobject.AllSubmissionStatuses() {
			want := legal[edge{from.String(), to.String()}]
			assert.Equal(t, want, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestSubmissionStatus_TerminalsHaveNoEdges(t *testing.T) {
	for _, status := range valueobject.AllSubmissionStatuses() {
		if !status.IsTerminal() {
			continue
		}
		assert.Empty(t, status.ReachableStatuses(), "terminal %s must have no outgoing edges", status)
	}
}
