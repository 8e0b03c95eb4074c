package model

import (
	"time"

	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// ClearanceMatch records one likely duplicate detected during clearance.
// It is owned by the candidate submission and references the matched
// submission by id and number only.
type ClearanceMatch struct {
	MatchedSubmissionID     string
	MatchedSubmissionNumber string
	Type                    valueobject.MatchType
	Confidence              float64
	Details                 string
	DetectedAt              time.Time
}
