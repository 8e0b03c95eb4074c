package model

import (
	"strings"
	"time"

	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// RoutingRule
// ---------------------------------------------------------------------------

// RoutingConditions are the applicability conditions of a routing rule.
// Zero-valued fields are not checked.
type RoutingConditions struct {
	CoverageTypes []string
	States        []string
	NAICSPrefixes []string

	// Score thresholds. A nil pointer skips the check; a submission with a
	// nil score fails a set threshold.
	MinAppetiteScore *int
	MinQualityScore  *int
}

// Matches reports whether every set condition holds for the submission.
func (c RoutingConditions) Matches(s Submission) bool {
	if len(c.CoverageTypes) > 0 {
		matched := false
		for _, ct := range c.CoverageTypes {
			if s.HasCoverage(ct) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(c.States) > 0 {
		state := s.Insured().MailingAddress.State
		matched := false
		for _, st := range c.States {
			if strings.EqualFold(st, state) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(c.NAICSPrefixes) > 0 {
		naics := s.Insured().NAICSCode
		matched := false
		for _, prefix := range c.NAICSPrefixes {
			if prefix != "" && strings.HasPrefix(naics, prefix) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if c.MinAppetiteScore != nil {
		score := s.AppetiteScore()
		if score == nil || *score < *c.MinAppetiteScore {
			return false
		}
	}

	if c.MinQualityScore != nil {
		score := s.QualityScore()
		if score == nil || *score < *c.MinQualityScore {
			return false
		}
	}

	return true
}

// RoutingRule resolves submissions to underwriters or teams. Higher priority
// numbers are evaluated first; ties break by creation order, earliest first.
type RoutingRule struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Priority    int
	Status      valueobject.GuidelineStatus
	Strategy    valueobject.RoutingStrategy

	// Direct strategy target. Exactly one of underwriter or team for Direct;
	// both empty for ManualQueue.
	TargetUnderwriterID   string
	TargetUnderwriterName string
	TargetTeamID          string

	// RoundRobin rotation pool, in configured order.
	UnderwriterPool []RoutingTarget

	Conditions RoutingConditions

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoutingTarget is one assignable underwriter in a rotation pool.
type RoutingTarget struct {
	UnderwriterID   string
	UnderwriterName string
}

// ---------------------------------------------------------------------------
// ProducerUnderwriterPairing
// ---------------------------------------------------------------------------

// ProducerUnderwriterPairing routes a producer's submissions to a preferred
// underwriter. Pairings are consulted before generic routing rules.
type ProducerUnderwriterPairing struct {
	ID              string
	TenantID        string
	ProducerID      string
	ProducerName    string
	UnderwriterID   string
	UnderwriterName string
	Priority        int
	Active          bool

	// Effective window. Nil bounds are open-ended.
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time

	// Optional coverage-type restriction. Empty means all coverages.
	CoverageTypes []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEffectiveAt reports whether the pairing's window covers t.
func (p ProducerUnderwriterPairing) IsEffectiveAt(t time.Time) bool {
	if p.EffectiveFrom != nil && t.Before(*p.EffectiveFrom) {
		return false
	}
	if p.EffectiveTo != nil && !t.Before(*p.EffectiveTo) {
		return false
	}
	return true
}

// CoversSubmission reports whether the pairing's coverage restriction (if any)
// matches at least one requested coverage.
func (p ProducerUnderwriterPairing) CoversSubmission(s Submission) bool {
	if len(p.CoverageTypes) == 0 {
		return true
	}
	for _, ct := range p.CoverageTypes {
		if s.HasCoverage(ct) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// RoutingDecision
// ---------------------------------------------------------------------------

// RoutingDecision is the immutable audit record of one routing resolution.
type RoutingDecision struct {
	ID           string
	TenantID     string
	SubmissionID string

	// Exactly one of MatchedRuleID or MatchedPairingID is set when a match
	// occurred; both empty for the no-matching-rule fallback.
	MatchedRuleID    string
	MatchedPairingID string

	Strategy        valueobject.RoutingStrategy
	UnderwriterID   string
	UnderwriterName string
	TeamID          string
	ManualQueue     bool
	Reason          string

	// Scores present on the submission at decision time.
	AppetiteScoreAtDecision    *int
	WinnabilityScoreAtDecision *int
	QualityScoreAtDecision     *int

	DecidedAt time.Time

	History []RoutingDecisionEvent
}

// RoutingDecisionEvent records a subsequent accept or decline by the resolved
// underwriter.
type RoutingDecisionEvent struct {
	UnderwriterID string
	Accepted      bool
	Note          string
	OccurredAt    time.Time
}

// Assigned reports whether the decision resolved to a concrete underwriter.
func (d RoutingDecision) Assigned() bool {
	return d.UnderwriterID != ""
}
