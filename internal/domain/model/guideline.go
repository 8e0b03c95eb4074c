package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// GuidelineRule is one prioritized rule inside an underwriting guideline.
// Lower priority numbers evaluate first: priority 10 runs before priority 20.
type GuidelineRule struct {
	ID              string
	Name            string
	Type            valueobject.RuleType
	Action          valueobject.RuleAction
	Priority        int
	ScoreAdjustment int
	PricingModifier decimal.Decimal
	Message         string

	// Condition evaluated against the submission. Nil conditions never trigger.
	Condition RuleCondition
}

// RuleCondition decides whether a rule triggers for a submission. Conditions
// are pure predicates over the aggregate's read-only views.
type RuleCondition func(s Submission) bool

// UnderwritingGuideline is a tenant-scoped, administrator-managed set of
// prioritized rules with an applicability filter and an effective window.
type UnderwritingGuideline struct {
	ID          string
	TenantID    string
	Name        string
	Status      valueobject.GuidelineStatus
	Description string

	// Applicability. Empty slices mean "applies to all".
	CoverageTypes []string
	States        []string
	NAICSCodes    []string

	EffectiveFrom *time.Time
	ExpiresAt     *time.Time

	Rules []GuidelineRule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEffectiveAt reports whether the guideline's effective window covers t.
// Nil bounds are open-ended.
func (g UnderwritingGuideline) IsEffectiveAt(t time.Time) bool {
	if g.EffectiveFrom != nil && t.Before(*g.EffectiveFrom) {
		return false
	}
	if g.ExpiresAt != nil && !t.Before(*g.ExpiresAt) {
		return false
	}
	return true
}

// AppliesTo reports whether the guideline's applicability filter matches the
// submission: at least one requested coverage in the guideline's coverage
// list, the mailing state in the state list (empty list means all states),
// and a NAICS prefix match (empty list means all industries).
func (g UnderwritingGuideline) AppliesTo(s Submission) bool {
	if len(g.CoverageTypes) > 0 {
		matched := false
		for _, ct := range g.CoverageTypes {
			if s.HasCoverage(ct) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(g.States) > 0 {
		state := s.Insured().MailingAddress.State
		matched := false
		for _, st := range g.States {
			if strings.EqualFold(st, state) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(g.NAICSCodes) > 0 {
		naics := s.Insured().NAICSCode
		matched := false
		for _, prefix := range g.NAICSCodes {
			if prefix != "" && strings.HasPrefix(naics, prefix) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}
