package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/port"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// DefaultNameSimilarityThreshold is the minimum normalized Levenshtein
// similarity for a fuzzy name match. Tunable via configuration.
const DefaultNameSimilarityThreshold = 0.85

// ClearanceMatcher detects likely duplicate submissions within a tenant.
// The check is advisory: it never mutates either submission, and the caller
// decides pass/fail purely on the emptiness of the result set.
type ClearanceMatcher struct {
	lookup              port.ClearanceLookup
	similarityThreshold float64
}

// NewClearanceMatcher creates a matcher over the given lookup. A threshold
// of zero falls back to DefaultNameSimilarityThreshold.
func NewClearanceMatcher(lookup port.ClearanceLookup, similarityThreshold float64) *ClearanceMatcher {
	if similarityThreshold <= 0 {
		similarityThreshold = DefaultNameSimilarityThreshold
	}
	return &ClearanceMatcher{
		lookup:              lookup,
		similarityThreshold: similarityThreshold,
	}
}

// Check compares the candidate against the tenant's cleared submissions and
// returns every detected match. Deterministic for identical inputs.
func (m *ClearanceMatcher) Check(ctx context.Context, candidate model.Submission, now time.Time) ([]model.ClearanceMatch, error) {
	existing, err := m.lookup.ClearedSubmissions(ctx, candidate.TenantID())
	if err != nil {
		return nil, fmt.Errorf("clearance lookup: %w", err)
	}

	candidateTaxID := normalizeTaxID(candidate.Insured().TaxID)
	candidateName := normalizeInsuredName(candidate.Insured().Name)
	candidateState := strings.ToUpper(strings.TrimSpace(candidate.Insured().MailingAddress.State))

	var matches []model.ClearanceMatch
	for _, other := range existing {
		if other.ID() == candidate.ID() {
			continue
		}

		if candidateTaxID != "" {
			otherTaxID := normalizeTaxID(other.Insured().TaxID)
			if otherTaxID != "" && otherTaxID == candidateTaxID {
				matches = append(matches, model.ClearanceMatch{
					MatchedSubmissionID:     other.ID(),
					MatchedSubmissionNumber: other.SubmissionNumber(),
					Type:                    valueobject.MatchTypeTaxID,
					Confidence:              1.0,
					Details:                 fmt.Sprintf("exact tax id match with submission %s", other.SubmissionNumber()),
					DetectedAt:              now,
				})
				continue
			}
		}

		otherState := strings.ToUpper(strings.TrimSpace(other.Insured().MailingAddress.State))
		if candidateState == "" || otherState != candidateState {
			continue
		}
		similarity := nameSimilarity(candidateName, normalizeInsuredName(other.Insured().Name))
		if similarity >= m.similarityThreshold {
			matches = append(matches, model.ClearanceMatch{
				MatchedSubmissionID:     other.ID(),
				MatchedSubmissionNumber: other.SubmissionNumber(),
				Type:                    valueobject.MatchTypeNameAddress,
				Confidence:              similarity,
				Details: fmt.Sprintf("insured name %.0f%% similar to submission %s in %s",
					similarity*100, other.SubmissionNumber(), otherState),
				DetectedAt: now,
			})
		}
	}

	return matches, nil
}

// nameSimilarity is 1 - levenshtein(a,b)/max(len(a),len(b)) over normalized
// names. Empty inputs never match.
func nameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return 1 - float64(dist)/float64(longest)
}

// legal-entity suffixes stripped before comparing names
var legalSuffixes = []string{
	" INCORPORATED", " CORPORATION", " COMPANY", " LIMITED",
	" INC", " CORP", " LLC", " LLP", " LTD", " CO",
}

func normalizeInsuredName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.NewReplacer(".", "", ",", "", "'", "", "&", "AND").Replace(n)
	for _, suffix := range legalSuffixes {
		n = strings.TrimSuffix(n, suffix)
	}
	return strings.Join(strings.Fields(n), " ")
}

func normalizeTaxID(taxID string) string {
	var b strings.Builder
	for _, r := range taxID {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
