package service

import (
	"fmt"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// Document types recognised by the scorer.
const (
	DocTypeApplication      = "APPLICATION"
	DocTypeLossRun          = "LOSS_RUN"
	DocTypeExposureSchedule = "EXPOSURE_SCHEDULE"
	DocTypeSupplemental     = "SUPPLEMENTAL"
)

// ExtractedField is one field pulled from a document by the extraction
// pipeline, with its extraction confidence in [0,1].
type ExtractedField struct {
	Name       string
	Value      string
	Confidence float64
}

// ExtractedDocument is the scorer's view of one classified document.
type ExtractedDocument struct {
	Type             string
	Fields           []ExtractedField
	ValidationErrors []string
}

// QualityIssue flags a data-quality problem for downstream display.
type QualityIssue struct {
	Dimension string
	Message   string
	Severity  valueobject.Severity
}

// QualityScore is the weighted outcome of a quality computation. All scores
// are 0-100.
type QualityScore struct {
	Overall      int
	Completeness int
	Confidence   int
	Validation   int
	Coverage     int
	Issues       []QualityIssue
}

// requiredFields and recommendedFields per document type. Unknown types
// score completeness against an empty list (treated as fully complete).
var requiredFieldsByType = map[string][]string{
	DocTypeApplication:      {"insured_name", "mailing_address", "naics_code", "effective_date"},
	DocTypeLossRun:          {"carrier", "policy_period", "total_incurred"},
	DocTypeExposureSchedule: {"location_address", "building_value"},
}

var recommendedFieldsByType = map[string][]string{
	DocTypeApplication:      {"fein", "years_in_business", "annual_revenue", "employee_count"},
	DocTypeLossRun:          {"claim_count", "open_claims"},
	DocTypeExposureSchedule: {"construction_type", "year_built", "sprinklered"},
}

// validationErrorPenalty is deducted per validation error, floored at zero.
const validationErrorPenalty = 15

// DataQualityScorer computes weighted quality scores over submission and
// document data. All entry points are pure functions: missing data is scored,
// never rejected.
type DataQualityScorer struct{}

// NewDataQualityScorer returns a new scorer instance.
func NewDataQualityScorer() *DataQualityScorer {
	return &DataQualityScorer{}
}

// ---------------------------------------------------------------------------
// Document score
// ---------------------------------------------------------------------------

// CalculateDocumentScore scores a single extracted document:
// 0.40 x completeness + 0.35 x confidence + 0.25 x validation.
func (q *DataQualityScorer) CalculateDocumentScore(doc ExtractedDocument) QualityScore {
	completeness, issues := q.documentCompleteness(doc)
	confidence := q.documentConfidence(doc)
	validation := q.documentValidation(doc)

	if confidence == 0 && len(doc.Fields) == 0 {
		issues = append(issues, QualityIssue{
			Dimension: "confidence",
			Message:   "no fields were extracted from the document",
			Severity:  valueobject.SeverityHigh,
		})
	}
	for _, msg := range doc.ValidationErrors {
		issues = append(issues, QualityIssue{
			Dimension: "validation",
			Message:   msg,
			Severity:  valueobject.SeverityMedium,
		})
	}

	overall := int(0.40*float64(completeness) + 0.35*float64(confidence) + 0.25*float64(validation))
	return QualityScore{
		Overall:      clampScore(overall),
		Completeness: completeness,
		Confidence:   confidence,
		Validation:   validation,
		Issues:       issues,
	}
}

// documentCompleteness is 0.70 x required-field coverage + 0.30 x
// recommended-field coverage, as percentages.
func (q *DataQualityScorer) documentCompleteness(doc ExtractedDocument) (int, []QualityIssue) {
	var issues []QualityIssue

	present := make(map[string]bool, len(doc.Fields))
	for _, f := range doc.Fields {
		if f.Value != "" {
			present[f.Name] = true
		}
	}

	required := requiredFieldsByType[doc.Type]
	recommended := recommendedFieldsByType[doc.Type]

	requiredPct := fieldCoverage(required, present)
	recommendedPct := fieldCoverage(recommended, present)

	for _, name := range required {
		if !present[name] {
			issues = append(issues, QualityIssue{
				Dimension: "completeness",
				Message:   fmt.Sprintf("required field %q is missing", name),
				Severity:  valueobject.SeverityHigh,
			})
		}
	}

	return clampScore(int(0.70*requiredPct + 0.30*recommendedPct)), issues
}

// fieldCoverage is the percentage of wanted fields present. An empty wanted
// list counts as fully covered.
func fieldCoverage(wanted []string, present map[string]bool) float64 {
	if len(wanted) == 0 {
		return 100
	}
	found := 0
	for _, name := range wanted {
		if present[name] {
			found++
		}
	}
	return float64(found) * 100 / float64(len(wanted))
}

func (q *DataQualityScorer) documentConfidence(doc ExtractedDocument) int {
	if len(doc.Fields) == 0 {
		return 0
	}
	var sum float64
	for _, f := range doc.Fields {
		sum += f.Confidence
	}
	return clampScore(int(sum / float64(len(doc.Fields)) * 100))
}

func (q *DataQualityScorer) documentValidation(doc ExtractedDocument) int {
	score := 100 - validationErrorPenalty*len(doc.ValidationErrors)
	if score < 0 {
		score = 0
	}
	return score
}

// ---------------------------------------------------------------------------
// Job score
// ---------------------------------------------------------------------------

// CalculateJobScore aggregates a batch of documents:
// 0.30 x completeness + 0.25 x confidence + 0.25 x validation + 0.20 x coverage.
// Coverage rewards the presence of an application form (+50), a loss run
// (+25), and an exposure schedule (+25).
func (q *DataQualityScorer) CalculateJobScore(docs []ExtractedDocument) QualityScore {
	var issues []QualityIssue

	var completenessSum, confidenceSum, validationSum int
	byType := make(map[string]bool, len(docs))
	for _, doc := range docs {
		ds := q.CalculateDocumentScore(doc)
		completenessSum += ds.Completeness
		confidenceSum += ds.Confidence
		validationSum += ds.Validation
		issues = append(issues, ds.Issues...)
		byType[doc.Type] = true
	}

	var completeness, confidence, validation int
	if len(docs) > 0 {
		completeness = completenessSum / len(docs)
		confidence = confidenceSum / len(docs)
		validation = validationSum / len(docs)
	}

	coverage := 0
	if byType[DocTypeApplication] {
		coverage += 50
	} else {
		issues = append(issues, QualityIssue{
			Dimension: "coverage",
			Message:   "no primary application form was submitted",
			Severity:  valueobject.SeverityHigh,
		})
	}
	if byType[DocTypeLossRun] {
		coverage += 25
	} else {
		issues = append(issues, QualityIssue{
			Dimension: "coverage",
			Message:   "no loss-run document was submitted",
			Severity:  valueobject.SeverityLow,
		})
	}
	if byType[DocTypeExposureSchedule] {
		coverage += 25
	} else {
		issues = append(issues, QualityIssue{
			Dimension: "coverage",
			Message:   "no exposure schedule was submitted",
			Severity:  valueobject.SeverityLow,
		})
	}

	overall := int(0.30*float64(completeness) + 0.25*float64(confidence) +
		0.25*float64(validation) + 0.20*float64(coverage))
	return QualityScore{
		Overall:      clampScore(overall),
		Completeness: completeness,
		Confidence:   confidence,
		Validation:   validation,
		Coverage:     coverage,
		Issues:       issues,
	}
}

// ---------------------------------------------------------------------------
// Submission score
// ---------------------------------------------------------------------------

// CalculateSubmissionScore blends insured-info, coverage, location, and
// loss-history completeness 40/30/15/15, reweighted to 35/25/25/15 when a
// property coverage is present. The overall score is additionally capped at
// 30 with no insured name and at 50 with no coverages.
func (q *DataQualityScorer) CalculateSubmissionScore(s model.Submission) QualityScore {
	var issues []QualityIssue

	insuredScore, insuredIssues := q.insuredCompleteness(s.Insured())
	issues = append(issues, insuredIssues...)

	coverageScore, coverageIssues := q.coverageCompleteness(s.Coverages())
	issues = append(issues, coverageIssues...)

	locationScore, locationIssues := q.locationCompleteness(s.Locations())
	issues = append(issues, locationIssues...)

	lossScore, lossIssues := q.lossCompleteness(s.LossHistory())
	issues = append(issues, lossIssues...)

	wInsured, wCoverage, wLocation, wLoss := 0.40, 0.30, 0.15, 0.15
	if s.HasCoverage(model.CoverageProperty) {
		wInsured, wCoverage, wLocation, wLoss = 0.35, 0.25, 0.25, 0.15
	}

	overall := int(wInsured*float64(insuredScore) + wCoverage*float64(coverageScore) +
		wLocation*float64(locationScore) + wLoss*float64(lossScore))

	if s.Insured().Name == "" && overall > 30 {
		overall = 30
		issues = append(issues, QualityIssue{
			Dimension: "insured",
			Message:   "insured name is missing; overall score capped",
			Severity:  valueobject.SeverityCritical,
		})
	}
	if len(s.Coverages()) == 0 && overall > 50 {
		overall = 50
		issues = append(issues, QualityIssue{
			Dimension: "coverage",
			Message:   "no coverages requested; overall score capped",
			Severity:  valueobject.SeverityHigh,
		})
	}

	return QualityScore{
		Overall:      clampScore(overall),
		Completeness: insuredScore,
		Issues:       issues,
	}
}

func (q *DataQualityScorer) insuredCompleteness(p model.InsuredParty) (int, []QualityIssue) {
	var issues []QualityIssue
	checks := []struct {
		present bool
		name    string
	}{
		{p.Name != "", "insured name"},
		{p.TaxID != "", "tax id"},
		{p.MailingAddress.Line1 != "", "mailing address"},
		{p.MailingAddress.City != "", "mailing city"},
		{p.MailingAddress.State != "", "mailing state"},
		{p.NAICSCode != "", "industry classification"},
		{p.YearsInBusiness > 0, "years in business"},
		{p.EmployeeCount > 0, "employee count"},
		{!p.AnnualRevenue.IsZero(), "annual revenue"},
	}

	present := 0
	for _, c := range checks {
		if c.present {
			present++
			continue
		}
		severity := valueobject.SeverityLow
		if c.name == "insured name" {
			severity = valueobject.SeverityCritical
		}
		issues = append(issues, QualityIssue{
			Dimension: "insured",
			Message:   fmt.Sprintf("%s is missing", c.name),
			Severity:  severity,
		})
	}
	return present * 100 / len(checks), issues
}

func (q *DataQualityScorer) coverageCompleteness(coverages []model.Coverage) (int, []QualityIssue) {
	if len(coverages) == 0 {
		return 0, []QualityIssue{{
			Dimension: "coverage",
			Message:   "no coverages requested",
			Severity:  valueobject.SeverityHigh,
		}}
	}

	var issues []QualityIssue
	scored := 0
	for _, c := range coverages {
		points := 0
		if c.RequestedLimit.IsPositive() {
			points += 60
		} else {
			issues = append(issues, QualityIssue{
				Dimension: "coverage",
				Message:   fmt.Sprintf("coverage %s has no requested limit", c.Type),
				Severity:  valueobject.SeverityMedium,
			})
		}
		if c.RequestedDeductible.IsPositive() {
			points += 20
		}
		if c.PriorCarrier != "" {
			points += 20
		}
		scored += points
	}
	return scored / len(coverages), issues
}

func (q *DataQualityScorer) locationCompleteness(locations []model.ExposureLocation) (int, []QualityIssue) {
	if len(locations) == 0 {
		return 0, []QualityIssue{{
			Dimension: "location",
			Message:   "no exposure locations provided",
			Severity:  valueobject.SeverityMedium,
		}}
	}

	var issues []QualityIssue
	scored := 0
	for _, l := range locations {
		points := 0
		if l.Address.Line1 != "" && l.Address.State != "" {
			points += 40
		}
		if l.BuildingValue.IsPositive() || l.ContentsValue.IsPositive() {
			points += 40
		} else {
			issues = append(issues, QualityIssue{
				Dimension: "location",
				Message:   "exposure location has no insured values",
				Severity:  valueobject.SeverityMedium,
			})
		}
		if l.ConstructionType != "" {
			points += 10
		}
		if l.YearBuilt > 0 {
			points += 10
		}
		scored += points
	}
	return scored / len(locations), issues
}

func (q *DataQualityScorer) lossCompleteness(losses []model.LossRecord) (int, []QualityIssue) {
	if len(losses) == 0 {
		// Absence of loss history is common for new ventures; score the
		// dimension at half credit rather than zero.
		return 50, []QualityIssue{{
			Dimension: "loss_history",
			Message:   "no loss history provided",
			Severity:  valueobject.SeverityLow,
		}}
	}

	scored := 0
	for _, r := range losses {
		points := 40
		if r.ClaimNumber != "" {
			points += 30
		}
		if r.CoverageType != "" {
			points += 30
		}
		scored += points
	}
	return scored / len(losses), nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
