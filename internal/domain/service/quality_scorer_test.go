package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/service"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

func fieldsWithConfidence(conf float64, names ...string) []service.ExtractedField {
	fields := make([]service.ExtractedField, 0, len(names))
	for _, n := range names {
		fields = append(fields, service.ExtractedField{Name: n, Value: "x", Confidence: conf})
	}
	return fields
}

func fullApplicationDoc() service.ExtractedDocument {
	return service.ExtractedDocument{
		Type: service.DocTypeApplication,
		Fields: fieldsWithConfidence(1.0,
			"insured_name", "mailing_address", "naics_code", "effective_date",
			"fein", "years_in_business", "annual_revenue", "employee_count"),
	}
}

func hasIssue(issues []service.QualityIssue, dimension string, severity valueobject.Severity) bool {
	for _, i := range issues {
		if i.Dimension == dimension && i.Severity.Equal(severity) {
			return true
		}
	}
	return false
}

func TestDataQualityScorer_CalculateDocumentScore(t *testing.T) {
	scorer := service.NewDataQualityScorer()

	t.Run("complete high-confidence application scores 100", func(t *testing.T) {
		score := scorer.CalculateDocumentScore(fullApplicationDoc())

		assert.Equal(t, 100, score.Overall)
		assert.Equal(t, 100, score.Completeness)
		assert.Equal(t, 100, score.Confidence)
		assert.Equal(t, 100, score.Validation)
		assert.Empty(t, score.Issues)
	})

	t.Run("required fields alone give partial completeness", func(t *testing.T) {
		doc := service.ExtractedDocument{
			Type: service.DocTypeApplication,
			Fields: fieldsWithConfidence(1.0,
				"insured_name", "mailing_address", "naics_code", "effective_date"),
		}

		score := scorer.CalculateDocumentScore(doc)

		assert.Equal(t, 70, score.Completeness)
		assert.Equal(t, 100, score.Confidence)
		assert.Equal(t, 88, score.Overall)
	})

	t.Run("empty document flags every required field", func(t *testing.T) {
		doc := service.ExtractedDocument{Type: service.DocTypeApplication}

		score := scorer.CalculateDocumentScore(doc)

		assert.Equal(t, 0, score.Completeness)
		assert.Equal(t, 0, score.Confidence)
		assert.Equal(t, 100, score.Validation)
		assert.Equal(t, 25, score.Overall)

		missing := 0
		for _, i := range score.Issues {
			if i.Dimension == "completeness" {
				missing++
			}
		}
		assert.Equal(t, 4, missing)
		assert.True(t, hasIssue(score.Issues, "confidence", valueobject.SeverityHigh))
	})

	t.Run("blank field values do not count as present", func(t *testing.T) {
		doc := service.ExtractedDocument{
			Type: service.DocTypeApplication,
			Fields: []service.ExtractedField{
				{Name: "insured_name", Value: "", Confidence: 0.9},
			},
		}

		score := scorer.CalculateDocumentScore(doc)

		assert.Equal(t, 0, score.Completeness)
	})

	t.Run("validation penalty floors at zero", func(t *testing.T) {
		doc := fullApplicationDoc()
		doc.ValidationErrors = []string{"a", "b"}
		score := scorer.CalculateDocumentScore(doc)
		assert.Equal(t, 70, score.Validation)

		doc.ValidationErrors = make([]string, 8)
		score = scorer.CalculateDocumentScore(doc)
		assert.Equal(t, 0, score.Validation)
		assert.True(t, hasIssue(score.Issues, "validation", valueobject.SeverityMedium))
	})
}

func TestDataQualityScorer_CalculateJobScore(t *testing.T) {
	scorer := service.NewDataQualityScorer()

	t.Run("full document set earns full coverage", func(t *testing.T) {
		docs := []service.ExtractedDocument{
			{Type: service.DocTypeApplication, Fields: fieldsWithConfidence(1.0,
				"insured_name", "mailing_address", "naics_code", "effective_date")},
			{Type: service.DocTypeLossRun, Fields: fieldsWithConfidence(1.0,
				"carrier", "policy_period", "total_incurred")},
			{Type: service.DocTypeExposureSchedule, Fields: fieldsWithConfidence(1.0,
				"location_address", "building_value")},
		}

		score := scorer.CalculateJobScore(docs)

		assert.Equal(t, 100, score.Coverage)
		assert.Equal(t, 70, score.Completeness)
		assert.Equal(t, 91, score.Overall)
		assert.False(t, hasIssue(score.Issues, "coverage", valueobject.SeverityHigh))
	})

	t.Run("missing document types are flagged by severity", func(t *testing.T) {
		docs := []service.ExtractedDocument{
			{Type: service.DocTypeSupplemental, Fields: fieldsWithConfidence(1.0, "anything")},
		}

		score := scorer.CalculateJobScore(docs)

		assert.Equal(t, 0, score.Coverage)
		assert.True(t, hasIssue(score.Issues, "coverage", valueobject.SeverityHigh), "missing application is high severity")
		assert.True(t, hasIssue(score.Issues, "coverage", valueobject.SeverityLow), "missing loss run and exposure schedule are low severity")
	})

	t.Run("application alone earns half coverage", func(t *testing.T) {
		score := scorer.CalculateJobScore([]service.ExtractedDocument{fullApplicationDoc()})

		assert.Equal(t, 50, score.Coverage)
		assert.False(t, hasIssue(score.Issues, "coverage", valueobject.SeverityHigh))
	})

	t.Run("empty batch scores zero everywhere but still reports coverage gaps", func(t *testing.T) {
		score := scorer.CalculateJobScore(nil)

		assert.Equal(t, 0, score.Overall)
		assert.Equal(t, 0, score.Coverage)
		assert.Len(t, score.Issues, 3)
	})
}

func TestDataQualityScorer_CalculateSubmissionScore(t *testing.T) {
	scorer := service.NewDataQualityScorer()

	fullInsured := model.InsuredParty{
		Name:  "Acme Manufacturing",
		TaxID: "12-3456789",
		MailingAddress: model.Address{
			Line1: "200 Industrial Way",
			City:  "Fresno",
			State: "CA",
		},
		NAICSCode:       "332710",
		YearsInBusiness: 12,
		EmployeeCount:   40,
		AnnualRevenue:   decimal.NewFromInt(8_000_000),
	}
	fullCoverage := func(coverageType string) model.Coverage {
		return model.Coverage{
			ID:                  "cov-1",
			Type:                coverageType,
			RequestedLimit:      decimal.NewFromInt(5_000_000),
			RequestedDeductible: decimal.NewFromInt(25_000),
			PriorCarrier:        "Travelers",
		}
	}
	fullLocation := model.ExposureLocation{
		ID:               "loc-1",
		Address:          model.Address{Line1: "200 Industrial Way", State: "CA"},
		ConstructionType: "MASONRY",
		YearBuilt:        1998,
		BuildingValue:    decimal.NewFromInt(3_000_000),
	}
	fullLoss := model.LossRecord{
		ID:           "loss-1",
		LossDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CoverageType: model.CoverageProperty,
		ClaimNumber:  "CLM-1001",
		PaidAmount:   decimal.NewFromInt(40_000),
	}

	scoringSubmission := func(mutate func(*model.SubmissionState)) model.Submission {
		st := model.SubmissionState{
			ID:               "sub-1",
			TenantID:         "tenant-1",
			SubmissionNumber: "SUB-2026-000001",
			Status:           valueobject.SubmissionStatusReceived,
			ClearanceStatus:  valueobject.ClearanceStatusPassed,
			Insured:          fullInsured,
			Coverages:        []model.Coverage{fullCoverage(model.CoverageProperty)},
			Locations:        []model.ExposureLocation{fullLocation},
			LossHistory:      []model.LossRecord{fullLoss},
			Version:          1,
		}
		if mutate != nil {
			mutate(&st)
		}
		return model.ReconstructSubmission(st)
	}

	t.Run("complete submission scores 100", func(t *testing.T) {
		score := scorer.CalculateSubmissionScore(scoringSubmission(nil))

		assert.Equal(t, 100, score.Overall)
		assert.Empty(t, score.Issues)
	})

	t.Run("missing loss history earns half credit for the dimension", func(t *testing.T) {
		score := scorer.CalculateSubmissionScore(scoringSubmission(func(st *model.SubmissionState) {
			st.LossHistory = nil
		}))

		assert.Equal(t, 92, score.Overall)
		assert.True(t, hasIssue(score.Issues, "loss_history", valueobject.SeverityLow))
	})

	t.Run("missing insured name caps the overall score", func(t *testing.T) {
		score := scorer.CalculateSubmissionScore(scoringSubmission(func(st *model.SubmissionState) {
			st.Insured.Name = ""
			st.Coverages = []model.Coverage{fullCoverage(model.CoverageGeneralLiability)}
		}))

		assert.Equal(t, 30, score.Overall)
		assert.True(t, hasIssue(score.Issues, "insured", valueobject.SeverityCritical))
	})

	t.Run("no coverages caps the overall score", func(t *testing.T) {
		score := scorer.CalculateSubmissionScore(scoringSubmission(func(st *model.SubmissionState) {
			st.Coverages = nil
		}))

		assert.Equal(t, 50, score.Overall)
		assert.True(t, hasIssue(score.Issues, "coverage", valueobject.SeverityHigh))
	})

	t.Run("location weight rises for property submissions", func(t *testing.T) {
		noLocations := func(st *model.SubmissionState) { st.Locations = nil }

		property := scorer.CalculateSubmissionScore(scoringSubmission(noLocations))
		liability := scorer.CalculateSubmissionScore(scoringSubmission(func(st *model.SubmissionState) {
			noLocations(st)
			st.Coverages = []model.Coverage{fullCoverage(model.CoverageGeneralLiability)}
		}))

		assert.Less(t, property.Overall, liability.Overall)
		assert.True(t, hasIssue(property.Issues, "location", valueobject.SeverityMedium))
	})
}
