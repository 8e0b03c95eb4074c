package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

func conditionSubject() model.Submission {
	return model.ReconstructSubmission(model.SubmissionState{
		ID:               "sub-1",
		TenantID:         "tenant-1",
		SubmissionNumber: "SUB-2026-000007",
		Status:           valueobject.SubmissionStatusReceived,
		ClearanceStatus:  valueobject.ClearanceStatusPassed,
		Insured: model.InsuredParty{
			Name:            "Acme Manufacturing",
			TaxID:           "12-3456789",
			MailingAddress:  model.Address{State: "CA"},
			NAICSCode:       "332710",
			YearsInBusiness: 4,
			EmployeeCount:   180,
			AnnualRevenue:   decimal.NewFromInt(12_000_000),
		},
		Coverages: []model.Coverage{
			{ID: "cov-1", Type: model.CoverageProperty, RequestedLimit: decimal.NewFromInt(5_000_000)},
		},
		Locations: []model.ExposureLocation{
			{ID: "loc-1", BuildingValue: decimal.NewFromInt(3_000_000), ContentsValue: decimal.NewFromInt(500_000)},
		},
		LossHistory: []model.LossRecord{
			{ID: "loss-1", PaidAmount: decimal.NewFromInt(40_000), ReservedAmount: decimal.NewFromInt(10_000)},
			{ID: "loss-2", PaidAmount: decimal.NewFromInt(25_000)},
		},
		Version:   1,
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
}

func TestCompileCondition(t *testing.T) {
	sub := conditionSubject()

	tests := []struct {
		name string
		spec conditionSpec
		want bool
	}{
		{"tiv above threshold", conditionSpec{Field: "total_insured_value", Operator: "gt", Number: 3_000_000}, true},
		{"tiv below threshold", conditionSpec{Field: "total_insured_value", Operator: "gt", Number: 10_000_000}, false},
		{"annual revenue gte", conditionSpec{Field: "annual_revenue", Operator: "gte", Number: 12_000_000}, true},
		{"total incurred sums paid and reserved", conditionSpec{Field: "total_incurred", Operator: "eq", Number: 75_000}, true},
		{"years in business lt", conditionSpec{Field: "years_in_business", Operator: "lt", Number: 5}, true},
		{"employee count lte boundary", conditionSpec{Field: "employee_count", Operator: "lte", Number: 180}, true},
		{"loss count", conditionSpec{Field: "loss_count", Operator: "gte", Number: 2}, true},
		{"location count", conditionSpec{Field: "location_count", Operator: "eq", Number: 1}, true},
		{"has coverage match", conditionSpec{Field: "has_coverage", Text: model.CoverageProperty}, true},
		{"has coverage miss", conditionSpec{Field: "has_coverage", Text: model.CoverageWorkersComp}, false},
		{"state is case-insensitive", conditionSpec{Field: "state", Text: "ca"}, true},
		{"state miss", conditionSpec{Field: "state", Text: "NY"}, false},
		{"naics prefix", conditionSpec{Field: "naics_prefix", Text: "3327"}, true},
		{"empty naics prefix never matches", conditionSpec{Field: "naics_prefix", Text: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := compileCondition(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cond(sub))
		})
	}
}

func TestCompileConditionRejectsUnknownSpecs(t *testing.T) {
	_, err := compileCondition(conditionSpec{Field: "credit_score", Operator: "gt", Number: 600})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown condition field")

	_, err = compileCondition(conditionSpec{Field: "annual_revenue", Operator: "between", Number: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown condition operator")

	_, err = compileCondition(conditionSpec{Field: "employee_count", Operator: "~", Number: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown condition operator")
}
