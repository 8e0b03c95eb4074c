package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coverage type names used for applicability matching. Coverage types are
// open-ended strings; these constants cover the common lines.
const (
	CoverageProperty         = "PROPERTY"
	CoverageGeneralLiability = "GENERAL_LIABILITY"
	CoverageWorkersComp      = "WORKERS_COMP"
	CoverageCommercialAuto   = "COMMERCIAL_AUTO"
	CoverageUmbrella         = "UMBRELLA"
)

// Coverage is a requested line of coverage owned by a submission.
type Coverage struct {
	ID                  string
	Type                string
	RequestedLimit      decimal.Decimal
	RequestedDeductible decimal.Decimal
	PriorCarrier        string
	PriorPremium        decimal.Decimal
	PriorExpiration     *time.Time
}

// ExposureLocation is an insured property location owned by a submission.
type ExposureLocation struct {
	ID                 string
	Address            Address
	ConstructionType   string
	YearBuilt          int
	SquareFootage      int
	Stories            int
	BuildingValue      decimal.Decimal
	ContentsValue      decimal.Decimal
	BusinessIncome     decimal.Decimal
	SprinklerProtected bool
	AlarmProtected     bool
}

// TotalInsuredValue sums building, contents, and business-income values.
func (l ExposureLocation) TotalInsuredValue() decimal.Decimal {
	return l.BuildingValue.Add(l.ContentsValue).Add(l.BusinessIncome)
}

// LossRecord is one historical claim owned by a submission.
type LossRecord struct {
	ID             string
	LossDate       time.Time
	CoverageType   string
	ClaimNumber    string
	PaidAmount     decimal.Decimal
	ReservedAmount decimal.Decimal
	Status         string
}

// IncurredAmount is paid plus reserved.
func (r LossRecord) IncurredAmount() decimal.Decimal {
	return r.PaidAmount.Add(r.ReservedAmount)
}
