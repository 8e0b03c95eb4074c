package postgres

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// JSONB record types. These are the stored shapes of the aggregate's owned
// collections and stay decoupled from the domain structs so either side can
// evolve independently.

type addressRecord struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type insuredRecord struct {
	Name            string          `json:"name"`
	DBA             string          `json:"dba,omitempty"`
	TaxID           string          `json:"tax_id,omitempty"`
	MailingAddress  addressRecord   `json:"mailing_address"`
	NAICSCode       string          `json:"naics_code,omitempty"`
	YearsInBusiness int             `json:"years_in_business,omitempty"`
	EmployeeCount   int             `json:"employee_count,omitempty"`
	AnnualRevenue   decimal.Decimal `json:"annual_revenue"`
}

type coverageRecord struct {
	ID                  string          `json:"id"`
	Type                string          `json:"type"`
	RequestedLimit      decimal.Decimal `json:"requested_limit"`
	RequestedDeductible decimal.Decimal `json:"requested_deductible"`
	PriorCarrier        string          `json:"prior_carrier,omitempty"`
	PriorPremium        decimal.Decimal `json:"prior_premium"`
	PriorExpiration     *time.Time      `json:"prior_expiration,omitempty"`
}

type locationRecord struct {
	ID                 string          `json:"id"`
	Address            addressRecord   `json:"address"`
	ConstructionType   string          `json:"construction_type,omitempty"`
	YearBuilt          int             `json:"year_built,omitempty"`
	SquareFootage      int             `json:"square_footage,omitempty"`
	Stories            int             `json:"stories,omitempty"`
	BuildingValue      decimal.Decimal `json:"building_value"`
	ContentsValue      decimal.Decimal `json:"contents_value"`
	BusinessIncome     decimal.Decimal `json:"business_income"`
	SprinklerProtected bool            `json:"sprinkler_protected,omitempty"`
	AlarmProtected     bool            `json:"alarm_protected,omitempty"`
}

type lossRecord struct {
	ID             string          `json:"id"`
	LossDate       time.Time       `json:"loss_date"`
	CoverageType   string          `json:"coverage_type,omitempty"`
	ClaimNumber    string          `json:"claim_number,omitempty"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	ReservedAmount decimal.Decimal `json:"reserved_amount"`
	Status         string          `json:"status,omitempty"`
}

type matchRecord struct {
	MatchedSubmissionID     string    `json:"matched_submission_id"`
	MatchedSubmissionNumber string    `json:"matched_submission_number"`
	Type                    string    `json:"type"`
	Confidence              float64   `json:"confidence"`
	Details                 string    `json:"details,omitempty"`
	DetectedAt              time.Time `json:"detected_at"`
}

func toAddressRecord(a model.Address) addressRecord {
	return addressRecord{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func fromAddressRecord(r addressRecord) model.Address {
	return model.Address{
		Line1:      r.Line1,
		Line2:      r.Line2,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
}

func toInsuredRecord(p model.InsuredParty) insuredRecord {
	return insuredRecord{
		Name:            p.Name,
		DBA:             p.DBA,
		TaxID:           p.TaxID,
		MailingAddress:  toAddressRecord(p.MailingAddress),
		NAICSCode:       p.NAICSCode,
		YearsInBusiness: p.YearsInBusiness,
		EmployeeCount:   p.EmployeeCount,
		AnnualRevenue:   p.AnnualRevenue,
	}
}

func fromInsuredRecord(r insuredRecord) model.InsuredParty {
	return model.InsuredParty{
		Name:            r.Name,
		DBA:             r.DBA,
		TaxID:           r.TaxID,
		MailingAddress:  fromAddressRecord(r.MailingAddress),
		NAICSCode:       r.NAICSCode,
		YearsInBusiness: r.YearsInBusiness,
		EmployeeCount:   r.EmployeeCount,
		AnnualRevenue:   r.AnnualRevenue,
	}
}

func toCoverageRecords(cs []model.Coverage) []coverageRecord {
	out := make([]coverageRecord, 0, len(cs))
	for _, c := range cs {
		out = append(out, coverageRecord{
			ID:                  c.ID,
			Type:                c.Type,
			RequestedLimit:      c.RequestedLimit,
			RequestedDeductible: c.RequestedDeductible,
			PriorCarrier:        c.PriorCarrier,
			PriorPremium:        c.PriorPremium,
			PriorExpiration:     c.PriorExpiration,
		})
	}
	return out
}

func fromCoverageRecords(rs []coverageRecord) []model.Coverage {
	out := make([]model.Coverage, 0, len(rs))
	for _, r := range rs {
		out = append(out, model.Coverage{
			ID:                  r.ID,
			Type:                r.Type,
			RequestedLimit:      r.RequestedLimit,
			RequestedDeductible: r.RequestedDeductible,
			PriorCarrier:        r.PriorCarrier,
			PriorPremium:        r.PriorPremium,
			PriorExpiration:     r.PriorExpiration,
		})
	}
	return out
}

func toLocationRecords(ls []model.ExposureLocation) []locationRecord {
	out := make([]locationRecord, 0, len(ls))
	for _, l := range ls {
		out = append(out, locationRecord{
			ID:                 l.ID,
			Address:            toAddressRecord(l.Address),
			ConstructionType:   l.ConstructionType,
			YearBuilt:          l.YearBuilt,
			SquareFootage:      l.SquareFootage,
			Stories:            l.Stories,
			BuildingValue:      l.BuildingValue,
			ContentsValue:      l.ContentsValue,
			BusinessIncome:     l.BusinessIncome,
			SprinklerProtected: l.SprinklerProtected,
			AlarmProtected:     l.AlarmProtected,
		})
	}
	return out
}

func fromLocationRecords(rs []locationRecord) []model.ExposureLocation {
	out := make([]model.ExposureLocation, 0, len(rs))
	for _, r := range rs {
		out = append(out, model.ExposureLocation{
			ID:                 r.ID,
			Address:            fromAddressRecord(r.Address),
			ConstructionType:   r.ConstructionType,
			YearBuilt:          r.YearBuilt,
			SquareFootage:      r.SquareFootage,
			Stories:            r.Stories,
			BuildingValue:      r.BuildingValue,
			ContentsValue:      r.ContentsValue,
			BusinessIncome:     r.BusinessIncome,
			SprinklerProtected: r.SprinklerProtected,
			AlarmProtected:     r.AlarmProtected,
		})
	}
	return out
}

func toLossRecords(ls []model.LossRecord) []lossRecord {
	out := make([]lossRecord, 0, len(ls))
	for _, l := range ls {
		out = append(out, lossRecord{
			ID:             l.ID,
			LossDate:       l.LossDate,
			CoverageType:   l.CoverageType,
			ClaimNumber:    l.ClaimNumber,
			PaidAmount:     l.PaidAmount,
			ReservedAmount: l.ReservedAmount,
			Status:         l.Status,
		})
	}
	return out
}

func fromLossRecords(rs []lossRecord) []model.LossRecord {
	out := make([]model.LossRecord, 0, len(rs))
	for _, r := range rs {
		out = append(out, model.LossRecord{
			ID:             r.ID,
			LossDate:       r.LossDate,
			CoverageType:   r.CoverageType,
			ClaimNumber:    r.ClaimNumber,
			PaidAmount:     r.PaidAmount,
			ReservedAmount: r.ReservedAmount,
			Status:         r.Status,
		})
	}
	return out
}

func toMatchRecords(ms []model.ClearanceMatch) []matchRecord {
	out := make([]matchRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, matchRecord{
			MatchedSubmissionID:     m.MatchedSubmissionID,
			MatchedSubmissionNumber: m.MatchedSubmissionNumber,
			Type:                    m.Type.String(),
			Confidence:              m.Confidence,
			Details:                 m.Details,
			DetectedAt:              m.DetectedAt,
		})
	}
	return out
}

func fromMatchRecords(rs []matchRecord) ([]model.ClearanceMatch, error) {
	out := make([]model.ClearanceMatch, 0, len(rs))
	for _, r := range rs {
		mt, err := valueobject.MatchTypeFromString(r.Type)
		if err != nil {
			return nil, fmt.Errorf("parse match type: %w", err)
		}
		out = append(out, model.ClearanceMatch{
			MatchedSubmissionID:     r.MatchedSubmissionID,
			MatchedSubmissionNumber: r.MatchedSubmissionNumber,
			Type:                    mt,
			Confidence:              r.Confidence,
			Details:                 r.Details,
			DetectedAt:              r.DetectedAt,
		})
	}
	return out, nil
}
