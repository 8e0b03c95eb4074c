package model

import "github.com/shopspring/decimal"

// Address is a postal address value object.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// InsuredParty describes the applicant business on a submission.
type InsuredParty struct {
	Name            string
	DBA             string
	TaxID           string
	MailingAddress  Address
	NAICSCode       string
	YearsInBusiness int
	EmployeeCount   int
	AnnualRevenue   decimal.Decimal
}
