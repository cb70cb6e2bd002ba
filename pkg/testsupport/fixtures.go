package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-loanform/pkg/loan"
)

// Context returns a background context bounded by the test deadline, if any.
func Context(t testing.TB) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// SampleRecords returns a small collection mixing present and absent
// optional fields.
func SampleRecords() []loan.Record {
	email := "ada@example.com"
	phone := "555-0101"
	income := decimal.RequireFromString("85000")
	score := 720

	return []loan.Record{
		{
			ID:              1,
			ApplicantName:   "Ada Lovelace",
			LoanAmount:      decimal.RequireFromString("25000"),
			ApplicationDate: loan.NewDate(2024, time.March, 1),
			Status:          loan.StatusPending,
			Email:           &email,
			PhoneNumber:     &phone,
			Income:          &income,
			CreditScore:     &score,
		},
		{
			ID:              3,
			ApplicantName:   "Alan Turing",
			LoanAmount:      decimal.RequireFromString("1200.5"),
			ApplicationDate: loan.NewDate(2024, time.April, 12),
			Status:          loan.StatusApproved,
		},
		{
			ID:              7,
			ApplicantName:   "Grace Hopper",
			LoanAmount:      decimal.RequireFromString("980.99"),
			ApplicationDate: loan.NewDate(2023, time.November, 30),
			Status:          loan.StatusRejected,
		},
	}
}

// SampleValues returns valid form values for a new application.
func SampleValues() loan.Values {
	return loan.Values{
		loan.FieldApplicantName:   "Katherine Johnson",
		loan.FieldLoanAmount:      "15000",
		loan.FieldApplicationDate: "2024-05-20",
		loan.FieldStatus:          string(loan.StatusPending),
		loan.FieldEmail:           "kj@example.com",
		loan.FieldPhoneNumber:     "",
		loan.FieldIncome:          "72000.50",
		loan.FieldCreditScore:     "",
	}
}
