package loan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the lifecycle states a loan application can be in.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Statuses lists the known statuses in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// DateLayout is the wire and form representation of an application date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("loan: application date: %w", err)
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return fmt.Errorf("loan: application date: %w", err)
	}
	*d = parsed
	return nil
}

// Record is one loan application as exchanged with the backend.
type Record struct {
	ID              int64
	ApplicantName   string
	LoanAmount      decimal.Decimal
	ApplicationDate Date
	Status          Status
	Email           *string
	PhoneNumber     *string
	Income          *decimal.Decimal
	CreditScore     *int
}

// wireRecord keeps money as JSON numbers, which is what the backend emits.
type wireRecord struct {
	ID              int64        `json:"id,omitempty"`
	ApplicantName   string       `json:"applicantName"`
	LoanAmount      json.Number  `json:"loanAmount"`
	ApplicationDate Date         `json:"applicationDate"`
	Status          Status       `json:"status"`
	Email           *string      `json:"email"`
	PhoneNumber     *string      `json:"phoneNumber"`
	Income          *json.Number `json:"income"`
	CreditScore     *int         `json:"creditScore"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	wire := wireRecord{
		ID:              r.ID,
		ApplicantName:   r.ApplicantName,
		LoanAmount:      json.Number(r.LoanAmount.String()),
		ApplicationDate: r.ApplicationDate,
		Status:          r.Status,
		Email:           r.Email,
		PhoneNumber:     r.PhoneNumber,
		CreditScore:     r.CreditScore,
	}
	if r.Income != nil {
		income := json.Number(r.Income.String())
		wire.Income = &income
	}
	return json.Marshal(wire)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var wire wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	out := Record{
		ID:              wire.ID,
		ApplicantName:   wire.ApplicantName,
		ApplicationDate: wire.ApplicationDate,
		Status:          wire.Status,
		Email:           wire.Email,
		PhoneNumber:     wire.PhoneNumber,
		CreditScore:     wire.CreditScore,
	}
	if wire.LoanAmount != "" {
		amount, err := decimal.NewFromString(wire.LoanAmount.String())
		if err != nil {
			return fmt.Errorf("loan: loan amount: %w", err)
		}
		out.LoanAmount = amount
	}
	if wire.Income != nil && *wire.Income != "" {
		income, err := decimal.NewFromString(wire.Income.String())
		if err != nil {
			return fmt.Errorf("loan: income: %w", err)
		}
		out.Income = &income
	}
	*r = out
	return nil
}

// Placeholder is shown in table cells for absent optional values.
const Placeholder = "N/A"

// Columns are the table headings matching the order of Cells.
var Columns = []string{
	"ID", "Applicant Name", "Loan Amount", "Application Date", "Status",
	"Email", "Phone Number", "Income", "Credit Score",
}

// Cells formats the record as table cells in Columns order.
func (r Record) Cells() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.ApplicantName,
		FormatMoney(r.LoanAmount),
		r.ApplicationDate.String(),
		string(r.Status),
		orPlaceholder(r.Email),
		orPlaceholder(r.PhoneNumber),
		formatOptionalMoney(r.Income),
		formatOptionalInt(r.CreditScore),
	}
}

// FormatMoney renders an amount with a dollar sign and two decimals.
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

func orPlaceholder(value *string) string {
	if value == nil || *value == "" {
		return Placeholder
	}
	return *value
}

func formatOptionalMoney(value *decimal.Decimal) string {
	if value == nil {
		return Placeholder
	}
	return FormatMoney(*value)
}

func formatOptionalInt(value *int) string {
	if value == nil {
		return Placeholder
	}
	return strconv.Itoa(*value)
}
