package loan

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Form field names. They match the JSON keys of the record payload.
const (
	FieldApplicantName   = "applicantName"
	FieldLoanAmount      = "loanAmount"
	FieldApplicationDate = "applicationDate"
	FieldStatus          = "status"
	FieldEmail           = "email"
	FieldPhoneNumber     = "phoneNumber"
	FieldIncome          = "income"
	FieldCreditScore     = "creditScore"
)

// FieldNames lists every editable field in form order.
var FieldNames = []string{
	FieldApplicantName,
	FieldLoanAmount,
	FieldApplicationDate,
	FieldStatus,
	FieldEmail,
	FieldPhoneNumber,
	FieldIncome,
	FieldCreditScore,
}

// Values holds raw form field values keyed by field name.
type Values map[string]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Get returns the trimmed value for name.
func (v Values) Get(name string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v[name])
}

// ValuesFromRecord fills form values from a record. Absent optionals become
// empty strings.
func ValuesFromRecord(r Record) Values {
	values := Values{
		FieldApplicantName:   r.ApplicantName,
		FieldLoanAmount:      r.LoanAmount.String(),
		FieldApplicationDate: r.ApplicationDate.String(),
		FieldStatus:          string(r.Status),
		FieldEmail:           "",
		FieldPhoneNumber:     "",
		FieldIncome:          "",
		FieldCreditScore:     "",
	}
	if r.Email != nil {
		values[FieldEmail] = *r.Email
	}
	if r.PhoneNumber != nil {
		values[FieldPhoneNumber] = *r.PhoneNumber
	}
	if r.Income != nil {
		values[FieldIncome] = r.Income.String()
	}
	if r.CreditScore != nil {
		values[FieldCreditScore] = strconv.Itoa(*r.CreditScore)
	}
	return values
}

// ParseValues converts form values into a record payload. The returned record
// has no ID; callers address updates by the edit target instead.
func ParseValues(values Values) (Record, error) {
	var rec Record

	rec.ApplicantName = values.Get(FieldApplicantName)
	if rec.ApplicantName == "" {
		return Record{}, fieldError(FieldApplicantName, "required")
	}

	amount, err := parseAmount(values.Get(FieldLoanAmount), FieldLoanAmount)
	if err != nil {
		return Record{}, err
	}
	if amount == nil {
		return Record{}, fieldError(FieldLoanAmount, "required")
	}
	rec.LoanAmount = *amount

	rawDate := values.Get(FieldApplicationDate)
	if rawDate == "" {
		return Record{}, fieldError(FieldApplicationDate, "required")
	}
	date, err := ParseDate(rawDate)
	if err != nil {
		return Record{}, fieldError(FieldApplicationDate, "expected YYYY-MM-DD")
	}
	rec.ApplicationDate = date

	status := Status(strings.ToUpper(values.Get(FieldStatus)))
	if status == "" {
		return Record{}, fieldError(FieldStatus, "required")
	}
	if !status.Valid() {
		return Record{}, fieldError(FieldStatus, "unknown status "+string(status))
	}
	rec.Status = status

	rec.Email = optionalString(values.Get(FieldEmail))
	rec.PhoneNumber = optionalString(values.Get(FieldPhoneNumber))

	income, err := parseAmount(values.Get(FieldIncome), FieldIncome)
	if err != nil {
		return Record{}, err
	}
	rec.Income = income

	if raw := values.Get(FieldCreditScore); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return Record{}, fieldError(FieldCreditScore, "expected a whole number")
		}
		rec.CreditScore = &score
	}

	return rec, nil
}

func parseAmount(raw, field string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fieldError(field, "expected a number")
	}
	if amount.IsNegative() {
		return nil, fieldError(field, "must not be negative")
	}
	return &amount, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
