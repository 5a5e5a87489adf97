package main

import "database/sql"

// Intent tags returned by the classifier. BY_NAME variants carry an
// employeeName instead of an employeeNumber and need disambiguation before
// the data source can be queried.
const (
	IntentPayslipSelf     = "PAYSLIP_SELF"
	IntentPayslipOnBehalf = "PAYSLIP_ON_BEHALF"
	IntentPayslipByName   = "PAYSLIP_BY_NAME"
	IntentT4Self          = "T4_SELF"
	IntentT4OnBehalf      = "T4_ON_BEHALF"
	IntentT4ByName        = "T4_BY_NAME"
	IntentT4ASelf         = "T4A_SELF"
	IntentT4AOnBehalf     = "T4A_ON_BEHALF"
	IntentT4AByName       = "T4A_BY_NAME"
	IntentError           = "ERROR"
)

// FormType selects which fixed-layout tax form a record is mapped onto.
type FormType string

const (
	FormT4  FormType = "T4"
	FormT4A FormType = "T4A"
)

// Classification is the structured result of one classifier call.
// Intent == IntentError implies Error is set and Parameters is empty.
type Classification struct {
	Intent     string         `json:"intent"`
	Parameters map[string]any `json:"parameters"`
	Missing    []string       `json:"missing"`
	Error      string         `json:"error,omitempty"`
	TokenInfo  TokenInfo      `json:"token_info"`
}

// Employee is an immutable snapshot from the employee directory.
type Employee struct {
	EmployeeNumber string
	FullName       string
}

// PaystubRow is one pay period for one employee. CPP and EI may be NULL in
// the source data and are treated as zero when aggregating.
type PaystubRow struct {
	EmployeeNumber string
	FullName       string
	PeriodStart    string // YYYY-MM-DD, PeriodStart <= PeriodEnd
	PeriodEnd      string
	GrossAmount    float64
	NetAmount      float64
	CPP            sql.NullFloat64
	EI             sql.NullFloat64
}

// TaxFormRecord is the single annual record behind a T4 or T4A fill.
// At most one exists per (employee, year, form type).
type TaxFormRecord struct {
	FullName          string
	SIN               string
	Year              int
	EmploymentIncome  float64
	IncomeTaxDeducted float64
}

// FieldValue is one form-field-path -> rendered-value pair. Field maps are
// ordered, so they are slices rather than Go maps.
type FieldValue struct {
	Path  string
	Value string
}

type FieldMap []FieldValue

func (m FieldMap) Lookup(path string) (string, bool) {
	for _, fv := range m {
		if fv.Path == path {
			return fv.Value, true
		}
	}
	return "", false
}
