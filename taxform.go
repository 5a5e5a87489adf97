package main

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingTaxRecord = errors.New("no tax data found")

// Employer name on generated slips. A placeholder constant, not data-driven;
// the source of record carries no employer identity.
// Employer is not stored per employee yet.
const employerName = "TD Bank Group"

// T4 and T4A templates share some literal path strings (name, year,
// employer), but box and line identifiers are distinct even where values
// coincide: Box14/Box22 on the T4 versus Line16/Line22 on the T4A, and the
// SIN lands in a different leaf field.
const (
	fieldLastName     = "form1[0].Page1[0].Slip1[0].Employee[0].LastName[0].Slip1LastName[0]"
	fieldFirstName    = "form1[0].Page1[0].Slip1[0].Employee[0].FirstName[0].Slip1FirstName[0]"
	fieldYear         = "form1[0].Page1[0].Slip1[0].Year[0].Slip1Year[0]"
	fieldEmployerName = "form1[0].Page1[0].Slip1[0].EmployersName[0].Slip1EmployersName[0]"

	fieldT4SIN              = "form1[0].Page1[0].Slip1[0].Box12[0].Slip1Box12[0]"
	fieldT4EmploymentIncome = "form1[0].Page1[0].Slip1[0].Box14[0].Slip1Box14[0]"
	fieldT4IncomeTax        = "form1[0].Page1[0].Slip1[0].Box22[0].Slip1Box22[0]"

	fieldT4ASIN              = "form1[0].Page1[0].Slip1[0].Box12[0].Slip1SIN[0]"
	fieldT4AEmploymentIncome = "form1[0].Page1[0].Slip1[0].Line16[0].Slip1Line16[0]"
	fieldT4AIncomeTax        = "form1[0].Page1[0].Slip1[0].Line22[0].Slip1Line22[0]"
)

// splitFullName splits a display name at the final whitespace boundary:
// last name is the final token when the name contains a space, otherwise the
// whole string; first name is the first token, or empty for a single-token
// name. Multi-token surnames come out wrong, but the downstream form
// fields expect exactly this split.
func splitFullName(fullName string) (first, last string) {
	if !strings.Contains(fullName, " ") {
		return "", fullName
	}
	tokens := strings.Fields(fullName)
	return tokens[0], tokens[len(tokens)-1]
}

// BuildFieldMap maps one tax form record onto the named form's field paths.
// A missing record is a hard failure; the fill cannot proceed with no data.
func BuildFieldMap(rec *TaxFormRecord, formType FormType) (FieldMap, error) {
	if rec == nil {
		return nil, ErrMissingTaxRecord
	}

	first, last := splitFullName(rec.FullName)

	switch formType {
	case FormT4:
		return FieldMap{
			{Path: fieldLastName, Value: last},
			{Path: fieldFirstName, Value: first},
			{Path: fieldT4SIN, Value: rec.SIN},
			{Path: fieldYear, Value: fmt.Sprintf("%d", rec.Year)},
			{Path: fieldT4EmploymentIncome, Value: fmt.Sprintf("%.2f", rec.EmploymentIncome)},
			{Path: fieldT4IncomeTax, Value: fmt.Sprintf("%.2f", rec.IncomeTaxDeducted)},
			{Path: fieldEmployerName, Value: employerName},
		}, nil
	case FormT4A:
		return FieldMap{
			{Path: fieldLastName, Value: last},
			{Path: fieldFirstName, Value: first},
			{Path: fieldT4ASIN, Value: rec.SIN},
			{Path: fieldYear, Value: fmt.Sprintf("%d", rec.Year)},
			{Path: fieldT4AEmploymentIncome, Value: fmt.Sprintf("%.2f", rec.EmploymentIncome)},
			{Path: fieldT4AIncomeTax, Value: fmt.Sprintf("%.2f", rec.IncomeTaxDeducted)},
			{Path: fieldEmployerName, Value: employerName},
		}, nil
	default:
		return nil, fmt.Errorf("unknown form type %q", formType)
	}
}
