package main

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoDataInRange = errors.New("no pay data in range")

// EarningsLine is one row of the paystub earnings table.
type EarningsLine struct {
	Label  string
	Amount float64
}

// PayslipDocument is the ordered paystub structure: header, earnings table
// with a trailing total, deductions table, net pay line. Net pay is the sum
// of per-period net amounts, not gross minus deductions; the two can
// legitimately differ and are not reconciled here.
type PayslipDocument struct {
	EmployeeName   string
	EmployeeNumber string
	PeriodStart    string
	PeriodEnd      string

	Earnings   []EarningsLine
	GrossTotal float64
	CPPTotal   float64
	EITotal    float64
	NetTotal   float64
}

// BuildPayslip aggregates a non-empty sequence of pay rows for one employee
// into a paystub document. An empty set is a validation failure, not a
// fault.
func BuildPayslip(rows []PaystubRow) (PayslipDocument, error) {
	if len(rows) == 0 {
		return PayslipDocument{}, ErrNoDataInRange
	}

	doc := PayslipDocument{
		EmployeeName:   rows[0].FullName,
		EmployeeNumber: rows[0].EmployeeNumber,
		PeriodStart:    rows[0].PeriodStart,
		PeriodEnd:      rows[len(rows)-1].PeriodEnd,
	}

	for _, r := range rows {
		doc.Earnings = append(doc.Earnings, EarningsLine{
			Label:  fmt.Sprintf("Gross %s–%s", r.PeriodStart, r.PeriodEnd),
			Amount: r.GrossAmount,
		})
		doc.GrossTotal += r.GrossAmount
		doc.NetTotal += r.NetAmount
		if r.CPP.Valid {
			doc.CPPTotal += r.CPP.Float64
		}
		if r.EI.Valid {
			doc.EITotal += r.EI.Float64
		}
	}

	return doc, nil
}

// RenderPayslip renders the document as plain text, sections in the fixed
// order the template dictates. All monetary values print with two decimals.
func RenderPayslip(doc PayslipDocument) []byte {
	var b strings.Builder

	b.WriteString("PAYSTUB\n\n")
	fmt.Fprintf(&b, "Employee Name: %s\n", doc.EmployeeName)
	fmt.Fprintf(&b, "Employee Number: %s\n", doc.EmployeeNumber)
	fmt.Fprintf(&b, "Pay Period: %s to %s\n", doc.PeriodStart, doc.PeriodEnd)

	b.WriteString("\nEARNINGS\n")
	b.WriteString("Description | Amount\n")
	for _, line := range doc.Earnings {
		fmt.Fprintf(&b, "%s | %.2f\n", line.Label, line.Amount)
	}
	fmt.Fprintf(&b, "Gross Total | %.2f\n", doc.GrossTotal)

	b.WriteString("\nDEDUCTIONS\n")
	b.WriteString("Deduction | Amount\n")
	fmt.Fprintf(&b, "CPP | %.2f\n", doc.CPPTotal)
	fmt.Fprintf(&b, "EI | %.2f\n", doc.EITotal)

	fmt.Fprintf(&b, "\nNET PAY (sum of periods): %.2f\n", doc.NetTotal)

	return []byte(b.String())
}

// PayslipFilename builds the stored document name:
// paystub_{name with spaces as underscores}_{from no dashes}_to_{to no dashes}.txt
func PayslipFilename(fullName, fromDate, toDate string) string {
	name := strings.ReplaceAll(fullName, " ", "_")
	from := strings.ReplaceAll(fromDate, "-", "")
	to := strings.ReplaceAll(toDate, "-", "")
	return fmt.Sprintf("paystub_%s_%s_to_%s.txt", name, from, to)
}
