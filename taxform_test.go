package main

import (
	"errors"
	"testing"
)

func sampleTaxRecord() *TaxFormRecord {
	return &TaxFormRecord{
		FullName:          "Alex Martin",
		SIN:               "123456789",
		Year:              2023,
		EmploymentIncome:  65000,
		IncomeTaxDeducted: 12500.5,
	}
}

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		full  string
		first string
		last  string
	}{
		{"Alex Martin", "Alex", "Martin"},
		{"Madonna", "", "Madonna"},
		// Known limitation: multi-token surnames split at the final
		// whitespace boundary.
		{"Maria van der Berg", "Maria", "Berg"},
	}
	for _, tc := range cases {
		first, last := splitFullName(tc.full)
		if first != tc.first || last != tc.last {
			t.Fatalf("splitFullName(%q) = (%q, %q), want (%q, %q)", tc.full, first, last, tc.first, tc.last)
		}
	}
}

func TestBuildFieldMapT4(t *testing.T) {
	m, err := BuildFieldMap(sampleTaxRecord(), FormT4)
	if err != nil {
		t.Fatalf("BuildFieldMap failed: %v", err)
	}

	checks := map[string]string{
		fieldLastName:           "Martin",
		fieldFirstName:          "Alex",
		fieldT4SIN:              "123456789",
		fieldYear:               "2023",
		fieldT4EmploymentIncome: "65000.00",
		fieldT4IncomeTax:        "12500.50",
		fieldEmployerName:       employerName,
	}
	for path, want := range checks {
		got, ok := m.Lookup(path)
		if !ok {
			t.Fatalf("T4 map missing path %s", path)
		}
		if got != want {
			t.Fatalf("T4 %s = %q, want %q", path, got, want)
		}
	}
	if len(m) != len(checks) {
		t.Fatalf("T4 map has %d fields, want %d", len(m), len(checks))
	}
}

func TestBuildFieldMapT4A(t *testing.T) {
	m, err := BuildFieldMap(sampleTaxRecord(), FormT4A)
	if err != nil {
		t.Fatalf("BuildFieldMap failed: %v", err)
	}

	if _, ok := m.Lookup(fieldT4ASIN); !ok {
		t.Fatal("T4A map must use the T4A SIN leaf field")
	}
	if _, ok := m.Lookup(fieldT4SIN); ok {
		t.Fatal("T4A map must not use the T4 SIN leaf field")
	}
	if got, _ := m.Lookup(fieldT4AEmploymentIncome); got != "65000.00" {
		t.Fatalf("T4A Line16 = %q, want 65000.00", got)
	}
	if got, _ := m.Lookup(fieldT4AIncomeTax); got != "12500.50" {
		t.Fatalf("T4A Line22 = %q, want 12500.50", got)
	}
}

func TestBuildFieldMapBoxAndLinePathsNeverShared(t *testing.T) {
	t4, err := BuildFieldMap(sampleTaxRecord(), FormT4)
	if err != nil {
		t.Fatalf("T4 map failed: %v", err)
	}
	t4a, err := BuildFieldMap(sampleTaxRecord(), FormT4A)
	if err != nil {
		t.Fatalf("T4A map failed: %v", err)
	}

	// The amount and SIN identifiers are box-based on the T4 and line-based
	// on the T4A; they must not collide even though the values match.
	t4aPaths := make(map[string]bool)
	for _, fv := range t4a {
		t4aPaths[fv.Path] = true
	}
	distinct := []string{fieldT4SIN, fieldT4EmploymentIncome, fieldT4IncomeTax}
	for _, path := range distinct {
		if _, ok := t4.Lookup(path); !ok {
			t.Fatalf("T4 map missing %s", path)
		}
		if t4aPaths[path] {
			t.Fatalf("path %s must be T4-only, found in T4A map", path)
		}
	}
}

func TestBuildFieldMapMissingRecord(t *testing.T) {
	_, err := BuildFieldMap(nil, FormT4)
	if !errors.Is(err, ErrMissingTaxRecord) {
		t.Fatalf("expected ErrMissingTaxRecord, got %v", err)
	}
}

func TestBuildFieldMapSingleTokenName(t *testing.T) {
	rec := sampleTaxRecord()
	rec.FullName = "Madonna"

	m, err := BuildFieldMap(rec, FormT4)
	if err != nil {
		t.Fatalf("BuildFieldMap failed: %v", err)
	}
	if got, _ := m.Lookup(fieldLastName); got != "Madonna" {
		t.Fatalf("single-token last name = %q, want Madonna", got)
	}
	if got, _ := m.Lookup(fieldFirstName); got != "" {
		t.Fatalf("single-token first name = %q, want empty", got)
	}
}
