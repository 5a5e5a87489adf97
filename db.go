package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// InitDB opens the HR database and ensures the schema exists. The three
// tables mirror the source-of-record contract: an employee directory, one
// paystub row per pay period, and at most one tax form record per
// (employee, year, form type).
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		employee_number TEXT PRIMARY KEY,
		full_name       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_employees_full_name ON employees(full_name);

	CREATE TABLE IF NOT EXISTS paystubs (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_number TEXT NOT NULL,
		period_start    TEXT NOT NULL,
		period_end      TEXT NOT NULL,
		gross_amount    REAL NOT NULL,
		net_amount      REAL NOT NULL,
		cpp             REAL,
		ei              REAL
	);
	CREATE INDEX IF NOT EXISTS idx_paystubs_employee_period ON paystubs(employee_number, period_start);

	CREATE TABLE IF NOT EXISTS tax_forms (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_number     TEXT NOT NULL,
		sin                 TEXT NOT NULL,
		year                INTEGER NOT NULL,
		form_type           TEXT NOT NULL,
		employment_income   REAL NOT NULL,
		income_tax_deducted REAL NOT NULL,
		UNIQUE(employee_number, year, form_type)
	);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// SearchEmployeesByName returns employees whose display name contains the
// search string, case-insensitive, ordered by name.
func SearchEmployeesByName(db *sql.DB, name string) ([]Employee, error) {
	rows, err := db.Query(
		`SELECT DISTINCT employee_number, full_name
		 FROM employees
		 WHERE full_name LIKE ?
		 ORDER BY full_name`,
		"%"+name+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.EmployeeNumber, &e.FullName); err != nil {
			return nil, err
		}
		matches = append(matches, e)
	}
	return matches, rows.Err()
}

// GetPaystubRows returns the pay periods for one employee inside a date
// range, ordered by period start. Zero rows is not an error here; the
// aggregator decides what an empty range means.
func GetPaystubRows(db *sql.DB, employeeNumber, fromDate, toDate string) ([]PaystubRow, error) {
	rows, err := db.Query(
		`SELECT p.employee_number, e.full_name, p.period_start, p.period_end,
		        p.gross_amount, p.net_amount, p.cpp, p.ei
		 FROM paystubs p
		 JOIN employees e ON e.employee_number = p.employee_number
		 WHERE p.employee_number = ? AND p.period_start >= ? AND p.period_end <= ?
		 ORDER BY p.period_start`,
		employeeNumber, fromDate, toDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PaystubRow
	for rows.Next() {
		var r PaystubRow
		err := rows.Scan(
			&r.EmployeeNumber, &r.FullName, &r.PeriodStart, &r.PeriodEnd,
			&r.GrossAmount, &r.NetAmount, &r.CPP, &r.EI,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetTaxFormRecord returns the tax form record for one employee, year, and
// form type, or nil when none exists.
func GetTaxFormRecord(db *sql.DB, employeeNumber string, year int, formType FormType) (*TaxFormRecord, error) {
	var rec TaxFormRecord
	err := db.QueryRow(
		`SELECT e.full_name, t.sin, t.year, t.employment_income, t.income_tax_deducted
		 FROM tax_forms t
		 JOIN employees e ON e.employee_number = t.employee_number
		 WHERE t.employee_number = ? AND t.year = ? AND t.form_type = ?`,
		employeeNumber, year, string(formType),
	).Scan(&rec.FullName, &rec.SIN, &rec.Year, &rec.EmploymentIncome, &rec.IncomeTaxDeducted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// InsertEmployee adds or replaces a directory entry.
func InsertEmployee(db *sql.DB, e Employee) error {
	_, err := db.Exec(
		`INSERT OR REPLACE INTO employees (employee_number, full_name) VALUES (?, ?)`,
		e.EmployeeNumber, e.FullName,
	)
	return err
}

// InsertPaystubRow adds one pay period for an employee.
func InsertPaystubRow(db *sql.DB, r PaystubRow) error {
	_, err := db.Exec(
		`INSERT INTO paystubs (employee_number, period_start, period_end, gross_amount, net_amount, cpp, ei)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.EmployeeNumber, r.PeriodStart, r.PeriodEnd, r.GrossAmount, r.NetAmount, r.CPP, r.EI,
	)
	return err
}

// InsertTaxFormRecord adds one annual tax record for an employee.
func InsertTaxFormRecord(db *sql.DB, employeeNumber string, formType FormType, rec TaxFormRecord) error {
	_, err := db.Exec(
		`INSERT OR REPLACE INTO tax_forms (employee_number, sin, year, form_type, employment_income, income_tax_deducted)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		employeeNumber, rec.SIN, rec.Year, string(formType), rec.EmploymentIncome, rec.IncomeTaxDeducted,
	)
	return err
}
