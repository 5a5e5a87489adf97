package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// Session processes requests one at a time, start to finish: classify,
// validate, resolve, fetch, assemble, store. Every failure inside a request
// is reported on the operator channel and leaves the session running; the
// operator can immediately issue a new request. Nothing is retried
// automatically.
type Session struct {
	cfg     Config
	db      *sql.DB
	store   DocumentStore
	channel OperatorChannel
	tokens  SessionTokens
}

func NewSession(cfg Config, db *sql.DB, store DocumentStore, ch OperatorChannel) *Session {
	return &Session{cfg: cfg, db: db, store: store, channel: ch}
}

func (s *Session) Tokens() *SessionTokens {
	return &s.tokens
}

// HandleRequest runs the full pipeline for one free-text request.
func (s *Session) HandleRequest(text string) {
	classification := classifyFn(s.cfg, text, s.cfg.CurrentUserEmployeeNumber)
	s.tokens.Track(classification.TokenInfo)

	if classification.Intent == IntentError {
		s.channel.Say(fmt.Sprintf("Could not understand request: %s", classification.Error))
		return
	}

	s.channel.Say(fmt.Sprintf("Intent: %s", classification.Intent))

	missing := ValidateParameters(classification.Intent, classification.Parameters)
	if len(missing) > 0 {
		s.channel.Say(fmt.Sprintf("Request is missing: %s. Please rephrase with the missing details.", strings.Join(missing, ", ")))
		return
	}

	params := classification.Parameters

	if strings.HasSuffix(classification.Intent, "_BY_NAME") {
		employeeName := paramString(params, "employeeName")
		s.channel.Say(fmt.Sprintf("Searching for employee: '%s'", employeeName))

		matches, err := SearchEmployeesByName(s.db, employeeName)
		if err != nil {
			s.channel.Say(fmt.Sprintf("Error searching employees: %v", err))
			return
		}

		employeeNumber, err := ResolveEmployee(s.channel, matches, employeeName)
		if errors.Is(err, ErrEmployeeNotFound) {
			return
		}
		if errors.Is(err, ErrSelectionCancelled) {
			s.channel.Say("Operation cancelled")
			return
		}
		if err != nil {
			s.channel.Say(fmt.Sprintf("Error: %v", err))
			return
		}
		params["employeeNumber"] = employeeNumber
	}

	switch {
	case strings.HasPrefix(classification.Intent, "PAYSLIP"):
		s.handlePayslip(params)
	case strings.HasPrefix(classification.Intent, "T4A"):
		s.handleTaxForm(FormT4A, params)
	case strings.HasPrefix(classification.Intent, "T4"):
		s.handleTaxForm(FormT4, params)
	default:
		s.channel.Say(fmt.Sprintf("Unsupported intent: %s", classification.Intent))
	}
}

func (s *Session) handlePayslip(params map[string]any) {
	employeeNumber := paramString(params, "employeeNumber")
	fromDate := paramString(params, "fromDate")
	toDate := paramString(params, "toDate")

	rows, err := GetPaystubRows(s.db, employeeNumber, fromDate, toDate)
	if err != nil {
		s.channel.Say(fmt.Sprintf("Error querying pay data: %v", err))
		return
	}

	doc, err := BuildPayslip(rows)
	if errors.Is(err, ErrNoDataInRange) {
		s.channel.Say(fmt.Sprintf("No data found for employee %s in date range", employeeNumber))
		return
	}
	if err != nil {
		s.channel.Say(fmt.Sprintf("Error: %v", err))
		return
	}
	s.channel.Say(fmt.Sprintf("Found %d pay periods for %s", len(rows), doc.EmployeeName))

	data := RenderPayslip(doc)
	filename := PayslipFilename(doc.EmployeeName, fromDate, toDate)

	if err := s.store.Upload(s.cfg.OutputContainer, filename, data); err != nil {
		s.channel.Say(fmt.Sprintf("Error storing document: %v", err))
		return
	}
	s.channel.Say(fmt.Sprintf("Success! Document stored as: %s", filename))
}

func (s *Session) handleTaxForm(formType FormType, params map[string]any) {
	employeeNumber := paramString(params, "employeeNumber")
	year := paramInt(params, "year")

	rec, err := GetTaxFormRecord(s.db, employeeNumber, year, formType)
	if err != nil {
		s.channel.Say(fmt.Sprintf("Error querying tax data: %v", err))
		return
	}

	fieldMap, err := BuildFieldMap(rec, formType)
	if errors.Is(err, ErrMissingTaxRecord) {
		s.channel.Say(fmt.Sprintf("No %s record found for employee %s in %d", formType, employeeNumber, year))
		return
	}
	if err != nil {
		s.channel.Say(fmt.Sprintf("Error: %v", err))
		return
	}

	template := s.loadTemplate(formType)
	result := FillForm(template, fieldMap)
	for _, failure := range result.Failed {
		log.Printf("form fill skipped field=%s reason=%s", failure.Path, failure.Reason)
	}
	if len(result.Failed) > 0 {
		s.channel.Say(fmt.Sprintf("Warning: %d field(s) could not be applied", len(result.Failed)))
	}

	data := RenderFilledForm(template, result.Applied)
	filename := taxFormFilename(rec.FullName, formType, year)

	if err := s.store.Upload(s.cfg.OutputContainer, filename, data); err != nil {
		s.channel.Say(fmt.Sprintf("Error storing document: %v", err))
		return
	}
	s.channel.Say(fmt.Sprintf("Success! Document stored as: %s", filename))
}

// loadTemplate fetches the form template document from the template
// container, falling back to the built-in definition when none is stored.
func (s *Session) loadTemplate(formType FormType) *FormTemplate {
	data, err := s.store.Download(s.cfg.TemplateContainer, TemplateDocumentName(formType))
	if err != nil {
		return BuiltinFormTemplate(formType)
	}
	template, err := LoadFormTemplate(data)
	if err != nil {
		log.Printf("form template invalid, using built-in: %v", err)
		return BuiltinFormTemplate(formType)
	}
	return template
}

func taxFormFilename(fullName string, formType FormType, year int) string {
	name := strings.ReplaceAll(fullName, " ", "_")
	return fmt.Sprintf("%s_%s_%d.txt", strings.ToLower(string(formType)), name, year)
}

// paramString reads a classifier parameter as a string. Models occasionally
// return numbers where strings are expected.
func paramString(params map[string]any, key string) string {
	switch v := params[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// paramInt reads a classifier parameter as an integer. JSON numbers decode
// as float64; years sometimes arrive as strings.
func paramInt(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
