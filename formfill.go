package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormTemplate describes a fixed-layout form: a name and the inventory of
// fillable field paths per page. Templates are YAML documents fetched from
// the template container; built-in definitions cover the stock T4 and T4A
// slips when no template document exists.
type FormTemplate struct {
	Name  string     `yaml:"name"`
	Pages []FormPage `yaml:"pages"`
}

type FormPage struct {
	Number int      `yaml:"number"`
	Fields []string `yaml:"fields"`
}

// FieldFailure records one field that could not be applied during a fill.
// The only failure mode is a path the template does not expose, so there is
// no page to attribute it to.
type FieldFailure struct {
	Path   string
	Reason string
}

// FillResult is what a best-effort fill hands back: the subset of the field
// map that took effect, plus a record of everything that did not.
type FillResult struct {
	Applied FieldMap
	Failed  []FieldFailure
}

func LoadFormTemplate(data []byte) (*FormTemplate, error) {
	var t FormTemplate
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse form template yaml: %w", err)
	}
	if t.Name == "" {
		return nil, fmt.Errorf("form template has no name")
	}
	return &t, nil
}

// FieldPaths lists every fillable path the template exposes.
func (t *FormTemplate) FieldPaths() []string {
	var paths []string
	for _, page := range t.Pages {
		paths = append(paths, page.Fields...)
	}
	return paths
}

// FillForm applies a field map to the template best-effort. A path the
// template does not expose is recorded as a failure and skipped; it never
// aborts the fill. The caller receives whatever subset was applied.
func FillForm(t *FormTemplate, m FieldMap) FillResult {
	pageByPath := make(map[string]int)
	for _, page := range t.Pages {
		for _, f := range page.Fields {
			pageByPath[f] = page.Number
		}
	}

	var result FillResult
	for _, fv := range m {
		if _, ok := pageByPath[fv.Path]; !ok {
			result.Failed = append(result.Failed, FieldFailure{
				Path:   fv.Path,
				Reason: "field not present in template",
			})
			continue
		}
		result.Applied = append(result.Applied, fv)
	}
	return result
}

// RenderFilledForm serializes the filled form for storage: template name,
// then each template field with its applied value, unmapped fields left at
// their template defaults (blank).
func RenderFilledForm(t *FormTemplate, applied FieldMap) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "TEMPLATE: %s\n", t.Name)
	for _, page := range t.Pages {
		fmt.Fprintf(&b, "\nPAGE %d\n", page.Number)
		for _, path := range page.Fields {
			value, _ := applied.Lookup(path)
			fmt.Fprintf(&b, "%s = %s\n", path, value)
		}
	}
	return []byte(b.String())
}

// Built-in template definitions for the stock slips. The field inventory is
// the Slip1 subset the mappers populate.
const t4TemplateYAML = `name: t4_template
pages:
  - number: 1
    fields:
      - form1[0].Page1[0].Slip1[0].Employee[0].LastName[0].Slip1LastName[0]
      - form1[0].Page1[0].Slip1[0].Employee[0].FirstName[0].Slip1FirstName[0]
      - form1[0].Page1[0].Slip1[0].Box12[0].Slip1Box12[0]
      - form1[0].Page1[0].Slip1[0].Year[0].Slip1Year[0]
      - form1[0].Page1[0].Slip1[0].Box14[0].Slip1Box14[0]
      - form1[0].Page1[0].Slip1[0].Box22[0].Slip1Box22[0]
      - form1[0].Page1[0].Slip1[0].EmployersName[0].Slip1EmployersName[0]
`

const t4aTemplateYAML = `name: t4a_template
pages:
  - number: 1
    fields:
      - form1[0].Page1[0].Slip1[0].Employee[0].LastName[0].Slip1LastName[0]
      - form1[0].Page1[0].Slip1[0].Employee[0].FirstName[0].Slip1FirstName[0]
      - form1[0].Page1[0].Slip1[0].Box12[0].Slip1SIN[0]
      - form1[0].Page1[0].Slip1[0].Year[0].Slip1Year[0]
      - form1[0].Page1[0].Slip1[0].Line16[0].Slip1Line16[0]
      - form1[0].Page1[0].Slip1[0].Line22[0].Slip1Line22[0]
      - form1[0].Page1[0].Slip1[0].EmployersName[0].Slip1EmployersName[0]
`

// TemplateDocumentName is the stored template document for a form type.
func TemplateDocumentName(formType FormType) string {
	if formType == FormT4A {
		return "t4a_template.yaml"
	}
	return "t4_template.yaml"
}

// BuiltinFormTemplate returns the stock template for a form type.
func BuiltinFormTemplate(formType FormType) *FormTemplate {
	src := t4TemplateYAML
	if formType == FormT4A {
		src = t4aTemplateYAML
	}
	t, err := LoadFormTemplate([]byte(src))
	if err != nil {
		// Built-in definitions are constants; a parse failure here is a bug.
		panic(err)
	}
	return t
}
