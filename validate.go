package main

import "strings"

// requiredParams maps each intent to its required parameter names, in the
// order they are reported back when absent.
var requiredParams = map[string][]string{
	IntentPayslipSelf:     {"employeeNumber", "fromDate", "toDate"},
	IntentPayslipOnBehalf: {"employeeNumber", "fromDate", "toDate"},
	IntentPayslipByName:   {"employeeName", "fromDate", "toDate"},
	IntentT4Self:          {"employeeNumber", "year"},
	IntentT4OnBehalf:      {"employeeNumber", "year"},
	IntentT4ByName:        {"employeeName", "year"},
	IntentT4ASelf:         {"employeeNumber", "year"},
	IntentT4AOnBehalf:     {"employeeNumber", "year"},
	IntentT4AByName:       {"employeeName", "year"},
}

// ValidateParameters returns the required parameters missing from params for
// the given intent. Unknown intents have nothing to validate and return an
// empty list. A parameter counts as present only if it exists and is not
// empty or zero.
func ValidateParameters(intent string, params map[string]any) []string {
	required, ok := requiredParams[intent]
	if !ok {
		return nil
	}

	var missing []string
	for _, name := range required {
		if !paramPresent(params[name]) {
			missing = append(missing, name)
		}
	}
	return missing
}

func paramPresent(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case int:
		return x != 0
	case float64:
		// JSON numbers decode as float64.
		return x != 0
	default:
		return true
	}
}
