package errors

import (
	"encoding/json"
)

// JSONOutput represents the JSON structure for error output
type JSONOutput struct {
	Status  string          `json:"status"`
	Kind    string          `json:"kind,omitempty"`
	Errors  []CompilerError `json:"errors"`
	Summary Summary         `json:"summary"`
}

// Summary contains error and warning counts
type Summary struct {
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	TotalCount   int `json:"total_count"`
}

// FormatAsJSON formats a CompilerError as indented JSON
func (e CompilerError) FormatAsJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatErrorAsJSON renders any query error as a JSONOutput document. Errors that are not
// query errors are reported with their plain message.
func FormatErrorAsJSON(err error) (string, error) {
	diag, ok := Diagnostic(err)
	if !ok {
		diag = NewCompilerError("unknown", "", err.Error(), SourceLocation{}, Error)
	}
	output := JSONOutput{
		Status: "error",
		Kind:   KindOf(err).String(),
		Errors: []CompilerError{diag},
		Summary: Summary{
			ErrorCount: 1,
			TotalCount: 1,
		},
	}

	data, marshalErr := json.MarshalIndent(output, "", "  ")
	if marshalErr != nil {
		return "", marshalErr
	}
	return string(data), nil
}

// FormatErrorsAsJSON formats multiple diagnostics as JSON
func FormatErrorsAsJSON(errors []CompilerError) (string, error) {
	var errorCount, warningCount int
	for _, err := range errors {
		if err.IsError() {
			errorCount++
		} else if err.IsWarning() {
			warningCount++
		}
	}

	status := "success"
	if errorCount > 0 {
		status = "error"
	} else if warningCount > 0 {
		status = "warning"
	}

	output := JSONOutput{
		Status: status,
		Errors: errors,
		Summary: Summary{
			ErrorCount:   errorCount,
			WarningCount: warningCount,
			TotalCount:   len(errors),
		},
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
