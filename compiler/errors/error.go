package errors

import (
	"encoding/json"
	"fmt"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Severity
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Severity
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	switch str {
	case "info":
		*s = Info
	case "warning":
		*s = Warning
	case "fatal":
		*s = Fatal
	default:
		*s = Error
	}
	return nil
}

// SourceLocation is a position inside query text. Line and Column are 1-based; a zero
// Line means the diagnostic has no position (built queries, execution failures).
type SourceLocation struct {
	Source string `json:"source"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Length int    `json:"length"`
}

// ErrorContext contains the query lines surrounding a diagnostic
type ErrorContext struct {
	SourceLines []string  `json:"source_lines"`
	Highlight   Highlight `json:"highlight"`
}

// Highlight specifies which part of the context to underline
type Highlight struct {
	Line  int `json:"line"`  // index into SourceLines
	Start int `json:"start"` // 0-based column
	End   int `json:"end"`
}

// FixSuggestion is a proposed rewrite of the offending text
type FixSuggestion struct {
	Description string  `json:"description"`
	OldCode     string  `json:"old_code"`
	NewCode     string  `json:"new_code"`
	Confidence  float64 `json:"confidence"` // 0.0 to 1.0
}

// CompilerError is the rich, renderable form of every query error kind
type CompilerError struct {
	Phase      string         // "parser", "binder", "planner", "executor"
	Code       string         // "E100", "E201", ...
	Message    string
	Location   SourceLocation
	Severity   Severity
	Context    ErrorContext
	Suggestion *FixSuggestion
	Notes      []string // valid alternatives, expected tokens
}

// Error implements the error interface
func (e CompilerError) Error() string {
	if e.Location.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		e.sourceName(),
		e.Location.Line,
		e.Location.Column,
		e.Code,
		e.Message)
}

func (e CompilerError) sourceName() string {
	if e.Location.Source == "" {
		return "query"
	}
	return e.Location.Source
}

// NewCompilerError creates a new CompilerError
func NewCompilerError(phase, code, message string, location SourceLocation, severity Severity) CompilerError {
	return CompilerError{
		Phase:    phase,
		Code:     code,
		Message:  message,
		Location: location,
		Severity: severity,
	}
}

// WithContext adds context to the error
func (e CompilerError) WithContext(ctx ErrorContext) CompilerError {
	e.Context = ctx
	return e
}

// WithSuggestion adds a fix suggestion to the error
func (e CompilerError) WithSuggestion(suggestion FixSuggestion) CompilerError {
	e.Suggestion = &suggestion
	return e
}

// WithNote appends an explanatory note
func (e CompilerError) WithNote(note string) CompilerError {
	e.Notes = append(append([]string(nil), e.Notes...), note)
	return e
}

// MarshalJSON implements json.Marshaler
func (e CompilerError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Phase      string         `json:"phase"`
		Code       string         `json:"code"`
		Message    string         `json:"message"`
		Severity   Severity       `json:"severity"`
		Location   SourceLocation `json:"location"`
		Context    ErrorContext   `json:"context"`
		Suggestion *FixSuggestion `json:"suggestion"`
		Notes      []string       `json:"notes,omitempty"`
	}{
		Phase:      e.Phase,
		Code:       e.Code,
		Message:    e.Message,
		Severity:   e.Severity,
		Location:   e.Location,
		Context:    e.Context,
		Suggestion: e.Suggestion,
		Notes:      e.Notes,
	})
}

// IsError returns true if the error is at Error or Fatal severity
func (e CompilerError) IsError() bool {
	return e.Severity == Error || e.Severity == Fatal
}

// IsWarning returns true if the error is at Warning severity
func (e CompilerError) IsWarning() bool {
	return e.Severity == Warning
}
