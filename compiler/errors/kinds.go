package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/artifactql/aql/compiler/lexer"
)

// Kind classifies a query error by the stage that rejected it
type Kind int

const (
	KindNone Kind = iota
	KindSyntax
	KindSemantic
	KindExecution
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindSemantic:
		return "semantic"
	case KindExecution:
		return "execution"
	default:
		return "none"
	}
}

// KindOf reports which kind of query error err wraps
func KindOf(err error) Kind {
	var syntaxErr *SyntaxError
	var semanticErr *SemanticError
	var execErr *ExecutionError
	switch {
	case err == nil:
		return KindNone
	case stderrors.As(err, &syntaxErr):
		return KindSyntax
	case stderrors.As(err, &semanticErr):
		return KindSemantic
	case stderrors.As(err, &execErr):
		return KindExecution
	default:
		return KindNone
	}
}

// Diagnostic converts any query error into its renderable form. The second result is
// false when err is not one of the query error kinds.
func Diagnostic(err error) (CompilerError, bool) {
	var syntaxErr *SyntaxError
	var semanticErr *SemanticError
	var execErr *ExecutionError
	var compilerErr CompilerError
	switch {
	case stderrors.As(err, &syntaxErr):
		return syntaxErr.CompilerError(), true
	case stderrors.As(err, &semanticErr):
		return semanticErr.CompilerError(), true
	case stderrors.As(err, &execErr):
		return execErr.CompilerError(), true
	case stderrors.As(err, &compilerErr):
		return compilerErr, true
	default:
		return CompilerError{}, false
	}
}

// SyntaxError is returned when query text does not match the grammar. It describes the
// furthest position any alternative reached.
type SyntaxError struct {
	Code     string
	Query    string
	Offset   int
	Line     int
	Column   int
	Expected []lexer.TokenType
	Found    lexer.Token
	State    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s, found %s", e.Line, e.Column, e.ExpectedText(), e.FoundText())
}

// ExpectedText renders the accepted token kinds as "expected a, b or c"
func (e *SyntaxError) ExpectedText() string {
	if len(e.Expected) == 0 {
		return "unexpected input"
	}
	names := make([]string, len(e.Expected))
	for i, t := range e.Expected {
		names[i] = t.Describe()
	}
	if len(names) == 1 {
		return "expected " + names[0]
	}
	return "expected " + strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// FoundText describes the token at the error position
func (e *SyntaxError) FoundText() string {
	switch e.Found.Type {
	case lexer.TOKEN_EOF:
		return "end of input"
	case lexer.TOKEN_ERROR:
		return fmt.Sprintf("invalid input %q", e.Found.Lexeme)
	default:
		return fmt.Sprintf("%q", e.Found.Lexeme)
	}
}

// CompilerError converts the syntax error into a diagnostic with source context
func (e *SyntaxError) CompilerError() CompilerError {
	length := e.Found.End - e.Found.Start
	if length <= 0 {
		length = 1
	}
	diag := NewCompilerError(GetPhaseForCode(e.Code), e.Code, e.Error(), SourceLocation{
		Offset: e.Offset,
		Line:   e.Line,
		Column: e.Column,
		Length: length,
	}, Error)
	diag = diag.WithNote("parser state: " + e.State)
	return EnrichError(diag, e.Query)
}

// SemanticError is returned when a syntactically valid query cannot be bound to the
// domain graph or compiled into a plan
type SemanticError struct {
	Code    string
	Message string
	Domain  string   // owning domain, when the error concerns a member
	Name    string   // offending field, sub-domain or value
	Valid   []string // accepted alternatives
}

func (e *SemanticError) Error() string {
	if len(e.Valid) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (valid: %s)", e.Message, strings.Join(e.Valid, ", "))
}

// NewSemanticError creates a semantic error with a formatted message
func NewSemanticError(code, format string, args ...interface{}) *SemanticError {
	return &SemanticError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithMember records the domain and offending name together with the valid alternatives
func (e *SemanticError) WithMember(domain, name string, valid []string) *SemanticError {
	e.Domain = domain
	e.Name = name
	e.Valid = valid
	return e
}

// CompilerError converts the semantic error into a diagnostic
func (e *SemanticError) CompilerError() CompilerError {
	diag := NewCompilerError(GetPhaseForCode(e.Code), e.Code, e.Message, SourceLocation{}, Error)
	if len(e.Valid) > 0 {
		diag = diag.WithNote("valid: " + strings.Join(e.Valid, ", "))
	}
	if suggestion := suggestFix(diag, e); suggestion != nil {
		diag = diag.WithSuggestion(*suggestion)
	}
	return diag
}

// ExecutionError wraps a failure reported by a row source while running a plan
type ExecutionError struct {
	Code   string
	PlanID string
	Query  string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing plan %s: %v", e.PlanID, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError wraps err. A nil err yields nil.
func NewExecutionError(code, planID, query string, err error) error {
	if err == nil {
		return nil
	}
	return &ExecutionError{Code: code, PlanID: planID, Query: query, Err: err}
}

// CompilerError converts the execution error into a diagnostic
func (e *ExecutionError) CompilerError() CompilerError {
	diag := NewCompilerError(GetPhaseForCode(e.Code), e.Code, e.Err.Error(), SourceLocation{}, Error)
	if e.PlanID != "" {
		diag = diag.WithNote("plan: " + e.PlanID)
	}
	if e.Query != "" {
		diag = diag.WithNote("statement: " + e.Query)
	}
	return diag
}
