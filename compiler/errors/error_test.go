package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/artifactql/aql/compiler/lexer"
)

// TestError_Creation tests basic diagnostic creation
func TestError_Creation(t *testing.T) {
	loc := SourceLocation{Line: 1, Column: 7, Length: 3}

	err := NewCompilerError("binder", ErrTypeMismatch, "Type mismatch", loc, Error)

	if err.Phase != "binder" {
		t.Errorf("Expected phase 'binder', got '%s'", err.Phase)
	}
	if err.Code != ErrTypeMismatch {
		t.Errorf("Expected code '%s', got '%s'", ErrTypeMismatch, err.Code)
	}
	if got := err.Error(); got != "query:1:7: E204: Type mismatch" {
		t.Errorf("Unexpected error text %q", got)
	}

	err.Location = SourceLocation{}
	if got := err.Error(); got != "E204: Type mismatch" {
		t.Errorf("Unexpected error text without location %q", got)
	}
}

func TestSyntaxError_Text(t *testing.T) {
	err := &SyntaxError{
		Code:     ErrUnexpectedToken,
		Query:    "name ~ 1",
		Offset:   5,
		Line:     1,
		Column:   6,
		Expected: []lexer.TokenType{lexer.TOKEN_EQUAL, lexer.TOKEN_NOT_EQUAL, lexer.TOKEN_IN},
		Found:    lexer.Token{Type: lexer.TOKEN_ERROR, Lexeme: "~", Start: 5, End: 6},
		State:    "EXPECT_COMPARATOR",
	}

	want := `syntax error at 1:6: expected '=', '!=' or 'in', found invalid input "~"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	diag := err.CompilerError()
	if diag.Phase != "parser" {
		t.Errorf("Expected phase parser, got %s", diag.Phase)
	}
	if len(diag.Context.SourceLines) != 1 || diag.Context.Highlight.Start != 5 {
		t.Errorf("Unexpected context %+v", diag.Context)
	}
}

func TestSemanticError_Suggestion(t *testing.T) {
	err := NewSemanticError(ErrUnknownField, "unknown field or sub-domain 'nmae' on domain 'entries'").
		WithMember("entries", "nmae", []string{"name", "path", "archives"})

	if !strings.Contains(err.Error(), "valid: name, path, archives") {
		t.Errorf("Error should list valid names, got %q", err.Error())
	}

	diag := err.CompilerError()
	if diag.Suggestion == nil {
		t.Fatal("Expected a did-you-mean suggestion")
	}
	if diag.Suggestion.NewCode != "name" {
		t.Errorf("Expected suggestion 'name', got %q", diag.Suggestion.NewCode)
	}
	if diag.Phase != "binder" {
		t.Errorf("Expected phase binder, got %s", diag.Phase)
	}
}

func TestExecutionError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewExecutionError(ErrConnection, "plan-1", "SELECT 1", cause)

	if !stderrors.Is(err, cause) {
		t.Error("ExecutionError should unwrap to its cause")
	}
	if NewExecutionError(ErrConnection, "plan-1", "", nil) != nil {
		t.Error("Wrapping nil should yield nil")
	}

	diag, ok := Diagnostic(err)
	if !ok {
		t.Fatal("Expected a diagnostic")
	}
	if diag.Phase != "executor" || len(diag.Notes) != 2 {
		t.Errorf("Unexpected diagnostic %+v", diag)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{nil, KindNone},
		{stderrors.New("plain"), KindNone},
		{&SyntaxError{}, KindSyntax},
		{fmt.Errorf("wrapped: %w", &SemanticError{}), KindSemantic},
		{&ExecutionError{Err: stderrors.New("x")}, KindExecution},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.kind {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.kind)
		}
	}
}

// TestError_JSONFormat tests JSON output
func TestError_JSONFormat(t *testing.T) {
	err := NewSemanticError(ErrInvalidItemType, "unknown item type \"fiel\"").
		WithMember("items", "fiel", []string{"file", "folder", "any"})

	out, jsonErr := FormatErrorAsJSON(err)
	if jsonErr != nil {
		t.Fatalf("FormatErrorAsJSON failed: %v", jsonErr)
	}

	var decoded struct {
		Status string `json:"status"`
		Kind   string `json:"kind"`
		Errors []struct {
			Code       string         `json:"code"`
			Severity   string         `json:"severity"`
			Suggestion *FixSuggestion `json:"suggestion"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if decoded.Status != "error" || decoded.Kind != "semantic" {
		t.Errorf("Unexpected status/kind %s/%s", decoded.Status, decoded.Kind)
	}
	if len(decoded.Errors) != 1 || decoded.Errors[0].Code != ErrInvalidItemType {
		t.Fatalf("Unexpected errors %+v", decoded.Errors)
	}
	if decoded.Errors[0].Severity != "error" {
		t.Errorf("Expected severity 'error', got %q", decoded.Errors[0].Severity)
	}
	if s := decoded.Errors[0].Suggestion; s == nil || s.NewCode != "file" {
		t.Errorf("Expected suggestion 'file', got %+v", s)
	}
}

// TestError_ContextExtraction tests context extraction from multi-line queries
func TestError_ContextExtraction(t *testing.T) {
	source := "name = \"a\"\nand size > 10\nor type = \"file\"\nlimit 5\nsort name"

	loc := SourceLocation{Line: 3, Column: 11, Length: 6}
	ctx := extractSourceContext(loc, source)

	if len(ctx.SourceLines) != 5 {
		t.Fatalf("Expected 5 context lines, got %d", len(ctx.SourceLines))
	}
	if ctx.Highlight.Line != 2 {
		t.Errorf("Expected highlight line 2, got %d", ctx.Highlight.Line)
	}
	if ctx.Highlight.Start != 10 || ctx.Highlight.End != 16 {
		t.Errorf("Unexpected highlight %+v", ctx.Highlight)
	}

	if got := extractSourceContext(SourceLocation{Line: 9}, source); len(got.SourceLines) != 0 {
		t.Error("Out of range lines should produce no context")
	}
}

func TestSuggestCloseString(t *testing.T) {
	diag := NewCompilerError("parser", ErrUnterminatedString, "unterminated", SourceLocation{Line: 1, Column: 8, Length: 1}, Error)
	diag = EnrichError(diag, `name = "lib`)

	if diag.Suggestion == nil || diag.Suggestion.NewCode != `name = "lib"` {
		t.Errorf("Expected closing quote suggestion, got %+v", diag.Suggestion)
	}
}

func TestGetPhaseForCode(t *testing.T) {
	tests := map[string]string{
		ErrUnexpectedToken: "parser",
		ErrUnknownField:    "binder",
		ErrRootMismatch:    "binder",
		ErrTooManyJoins:    "planner",
		ErrScan:            "executor",
		"E9":               "unknown",
		"X100":             "unknown",
	}

	for code, phase := range tests {
		if got := GetPhaseForCode(code); got != phase {
			t.Errorf("GetPhaseForCode(%s) = %s, want %s", code, got, phase)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	for _, code := range []string{ErrUnexpectedToken, ErrInvalidDate, ErrRelease} {
		if GetErrorMessage(code) == "Unknown error" {
			t.Errorf("Missing default message for %s", code)
		}
	}
	if GetErrorMessage("E999") != "Unknown error" {
		t.Error("Unknown codes should have the generic message")
	}
}

func TestFuzzy(t *testing.T) {
	if d := LevenshteinDistance("kitten", "sitting"); d != 3 {
		t.Errorf("LevenshteinDistance = %d, want 3", d)
	}
	if d := LevenshteinDistance("", "abc"); d != 3 {
		t.Errorf("LevenshteinDistance = %d, want 3", d)
	}

	got := FindSimilar("archive", []string{"entries", "archives", "items"})
	if len(got) != 1 || got[0] != "archives" {
		t.Errorf("FindSimilar = %v", got)
	}

	if _, ok := Closest("zzzzzzzz", []string{"name"}); ok {
		t.Error("Distant names should not be suggested")
	}
}

// TestStripColors tests color stripping
func TestStripColors(t *testing.T) {
	colored := "\x1b[31mError\x1b[0m: \x1b[1;36mbad\x1b[0m"
	if got := StripColors(colored); got != "Error: bad" {
		t.Errorf("StripColors = %q", got)
	}
}

func TestSeverity_JSONRoundTrip(t *testing.T) {
	for _, s := range []Severity{Info, Warning, Error, Fatal} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatal(err)
		}
		var back Severity
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatal(err)
		}
		if back != s {
			t.Errorf("Severity %s round-tripped to %s", s, back)
		}
	}
}
