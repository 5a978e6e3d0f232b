package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// suggestFix generates an auto-fix suggestion based on the error code. sem carries the
// structured detail of semantic errors and is nil for positioned syntax diagnostics.
func suggestFix(err CompilerError, sem *SemanticError) *FixSuggestion {
	switch err.Code {
	case ErrUnknownField, ErrUnknownDomain, ErrInvalidItemType:
		return suggestSimilarName(sem)
	case ErrComparatorNotAllowed:
		return suggestComparator(sem)
	case ErrTypeMismatch:
		return suggestQuoting(sem)
	case ErrInvalidDate:
		return suggestDateFormat(sem)
	case ErrUnterminatedString:
		return suggestCloseString(err)
	case ErrUnmatchedParen:
		return suggestCloseParen(err)
	default:
		return nil
	}
}

// suggestSimilarName offers the closest valid name for a misspelled member or value
func suggestSimilarName(sem *SemanticError) *FixSuggestion {
	if sem == nil || sem.Name == "" {
		return nil
	}
	best, ok := Closest(sem.Name, sem.Valid)
	if !ok {
		return nil
	}

	confidence := 0.70
	if LevenshteinDistance(strings.ToLower(sem.Name), strings.ToLower(best)) <= 1 {
		confidence = 0.90
	}
	return &FixSuggestion{
		Description: fmt.Sprintf("Did you mean '%s'?", best),
		OldCode:     sem.Name,
		NewCode:     best,
		Confidence:  confidence,
	}
}

func suggestComparator(sem *SemanticError) *FixSuggestion {
	if sem == nil || len(sem.Valid) == 0 {
		return nil
	}
	return &FixSuggestion{
		Description: "Use a comparator supported by the field type",
		OldCode:     sem.Name,
		NewCode:     sem.Valid[0],
		Confidence:  0.60,
	}
}

// suggestQuoting turns a bare number or date into a string literal
func suggestQuoting(sem *SemanticError) *FixSuggestion {
	if sem == nil || sem.Name == "" {
		return nil
	}
	return &FixSuggestion{
		Description: "String fields compare against quoted values",
		OldCode:     sem.Name,
		NewCode:     strconv.Quote(sem.Name),
		Confidence:  0.85,
	}
}

func suggestDateFormat(sem *SemanticError) *FixSuggestion {
	old := ""
	if sem != nil {
		old = sem.Name
	}
	return &FixSuggestion{
		Description: "Dates are ISO-8601: a date, optionally followed by a time and zone",
		OldCode:     old,
		NewCode:     "2024-01-31 or 2024-01-31T10:15:00Z",
		Confidence:  0.80,
	}
}

// suggestCloseString appends the missing closing quote to the error line
func suggestCloseString(err CompilerError) *FixSuggestion {
	if len(err.Context.SourceLines) == 0 {
		return nil
	}

	errorLine := err.Context.SourceLines[err.Context.Highlight.Line]

	return &FixSuggestion{
		Description: "Add closing quote",
		OldCode:     strings.TrimSpace(errorLine),
		NewCode:     strings.TrimSpace(errorLine) + `"`,
		Confidence:  0.90,
	}
}

func suggestCloseParen(err CompilerError) *FixSuggestion {
	if len(err.Context.SourceLines) == 0 {
		return nil
	}

	errorLine := err.Context.SourceLines[err.Context.Highlight.Line]
	return &FixSuggestion{
		Description: "Close the open group",
		OldCode:     strings.TrimSpace(errorLine),
		NewCode:     strings.TrimSpace(errorLine) + ")",
		Confidence:  0.75,
	}
}
