package errors

// Error code constants organized by kind
// E100-E199: Syntax errors (parser)
// E200-E299: Semantic errors (E200-E219 binder, E220-E299 planner)
// E500-E599: Execution errors (row source)

const (
	// Syntax errors (E100-E199)
	ErrUnexpectedToken    = "E100"
	ErrUnexpectedEnd      = "E101"
	ErrUnterminatedString = "E102"
	ErrInvalidCharacter   = "E103"
	ErrUnknownRoot        = "E104"
	ErrUnmatchedParen     = "E105"
	ErrTrailingInput      = "E106"

	// Semantic errors (E200-E299)
	ErrUnknownDomain        = "E200"
	ErrUnknownField         = "E201"
	ErrIllegalPath          = "E202"
	ErrComparatorNotAllowed = "E203"
	ErrTypeMismatch         = "E204"
	ErrInvalidDate          = "E205"
	ErrInvalidNumber        = "E206"
	ErrNumberOverflow       = "E207"
	ErrInvalidItemType      = "E208"
	ErrWrongValueCount      = "E209"
	ErrNegativeBound        = "E210"
	ErrRootMismatch         = "E211"
	ErrInvalidSortKey       = "E212"
	ErrTooManyJoins         = "E220"
	ErrInvalidPlan          = "E221"

	// Execution errors (E500-E599)
	ErrExecutionFailed   = "E500"
	ErrConnection        = "E501"
	ErrCanceled          = "E502"
	ErrScan              = "E503"
	ErrRelease           = "E504"
	ErrUndefinedRelation = "E505"
)

// ErrorMessages maps error codes to their default messages
var ErrorMessages = map[string]string{
	ErrUnexpectedToken:    "Unexpected token",
	ErrUnexpectedEnd:      "Unexpected end of query",
	ErrUnterminatedString: "Unterminated string literal",
	ErrInvalidCharacter:   "Invalid character",
	ErrUnknownRoot:        "Unknown root domain",
	ErrUnmatchedParen:     "Unmatched parenthesis",
	ErrTrailingInput:      "Unexpected input after query",

	ErrUnknownDomain:        "Unknown domain",
	ErrUnknownField:         "Unknown field or sub-domain",
	ErrIllegalPath:          "Illegal domain path",
	ErrComparatorNotAllowed: "Comparator not allowed for field type",
	ErrTypeMismatch:         "Type mismatch",
	ErrInvalidDate:          "Invalid date",
	ErrInvalidNumber:        "Invalid number",
	ErrNumberOverflow:       "Number out of range",
	ErrInvalidItemType:      "Invalid item type",
	ErrWrongValueCount:      "Wrong number of values",
	ErrNegativeBound:        "Negative limit or offset",
	ErrInvalidSortKey:       "Invalid sort key",
	ErrTooManyJoins:         "Too many joins",
	ErrInvalidPlan:          "Invalid plan",
	ErrRootMismatch:         "Query root mismatch",

	ErrExecutionFailed:   "Query execution failed",
	ErrConnection:        "Backend connection failed",
	ErrCanceled:          "Query canceled",
	ErrScan:              "Failed to read row",
	ErrRelease:           "Failed to release backend resource",
	ErrUndefinedRelation: "Backend schema is missing a table or column",
}

// GetErrorMessage returns the default message for an error code
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}

// GetPhaseForCode returns the phase name for an error code
func GetPhaseForCode(code string) string {
	if len(code) != 4 || code[0] != 'E' {
		return "unknown"
	}

	switch {
	case code >= "E100" && code <= "E199":
		return "parser"
	case code >= "E200" && code <= "E219":
		return "binder"
	case code >= "E220" && code <= "E299":
		return "planner"
	case code >= "E500" && code <= "E599":
		return "executor"
	default:
		return "unknown"
	}
}
