package errors_test

import (
	"fmt"

	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/lexer"
)

// ExampleSyntaxError_CompilerError demonstrates terminal formatting of a parse failure
func ExampleSyntaxError_CompilerError() {
	err := &errors.SyntaxError{
		Code:     errors.ErrUnexpectedEnd,
		Query:    "size >",
		Offset:   6,
		Line:     1,
		Column:   7,
		Expected: []lexer.TokenType{lexer.TOKEN_INT_LITERAL, lexer.TOKEN_DATE_LITERAL},
		Found:    lexer.Token{Type: lexer.TOKEN_EOF, Start: 6, End: 6},
		State:    "EXPECT_VALUE",
	}

	fmt.Println(errors.StripColors(err.CompilerError().FormatForTerminal()))

	// Output:
	// Error[E101]: syntax error at 1:7: expected integer literal or date literal, found end of input
	//   --> query:1:7
	//    |
	//  1 | size >
	//    |       ^
	//    |
	//   = parser state: EXPECT_VALUE
}

// ExampleKindOf demonstrates classifying a wrapped error
func ExampleKindOf() {
	err := fmt.Errorf("compile: %w", errors.NewSemanticError(errors.ErrUnknownField, "unknown field 'nme' on domain 'items'"))

	fmt.Println(errors.KindOf(err))
	// Output: semantic
}
