package parser

import (
	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/grammar"
	"github.com/artifactql/aql/compiler/lexer"
)

// newSyntaxError describes the furthest point any alternative reached
func newSyntaxError(in *grammar.Input) *errors.SyntaxError {
	pos := in.Furthest()
	if pos < 0 {
		pos = 0
	}
	found := lexer.Next(in.Text, pos)
	expected := in.ExpectedTypes()

	state := grammar.StateError
	if exp := in.Expected(); len(exp) > 0 {
		state = exp[0].State
	}

	code := errors.ErrUnexpectedToken
	switch found.Type {
	case lexer.TOKEN_EOF:
		code = errors.ErrUnexpectedEnd
		if expects(expected, lexer.TOKEN_RIGHT_PAREN) {
			code = errors.ErrUnmatchedParen
		}
	case lexer.TOKEN_ERROR:
		code = foundErrorCode(found)
	default:
		if expects(expected, lexer.TOKEN_EOF) && len(expected) == 1 {
			code = errors.ErrTrailingInput
		}
	}

	line, column := lexer.Position(in.Text, found.Start)
	return &errors.SyntaxError{
		Code:     code,
		Query:    in.Text,
		Offset:   found.Start,
		Line:     line,
		Column:   column,
		Expected: expected,
		Found:    found,
		State:    state.String(),
	}
}

func foundErrorCode(tok lexer.Token) string {
	if tok.Lexeme == `"` {
		return errors.ErrUnterminatedString
	}
	return errors.ErrInvalidCharacter
}

func expects(types []lexer.TokenType, want lexer.TokenType) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
