package lexer

import "fmt"

// TokenType represents the kind of a token in query text
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ERROR

	// Names
	TOKEN_DOMAIN
	TOKEN_FIELD
	TOKEN_IDENTIFIER

	// Punctuation
	TOKEN_DOT
	TOKEN_COMMA
	TOKEN_LEFT_PAREN
	TOKEN_RIGHT_PAREN

	// Comparators
	TOKEN_EQUAL
	TOKEN_NOT_EQUAL
	TOKEN_GREATER
	TOKEN_GREATER_EQUAL
	TOKEN_LESS
	TOKEN_LESS_EQUAL
	TOKEN_IN
	TOKEN_LIKE
	TOKEN_CONTAINS
	TOKEN_IS
	TOKEN_NULL

	// Connectives
	TOKEN_AND
	TOKEN_OR
	TOKEN_NOT

	// Clauses
	TOKEN_INCLUDE
	TOKEN_SORT
	TOKEN_ASC
	TOKEN_DESC
	TOKEN_LIMIT
	TOKEN_OFFSET

	// Literals
	TOKEN_STRING_LITERAL
	TOKEN_INT_LITERAL
	TOKEN_DATE_LITERAL
)

// String returns the string representation of the token type
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_ERROR:
		return "ERROR"
	case TOKEN_DOMAIN:
		return "DOMAIN"
	case TOKEN_FIELD:
		return "FIELD"
	case TOKEN_IDENTIFIER:
		return "IDENTIFIER"
	case TOKEN_DOT:
		return "DOT"
	case TOKEN_COMMA:
		return "COMMA"
	case TOKEN_LEFT_PAREN:
		return "LEFT_PAREN"
	case TOKEN_RIGHT_PAREN:
		return "RIGHT_PAREN"
	case TOKEN_EQUAL:
		return "EQUAL"
	case TOKEN_NOT_EQUAL:
		return "NOT_EQUAL"
	case TOKEN_GREATER:
		return "GREATER"
	case TOKEN_GREATER_EQUAL:
		return "GREATER_EQUAL"
	case TOKEN_LESS:
		return "LESS"
	case TOKEN_LESS_EQUAL:
		return "LESS_EQUAL"
	case TOKEN_IN:
		return "IN"
	case TOKEN_LIKE:
		return "LIKE"
	case TOKEN_CONTAINS:
		return "CONTAINS"
	case TOKEN_IS:
		return "IS"
	case TOKEN_NULL:
		return "NULL"
	case TOKEN_AND:
		return "AND"
	case TOKEN_OR:
		return "OR"
	case TOKEN_NOT:
		return "NOT"
	case TOKEN_INCLUDE:
		return "INCLUDE"
	case TOKEN_SORT:
		return "SORT"
	case TOKEN_ASC:
		return "ASC"
	case TOKEN_DESC:
		return "DESC"
	case TOKEN_LIMIT:
		return "LIMIT"
	case TOKEN_OFFSET:
		return "OFFSET"
	case TOKEN_STRING_LITERAL:
		return "STRING_LITERAL"
	case TOKEN_INT_LITERAL:
		return "INT_LITERAL"
	case TOKEN_DATE_LITERAL:
		return "DATE_LITERAL"
	default:
		return "UNKNOWN"
	}
}

// Describe returns the form of the token type used in diagnostics
func (t TokenType) Describe() string {
	switch t {
	case TOKEN_EOF:
		return "end of input"
	case TOKEN_DOMAIN:
		return "domain name"
	case TOKEN_FIELD:
		return "field name"
	case TOKEN_IDENTIFIER:
		return "identifier"
	case TOKEN_STRING_LITERAL:
		return "string literal"
	case TOKEN_INT_LITERAL:
		return "integer literal"
	case TOKEN_DATE_LITERAL:
		return "date literal"
	}
	if sym, ok := symbols[t]; ok {
		return "'" + sym + "'"
	}
	if word, ok := keywordText[t]; ok {
		return "'" + word + "'"
	}
	return t.String()
}

// IsComparator reports whether the token type starts a comparison
func (t TokenType) IsComparator() bool {
	return t >= TOKEN_EQUAL && t <= TOKEN_IS
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Lexeme  string      // Raw text of the token
	Literal interface{} // Decoded value for literals
	Start   int         // Byte offset of the first character
	End     int         // Byte offset after the last character
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s(%v) [%d:%d]", t.Type, t.Literal, t.Start, t.End)
	}
	return fmt.Sprintf("%s(%s) [%d:%d]", t.Type, t.Lexeme, t.Start, t.End)
}

// LexError represents a lexical analysis error
type LexError struct {
	Message string
	Offset  int
	Line    int
	Column  int
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
