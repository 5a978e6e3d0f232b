package lexer

import (
	"sort"
	"strings"
)

// keywords maps reserved words to their token types for O(1) lookup.
// Keywords are matched case-insensitively.
var keywords = map[string]TokenType{
	// Comparators
	"in":       TOKEN_IN,
	"like":     TOKEN_LIKE,
	"contains": TOKEN_CONTAINS,
	"is":       TOKEN_IS,
	"null":     TOKEN_NULL,

	// Connectives
	"and": TOKEN_AND,
	"or":  TOKEN_OR,
	"not": TOKEN_NOT,

	// Clauses
	"include": TOKEN_INCLUDE,
	"sort":    TOKEN_SORT,
	"asc":     TOKEN_ASC,
	"desc":    TOKEN_DESC,
	"limit":   TOKEN_LIMIT,
	"offset":  TOKEN_OFFSET,
}

// keywordText is the reverse of keywords
var keywordText = func() map[TokenType]string {
	m := make(map[TokenType]string, len(keywords))
	for word, t := range keywords {
		m[t] = word
	}
	return m
}()

// symbols maps punctuation and operator token types to their text
var symbols = map[TokenType]string{
	TOKEN_DOT:           ".",
	TOKEN_COMMA:         ",",
	TOKEN_LEFT_PAREN:    "(",
	TOKEN_RIGHT_PAREN:   ")",
	TOKEN_EQUAL:         "=",
	TOKEN_NOT_EQUAL:     "!=",
	TOKEN_GREATER:       ">",
	TOKEN_GREATER_EQUAL: ">=",
	TOKEN_LESS:          "<",
	TOKEN_LESS_EQUAL:    "<=",
}

// lookupKeyword checks if an identifier is a keyword
// Returns the token type and true if it's a keyword, TOKEN_IDENTIFIER and false otherwise
func lookupKeyword(identifier string) (TokenType, bool) {
	if tokenType, ok := keywords[strings.ToLower(identifier)]; ok {
		return tokenType, true
	}
	return TOKEN_IDENTIFIER, false
}

// IsKeyword reports whether word is reserved
func IsKeyword(word string) bool {
	_, ok := lookupKeyword(word)
	return ok
}

// Keyword returns the text of a keyword token type
func Keyword(t TokenType) (string, bool) {
	word, ok := keywordText[t]
	return word, ok
}

// Symbol returns the text of a punctuation or operator token type
func Symbol(t TokenType) (string, bool) {
	sym, ok := symbols[t]
	return sym, ok
}

// Keywords returns every reserved word in alphabetical order
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}
