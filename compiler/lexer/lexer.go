// Package lexer provides the token scanners the query grammar is built from.
// Scanners work on a byte offset into the source and never consume leading whitespace
// themselves; callers skip it first with SkipWhitespace.
package lexer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}(?::\d{2}(?:\.\d{1,9})?)?(?:Z|[+-]\d{2}:\d{2})?)?`)

// SkipWhitespace returns the offset of the first non-space character at or after pos
func SkipWhitespace(src string, pos int) int {
	for pos < len(src) {
		r, size := utf8.DecodeRuneInString(src[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

// ScanSymbol scans the punctuation or operator text of typ
func ScanSymbol(src string, pos int, typ TokenType) (Token, bool) {
	sym, ok := symbols[typ]
	if !ok || !strings.HasPrefix(src[pos:], sym) {
		return Token{}, false
	}
	end := pos + len(sym)
	// '>' and '<' never match the first half of '>=' and '<='
	if (typ == TOKEN_GREATER || typ == TOKEN_LESS) && end < len(src) && src[end] == '=' {
		return Token{}, false
	}
	return Token{Type: typ, Lexeme: sym, Start: pos, End: end}, true
}

// ScanKeyword scans the reserved word of typ, case-insensitively, on a word boundary
func ScanKeyword(src string, pos int, typ TokenType) (Token, bool) {
	word, ok := keywordText[typ]
	if !ok || len(src)-pos < len(word) {
		return Token{}, false
	}
	end := pos + len(word)
	if !strings.EqualFold(src[pos:end], word) || !atBoundary(src, end) {
		return Token{}, false
	}
	return Token{Type: typ, Lexeme: src[pos:end], Start: pos, End: end}, true
}

// ScanName scans exactly name, case-sensitively, on a word boundary
func ScanName(src string, pos int, name string, typ TokenType) (Token, bool) {
	if !strings.HasPrefix(src[pos:], name) {
		return Token{}, false
	}
	end := pos + len(name)
	if !atBoundary(src, end) {
		return Token{}, false
	}
	return Token{Type: typ, Lexeme: name, Start: pos, End: end}, true
}

// ScanIdentifier scans any identifier that is not a reserved word
func ScanIdentifier(src string, pos int) (Token, bool) {
	end := identifierEnd(src, pos)
	if end == pos {
		return Token{}, false
	}
	lexeme := src[pos:end]
	if IsKeyword(lexeme) {
		return Token{}, false
	}
	return Token{Type: TOKEN_IDENTIFIER, Lexeme: lexeme, Start: pos, End: end}, true
}

// ScanString scans a double-quoted string literal, decoding escape sequences
func ScanString(src string, pos int) (Token, bool) {
	if pos >= len(src) || src[pos] != '"' {
		return Token{}, false
	}

	var builder strings.Builder
	i := pos + 1
	for i < len(src) {
		c := src[i]
		switch c {
		case '"':
			return Token{
				Type:    TOKEN_STRING_LITERAL,
				Lexeme:  src[pos : i+1],
				Literal: builder.String(),
				Start:   pos,
				End:     i + 1,
			}, true
		case '\\':
			if i+1 >= len(src) {
				return Token{}, false
			}
			switch src[i+1] {
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			case 'r':
				builder.WriteByte('\r')
			case '\\':
				builder.WriteByte('\\')
			case '"':
				builder.WriteByte('"')
			default:
				// Unknown escapes are kept verbatim
				builder.WriteByte('\\')
				builder.WriteByte(src[i+1])
			}
			i += 2
		default:
			builder.WriteByte(c)
			i++
		}
	}

	// Unterminated
	return Token{}, false
}

// ScanInteger scans an optionally negative decimal integer. The literal is kept as text;
// range checking belongs to the type system.
func ScanInteger(src string, pos int) (Token, bool) {
	i := pos
	if i < len(src) && src[i] == '-' {
		i++
	}
	digits := i
	for i < len(src) && src[i] >= '0' && src[i] <= '9' {
		i++
	}
	if i == digits || !atBoundary(src, i) || (i < len(src) && src[i] == '.') {
		return Token{}, false
	}
	return Token{Type: TOKEN_INT_LITERAL, Lexeme: src[pos:i], Literal: src[pos:i], Start: pos, End: i}, true
}

// ScanDate scans a bare ISO-8601 date with optional time and zone
func ScanDate(src string, pos int) (Token, bool) {
	loc := datePattern.FindStringIndex(src[pos:])
	if loc == nil {
		return Token{}, false
	}
	end := pos + loc[1]
	if !atBoundary(src, end) {
		return Token{}, false
	}
	return Token{Type: TOKEN_DATE_LITERAL, Lexeme: src[pos:end], Literal: src[pos:end], Start: pos, End: end}, true
}

// Next returns the token starting at or after pos. It never fails: unknown input becomes a
// TOKEN_ERROR token covering one character.
func Next(src string, pos int) Token {
	pos = SkipWhitespace(src, pos)
	if pos >= len(src) {
		return Token{Type: TOKEN_EOF, Start: pos, End: pos}
	}

	if tok, ok := ScanString(src, pos); ok {
		return tok
	}
	if tok, ok := ScanDate(src, pos); ok {
		return tok
	}
	if tok, ok := ScanInteger(src, pos); ok {
		return tok
	}
	for _, typ := range []TokenType{
		TOKEN_NOT_EQUAL, TOKEN_GREATER_EQUAL, TOKEN_LESS_EQUAL,
		TOKEN_EQUAL, TOKEN_GREATER, TOKEN_LESS,
		TOKEN_DOT, TOKEN_COMMA, TOKEN_LEFT_PAREN, TOKEN_RIGHT_PAREN,
	} {
		if tok, ok := ScanSymbol(src, pos, typ); ok {
			return tok
		}
	}
	if end := identifierEnd(src, pos); end > pos {
		lexeme := src[pos:end]
		typ, _ := lookupKeyword(lexeme)
		return Token{Type: typ, Lexeme: lexeme, Start: pos, End: end}
	}

	_, size := utf8.DecodeRuneInString(src[pos:])
	return Token{Type: TOKEN_ERROR, Lexeme: src[pos : pos+size], Start: pos, End: pos + size}
}

// Tokenize scans all tokens from src and returns them with any errors
func Tokenize(src string) ([]Token, []LexError) {
	var tokens []Token
	var errors []LexError

	pos := 0
	for {
		tok := Next(src, pos)
		if tok.Type == TOKEN_ERROR {
			line, column := Position(src, tok.Start)
			message := "Invalid character " + strconv.Quote(tok.Lexeme)
			if tok.Lexeme == `"` {
				message = "Unterminated string"
			}
			errors = append(errors, LexError{Message: message, Offset: tok.Start, Line: line, Column: column})
		}
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			return tokens, errors
		}
		pos = tok.End
	}
}

// Position converts a byte offset into a 1-based line and rune column
func Position(src string, offset int) (line, column int) {
	if offset > len(src) {
		offset = len(src)
	}
	line, column = 1, 1
	for _, r := range src[:offset] {
		if r == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	return line, column
}

// Helper functions

func identifierEnd(src string, pos int) int {
	i := pos
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if i == pos && !isIdentStart(r) {
			return pos
		}
		if !isIdentPart(r) {
			break
		}
		i += size
	}
	return i
}

func atBoundary(src string, end int) bool {
	if end >= len(src) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(src[end:])
	return !isIdentPart(r)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
