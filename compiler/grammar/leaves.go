package grammar

import "github.com/artifactql/aql/compiler/lexer"

// ScanFunc scans one token starting exactly at pos
type ScanFunc func(src string, pos int) (lexer.Token, bool)

// Leaf matches a single token after skipping whitespace
type Leaf struct {
	Type  lexer.TokenType
	State State
	Scan  ScanFunc
	Keep  bool // push the matched token onto the value stack
}

// Match implements Element
func (l *Leaf) Match(in *Input, pos int, vals *Values) []Match {
	start := lexer.SkipWhitespace(in.Text, pos)
	tok, ok := l.Scan(in.Text, start)
	if !ok {
		in.Fail(start, l.Type, l.State)
		return nil
	}
	if l.Keep {
		vals = vals.Push(tok)
	}
	return []Match{{Pos: tok.End, Values: vals}}
}

// Symbol matches punctuation or an operator. Nothing is pushed.
func Symbol(typ lexer.TokenType, state State) *Leaf {
	return &Leaf{
		Type:  typ,
		State: state,
		Scan: func(src string, pos int) (lexer.Token, bool) {
			return lexer.ScanSymbol(src, pos, typ)
		},
	}
}

// Keyword matches a reserved word. Nothing is pushed.
func Keyword(typ lexer.TokenType, state State) *Leaf {
	return &Leaf{
		Type:  typ,
		State: state,
		Scan: func(src string, pos int) (lexer.Token, bool) {
			return lexer.ScanKeyword(src, pos, typ)
		},
	}
}

// Name matches exactly one declared name and pushes its token
func Name(name string, typ lexer.TokenType, state State) *Leaf {
	return &Leaf{
		Type:  typ,
		State: state,
		Keep:  true,
		Scan: func(src string, pos int) (lexer.Token, bool) {
			return lexer.ScanName(src, pos, name, typ)
		},
	}
}

// Identifier matches any non-reserved identifier and pushes its token.
// Failures are reported as typ.
func Identifier(typ lexer.TokenType, state State) *Leaf {
	return &Leaf{Type: typ, State: state, Keep: true, Scan: lexer.ScanIdentifier}
}

// String matches a quoted string literal and pushes its token
func String(state State) *Leaf {
	return &Leaf{Type: lexer.TOKEN_STRING_LITERAL, State: state, Keep: true, Scan: lexer.ScanString}
}

// Integer matches an integer literal and pushes its token
func Integer(state State) *Leaf {
	return &Leaf{Type: lexer.TOKEN_INT_LITERAL, State: state, Keep: true, Scan: lexer.ScanInteger}
}

// Date matches a bare ISO-8601 date literal and pushes its token
func Date(state State) *Leaf {
	return &Leaf{Type: lexer.TOKEN_DATE_LITERAL, State: state, Keep: true, Scan: lexer.ScanDate}
}

type end struct {
	state State
}

// End matches when only whitespace remains
func End(state State) Element {
	return &end{state: state}
}

func (e *end) Match(in *Input, pos int, vals *Values) []Match {
	start := lexer.SkipWhitespace(in.Text, pos)
	if start < len(in.Text) {
		in.Fail(start, lexer.TOKEN_EOF, e.state)
		return nil
	}
	return []Match{{Pos: start, Values: vals}}
}
