// Package grammar is a small backtracking parser-combinator engine.
//
// Every element returns the ordered list of ways it can consume a prefix of the remaining
// input. An empty list means no match at that position, and the parent tries its next
// alternative. Alternatives are always explored in declaration order, so the first complete
// parse is reproducible. Failed leaves report to a shared Input, which keeps the furthest
// position any branch reached together with the token types that would have been accepted
// there.
package grammar

import (
	"sort"

	"github.com/artifactql/aql/compiler/lexer"
)

// State names the phase of the query automaton in which a leaf is attempted
type State int

const (
	StateStart State = iota
	StateRootDomain
	StateInChain
	StateAtField
	StateExpectComparator
	StateExpectValue
	StateExpectConnectiveOrEnd
	StateEnd
	StateError
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateRootDomain:
		return "ROOT_DOMAIN"
	case StateInChain:
		return "IN_CHAIN"
	case StateAtField:
		return "AT_FIELD"
	case StateExpectComparator:
		return "EXPECT_COMPARATOR"
	case StateExpectValue:
		return "EXPECT_VALUE"
	case StateExpectConnectiveOrEnd:
		return "EXPECT_CONNECTIVE_OR_END"
	case StateEnd:
		return "END"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Values is a persistent stack of semantic values. Pushing never modifies the receiver,
// so sibling branches share their common tail.
type Values struct {
	head  any
	tail  *Values
	depth int
}

// Push returns a new stack with v on top
func (v *Values) Push(x any) *Values {
	return &Values{head: x, tail: v, depth: v.Depth() + 1}
}

// Depth returns the number of values on the stack. A nil stack is empty.
func (v *Values) Depth() int {
	if v == nil {
		return 0
	}
	return v.depth
}

// Top returns the most recently pushed value
func (v *Values) Top() (any, bool) {
	if v == nil {
		return nil, false
	}
	return v.head, true
}

// Pop removes n values and returns them in the order they were pushed
func (v *Values) Pop(n int) ([]any, *Values) {
	out := make([]any, n)
	cur := v
	for i := n - 1; i >= 0; i-- {
		out[i] = cur.head
		cur = cur.tail
	}
	return out, cur
}

// Match is one way an element consumed input: where it stopped and the values it left
type Match struct {
	Pos    int
	Values *Values
}

// Element is a grammar node
type Element interface {
	Match(in *Input, pos int, vals *Values) []Match
}

// Expectation is a token type a failed leaf would have accepted
type Expectation struct {
	Type  lexer.TokenType
	State State
}

// Input is the text under parse and the furthest-failure record shared by all branches
type Input struct {
	Text     string
	furthest int
	expected []Expectation
}

// NewInput creates an input for text
func NewInput(text string) *Input {
	return &Input{Text: text, furthest: -1}
}

// Fail records that a leaf expecting typ did not match at pos
func (in *Input) Fail(pos int, typ lexer.TokenType, state State) {
	switch {
	case pos > in.furthest:
		in.furthest = pos
		in.expected = append(in.expected[:0], Expectation{Type: typ, State: state})
	case pos == in.furthest:
		for _, e := range in.expected {
			if e.Type == typ {
				return
			}
		}
		in.expected = append(in.expected, Expectation{Type: typ, State: state})
	}
}

// Furthest returns the deepest position at which any leaf failed, or -1
func (in *Input) Furthest() int {
	return in.furthest
}

// Expected returns the expectations recorded at the furthest position in the order they
// were first recorded
func (in *Input) Expected() []Expectation {
	out := make([]Expectation, len(in.expected))
	copy(out, in.expected)
	return out
}

// ExpectedTypes returns the distinct token types expected at the furthest position,
// ordered by token type
func (in *Input) ExpectedTypes() []lexer.TokenType {
	types := make([]lexer.TokenType, len(in.expected))
	for i, e := range in.expected {
		types[i] = e.Type
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Run matches root against the whole of text and returns the value stack of the first
// complete match. Root is expected to end with End so that every match is complete.
func Run(root Element, text string) (*Values, *Input, bool) {
	in := NewInput(text)
	matches := root.Match(in, 0, nil)
	if len(matches) == 0 {
		return nil, in, false
	}
	return matches[0].Values, in, true
}
