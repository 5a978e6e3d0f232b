package grammar

import "github.com/artifactql/aql/compiler/lexer"

type seq struct {
	elems []Element
}

// Seq matches elements one after another. Every combination of candidate matches is kept,
// ordered by the candidates of the earlier elements first.
func Seq(elems ...Element) Element {
	return &seq{elems: elems}
}

func (s *seq) Match(in *Input, pos int, vals *Values) []Match {
	matches := []Match{{Pos: pos, Values: vals}}
	for _, e := range s.elems {
		var next []Match
		for _, m := range matches {
			next = append(next, e.Match(in, m.Pos, m.Values)...)
		}
		if len(next) == 0 {
			return nil
		}
		matches = next
	}
	return matches
}

type fork struct {
	alts []Element
}

// Fork is an ordered alternation. Candidates of every alternative are returned, those of
// earlier alternatives first.
func Fork(alts ...Element) Element {
	return &fork{alts: alts}
}

func (f *fork) Match(in *Input, pos int, vals *Values) []Match {
	var matches []Match
	for _, alt := range f.alts {
		matches = append(matches, alt.Match(in, pos, vals)...)
	}
	return matches
}

type orElse struct {
	primary  Element
	fallback Element
}

// Else tries fallback only when primary has no candidate at all
func Else(primary, fallback Element) Element {
	return &orElse{primary: primary, fallback: fallback}
}

func (e *orElse) Match(in *Input, pos int, vals *Values) []Match {
	if matches := e.primary.Match(in, pos, vals); len(matches) > 0 {
		return matches
	}
	return e.fallback.Match(in, pos, vals)
}

type optional struct {
	elem Element
}

// Optional matches elem or nothing. The candidates that consume input come first.
func Optional(elem Element) Element {
	return &optional{elem: elem}
}

func (o *optional) Match(in *Input, pos int, vals *Values) []Match {
	matches := o.elem.Match(in, pos, vals)
	return append(matches, Match{Pos: pos, Values: vals})
}

type many struct {
	elem Element
}

// Many matches elem zero or more times, longest repetition first. A repetition that
// consumes nothing ends the loop.
func Many(elem Element) Element {
	return &many{elem: elem}
}

func (m *many) Match(in *Input, pos int, vals *Values) []Match {
	var matches []Match
	for _, next := range m.elem.Match(in, pos, vals) {
		if next.Pos == pos {
			continue
		}
		matches = append(matches, m.Match(in, next.Pos, next.Values)...)
	}
	return append(matches, Match{Pos: pos, Values: vals})
}

type first struct {
	elem Element
}

// First commits to the first candidate of elem
func First(elem Element) Element {
	return &first{elem: elem}
}

func (f *first) Match(in *Input, pos int, vals *Values) []Match {
	matches := f.elem.Match(in, pos, vals)
	if len(matches) == 0 {
		return nil
	}
	return matches[:1]
}

// Ref is a named placeholder for an element that is defined later. It lets cyclic
// grammars be built without recursing during construction.
type Ref struct {
	Name   string
	target Element
}

// NewRef creates an unset reference
func NewRef(name string) *Ref {
	return &Ref{Name: name}
}

// Set defines the element the reference stands for
func (r *Ref) Set(e Element) {
	r.target = e
}

// Resolved reports whether Set has been called
func (r *Ref) Resolved() bool {
	return r.target != nil
}

// Match implements Element
func (r *Ref) Match(in *Input, pos int, vals *Values) []Match {
	if r.target == nil {
		return nil
	}
	return r.target.Match(in, pos, vals)
}

// ReduceFunc combines the values an element pushed into a single value.
// Returning false discards the candidate.
type ReduceFunc func(vals []any) (any, bool)

type reduce struct {
	elem Element
	fn   ReduceFunc
}

// Reduce replaces whatever elem pushed with the result of fn
func Reduce(elem Element, fn ReduceFunc) Element {
	return &reduce{elem: elem, fn: fn}
}

func (r *reduce) Match(in *Input, pos int, vals *Values) []Match {
	base := vals.Depth()
	var out []Match
	for _, m := range r.elem.Match(in, pos, vals) {
		pushed, rest := m.Values.Pop(m.Values.Depth() - base)
		v, ok := r.fn(pushed)
		if !ok {
			continue
		}
		out = append(out, Match{Pos: m.Pos, Values: rest.Push(v)})
	}
	return out
}

type constant struct {
	value any
}

// Const matches nothing and pushes value
func Const(value any) Element {
	return &constant{value: value}
}

func (c *constant) Match(_ *Input, pos int, vals *Values) []Match {
	return []Match{{Pos: pos, Values: vals.Push(c.value)}}
}

type guard struct {
	pred  func(*Values) bool
	typ   lexer.TokenType
	state State
}

// Guard matches nothing when pred accepts the current values. Otherwise it fails as if a
// token of typ had been expected at the current position.
func Guard(pred func(*Values) bool, typ lexer.TokenType, state State) Element {
	return &guard{pred: pred, typ: typ, state: state}
}

func (g *guard) Match(in *Input, pos int, vals *Values) []Match {
	if g.pred(vals) {
		return []Match{{Pos: pos, Values: vals}}
	}
	in.Fail(lexer.SkipWhitespace(in.Text, pos), g.typ, g.state)
	return nil
}
