package domain

import "fmt"

// Comparator is a criterion operator
type Comparator int

const (
	Equal Comparator = iota
	NotEqual
	Greater
	GreaterOrEqual
	Less
	LessOrEqual
	In
	Like
	Contains
	IsNull
	IsNotNull
)

// String returns the query-text form of the comparator
func (c Comparator) String() string {
	switch c {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case Greater:
		return ">"
	case GreaterOrEqual:
		return ">="
	case Less:
		return "<"
	case LessOrEqual:
		return "<="
	case In:
		return "in"
	case Like:
		return "like"
	case Contains:
		return "contains"
	case IsNull:
		return "is null"
	case IsNotNull:
		return "is not null"
	default:
		return "unknown"
	}
}

// ParseComparator converts the query-text form back to a Comparator
func ParseComparator(s string) (Comparator, error) {
	for c := Equal; c <= IsNotNull; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown comparator: %s", s)
}

// Arity returns how many values the comparator takes. -1 means one or more.
func (c Comparator) Arity() int {
	switch c {
	case IsNull, IsNotNull:
		return 0
	case In:
		return -1
	default:
		return 1
	}
}
