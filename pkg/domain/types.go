// Package domain defines the fixed graph of queryable domains: their fields, value types,
// comparators and the relational mapping of every edge between them.
package domain

import (
	"fmt"
	"strings"
)

// ValueType is the declared type of a field
type ValueType int

const (
	TypeString ValueType = iota
	TypeLong
	TypeInteger
	TypeDate
	TypeItemType
)

// String returns the string representation of the value type
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeLong:
		return "long"
	case TypeInteger:
		return "integer"
	case TypeDate:
		return "date"
	case TypeItemType:
		return "itemType"
	default:
		return "unknown"
	}
}

// ParseValueType converts a string to a ValueType
func ParseValueType(s string) (ValueType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "long":
		return TypeLong, nil
	case "integer":
		return TypeInteger, nil
	case "date":
		return TypeDate, nil
	case "itemType":
		return TypeItemType, nil
	default:
		return 0, fmt.Errorf("unknown value type: %s", s)
	}
}

// Ordered reports whether values of this type support range comparisons
func (t ValueType) Ordered() bool {
	return t == TypeLong || t == TypeInteger || t == TypeDate
}

// Comparators returns the comparators a field of this type accepts, in declaration order
func (t ValueType) Comparators() []Comparator {
	switch {
	case t == TypeString:
		return []Comparator{Equal, NotEqual, Like, Contains, In, IsNull, IsNotNull}
	case t.Ordered():
		return []Comparator{Equal, NotEqual, Greater, GreaterOrEqual, Less, LessOrEqual, In, IsNull, IsNotNull}
	default:
		return []Comparator{Equal, NotEqual, In, IsNull, IsNotNull}
	}
}

// Allows reports whether the comparator is valid for this type
func (t ValueType) Allows(c Comparator) bool {
	for _, allowed := range t.Comparators() {
		if allowed == c {
			return true
		}
	}
	return false
}

// ItemType is the enumerated type of a repository item
type ItemType int

const (
	ItemFile ItemType = iota
	ItemFolder
	ItemAny
)

// String returns the signature of the item type
func (t ItemType) String() string {
	switch t {
	case ItemFile:
		return "file"
	case ItemFolder:
		return "folder"
	case ItemAny:
		return "any"
	default:
		return "unknown"
	}
}

// ItemTypes returns the valid item type signatures
func ItemTypes() []string {
	return []string{ItemFile.String(), ItemFolder.String(), ItemAny.String()}
}

// ParseItemType looks a signature up in the fixed item type vocabulary
func ParseItemType(s string) (ItemType, error) {
	switch strings.ToLower(s) {
	case "file":
		return ItemFile, nil
	case "folder":
		return ItemFolder, nil
	case "any":
		return ItemAny, nil
	default:
		return 0, fmt.Errorf("unknown item type %q (valid: %s)", s, strings.Join(ItemTypes(), ", "))
	}
}
