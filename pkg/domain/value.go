package domain

import (
	"strconv"
	"time"
)

// Value is a typed value of one of the field value types
type Value struct {
	Type ValueType
	Null bool
	Str  string
	Int  int64
	Time time.Time
	Item ItemType
}

func StringValue(s string) Value { return Value{Type: TypeString, Str: s} }

func LongValue(n int64) Value { return Value{Type: TypeLong, Int: n} }

func IntegerValue(n int32) Value { return Value{Type: TypeInteger, Int: int64(n)} }

func DateValue(t time.Time) Value { return Value{Type: TypeDate, Time: t.UTC()} }

func ItemTypeValue(t ItemType) Value { return Value{Type: TypeItemType, Item: t} }

// NullValue returns the null value of a type
func NullValue(t ValueType) Value { return Value{Type: t, Null: true} }

// Interface returns the Go value: string, int64, int32, time.Time, ItemType, or nil when null
func (v Value) Interface() any {
	if v.Null {
		return nil
	}
	switch v.Type {
	case TypeString:
		return v.Str
	case TypeLong:
		return v.Int
	case TypeInteger:
		return int32(v.Int)
	case TypeDate:
		return v.Time
	case TypeItemType:
		return v.Item
	default:
		return nil
	}
}

// String renders the value for display
func (v Value) String() string {
	if v.Null {
		return "null"
	}
	switch v.Type {
	case TypeString:
		return v.Str
	case TypeLong, TypeInteger:
		return strconv.FormatInt(v.Int, 10)
	case TypeDate:
		return v.Time.Format(time.RFC3339Nano)
	case TypeItemType:
		return v.Item.String()
	default:
		return ""
	}
}

// DateToMillis converts a date to the epoch milliseconds it is stored as
func DateToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// MillisToDate converts stored epoch milliseconds back to a UTC date
func MillisToDate(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
