package typechecker

import (
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"github.com/artifactql/aql/compiler/criteria"
	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/pkg/domain"
)

// DateFormat describes the accepted date syntax in error messages
const DateFormat = "ISO-8601 yyyy-MM-dd['T'HH:mm[:ss[.SSS]]][Z|+hh:mm]"

// dateLayouts are tried in order. Layouts without a zone are read as UTC. Fractional
// seconds are accepted after the seconds field of any layout.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date with optional time and zone
func ParseDate(text string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, text, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Coerce converts a literal to a value of the field's type
func Coerce(field *domain.Field, lit criteria.Literal) (domain.Value, error) {
	switch field.Type {
	case domain.TypeString:
		if lit.Kind != criteria.KindString {
			return domain.Value{}, errors.NewSemanticError(errors.ErrTypeMismatch,
				"field '%s' is a string; %s value %s must be quoted", field.Qualified(), lit.Kind, lit.Text).
				WithMember(string(field.Domain), lit.Text, nil)
		}
		return domain.StringValue(lit.Text), nil

	case domain.TypeDate:
		if lit.Kind == criteria.KindNumber {
			return domain.Value{}, invalidDate(field, lit)
		}
		t, err := ParseDate(lit.Text)
		if err != nil {
			return domain.Value{}, invalidDate(field, lit)
		}
		return domain.DateValue(t), nil

	case domain.TypeLong:
		n, err := parseInt(field, lit, 64)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.LongValue(n), nil

	case domain.TypeInteger:
		n, err := parseInt(field, lit, 32)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.IntegerValue(int32(n)), nil

	case domain.TypeItemType:
		it, err := domain.ParseItemType(lit.Text)
		if err != nil || lit.Kind != criteria.KindString {
			return domain.Value{}, errors.NewSemanticError(errors.ErrInvalidItemType,
				"invalid item type %s for field '%s'", lit, field.Qualified()).
				WithMember(string(field.Domain), lit.Text, domain.ItemTypes())
		}
		return domain.ItemTypeValue(it), nil

	default:
		return domain.Value{}, errors.NewSemanticError(errors.ErrTypeMismatch,
			"field '%s' has unsupported type %s", field.Qualified(), field.Type)
	}
}

func invalidDate(field *domain.Field, lit criteria.Literal) error {
	return errors.NewSemanticError(errors.ErrInvalidDate,
		"invalid date %s for field '%s': expected %s", lit, field.Qualified(), DateFormat).
		WithMember(string(field.Domain), lit.Text, nil)
}

func parseInt(field *domain.Field, lit criteria.Literal, bits int) (int64, error) {
	if lit.Kind == criteria.KindDate {
		return 0, errors.NewSemanticError(errors.ErrInvalidNumber,
			"invalid number %s for %s field '%s'", lit, field.Type, field.Qualified())
	}
	n, err := strconv.ParseInt(strings.TrimSpace(lit.Text), 10, bits)
	if err == nil {
		return n, nil
	}
	if stderrors.Is(err, strconv.ErrRange) {
		return 0, errors.NewSemanticError(errors.ErrNumberOverflow,
			"value %s is out of range for %s field '%s'", lit.Text, field.Type, field.Qualified())
	}
	return 0, errors.NewSemanticError(errors.ErrInvalidNumber,
		"invalid number %s for %s field '%s'", lit, field.Type, field.Qualified())
}
