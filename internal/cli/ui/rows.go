package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/artifactql/aql/pkg/domain"
	"github.com/artifactql/aql/pkg/result"
)

// NullText is how a null cell is displayed in tables
const NullText = "NULL"

// RowsTable drains rows into a table with one column per visible plan column. Numeric
// columns are right aligned. It returns the number of rows written.
func RowsTable(ctx context.Context, w io.Writer, rows result.Rows, noColor bool) (int, error) {
	columns := rows.Schema().Columns()
	headers := make([]string, len(columns))
	align := make([]Alignment, len(columns))
	for i, c := range columns {
		headers[i] = c.Name
		if c.Type == domain.TypeLong || c.Type == domain.TypeInteger {
			align[i] = AlignRight
		}
	}

	table := NewTable(w, headers, &TableOptions{NoColor: noColor, Align: align})
	err := result.Each(ctx, rows, func(row *result.Row) error {
		values := row.Values()
		cells := make([]string, len(values))
		for i, v := range values {
			if v.Null {
				cells[i] = NullText
				continue
			}
			cells[i] = v.String()
		}
		table.AddRow(cells...)
		return nil
	})
	if err != nil {
		return table.Len(), err
	}

	table.Render()
	fmt.Fprintf(w, "(%d %s)\n", table.Len(), plural(table.Len(), "row", "rows"))
	return table.Len(), nil
}

// RowsJSON streams rows as one JSON object per line, so partial output stays valid when
// iteration fails halfway.
func RowsJSON(ctx context.Context, w io.Writer, rows result.Rows) (int, error) {
	enc := json.NewEncoder(w)
	n := 0
	err := result.Each(ctx, rows, func(row *result.Row) error {
		m := row.Map()
		for k, v := range m {
			if it, ok := v.(domain.ItemType); ok {
				m[k] = it.String()
			}
		}
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("failed to write row %d: %w", n+1, err)
		}
		n++
		return nil
	})
	return n, err
}

// ErrUnknownFormat is returned for an output format other than table or json
var ErrUnknownFormat = errors.New("unknown output format")

// WriteRows renders rows in format, "table" or "json"
func WriteRows(ctx context.Context, w io.Writer, rows result.Rows, format string, noColor bool) (int, error) {
	switch format {
	case "table", "":
		return RowsTable(ctx, w, rows, noColor)
	case "json":
		return RowsJSON(ctx, w, rows)
	default:
		_ = rows.Close()
		return 0, fmt.Errorf("%w: %q (valid: table, json)", ErrUnknownFormat, format)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
