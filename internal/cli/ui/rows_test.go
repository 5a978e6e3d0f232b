package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/pkg/domain"
	"github.com/artifactql/aql/pkg/result"
)

func sampleRows(t *testing.T) result.Rows {
	t.Helper()
	schema := result.NewSchema([]planner.Column{
		{Name: "name", Type: domain.TypeString},
		{Name: "size", Type: domain.TypeLong},
		{Name: "type", Type: domain.TypeItemType},
		{Name: "created", Type: domain.TypeDate},
		{Name: "modified", Type: domain.TypeDate, Hidden: true},
	})

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := schema.Row([]domain.Value{
		domain.StringValue("a.jar"),
		domain.LongValue(2048),
		domain.ItemTypeValue(domain.ItemFile),
		domain.DateValue(created),
	})
	if err != nil {
		t.Fatal(err)
	}
	second, err := schema.Row([]domain.Value{
		domain.StringValue("libs"),
		domain.NullValue(domain.TypeLong),
		domain.ItemTypeValue(domain.ItemFolder),
		domain.DateValue(created),
	})
	if err != nil {
		t.Fatal(err)
	}
	return result.FromSlice(schema, []*result.Row{first, second})
}

func TestRowsTable(t *testing.T) {
	var buf bytes.Buffer
	n, err := RowsTable(context.Background(), &buf, sampleRows(t), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}

	out := buf.String()
	for _, want := range []string{"name", "size", "a.jar", "2048", "folder", NullText, "2024-03-01T12:00:00Z", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "modified") {
		t.Errorf("hidden columns must not be displayed:\n%s", out)
	}
}

func TestRowsJSON(t *testing.T) {
	var buf bytes.Buffer
	n, err := RowsJSON(context.Background(), &buf, sampleRows(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one line per row, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[0], `"type":"file"`) {
		t.Errorf("item types should be written as their names: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"size":null`) {
		t.Errorf("nulls should be written as null: %s", lines[1])
	}
}

func TestWriteRowsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteRows(context.Background(), &buf, sampleRows(t), "csv", true)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
