package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"name", "size"}, &TableOptions{NoColor: true, Align: []Alignment{AlignLeft, AlignRight}})

	table.AddRow("commons-io.jar", "1024")
	table.AddRow("a.jar", "7")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}

	if lines[0] != "name            size" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "──────────────  ────" {
		t.Errorf("unexpected rule %q", lines[1])
	}
	if lines[2] != "commons-io.jar  1024" {
		t.Errorf("unexpected row %q", lines[2])
	}
	if lines[3] != "a.jar              7" {
		t.Errorf("right alignment lost: %q", lines[3])
	}
}

func TestTableMissingCells(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"key", "value"}, &TableOptions{NoColor: true})
	table.AddRow("only-key")
	table.AddRow("k", "v", "dropped")
	table.Render()

	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("cells past the last header should be dropped:\n%s", buf.String())
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", table.Len())
	}
}

func TestTableEmptyHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, nil, nil).Render()
	if buf.Len() != 0 {
		t.Errorf("expected no output for a table without headers, got %q", buf.String())
	}
}

func TestTableRuneWidth(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"name"}, &TableOptions{NoColor: true})
	table.AddRow("señor")
	table.Render()

	lines := strings.Split(buf.String(), "\n")
	if lines[1] != "─────" {
		t.Errorf("rule should match the rune width of the widest cell, got %q", lines[1])
	}
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("table", "nodes")
	kv.AddRow("primary key", "node_id")
	kv.Render()

	want := "table:       nodes\nprimary key: node_id\n"
	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "items", true)
	if buf.String() != "items\n─────\n" {
		t.Errorf("unexpected header %q", buf.String())
	}
}

func TestDividerDefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	Divider(&buf, 0, true)
	if got := len([]rune(strings.TrimSuffix(buf.String(), "\n"))); got != 80 {
		t.Errorf("expected 80 columns, got %d", got)
	}
}
