package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Alignment of a table column
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table renders rows under a bold header with a rule between them
type Table struct {
	writer  io.Writer
	headers []string
	align   []Alignment
	rows    [][]string
	noColor bool
}

// TableOptions configures table behavior
type TableOptions struct {
	NoColor bool
	// Align holds per-column alignment; missing entries are left aligned
	Align []Alignment
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	t := &Table{
		writer:  w,
		headers: headers,
		align:   make([]Alignment, len(headers)),
	}
	if opts != nil {
		t.noColor = opts.NoColor
		copy(t.align, opts.Align)
	}
	return t
}

// AddRow adds a row to the table. Cells past the last header are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added so far
func (t *Table) Len() int {
	return len(t.rows)
}

// Render renders the table to the writer
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = width(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && width(cell) > widths[i] {
				widths[i] = width(cell)
			}
		}
	}

	bold := newStyle(t.noColor, color.Bold, color.FgCyan)
	cells := make([]string, len(t.headers))
	for i, header := range t.headers {
		cells[i] = bold.Sprint(pad(header, widths[i], t.align[i]))
	}
	fmt.Fprintln(t.writer, strings.TrimRight(strings.Join(cells, "  "), " "))

	gray := newStyle(t.noColor, color.FgHiBlack)
	for i, w := range widths {
		cells[i] = strings.Repeat("─", w)
	}
	gray.Fprintln(t.writer, strings.Join(cells, "  "))

	for _, row := range t.rows {
		cells = cells[:0]
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells = append(cells, pad(cell, widths[i], t.align[i]))
		}
		fmt.Fprintln(t.writer, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// width counts runes, so the box drawing and accented characters in values line up
func width(s string) int {
	return utf8.RuneCountInString(s)
}

func pad(s string, w int, align Alignment) string {
	n := width(s)
	if n >= w {
		return s
	}
	if align == AlignRight {
		return strings.Repeat(" ", w-n) + s
	}
	return s + strings.Repeat(" ", w-n)
}

func newStyle(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	}
	return c
}

// KeyValueTable renders aligned "key: value" lines
type KeyValueTable struct {
	writer  io.Writer
	rows    [][2]string
	noColor bool
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, noColor: noColor}
}

// AddRow adds a key-value pair to the table
func (t *KeyValueTable) AddRow(key, value string) {
	t.rows = append(t.rows, [2]string{key, value})
}

// Render renders the key-value table
func (t *KeyValueTable) Render() {
	keyWidth := 0
	for _, row := range t.rows {
		if width(row[0]) > keyWidth {
			keyWidth = width(row[0])
		}
	}

	cyan := newStyle(t.noColor, color.FgCyan)
	for _, row := range t.rows {
		cyan.Fprint(t.writer, pad(row[0]+":", keyWidth+1, AlignLeft))
		fmt.Fprintf(t.writer, " %s\n", row[1])
	}
}

// Header renders a bold title underlined to its own width
func Header(w io.Writer, title string, noColor bool) {
	newStyle(noColor, color.Bold, color.FgCyan).Fprintln(w, title)
	Divider(w, width(title), noColor)
}

// Divider renders a horizontal rule. A zero width means 80 columns.
func Divider(w io.Writer, n int, noColor bool) {
	if n == 0 {
		n = 80
	}
	newStyle(noColor, color.FgHiBlack).Fprintln(w, strings.Repeat("─", n))
}
