// Package ui renders command output for terminals.
package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Palette holds the colors used by every renderer. A palette created with
// noColor set prints plain text.
type Palette struct {
	Heading *color.Color
	Key     *color.Color
	Muted   *color.Color
	Good    *color.Color
	Bad     *color.Color
	Warn    *color.Color
}

// NewPalette creates the default palette
func NewPalette(noColor bool) *Palette {
	p := &Palette{
		Heading: color.New(color.Bold, color.FgCyan),
		Key:     color.New(color.FgCyan),
		Muted:   color.New(color.FgHiBlack),
		Good:    color.New(color.FgGreen, color.Bold),
		Bad:     color.New(color.FgRed, color.Bold),
		Warn:    color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{p.Heading, p.Key, p.Muted, p.Good, p.Bad, p.Warn} {
			c.DisableColor()
		}
	}
	return p
}

// Table lays out rows in aligned columns under a header
type Table struct {
	writer  io.Writer
	palette *Palette
	headers []string
	rows    [][]string
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, palette *Palette, headers ...string) *Table {
	return &Table{writer: w, palette: palette, headers: headers}
}

// AddRow adds a row to the table. Missing cells render empty and extra
// cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// Render renders the table to the writer
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	last := len(widths) - 1
	for i, h := range t.headers {
		t.palette.Heading.Fprint(t.writer, cell(h, widths[i], i == last))
	}
	fmt.Fprintln(t.writer)
	for i, w := range widths {
		t.palette.Muted.Fprint(t.writer, cell(strings.Repeat("─", w), w, i == last))
	}
	fmt.Fprintln(t.writer)
	for _, row := range t.rows {
		for i, c := range row {
			fmt.Fprint(t.writer, cell(c, widths[i], i == last))
		}
		fmt.Fprintln(t.writer)
	}
}

// cell pads s to width and appends the column gap. The last column is not
// padded.
func cell(s string, width int, last bool) string {
	if last {
		return s
	}
	return padTo(s, width) + "  "
}

// Pairs renders aligned "key: value" lines
type Pairs struct {
	writer  io.Writer
	palette *Palette
	keys    []string
	values  []string
}

// NewPairs creates an empty key-value list
func NewPairs(w io.Writer, palette *Palette) *Pairs {
	return &Pairs{writer: w, palette: palette}
}

// Add appends a pair. Empty values are skipped.
func (p *Pairs) Add(key, value string) {
	if value == "" {
		return
	}
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
}

// AddList appends a pair whose value is a comma separated list
func (p *Pairs) AddList(key string, values []string) {
	p.Add(key, strings.Join(values, ", "))
}

// Render renders the pairs
func (p *Pairs) Render() {
	width := 0
	for _, k := range p.keys {
		if n := utf8.RuneCountInString(k) + 1; n > width {
			width = n
		}
	}
	for i, k := range p.keys {
		p.palette.Key.Fprint(p.writer, padTo(k+":", width))
		fmt.Fprintf(p.writer, " %s\n", p.values[i])
	}
}

func padTo(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Header renders a title underlined to its own width
func Header(w io.Writer, palette *Palette, title string) {
	palette.Heading.Fprintln(w, title)
	palette.Muted.Fprintln(w, strings.Repeat("─", utf8.RuneCountInString(title)))
}
