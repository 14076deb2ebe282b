package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, NewPalette(true), "NAME", "KIND", "MODIFIERS")
	table.AddRow("p.Shape", "interface", "public abstract")
	table.AddRow("p.Circle", "class")
	table.AddRow("p.Point", "record", "public final", "ignored")
	table.Render()

	want := "" +
		"NAME      KIND       MODIFIERS\n" +
		"────────  ─────────  ───────────────\n" +
		"p.Shape   interface  public abstract\n" +
		"p.Circle  class      \n" +
		"p.Point   record     public final\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 3, table.Len())
}

func TestTable_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, NewPalette(true))
	table.AddRow("x")
	table.Render()
	assert.Empty(t, buf.String())
}

func TestPairs_Render(t *testing.T) {
	var buf bytes.Buffer
	p := NewPairs(&buf, NewPalette(true))
	p.Add("Name", "p.Circle")
	p.Add("Superclass", "")
	p.AddList("Interfaces", []string{"p.Shape", "java.io.Serializable"})
	p.Render()

	assert.Equal(t, "Name:       p.Circle\nInterfaces: p.Shape, java.io.Serializable\n", buf.String())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, NewPalette(true), "Méthods")
	assert.Equal(t, "Méthods\n───────\n", buf.String())
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"same", "same", 0},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestSimilar(t *testing.T) {
	candidates := []string{"p.Shape", "p.Circle", "java.lang.String", "p.Square"}

	assert.Equal(t, []string{"p.Shape"}, Similar("p.Shap", candidates, 3))
	assert.Equal(t, []string{"java.lang.String"}, Similar("string", candidates, 3), "simple names match")
	assert.Equal(t, []string{"p.Shape", "p.Square"}, Similar("p.Sqape", candidates, 2))
	assert.Empty(t, Similar("zzzzzzzz", candidates, 3))
	assert.Equal(t, []string{"p.Shape"}, Similar("p.Shapes", candidates, 1))
}

func TestNotFound(t *testing.T) {
	out := NotFound(NewPalette(true), "class not found: p.Circel", "p.Circel", []string{"p.Circle", "q.Other"})
	assert.Equal(t, "✗ class not found: p.Circel\n  Did you mean: p.Circle?\n", out)

	out = NotFound(NewPalette(true), "class not found: x", "x", nil)
	assert.False(t, strings.Contains(out, "Did you mean"))
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	palette := NewPalette(true)
	Success(&buf, palette, "imported %d documents", 2)
	Failure(&buf, palette, errors.New("boom"))
	assert.Equal(t, "✓ imported 2 documents\nError: boom\n", buf.String())
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, NewPalette(true), 2, "importing")
	bar.Step("a.yaml")
	bar.Step("b.yaml")
	bar.Step("extra")
	bar.Done()

	out := buf.String()
	assert.Contains(t, out, "1/2 importing a.yaml")
	assert.Contains(t, out, "["+strings.Repeat("█", 30)+"] 2/2 importing extra")
	assert.True(t, strings.HasSuffix(out, "\n"))

	buf.Reset()
	empty := NewProgressBar(&buf, NewPalette(true), 0, "nothing")
	empty.Step("x")
	empty.Done()
	assert.Empty(t, buf.String())
}
