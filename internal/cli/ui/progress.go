package ui

import (
	"fmt"
	"io"
	"strings"
)

// ProgressBar tracks a determinate operation on one terminal line
type ProgressBar struct {
	writer  io.Writer
	palette *Palette
	total   int
	current int
	width   int
	message string
}

// NewProgressBar creates a bar of total steps
func NewProgressBar(w io.Writer, palette *Palette, total int, message string) *ProgressBar {
	return &ProgressBar{writer: w, palette: palette, total: total, width: 30, message: message}
}

// Step advances the bar by one and shows label next to it
func (p *ProgressBar) Step(label string) {
	if p.current < p.total {
		p.current++
	}
	p.render(label)
}

// Done finishes the line
func (p *ProgressBar) Done() {
	if p.total > 0 {
		fmt.Fprintln(p.writer)
	}
}

func (p *ProgressBar) render(label string) {
	if p.total == 0 {
		return
	}
	filled := p.width * p.current / p.total
	var bar strings.Builder
	bar.WriteByte('[')
	p.palette.Key.Fprint(&bar, strings.Repeat("█", filled))
	p.palette.Muted.Fprint(&bar, strings.Repeat("░", p.width-filled))
	bar.WriteByte(']')
	fmt.Fprintf(p.writer, "\r%s %d/%d %s %s", bar.String(), p.current, p.total, p.message, label)
}
