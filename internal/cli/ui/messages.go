package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// maxDistance is the largest edit distance still offered as a suggestion
const maxDistance = 3

// NotFound formats a lookup failure with close matches from candidates:
//
//	✗ class not found: p.Shap
//	  Did you mean: p.Shape?
func NotFound(palette *Palette, message, target string, candidates []string) string {
	var b strings.Builder
	palette.Bad.Fprintf(&b, "✗ %s\n", message)
	if similar := Similar(target, candidates, 3); len(similar) > 0 {
		palette.Warn.Fprintf(&b, "  Did you mean: %s?\n", strings.Join(similar, ", "))
	}
	return b.String()
}

// Success writes a success line
func Success(w io.Writer, palette *Palette, format string, args ...interface{}) {
	palette.Good.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Failure writes an error line
func Failure(w io.Writer, palette *Palette, err error) {
	palette.Bad.Fprintf(w, "Error: %v\n", err)
}

// Similar returns up to limit candidates within a small edit distance of
// target, closest first. Names compare case-insensitively, and a candidate
// also matches on its part after the last '.' so a bare simple name finds
// the qualified type.
func Similar(target string, candidates []string, limit int) []string {
	type match struct {
		name     string
		distance int
	}
	target = strings.ToLower(target)
	var matches []match
	for _, c := range candidates {
		lower := strings.ToLower(c)
		d := Distance(target, lower)
		if i := strings.LastIndexByte(lower, '.'); i >= 0 {
			if simple := Distance(target, lower[i+1:]); simple < d {
				d = simple
			}
		}
		if d <= maxDistance {
			matches = append(matches, match{c, d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// Distance is the Levenshtein distance between a and b in runes
func Distance(a, b string) int {
	s, t := []rune(a), []rune(b)
	if len(s) == 0 {
		return len(t)
	}
	prev := make([]int, len(t)+1)
	cur := make([]int, len(t)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s); i++ {
		cur[0] = i
		for j := 1; j <= len(t); j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(t)]
}
