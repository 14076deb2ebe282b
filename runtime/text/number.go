package text

import (
	"math"
	"strconv"
	"strings"
)

// FormatDouble renders d the way the runtime's canonical double conversion
// does: plain decimal with at least one fractional digit for magnitudes in
// [1e-3, 1e7), otherwise "d.dddE±n".
func FormatDouble(d float64) string { return formatFloat(d, 64) }

// FormatFloat renders a 32-bit float with the same rules as FormatDouble,
// using the shortest digits that round-trip at float precision.
func FormatFloat(f float32) string { return formatFloat(float64(f), 32) }

// FormatBool renders the canonical "true" / "false".
func FormatBool(v bool) string { return strconv.FormatBool(v) }

func formatFloat(d float64, bits int) string {
	switch {
	case math.IsNaN(d):
		return "NaN"
	case math.IsInf(d, 1):
		return "Infinity"
	case math.IsInf(d, -1):
		return "-Infinity"
	case d == 0:
		if math.Signbit(d) {
			return "-0.0"
		}
		return "0.0"
	}

	var sb strings.Builder
	if d < 0 {
		sb.WriteByte('-')
		d = -d
	}

	// Shortest round-trip digits, "d.ddde±xx".
	sci := strconv.FormatFloat(d, 'e', -1, bits)
	mant, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)
	digits := strings.Replace(mant, ".", "", 1)

	if d >= 1e-3 && d < 1e7 {
		if exp >= 0 {
			if len(digits) <= exp+1 {
				sb.WriteString(digits)
				sb.WriteString(strings.Repeat("0", exp+1-len(digits)))
				sb.WriteString(".0")
			} else {
				sb.WriteString(digits[:exp+1])
				sb.WriteByte('.')
				sb.WriteString(digits[exp+1:])
			}
		} else {
			sb.WriteString("0.")
			sb.WriteString(strings.Repeat("0", -exp-1))
			sb.WriteString(digits)
		}
		return sb.String()
	}

	sb.WriteByte(digits[0])
	sb.WriteByte('.')
	if len(digits) > 1 {
		sb.WriteString(digits[1:])
	} else {
		sb.WriteByte('0')
	}
	sb.WriteByte('E')
	sb.WriteString(strconv.Itoa(exp))
	return sb.String()
}
