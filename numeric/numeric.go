// Package numeric parses the free-form numeric text stored on firms,
// accounts and compliance entries. Every reader of a numeric-as-text field
// goes through Parse so the forgiving entry rules stay identical everywhere.
package numeric

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Strip drops every character that is not a digit, '.' or '-'.
func Strip(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}

// Parse returns the value of s after Strip. Blank, unparseable and
// non-finite text is 0: "$1,250.50" is 1250.5, "1-2" is 0.
func Parse(s string) float64 {
	t := Strip(s)
	if t == "" {
		return 0
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// Blank reports whether s has no content once surrounding space is trimmed.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Fixed2 formats v rounded to 2 decimal places, e.g. "100.00" or "-12.35".
func Fixed2(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "0.00"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Money formats v with 2 decimals and thousands separators, "1,234.56".
func Money(v float64) string {
	s := Fixed2(v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
