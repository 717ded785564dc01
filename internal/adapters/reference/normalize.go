package reference

import (
	"fmt"
	"regexp"
	"strings"
)

// Column kinds recognized in reference table headers.
type columnKind int

const (
	columnUnknown columnKind = iota
	columnGA
	columnPercentile
	columnZScore
	columnMeasure
)

var (
	digitsRe = regexp.MustCompile(`\d+`)
	signedRe = regexp.MustCompile(`[+-]?\d+`)
)

// normalizeColumn canonicalizes one header cell. Percentile headers arrive
// in several shapes across sources ("P50", "50th", "Percentile 50") and are
// rewritten to "{n}th Percentile"; z-score headers to "{n} SD". The rank
// accompanies percentile and z-score kinds so loaders can order columns.
func normalizeColumn(header string) (kind columnKind, label string, rank float64) {
	c := strings.ToLower(strings.TrimSpace(header))
	switch {
	case c == "":
		return columnUnknown, header, 0

	case strings.Contains(c, "gest") && strings.Contains(c, "week"):
		return columnGA, "Gestational Age (weeks)", 0

	case c == "measure" || c == "measurement":
		return columnMeasure, "Measure", 0

	case strings.Contains(c, "percentile"):
		// "Percentile 50" or "50 percentile"
		if m := digitsRe.FindString(c); m != "" {
			n := atoiLoose(m)
			return columnPercentile, ordinalLabel(n), float64(n)
		}

	case strings.HasPrefix(c, "p") && isDigits(c[1:]):
		// "P50"
		n := atoiLoose(c[1:])
		return columnPercentile, ordinalLabel(n), float64(n)

	case strings.HasSuffix(c, "st") || strings.HasSuffix(c, "nd") ||
		strings.HasSuffix(c, "rd") || strings.HasSuffix(c, "th"):
		// "3rd", "97th"
		if m := digitsRe.FindString(c); m != "" {
			n := atoiLoose(m)
			return columnPercentile, ordinalLabel(n), float64(n)
		}

	case strings.Contains(c, "sd"):
		// "-2 sd", "+1SD", "0 SD"
		if m := signedRe.FindString(c); m != "" {
			n := atoiLoose(strings.TrimPrefix(m, "+"))
			return columnZScore, fmt.Sprintf("%d SD", n), float64(n)
		}
	}
	return columnUnknown, header, 0
}

// ordinalLabel renders the canonical percentile label: 3 -> "3rd Percentile".
func ordinalLabel(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s Percentile", n, suffix)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoiLoose(s string) int {
	n := 0
	neg := false
	for _, r := range s {
		if r == '-' {
			neg = true
			continue
		}
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}
	if neg {
		return -n
	}
	return n
}
