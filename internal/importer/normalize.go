package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseNumericValue coerces a spreadsheet cell into a float. Currency
// symbols, thousands separators, percent signs and spaces are stripped.
// Blank cells and accounting placeholders like " $-   " parse to zero.
func ParseNumericValue(raw string) float64 {
	cleaned := cleanNumeric(raw)
	if cleaned == "" || isDashRun(cleaned) {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseOptionalNumber is ParseNumericValue with blank preserved as nil, for
// columns where absence and zero carry different meanings. A present cell
// coerces exactly like a value cell, so an accounting dash yields zero; only
// a truly empty cell stays nil.
func ParseOptionalNumber(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	v := ParseNumericValue(raw)
	return &v
}

// cleanNumeric keeps only digits, decimal points and minus signs.
func cleanNumeric(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDashRun(s string) bool {
	for _, r := range s {
		if r != '-' {
			return false
		}
	}
	return len(s) > 0
}

// IsTotalLine reports whether a description cell marks a summary row that
// must not be imported as a line item.
func IsTotalLine(desc string) bool {
	upper := strings.ToUpper(strings.TrimSpace(desc))
	return strings.Contains(upper, "TOTAL") || upper == "ALL LABOR"
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"1-2-2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"1-2-06",
}

// ParseDate accepts the date formats spreadsheets commonly emit.
func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", trimmed)
}
