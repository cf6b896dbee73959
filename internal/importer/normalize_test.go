package importer

import "testing"

func TestParseNumericValue(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"plain", "1500", 1500},
		{"currency with commas", "$1,500,250.75", 1500250.75},
		{"accounting dash", " $-   ", 0},
		{"bare dash", "-", 0},
		{"double dash", "--", 0},
		{"blank", "", 0},
		{"spaces only", "   ", 0},
		{"negative", "-500.25", -500.25},
		{"percent", "85%", 85},
		{"garbage", "n/a", 0},
		{"embedded text", "USD 1200", 1200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseNumericValue(tc.in); got != tc.want {
				t.Errorf("ParseNumericValue(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseOptionalNumber(t *testing.T) {
	if got := ParseOptionalNumber(""); got != nil {
		t.Errorf("blank should be nil, got %v", *got)
	}
	if got := ParseOptionalNumber("   "); got != nil {
		t.Errorf("whitespace should be nil, got %v", *got)
	}
	if got := ParseOptionalNumber(" - "); got == nil || *got != 0 {
		t.Errorf("accounting dash is a present zero, got %v", got)
	}
	if got := ParseOptionalNumber(" $-   "); got == nil || *got != 0 {
		t.Errorf("accounting dash is a present zero, got %v", got)
	}
	got := ParseOptionalNumber("1,200.5")
	if got == nil || *got != 1200.5 {
		t.Errorf("ParseOptionalNumber(1,200.5) = %v, want 1200.5", got)
	}
	if got := ParseOptionalNumber("0"); got == nil || *got != 0 {
		t.Errorf("explicit zero should round-trip, got %v", got)
	}
}

func TestIsTotalLine(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"TOTAL", true},
		{"Total Piping", true},
		{"  subtotal  ", true},
		{"GRAND TOTAL", true},
		{"ALL LABOR", true},
		{"all labor", true},
		{"DIRECT LABOR", false},
		{"ALL LABOR COSTS", false},
		{"MATERIALS", false},
	}
	for _, tc := range cases {
		if got := IsTotalLine(tc.in); got != tc.want {
			t.Errorf("IsTotalLine(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []string{
		"2026-03-15",
		"03/15/2026",
		"3/15/2026",
		"2026/03/15",
		"03-15-2026",
	}
	for _, in := range cases {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", in, err)
			continue
		}
		if got.Year() != 2026 || int(got.Month()) != 3 || got.Day() != 15 {
			t.Errorf("ParseDate(%q) = %v", in, got)
		}
	}

	if _, err := ParseDate("not a date"); err == nil {
		t.Error("expected error for unparseable date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("expected error for empty date")
	}
}
