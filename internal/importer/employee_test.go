package importer

import "testing"

func TestReadEmployeeRows(t *testing.T) {
	rows := [][]string{
		{"Employee Number", "Legal First Name", "Legal Last Name", "Craft", "Hourly Rate", "Category"},
		{"1001", "Jane", "Doe", "Pipefitter", "$52.50", "Direct"},
		{"1002", "John", "Smith", "Welder", "48.00", "Indirect Support"},
		{"", "", "", "", "", ""},
		{"1003", "", "Jones", "", "", ""},
	}
	cm, headerRow, err := MapEmployeeColumns(rows)
	if err != nil {
		t.Fatalf("MapEmployeeColumns: %v", err)
	}

	parse := ReadEmployeeRows(rows, headerRow, cm)
	if len(parse.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(parse.Rows))
	}

	first := parse.Rows[0]
	if first.EmployeeNumber != "1001" || first.FirstName != "Jane" || first.LastName != "Doe" {
		t.Errorf("row 0 = %+v", first)
	}
	if first.Rate == nil || *first.Rate != 52.5 {
		t.Errorf("rate = %v, want 52.5", first.Rate)
	}
	if first.Category != "DIRECT" {
		t.Errorf("category = %q, want DIRECT", first.Category)
	}
	if parse.Rows[1].Category != "INDIRECT" {
		t.Errorf("category = %q, want INDIRECT", parse.Rows[1].Category)
	}

	// Row 4 is blank (silent), row 5 lacks a first name (reported).
	errs := ErrorsFromOutcomes(parse.Outcomes)
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}
	if errs[0].Row != 5 {
		t.Errorf("error row = %d, want 5", errs[0].Row)
	}
	if got := CountSkipped(parse.Outcomes); got != 2 {
		t.Errorf("skipped = %d, want 2", got)
	}
}

func TestReadEmployeeRowsPayrollName(t *testing.T) {
	rows := [][]string{
		{"Employee #", "Payroll Name"},
		{"2001", "Doe, Jane M"},
		{"2002", "Smith Jr, Robert"},
	}
	cm, headerRow, err := MapEmployeeColumns(rows)
	if err != nil {
		t.Fatalf("MapEmployeeColumns: %v", err)
	}

	parse := ReadEmployeeRows(rows, headerRow, cm)
	if len(parse.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(parse.Rows))
	}
	if parse.Rows[0].FirstName != "Jane" || parse.Rows[0].LastName != "Doe" {
		t.Errorf("row 0 name = %s %s, want Jane Doe", parse.Rows[0].FirstName, parse.Rows[0].LastName)
	}
	if parse.Rows[1].FirstName != "Robert" || parse.Rows[1].LastName != "Smith Jr" {
		t.Errorf("row 1 name = %s %s, want Robert Smith Jr", parse.Rows[1].FirstName, parse.Rows[1].LastName)
	}
}

func TestReadEmployeeRowsFullNameFallback(t *testing.T) {
	rows := [][]string{
		{"Employee Number", "Employee Name"},
		{"3001", "Maria Elena Garcia"},
	}
	cm, headerRow, err := MapEmployeeColumns(rows)
	if err != nil {
		t.Fatalf("MapEmployeeColumns: %v", err)
	}

	parse := ReadEmployeeRows(rows, headerRow, cm)
	if len(parse.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(parse.Rows))
	}
	if parse.Rows[0].FirstName != "Maria" || parse.Rows[0].LastName != "Garcia" {
		t.Errorf("name = %s %s, want Maria Garcia", parse.Rows[0].FirstName, parse.Rows[0].LastName)
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Direct", "DIRECT"},
		{"indirect", "INDIRECT"},
		{"Field Indirect", "INDIRECT"},
		{"Staff", "STAFF"},
		{"Craft", "DIRECT"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeCategory(tc.in); got != tc.want {
			t.Errorf("normalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
