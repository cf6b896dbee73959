package importer

import "testing"

func TestMapEmployeeColumns(t *testing.T) {
	rows := [][]string{
		{"Roster Export 2026"},
		{},
		{"Employee Number", "Legal First Name", "Legal Last Name", "Craft", "Hourly Rate", "Category"},
		{"1001", "Jane", "Doe", "Pipefitter", "52.50", "Direct"},
	}

	cm, headerRow, err := MapEmployeeColumns(rows)
	if err != nil {
		t.Fatalf("MapEmployeeColumns: %v", err)
	}
	if headerRow != 2 {
		t.Fatalf("headerRow = %d, want 2", headerRow)
	}

	want := map[Field]int{
		FieldEmployeeNumber: 0,
		FieldFirstName:      1,
		FieldLastName:       2,
		FieldCraft:          3,
		FieldRate:           4,
		FieldCategory:       5,
	}
	for field, col := range want {
		if got, ok := cm[field]; !ok || got != col {
			t.Errorf("%s mapped to %d (ok=%v), want %d", field, got, ok, col)
		}
	}
}

func TestMapEmployeeColumnsPayrollName(t *testing.T) {
	rows := [][]string{
		{"Employee #", "Payroll Name", "Classification", "Location Code", "Location"},
	}
	cm, _, err := MapEmployeeColumns(rows)
	if err != nil {
		t.Fatalf("MapEmployeeColumns: %v", err)
	}
	if cm[FieldEmployeeNumber] != 0 {
		t.Errorf("employeeNumber = %d, want 0", cm[FieldEmployeeNumber])
	}
	if cm[FieldPayrollName] != 1 {
		t.Errorf("payrollName = %d, want 1", cm[FieldPayrollName])
	}
	if cm[FieldCraft] != 2 {
		t.Errorf("craft = %d, want 2", cm[FieldCraft])
	}
	if cm[FieldLocationCode] != 3 {
		t.Errorf("locationCode = %d, want 3", cm[FieldLocationCode])
	}
	if cm[FieldLocationDescription] != 4 {
		t.Errorf("locationDescription = %d, want 4", cm[FieldLocationDescription])
	}
}

func TestMapColumnsNoHeaderFound(t *testing.T) {
	rows := [][]string{
		{"", ""},
		{"1", "2", "3"},
	}
	if _, _, err := MapColumns(rows, employeeHeaderRules); err == nil {
		t.Error("expected error when no header row matches")
	}
}

func TestMapColumnsFirstMatchWinsPerField(t *testing.T) {
	rows := [][]string{
		{"Name", "Employee Name"},
	}
	cm, _, err := MapColumns(rows, employeeHeaderRules)
	if err != nil {
		t.Fatalf("MapColumns: %v", err)
	}
	if cm[FieldFullName] != 0 {
		t.Errorf("fullName = %d, want 0 (first matching column)", cm[FieldFullName])
	}
}

func TestMapLaborColumns(t *testing.T) {
	rows := [][]string{
		{"Employee ID", "Week Ending", "ST Hours", "OT Hours"},
	}
	cm, _, err := MapLaborColumns(rows)
	if err != nil {
		t.Fatalf("MapLaborColumns: %v", err)
	}
	want := map[Field]int{
		FieldEmployeeNumber: 0,
		FieldWeekEnding:     1,
		FieldStHours:        2,
		FieldOtHours:        3,
	}
	for field, col := range want {
		if cm[field] != col {
			t.Errorf("%s = %d, want %d", field, cm[field], col)
		}
	}
}
