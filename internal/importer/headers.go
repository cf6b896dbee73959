package importer

import (
	"strings"
)

// Field is a logical column name resolved by header matching.
type Field string

const (
	FieldEmployeeNumber      Field = "employeeNumber"
	FieldFirstName           Field = "firstName"
	FieldLastName            Field = "lastName"
	FieldMiddleName          Field = "middleName"
	FieldPayrollName         Field = "payrollName"
	FieldFullName            Field = "fullName"
	FieldCraft               Field = "craft"
	FieldRate                Field = "rate"
	FieldCategory            Field = "category"
	FieldGrade               Field = "grade"
	FieldJobTitle            Field = "jobTitle"
	FieldLocationCode        Field = "locationCode"
	FieldLocationDescription Field = "locationDescription"

	FieldDiscipline  Field = "discipline"
	FieldCostType    Field = "costType"
	FieldDescription Field = "description"
	FieldManhours    Field = "manhours"
	FieldValue       Field = "value"

	FieldWeekEnding Field = "weekEnding"
	FieldStHours    Field = "stHours"
	FieldOtHours    Field = "otHours"
)

// ColumnMap maps logical fields to zero-based column indices for one sheet.
type ColumnMap map[Field]int

func (cm ColumnMap) Cell(row []string, field Field) string {
	idx, ok := cm[field]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}

func (cm ColumnMap) Has(field Field) bool {
	_, ok := cm[field]
	return ok
}

type headerRule struct {
	field Field
	match func(cell string) bool
}

// Rule order matters: exact-phrase rules run before generic substring rules
// so that e.g. "legal first name" is not claimed by a broader pattern, and
// "classification" lands on craft rather than grade.
var employeeHeaderRules = []headerRule{
	{FieldEmployeeNumber, func(s string) bool {
		return strings.Contains(s, "employee") && containsAny(s, "number", "#", "id")
	}},
	{FieldFirstName, func(s string) bool {
		return s == "legal first name" || (strings.Contains(s, "first") && strings.Contains(s, "name"))
	}},
	{FieldLastName, func(s string) bool {
		return s == "legal last name" || (strings.Contains(s, "last") && strings.Contains(s, "name"))
	}},
	{FieldMiddleName, func(s string) bool { return strings.Contains(s, "middle") }},
	{FieldPayrollName, func(s string) bool {
		return strings.Contains(s, "payroll") && strings.Contains(s, "name")
	}},
	{FieldFullName, func(s string) bool {
		return s == "full name" || s == "employee name" || s == "name"
	}},
	{FieldCraft, func(s string) bool { return containsAny(s, "craft", "trade", "classification") }},
	{FieldRate, func(s string) bool { return containsAny(s, "rate", "wage", "hourly") }},
	{FieldCategory, func(s string) bool { return containsAny(s, "category", "type", "direct", "indirect") }},
	{FieldGrade, func(s string) bool { return containsAny(s, "grade", "class") }},
	{FieldJobTitle, func(s string) bool { return strings.Contains(s, "title") }},
	{FieldLocationCode, func(s string) bool {
		return strings.Contains(s, "location") && containsAny(s, "code", "id")
	}},
	{FieldLocationDescription, func(s string) bool { return strings.Contains(s, "location") }},
}

var budgetHeaderRules = []headerRule{
	{FieldDiscipline, func(s string) bool { return containsAny(s, "discipline", "area") }},
	{FieldCostType, func(s string) bool {
		return s == "cost code" || (strings.Contains(s, "cost") && strings.Contains(s, "type"))
	}},
	{FieldDescription, func(s string) bool { return strings.Contains(s, "description") }},
	{FieldManhours, func(s string) bool { return containsAny(s, "manhour", "man hour", "mhs", "hours") }},
	{FieldValue, func(s string) bool { return containsAny(s, "value", "amount", "budget") }},
}

var laborHeaderRules = []headerRule{
	{FieldEmployeeNumber, func(s string) bool {
		if strings.Contains(s, "employee") && containsAny(s, "number", "#", "id") {
			return true
		}
		return s == "employee" || s == "emp"
	}},
	{FieldWeekEnding, func(s string) bool { return strings.Contains(s, "week") }},
	{FieldStHours, func(s string) bool {
		return s == "st" || s == "st hours" || strings.Contains(s, "straight")
	}},
	{FieldOtHours, func(s string) bool {
		return s == "ot" || s == "ot hours" || strings.Contains(s, "overtime")
	}},
}

// MapColumns scans the first rows of a grid for a header row and resolves a
// ColumnMap against the given rule set. The first row yielding at least one
// mapped column is the header row; mapping stops there.
func MapColumns(rows [][]string, rules []headerRule) (ColumnMap, int, error) {
	for rowIdx, row := range rows {
		if rowIdx >= headerScanRows {
			break
		}

		cm := ColumnMap{}
		for colIdx, cell := range row {
			normalized := strings.ToLower(strings.TrimSpace(cell))
			if normalized == "" {
				continue
			}
			for _, rule := range rules {
				if cm.Has(rule.field) {
					continue
				}
				if rule.match(normalized) {
					cm[rule.field] = colIdx
					break
				}
			}
		}

		if len(cm) > 0 {
			return cm, rowIdx, nil
		}
	}
	return nil, 0, ErrNoEmployeeData
}

// MapEmployeeColumns resolves the employee roster header vocabulary.
func MapEmployeeColumns(rows [][]string) (ColumnMap, int, error) {
	return MapColumns(rows, employeeHeaderRules)
}

// MapBudgetColumns resolves the budget header vocabulary used by sheets that
// are not in the positional BUDGETS layout.
func MapBudgetColumns(rows [][]string) (ColumnMap, int, error) {
	return MapColumns(rows, budgetHeaderRules)
}

// MapLaborColumns resolves the weekly labor actuals header vocabulary.
func MapLaborColumns(rows [][]string) (ColumnMap, int, error) {
	return MapColumns(rows, laborHeaderRules)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
