package importer

import (
	"strings"
)

// EmployeeRow is one parsed roster row.
type EmployeeRow struct {
	RowNumber      int
	EmployeeNumber string `validate:"required"`
	FirstName      string `validate:"required"`
	LastName       string `validate:"required"`
	MiddleName     string
	Craft          string
	Rate           *float64
	Category       string
	Grade          string
	JobTitle       string
	LocationCode   string
	LocationDesc   string
}

// EmployeeParse is the outcome of scanning one sheet for roster rows.
type EmployeeParse struct {
	Rows     []EmployeeRow
	Outcomes []RowOutcome
}

// ReadEmployeeRows reads roster rows below the header. Name resolution
// prefers explicit first/last columns, then a "Last, First" payroll name,
// then a single full-name column split on the first space.
func ReadEmployeeRows(rows [][]string, headerRow int, cm ColumnMap) EmployeeParse {
	var parse EmployeeParse

	for i := headerRow + 1; i < len(rows); i++ {
		rowNum := i + 1

		number := cm.Cell(rows[i], FieldEmployeeNumber)
		first := cm.Cell(rows[i], FieldFirstName)
		last := cm.Cell(rows[i], FieldLastName)

		if first == "" || last == "" {
			if payroll := cm.Cell(rows[i], FieldPayrollName); payroll != "" {
				pFirst, pLast := splitPayrollName(payroll)
				if first == "" {
					first = pFirst
				}
				if last == "" {
					last = pLast
				}
			}
		}
		if first == "" || last == "" {
			if full := cm.Cell(rows[i], FieldFullName); full != "" {
				fFirst, fLast := splitFullName(full)
				if first == "" {
					first = fFirst
				}
				if last == "" {
					last = fLast
				}
			}
		}

		if number == "" && first == "" && last == "" {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedSilent, Reason: ReasonEmptyRow,
			})
			continue
		}

		row := EmployeeRow{
			RowNumber:      rowNum,
			EmployeeNumber: number,
			FirstName:      first,
			LastName:       last,
			MiddleName:     cm.Cell(rows[i], FieldMiddleName),
			Craft:          cm.Cell(rows[i], FieldCraft),
			Rate:           ParseOptionalNumber(cm.Cell(rows[i], FieldRate)),
			Category:       normalizeCategory(cm.Cell(rows[i], FieldCategory)),
			Grade:          cm.Cell(rows[i], FieldGrade),
			JobTitle:       cm.Cell(rows[i], FieldJobTitle),
			LocationCode:   cm.Cell(rows[i], FieldLocationCode),
			LocationDesc:   cm.Cell(rows[i], FieldLocationDescription),
		}
		if err := rowValidate.Struct(row); err != nil {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedError, Reason: ReasonSchemaInvalid,
				Message: "missing employee number or name",
				Data:    map[string]any{"employeeNumber": number, "firstName": first, "lastName": last},
			})
			continue
		}

		parse.Rows = append(parse.Rows, row)
		parse.Outcomes = append(parse.Outcomes, RowOutcome{Row: rowNum, Kind: OutcomeEmitted})
	}

	return parse
}

// splitPayrollName splits "Last, First M" payroll format.
func splitPayrollName(name string) (first, last string) {
	parts := strings.SplitN(name, ",", 2)
	if len(parts) != 2 {
		return splitFullName(name)
	}
	last = strings.TrimSpace(parts[0])
	rest := strings.Fields(strings.TrimSpace(parts[1]))
	if len(rest) > 0 {
		first = rest[0]
	}
	return first, last
}

// splitFullName splits "First [Middle] Last" on whitespace.
func splitFullName(name string) (first, last string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], fields[len(fields)-1]
	}
}

func normalizeCategory(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case upper == "":
		return ""
	case strings.Contains(upper, "INDIRECT"):
		return "INDIRECT"
	case strings.Contains(upper, "STAFF"):
		return "STAFF"
	default:
		return "DIRECT"
	}
}
