package importer

import (
	"time"
)

// LaborRow is one parsed weekly labor actuals row.
type LaborRow struct {
	RowNumber      int
	EmployeeNumber string
	WeekEnding     time.Time
	StHours        float64
	OtHours        float64
}

// LaborParse is the outcome of scanning one sheet for labor rows.
type LaborParse struct {
	Rows     []LaborRow
	Outcomes []RowOutcome
}

// ReadLaborRows reads weekly actuals below the header. A row with an
// unparseable week-ending date is reported and skipped.
func ReadLaborRows(rows [][]string, headerRow int, cm ColumnMap) LaborParse {
	var parse LaborParse

	for i := headerRow + 1; i < len(rows); i++ {
		rowNum := i + 1

		number := cm.Cell(rows[i], FieldEmployeeNumber)
		rawWeek := cm.Cell(rows[i], FieldWeekEnding)

		if number == "" && rawWeek == "" {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedSilent, Reason: ReasonEmptyRow,
			})
			continue
		}
		if number == "" {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedError, Reason: ReasonSchemaInvalid,
				Message: "missing employee number",
			})
			continue
		}

		week, err := ParseDate(rawWeek)
		if err != nil {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedError, Reason: ReasonInvalidDate,
				Message: err.Error(),
				Data:    map[string]any{"employeeNumber": number, "weekEnding": rawWeek},
			})
			continue
		}

		parse.Rows = append(parse.Rows, LaborRow{
			RowNumber:      rowNum,
			EmployeeNumber: number,
			WeekEnding:     week,
			StHours:        ParseNumericValue(cm.Cell(rows[i], FieldStHours)),
			OtHours:        ParseNumericValue(cm.Cell(rows[i], FieldOtHours)),
		})
		parse.Outcomes = append(parse.Outcomes, RowOutcome{Row: rowNum, Kind: OutcomeEmitted})
	}

	return parse
}
