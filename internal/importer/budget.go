package importer

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Positional layout of the BUDGETS sheet. Column A carries the discipline
// when a new block starts; description, manhours and value sit in fixed
// columns regardless of any header text.
const (
	colDiscipline  = 1
	colDescription = 3
	colManhours    = 4
	colValue       = 5
)

// WalkOptions tunes row filtering during the walk.
type WalkOptions struct {
	// AllowNegative keeps rows whose value is below zero instead of
	// skipping them.
	AllowNegative bool
}

// BudgetRow is one emitted budget line before aggregation.
type BudgetRow struct {
	RowNumber   int
	Discipline  string  `validate:"required"`
	CostType    string  `validate:"required"`
	Manhours    *float64
	Value       float64
	Description string
}

// BudgetParse is the outcome of scanning one sheet for budget rows.
type BudgetParse struct {
	Rows     []BudgetRow
	Outcomes []RowOutcome
}

var rowValidate = validator.New(validator.WithRequiredStructEnabled())

// WalkBudgetRows walks the positional BUDGETS layout starting at startRow.
// The discipline cell is sparse: it is set on the first row of a block and
// blank on continuation rows, so the walker carries the current discipline
// forward. The carry updates before any skip decision, so a block whose
// first row is a total line still labels the rows after it.
func WalkBudgetRows(rows [][]string, startRow int, opts WalkOptions) BudgetParse {
	var parse BudgetParse
	currentDiscipline := ""

	for i := startRow; i < len(rows); i++ {
		rowNum := i + 1

		if d := cellAt(rows[i], colDiscipline); d != "" {
			currentDiscipline = strings.ToUpper(d)
		}

		desc := cellAt(rows[i], colDescription)
		if desc == "" {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedSilent, Reason: ReasonEmptyRow,
			})
			continue
		}
		if currentDiscipline == "" {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedSilent, Reason: ReasonNoDiscipline,
			})
			continue
		}
		if IsTotalLine(desc) {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedSilent, Reason: ReasonTotalLine,
			})
			continue
		}

		// Negative lines are credits in the source spreadsheets. They are
		// dropped rather than reported; flip AllowNegative to ingest them
		// as adjustments.
		value := ParseNumericValue(cellAt(rows[i], colValue))
		if value < 0 && !opts.AllowNegative {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedSilent, Reason: ReasonNegativeValue,
				Data: map[string]any{"discipline": currentDiscipline, "description": desc, "value": value},
			})
			continue
		}

		parse.Rows = append(parse.Rows, BudgetRow{
			RowNumber:   rowNum,
			Discipline:  currentDiscipline,
			CostType:    strings.ToUpper(desc),
			Manhours:    ParseOptionalNumber(cellAt(rows[i], colManhours)),
			Value:       value,
			Description: desc,
		})
		parse.Outcomes = append(parse.Outcomes, RowOutcome{Row: rowNum, Kind: OutcomeEmitted})
	}

	return parse
}

// ReadBudgetRows reads budget lines from a header-mapped sheet. Rows are
// independent here: every row carries its own discipline cell, and a row
// that fails validation is reported without poisoning its neighbors.
func ReadBudgetRows(rows [][]string, headerRow int, cm ColumnMap, opts WalkOptions) BudgetParse {
	var parse BudgetParse

	for i := headerRow + 1; i < len(rows); i++ {
		rowNum := i + 1

		discipline := cm.Cell(rows[i], FieldDiscipline)
		desc := cm.Cell(rows[i], FieldDescription)
		costType := cm.Cell(rows[i], FieldCostType)
		if costType == "" {
			costType = desc
		}

		if discipline == "" && costType == "" {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedSilent, Reason: ReasonEmptyRow,
			})
			continue
		}
		if IsTotalLine(costType) || IsTotalLine(desc) {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedSilent, Reason: ReasonTotalLine,
			})
			continue
		}

		value := ParseNumericValue(cm.Cell(rows[i], FieldValue))
		if value < 0 && !opts.AllowNegative {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedSilent, Reason: ReasonNegativeValue,
				Data: map[string]any{"discipline": discipline, "description": desc, "value": value},
			})
			continue
		}

		row := BudgetRow{
			RowNumber:   rowNum,
			Discipline:  strings.ToUpper(discipline),
			CostType:    strings.ToUpper(costType),
			Manhours:    ParseOptionalNumber(cm.Cell(rows[i], FieldManhours)),
			Value:       value,
			Description: desc,
		}
		if err := rowValidate.Struct(row); err != nil {
			parse.Outcomes = append(parse.Outcomes, RowOutcome{
				Row: rowNum, Kind: OutcomeSkippedError, Reason: ReasonSchemaInvalid,
				Message: "missing discipline or cost type",
				Data:    map[string]any{"discipline": discipline, "description": desc},
			})
			continue
		}

		parse.Rows = append(parse.Rows, row)
		parse.Outcomes = append(parse.Outcomes, RowOutcome{Row: rowNum, Kind: OutcomeEmitted})
	}

	return parse
}
