package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoEmployeeData is returned when no sheet in the workbook carries a
// recognizable header row within the scan window.
var ErrNoEmployeeData = errors.New("no employee data found in file")

const (
	budgetsSheetName = "BUDGETS"
	// headerScanRows bounds how deep the locator and mapper look for headers.
	headerScanRows = 10
)

// sheetKeywords mark a row as header-bearing when any cell contains one.
var sheetKeywords = []string{"employee", "name", "id", "number", "craft", "rate"}

type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook is an ordered list of named sheets, each a 2-D grid of cells.
type Workbook struct {
	Sheets []Sheet
}

// ReadWorkbook loads an .xlsx workbook from r into the in-memory grid model.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	if len(wb.Sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return wb, nil
}

// ReadCSV wraps a CSV stream as a single-sheet workbook so both formats flow
// through the same locator and readers.
func ReadCSV(r io.Reader) (*Workbook, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows := make([][]string, 0, 256)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, errors.New("csv file is empty")
	}
	return &Workbook{Sheets: []Sheet{{Name: "CSV", Rows: rows}}}, nil
}

// Located is the sheet selected for parsing plus the mode it should be
// parsed in.
type Located struct {
	Sheet      Sheet
	Positional bool
}

// LocateSheet picks the sheet to parse. A sheet named exactly BUDGETS wins
// and flags positional mode; other casings go through the header scan like
// any other sheet. Otherwise the first sheet whose leading rows contain a
// header keyword is chosen, falling back to the first sheet.
func (wb *Workbook) LocateSheet() (Located, error) {
	if len(wb.Sheets) == 0 {
		return Located{}, errors.New("workbook has no sheets")
	}

	for _, sheet := range wb.Sheets {
		if strings.TrimSpace(sheet.Name) == budgetsSheetName {
			return Located{Sheet: sheet, Positional: true}, nil
		}
	}

	for _, sheet := range wb.Sheets {
		if sheetHasHeaderKeywords(sheet) {
			return Located{Sheet: sheet}, nil
		}
	}

	return Located{Sheet: wb.Sheets[0]}, nil
}

func sheetHasHeaderKeywords(sheet Sheet) bool {
	for rowIdx, row := range sheet.Rows {
		if rowIdx >= headerScanRows {
			break
		}
		for _, cell := range row {
			lowered := strings.ToLower(strings.TrimSpace(cell))
			if lowered == "" {
				continue
			}
			for _, keyword := range sheetKeywords {
				if strings.Contains(lowered, keyword) {
					return true
				}
			}
		}
	}
	return false
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
