// Package importer parses semi-structured budget, employee, and labor
// spreadsheets into normalized rows. Parsing is pure: callers hand in a grid
// of cells and receive rows plus a per-row outcome classification; all
// persistence happens in the handlers.
package importer

type OutcomeKind string

const (
	// OutcomeEmitted means the row produced a normalized record.
	OutcomeEmitted OutcomeKind = "emitted"
	// OutcomeSkippedSilent means the row was dropped without a user-visible
	// error (blank lines, subtotal lines, rows rejected by policy).
	OutcomeSkippedSilent OutcomeKind = "skipped_silent"
	// OutcomeSkippedError means the row was dropped and an error record is
	// reported back to the caller.
	OutcomeSkippedError OutcomeKind = "skipped_error"
)

type SkipReason string

const (
	ReasonEmptyRow        SkipReason = "empty_row"
	ReasonNoDiscipline    SkipReason = "no_discipline"
	ReasonTotalLine       SkipReason = "total_line"
	ReasonNegativeValue   SkipReason = "negative_value"
	ReasonSchemaInvalid   SkipReason = "schema_invalid"
	ReasonInvalidDate     SkipReason = "invalid_date"
	ReasonUnknownEmployee SkipReason = "unknown_employee"
	ReasonStorageFailed   SkipReason = "storage_failed"
)

// RowOutcome records what happened to a single spreadsheet row. Row numbers
// are 1-based to match what a user sees in Excel.
type RowOutcome struct {
	Row     int
	Kind    OutcomeKind
	Reason  SkipReason
	Message string
	Data    map[string]any
}

// RowError is the wire shape for a reported row failure.
type RowError struct {
	Row     int            `json:"row"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Result is the summary returned by every import endpoint.
type Result struct {
	Success       bool       `json:"success"`
	ImportBatchID string     `json:"importBatchId,omitempty"`
	Imported      int        `json:"imported"`
	Updated       int        `json:"updated"`
	Skipped       int        `json:"skipped"`
	Errors        []RowError `json:"errors"`
}

// ErrorsFromOutcomes collects the reportable failures out of a classification
// pass, leaving silent skips out.
func ErrorsFromOutcomes(outcomes []RowOutcome) []RowError {
	errs := make([]RowError, 0)
	for _, o := range outcomes {
		if o.Kind != OutcomeSkippedError {
			continue
		}
		errs = append(errs, RowError{Row: o.Row, Message: o.Message, Data: o.Data})
	}
	return errs
}

// CountSkipped counts every row that did not emit, silent or reported.
func CountSkipped(outcomes []RowOutcome) int {
	skipped := 0
	for _, o := range outcomes {
		if o.Kind != OutcomeEmitted {
			skipped++
		}
	}
	return skipped
}
