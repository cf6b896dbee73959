package importer

import (
	"strings"

	"github.com/google/uuid"
)

// AggregatedRow is a deduplicated budget line ready for persistence.
type AggregatedRow struct {
	ProjectID   uuid.UUID
	Discipline  string
	CostType    string
	Manhours    *float64
	Value       float64
	Description string
}

// AggregateBudgetRows collapses parsed rows onto the natural key
// (project, discipline, cost type), summing values. Manhours stays null
// only when every contributing row left it blank. The first non-empty
// description wins. Output preserves first-seen order.
func AggregateBudgetRows(projectID uuid.UUID, rows []BudgetRow) []AggregatedRow {
	index := make(map[string]int, len(rows))
	out := make([]AggregatedRow, 0, len(rows))

	for _, row := range rows {
		key := projectID.String() + "|" + strings.ToUpper(row.Discipline) + "|" + row.CostType

		pos, seen := index[key]
		if !seen {
			index[key] = len(out)
			agg := AggregatedRow{
				ProjectID:   projectID,
				Discipline:  row.Discipline,
				CostType:    row.CostType,
				Value:       row.Value,
				Description: row.Description,
			}
			if row.Manhours != nil {
				mh := *row.Manhours
				agg.Manhours = &mh
			}
			out = append(out, agg)
			continue
		}

		out[pos].Value += row.Value
		if row.Manhours != nil {
			if out[pos].Manhours == nil {
				mh := *row.Manhours
				out[pos].Manhours = &mh
			} else {
				*out[pos].Manhours += *row.Manhours
			}
		}
		if out[pos].Description == "" {
			out[pos].Description = row.Description
		}
	}

	return out
}
