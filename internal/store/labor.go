package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UpsertLaborActualParams struct {
	ProjectID     uuid.UUID
	EmployeeID    uuid.UUID
	WeekEnding    time.Time
	StHours       float64
	OtHours       float64
	ImportBatchID uuid.UUID
}

const upsertLaborActual = `
INSERT INTO labor_actuals (project_id, employee_id, week_ending, st_hours, ot_hours, import_batch_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (project_id, employee_id, week_ending) DO UPDATE SET
    st_hours = EXCLUDED.st_hours,
    ot_hours = EXCLUDED.ot_hours,
    import_batch_id = EXCLUDED.import_batch_id,
    updated_at = now()
RETURNING (xmax = 0) AS inserted
`

func (q *Queries) UpsertLaborActual(ctx context.Context, arg UpsertLaborActualParams) (bool, error) {
	var inserted bool
	err := q.db.QueryRow(ctx, upsertLaborActual,
		arg.ProjectID, arg.EmployeeID, arg.WeekEnding, arg.StHours, arg.OtHours, arg.ImportBatchID,
	).Scan(&inserted)
	return inserted, err
}
