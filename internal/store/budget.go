package store

import (
	"context"

	"github.com/google/uuid"
)

type UpsertBudgetLineItemParams struct {
	ProjectID     uuid.UUID
	Discipline    string
	CostType      string
	Manhours      *float64
	Value         float64
	Description   *string
	ImportBatchID uuid.UUID
	CreatedBy     *uuid.UUID
}

// Upsert keyed on (project_id, discipline, cost_type): a re-import replaces
// the prior value rather than summing across calls. In-call duplicates are
// summed by the aggregator before ever reaching storage.
const upsertBudgetLineItem = `
INSERT INTO budget_line_items (project_id, discipline, cost_type, manhours, value, description, import_batch_id, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (project_id, discipline, cost_type) DO UPDATE SET
    manhours = EXCLUDED.manhours,
    value = EXCLUDED.value,
    description = COALESCE(EXCLUDED.description, budget_line_items.description),
    import_batch_id = EXCLUDED.import_batch_id,
    updated_at = now()
RETURNING (xmax = 0) AS inserted
`

func (q *Queries) UpsertBudgetLineItem(ctx context.Context, arg UpsertBudgetLineItemParams) (bool, error) {
	var inserted bool
	err := q.db.QueryRow(ctx, upsertBudgetLineItem,
		arg.ProjectID, arg.Discipline, arg.CostType, arg.Manhours, arg.Value,
		arg.Description, arg.ImportBatchID, arg.CreatedBy,
	).Scan(&inserted)
	return inserted, err
}

const deleteProjectBudget = `
DELETE FROM budget_line_items WHERE project_id = $1
`

func (q *Queries) DeleteProjectBudget(ctx context.Context, projectID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteProjectBudget, projectID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listBudgetLineItems = `
SELECT id, project_id, discipline, cost_type, manhours, value::float8, description, import_batch_id, created_by, created_at, updated_at
FROM budget_line_items
WHERE project_id = $1
ORDER BY discipline, cost_type
`

func (q *Queries) ListBudgetLineItems(ctx context.Context, projectID uuid.UUID) ([]BudgetLineItem, error) {
	rows, err := q.db.Query(ctx, listBudgetLineItems, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BudgetLineItem
	for rows.Next() {
		var item BudgetLineItem
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.Discipline, &item.CostType, &item.Manhours,
			&item.Value, &item.Description, &item.ImportBatchID, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const budgetDisciplineTotals = `
SELECT discipline, COALESCE(SUM(manhours), 0)::float8, COALESCE(SUM(value), 0)::text
FROM budget_line_items
WHERE project_id = $1
GROUP BY discipline
ORDER BY discipline
`

func (q *Queries) BudgetDisciplineTotals(ctx context.Context, projectID uuid.UUID) ([]DisciplineTotal, error) {
	rows, err := q.db.Query(ctx, budgetDisciplineTotals, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []DisciplineTotal
	for rows.Next() {
		var t DisciplineTotal
		if err := rows.Scan(&t.Discipline, &t.Manhours, &t.Value); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
