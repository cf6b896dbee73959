package store

import (
	"context"

	"github.com/google/uuid"
)

type CreateChangeOrderParams struct {
	ProjectID   uuid.UUID
	CoNumber    string
	Description *string
	Amount      string
	CreatedBy   *uuid.UUID
}

const createChangeOrder = `
INSERT INTO change_orders (project_id, co_number, description, amount, status, created_by)
VALUES ($1, $2, $3, $4::numeric, 'pending', $5)
RETURNING id, project_id, co_number, description, amount::text, status, approved_by, approved_at, created_by, created_at, updated_at
`

func (q *Queries) CreateChangeOrder(ctx context.Context, arg CreateChangeOrderParams) (ChangeOrder, error) {
	row := q.db.QueryRow(ctx, createChangeOrder, arg.ProjectID, arg.CoNumber, arg.Description, arg.Amount, arg.CreatedBy)
	return scanChangeOrder(row)
}

const listChangeOrdersByProject = `
SELECT id, project_id, co_number, description, amount::text, status, approved_by, approved_at, created_by, created_at, updated_at
FROM change_orders
WHERE project_id = $1
ORDER BY co_number
`

func (q *Queries) ListChangeOrdersByProject(ctx context.Context, projectID uuid.UUID) ([]ChangeOrder, error) {
	rows, err := q.db.Query(ctx, listChangeOrdersByProject, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []ChangeOrder
	for rows.Next() {
		co, err := scanChangeOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, co)
	}
	return orders, rows.Err()
}

type ApproveChangeOrderParams struct {
	ID         uuid.UUID
	ApprovedBy uuid.UUID
}

const approveChangeOrder = `
UPDATE change_orders
SET status = 'approved', approved_by = $2, approved_at = now(), updated_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING id, project_id, co_number, description, amount::text, status, approved_by, approved_at, created_by, created_at, updated_at
`

func (q *Queries) ApproveChangeOrder(ctx context.Context, arg ApproveChangeOrderParams) (ChangeOrder, error) {
	row := q.db.QueryRow(ctx, approveChangeOrder, arg.ID, arg.ApprovedBy)
	return scanChangeOrder(row)
}

const approvedChangeOrderTotal = `
SELECT COALESCE(SUM(amount), 0)::text
FROM change_orders
WHERE project_id = $1 AND status = 'approved'
`

func (q *Queries) ApprovedChangeOrderTotal(ctx context.Context, projectID uuid.UUID) (string, error) {
	var total string
	err := q.db.QueryRow(ctx, approvedChangeOrderTotal, projectID).Scan(&total)
	return total, err
}

func scanChangeOrder(row rowScanner) (ChangeOrder, error) {
	var co ChangeOrder
	err := row.Scan(&co.ID, &co.ProjectID, &co.CoNumber, &co.Description, &co.Amount, &co.Status,
		&co.ApprovedBy, &co.ApprovedAt, &co.CreatedBy, &co.CreatedAt, &co.UpdatedAt)
	return co, err
}
