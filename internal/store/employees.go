package store

import (
	"context"

	"github.com/google/uuid"
)

type UpsertEmployeeParams struct {
	EmployeeNumber      string
	FirstName           string
	LastName            string
	CraftCode           *string
	BaseRate            *float64
	Category            string
	JobTitle            *string
	LocationCode        *string
	LocationDescription *string
	ImportBatchID       *uuid.UUID
}

const upsertEmployee = `
INSERT INTO employees (employee_number, first_name, last_name, craft_code, base_rate, category, job_title, location_code, location_description, import_batch_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (employee_number) DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    craft_code = COALESCE(EXCLUDED.craft_code, employees.craft_code),
    base_rate = COALESCE(EXCLUDED.base_rate, employees.base_rate),
    category = EXCLUDED.category,
    job_title = COALESCE(EXCLUDED.job_title, employees.job_title),
    location_code = COALESCE(EXCLUDED.location_code, employees.location_code),
    location_description = COALESCE(EXCLUDED.location_description, employees.location_description),
    import_batch_id = EXCLUDED.import_batch_id,
    updated_at = now()
RETURNING (xmax = 0) AS inserted
`

func (q *Queries) UpsertEmployee(ctx context.Context, arg UpsertEmployeeParams) (bool, error) {
	var inserted bool
	err := q.db.QueryRow(ctx, upsertEmployee,
		arg.EmployeeNumber, arg.FirstName, arg.LastName, arg.CraftCode, arg.BaseRate,
		arg.Category, arg.JobTitle, arg.LocationCode, arg.LocationDescription, arg.ImportBatchID,
	).Scan(&inserted)
	return inserted, err
}

const insertEmployeeIfNew = `
INSERT INTO employees (employee_number, first_name, last_name, craft_code, base_rate, category, job_title, location_code, location_description, import_batch_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (employee_number) DO NOTHING
`

// InsertEmployeeIfNew is the create-only import mode: existing employee
// numbers are left untouched and reported as skipped.
func (q *Queries) InsertEmployeeIfNew(ctx context.Context, arg UpsertEmployeeParams) (bool, error) {
	tag, err := q.db.Exec(ctx, insertEmployeeIfNew,
		arg.EmployeeNumber, arg.FirstName, arg.LastName, arg.CraftCode, arg.BaseRate,
		arg.Category, arg.JobTitle, arg.LocationCode, arg.LocationDescription, arg.ImportBatchID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const getEmployeeByNumber = `
SELECT id, employee_number, first_name, last_name, craft_code, base_rate, category, job_title, location_code, location_description, is_active, import_batch_id, created_at, updated_at
FROM employees
WHERE employee_number = $1
`

func (q *Queries) GetEmployeeByNumber(ctx context.Context, employeeNumber string) (Employee, error) {
	return scanEmployee(q.db.QueryRow(ctx, getEmployeeByNumber, employeeNumber))
}

const listEmployees = `
SELECT id, employee_number, first_name, last_name, craft_code, base_rate, category, job_title, location_code, location_description, is_active, import_batch_id, created_at, updated_at
FROM employees
ORDER BY employee_number
`

func (q *Queries) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := q.db.Query(ctx, listEmployees)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func scanEmployee(row rowScanner) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.CraftCode, &e.BaseRate,
		&e.Category, &e.JobTitle, &e.LocationCode, &e.LocationDescription, &e.IsActive, &e.ImportBatchID,
		&e.CreatedAt, &e.UpdatedAt)
	return e, err
}
