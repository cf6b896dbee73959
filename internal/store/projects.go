package store

import (
	"context"

	"github.com/google/uuid"
)

type CreateProjectParams struct {
	JobNumber        string
	Name             string
	Status           string
	OriginalContract string
	CreatedBy        *uuid.UUID
}

const createProject = `
INSERT INTO projects (job_number, name, status, original_contract, created_by)
VALUES ($1, $2, $3, $4::numeric, $5)
RETURNING id, job_number, name, status, original_contract::text, created_by, created_at, updated_at
`

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRow(ctx, createProject, arg.JobNumber, arg.Name, arg.Status, arg.OriginalContract, arg.CreatedBy)
	return scanProject(row)
}

const getProjectByID = `
SELECT id, job_number, name, status, original_contract::text, created_by, created_at, updated_at
FROM projects
WHERE id = $1
`

func (q *Queries) GetProjectByID(ctx context.Context, id uuid.UUID) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, getProjectByID, id))
}

const listProjects = `
SELECT id, job_number, name, status, original_contract::text, created_by, created_at, updated_at
FROM projects
ORDER BY job_number
`

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.db.Query(ctx, listProjects)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.JobNumber, &p.Name, &p.Status, &p.OriginalContract, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
