package store

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SessionPrincipal struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Email     string
	FullName  string
	Role      string
	CsrfToken string
	ExpiresAt time.Time
}

type Project struct {
	ID               uuid.UUID
	JobNumber        string
	Name             string
	Status           string
	OriginalContract string
	CreatedBy        *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ChangeOrder struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	CoNumber    string
	Description *string
	Amount      string
	Status      string
	ApprovedBy  *uuid.UUID
	ApprovedAt  *time.Time
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BudgetLineItem struct {
	ID            uuid.UUID
	ProjectID     uuid.UUID
	Discipline    string
	CostType      string
	Manhours      *float64
	Value         float64
	Description   *string
	ImportBatchID uuid.UUID
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type DisciplineTotal struct {
	Discipline string
	Manhours   float64
	Value      string
}

type Employee struct {
	ID                  uuid.UUID
	EmployeeNumber      string
	FirstName           string
	LastName            string
	CraftCode           *string
	BaseRate            *float64
	Category            string
	JobTitle            *string
	LocationCode        *string
	LocationDescription *string
	IsActive            bool
	ImportBatchID       *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type LaborActual struct {
	ID            uuid.UUID
	ProjectID     uuid.UUID
	EmployeeID    uuid.UUID
	WeekEnding    time.Time
	StHours       float64
	OtHours       float64
	ImportBatchID uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
