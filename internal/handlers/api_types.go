package handlers

import (
	"time"

	"github.com/costtrak/api/internal/store"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User      userResponse `json:"user"`
	CSRFToken string       `json:"csrfToken"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type createProjectRequest struct {
	JobNumber        string `json:"jobNumber" validate:"required,max=32"`
	Name             string `json:"name" validate:"required,max=255"`
	Status           string `json:"status" validate:"omitempty,oneof=active planning closed"`
	OriginalContract string `json:"originalContract" validate:"required"`
}

type projectResponse struct {
	ID               string    `json:"id"`
	JobNumber        string    `json:"jobNumber"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	OriginalContract string    `json:"originalContract"`
	RevisedContract  string    `json:"revisedContract"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type createChangeOrderRequest struct {
	CoNumber    string  `json:"coNumber" validate:"required,max=32"`
	Description *string `json:"description"`
	Amount      string  `json:"amount" validate:"required"`
}

type changeOrderResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	CoNumber    string     `json:"coNumber"`
	Description *string    `json:"description,omitempty"`
	Amount      string     `json:"amount"`
	Status      string     `json:"status"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type budgetLineItemResponse struct {
	ID          string   `json:"id"`
	Discipline  string   `json:"discipline"`
	CostType    string   `json:"costType"`
	Manhours    *float64 `json:"manhours"`
	Value       float64  `json:"value"`
	Description *string  `json:"description,omitempty"`
}

type disciplineTotalResponse struct {
	Discipline string  `json:"discipline"`
	Manhours   float64 `json:"manhours"`
	Value      string  `json:"value"`
}

type budgetListResponse struct {
	Items  []budgetLineItemResponse  `json:"items"`
	Totals []disciplineTotalResponse `json:"totals"`
}

type employeeResponse struct {
	ID                  string   `json:"id"`
	EmployeeNumber      string   `json:"employeeNumber"`
	FirstName           string   `json:"firstName"`
	LastName            string   `json:"lastName"`
	CraftCode           *string  `json:"craftCode,omitempty"`
	BaseRate            *float64 `json:"baseRate,omitempty"`
	Category            string   `json:"category"`
	JobTitle            *string  `json:"jobTitle,omitempty"`
	LocationCode        *string  `json:"locationCode,omitempty"`
	LocationDescription *string  `json:"locationDescription,omitempty"`
	IsActive            bool     `json:"isActive"`
}

func toChangeOrderResponse(co store.ChangeOrder) changeOrderResponse {
	return changeOrderResponse{
		ID:          co.ID.String(),
		ProjectID:   co.ProjectID.String(),
		CoNumber:    co.CoNumber,
		Description: co.Description,
		Amount:      co.Amount,
		Status:      co.Status,
		ApprovedAt:  co.ApprovedAt,
		CreatedAt:   co.CreatedAt,
	}
}

func toEmployeeResponse(e store.Employee) employeeResponse {
	return employeeResponse{
		ID:                  e.ID.String(),
		EmployeeNumber:      e.EmployeeNumber,
		FirstName:           e.FirstName,
		LastName:            e.LastName,
		CraftCode:           e.CraftCode,
		BaseRate:            e.BaseRate,
		Category:            e.Category,
		JobTitle:            e.JobTitle,
		LocationCode:        e.LocationCode,
		LocationDescription: e.LocationDescription,
		IsActive:            e.IsActive,
	}
}
