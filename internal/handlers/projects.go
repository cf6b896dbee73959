package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/costtrak/api/internal/httpx"
	"github.com/costtrak/api/internal/store"
)

func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON", nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_failed", "Invalid project payload", validationDetails(err))
		return
	}
	contract, err := decimal.NewFromString(req.OriginalContract)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_failed", "originalContract must be a decimal number", nil)
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}

	project, err := s.Q.CreateProject(r.Context(), store.CreateProjectParams{
		JobNumber:        req.JobNumber,
		Name:             req.Name,
		Status:           req.Status,
		OriginalContract: contract.String(),
		CreatedBy:        actorUserID(r),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			httpx.WriteError(w, r, http.StatusConflict, "duplicate_job_number", "A project with this job number already exists", nil)
			return
		}
		s.Logger.Error("project create failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create project", nil)
		return
	}

	_ = s.Audit.Log(r.Context(), auditEntry(r, actorUserID(r), "project.create", "project", &project.ID,
		map[string]any{"jobNumber": project.JobNumber}))

	httpx.WriteJSON(w, http.StatusCreated, s.toProjectResponse(r, project))
}

func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	var status *string
	if err := runtime.BindQueryParameter("form", true, false, "status", r.URL.Query(), &status); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_failed", "Invalid status filter", nil)
		return
	}

	projects, err := s.Q.ListProjects(r.Context())
	if err != nil {
		s.Logger.Error("project list failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list projects", nil)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, s.toProjectResponse(r, p))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s.toProjectResponse(r, project))
}

// loadProject resolves the {projectId} path param, writing the error
// response itself when the id is malformed or unknown.
func (s *Server) loadProject(w http.ResponseWriter, r *http.Request) (store.Project, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "projectId"))
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "projectId must be a UUID", nil)
		return store.Project{}, false
	}

	project, err := s.Q.GetProjectByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			httpx.WriteError(w, r, http.StatusNotFound, "not_found", "Project not found", nil)
			return store.Project{}, false
		}
		s.Logger.Error("project lookup failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load project", nil)
		return store.Project{}, false
	}
	return project, true
}

// toProjectResponse derives revisedContract as the original contract plus
// the sum of approved change orders. Amounts stay as numeric text end to
// end so no cents are lost to float rounding.
func (s *Server) toProjectResponse(r *http.Request, p store.Project) projectResponse {
	revised := p.OriginalContract
	original, err := decimal.NewFromString(p.OriginalContract)
	if err == nil {
		approvedTotal, totalErr := s.Q.ApprovedChangeOrderTotal(r.Context(), p.ID)
		if totalErr == nil {
			if approved, parseErr := decimal.NewFromString(approvedTotal); parseErr == nil {
				revised = original.Add(approved).String()
			}
		}
	}

	return projectResponse{
		ID:               p.ID.String(),
		JobNumber:        p.JobNumber,
		Name:             p.Name,
		Status:           p.Status,
		OriginalContract: p.OriginalContract,
		RevisedContract:  revised,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
