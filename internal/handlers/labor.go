package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/costtrak/api/internal/httpx"
	"github.com/costtrak/api/internal/importer"
	"github.com/costtrak/api/internal/store"
)

// ImportLabor ingests weekly labor actuals for one project. Rows referencing
// an employee number that is not on the roster are reported per row and the
// rest of the file still lands.
func (s *Server) ImportLabor(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}

	upload, ok := s.parseImportUpload(w, r)
	if !ok {
		return
	}

	located, err := upload.Workbook.LocateSheet()
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "unreadable_file", err.Error(), nil)
		return
	}
	if !s.checkRowCap(w, r, located.Sheet) {
		return
	}

	cm, headerRow, err := importer.MapLaborColumns(located.Sheet.Rows)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "no_labor_data", "No labor data found in file", nil)
		return
	}

	parse := importer.ReadLaborRows(located.Sheet.Rows, headerRow, cm)
	outcomes := parse.Outcomes
	if len(parse.Rows) == 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, importer.Result{
			Success: false,
			Skipped: importer.CountSkipped(outcomes),
			Errors:  importer.ErrorsFromOutcomes(outcomes),
		})
		return
	}

	batchID := uuid.New()

	tx, err := s.Pool.Begin(r.Context())
	if err != nil {
		s.Logger.Error("labor import begin tx failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to import labor", nil)
		return
	}
	defer tx.Rollback(r.Context())

	qtx := s.Q.WithTx(tx)
	// Employee lookups cache per file: payroll exports repeat the same
	// employee once per week column.
	employeeIDs := map[string]uuid.UUID{}
	imported, updated := 0, 0
	for _, row := range parse.Rows {
		employeeID, cached := employeeIDs[row.EmployeeNumber]
		if !cached {
			employee, err := qtx.GetEmployeeByNumber(r.Context(), row.EmployeeNumber)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					outcomes = append(outcomes, importer.RowOutcome{
						Row:     row.RowNumber,
						Kind:    importer.OutcomeSkippedError,
						Reason:  importer.ReasonUnknownEmployee,
						Message: "employee number not on roster",
						Data:    map[string]any{"employeeNumber": row.EmployeeNumber},
					})
					continue
				}
				s.Logger.Error("employee lookup failed", "error", err, "employeeNumber", row.EmployeeNumber)
				httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to import labor", nil)
				return
			}
			employeeID = employee.ID
			employeeIDs[row.EmployeeNumber] = employeeID
		}

		inserted, err := qtx.UpsertLaborActual(r.Context(), store.UpsertLaborActualParams{
			ProjectID:     project.ID,
			EmployeeID:    employeeID,
			WeekEnding:    row.WeekEnding,
			StHours:       row.StHours,
			OtHours:       row.OtHours,
			ImportBatchID: batchID,
		})
		if err != nil {
			s.Logger.Error("labor upsert failed", "error", err, "employeeNumber", row.EmployeeNumber)
			httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to import labor", nil)
			return
		}
		if inserted {
			imported++
		} else {
			updated++
		}
	}

	if err := tx.Commit(r.Context()); err != nil {
		s.Logger.Error("labor import commit failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to import labor", nil)
		return
	}

	userID := actorUserID(r)
	_ = s.Audit.Log(r.Context(), auditEntry(r, userID, "labor.import", "project", &project.ID, map[string]any{
		"importBatchId": batchID.String(),
		"filename":      upload.Filename,
		"sha256":        upload.SHA256,
		"imported":      imported,
		"updated":       updated,
	}))

	s.Logger.Info("labor import complete",
		"projectId", project.ID, "importBatchId", batchID,
		"imported", imported, "updated", updated,
		"skipped", importer.CountSkipped(outcomes))

	httpx.WriteJSON(w, http.StatusOK, importer.Result{
		Success:       true,
		ImportBatchID: batchID.String(),
		Imported:      imported,
		Updated:       updated,
		Skipped:       importer.CountSkipped(outcomes),
		Errors:        importer.ErrorsFromOutcomes(outcomes),
	})
}
