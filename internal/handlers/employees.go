package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/costtrak/api/internal/httpx"
	"github.com/costtrak/api/internal/importer"
	"github.com/costtrak/api/internal/store"
)

func (s *Server) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.Q.ListEmployees(r.Context())
	if err != nil {
		s.Logger.Error("employee list failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list employees", nil)
		return
	}

	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"employees": out})
}

// ImportEmployees ingests a roster spreadsheet. mode=update (default)
// overwrites existing employees by number; mode=create-only leaves existing
// records untouched and counts them as skipped.
func (s *Server) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.parseImportUpload(w, r)
	if !ok {
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = "update"
	}
	if mode != "update" && mode != "create-only" {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_mode", "mode must be \"update\" or \"create-only\"", nil)
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

	cm, headerRow, err := importer.MapEmployeeColumns(located.Sheet.Rows)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "no_employee_data", "No employee data found in file", nil)
		return
	}

	parse := importer.ReadEmployeeRows(located.Sheet.Rows, headerRow, cm)
	if len(parse.Rows) == 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, importer.Result{
			Success: false,
			Skipped: importer.CountSkipped(parse.Outcomes),
			Errors:  importer.ErrorsFromOutcomes(parse.Outcomes),
		})
		return
	}

	batchID := uuid.New()

	// Rows persist independently: a storage failure is reported for that row
	// and the rest of the batch keeps going, unlike the all-or-nothing budget
	// transaction.
	outcomes := parse.Outcomes
	imported, updated, existingSkipped := 0, 0, 0
	for _, row := range parse.Rows {
		params := store.UpsertEmployeeParams{
			EmployeeNumber:      row.EmployeeNumber,
			FirstName:           row.FirstName,
			LastName:            row.LastName,
			CraftCode:           optString(row.Craft),
			BaseRate:            row.Rate,
			Category:            row.Category,
			JobTitle:            optString(row.JobTitle),
			LocationCode:        optString(row.LocationCode),
			LocationDescription: optString(row.LocationDesc),
			ImportBatchID:       &batchID,
		}
		if params.Category == "" {
			params.Category = "DIRECT"
		}

		if mode == "create-only" {
			inserted, err := s.Q.InsertEmployeeIfNew(r.Context(), params)
			if err != nil {
				s.Logger.Error("employee insert failed", "error", err, "employeeNumber", row.EmployeeNumber)
				outcomes = append(outcomes, storageFailure(row.RowNumber, row.EmployeeNumber, err))
				continue
			}
			if inserted {
				imported++
			} else {
				existingSkipped++
			}
			continue
		}

		inserted, err := s.Q.UpsertEmployee(r.Context(), params)
		if err != nil {
			s.Logger.Error("employee upsert failed", "error", err, "employeeNumber", row.EmployeeNumber)
			outcomes = append(outcomes, storageFailure(row.RowNumber, row.EmployeeNumber, err))
			continue
		}
		if inserted {
			imported++
		} else {
			updated++
		}
	}

	userID := actorUserID(r)
	_ = s.Audit.Log(r.Context(), auditEntry(r, userID, "employee.import", "employee", nil, map[string]any{
		"importBatchId": batchID.String(),
		"filename":      upload.Filename,
		"sha256":        upload.SHA256,
		"mode":          mode,
		"imported":      imported,
		"updated":       updated,
	}))

	s.Logger.Info("employee import complete",
		"importBatchId", batchID, "mode", mode,
		"imported", imported, "updated", updated,
		"skipped", importer.CountSkipped(outcomes)+existingSkipped)

	httpx.WriteJSON(w, http.StatusOK, importer.Result{
		Success:       true,
		ImportBatchID: batchID.String(),
		Imported:      imported,
		Updated:       updated,
		Skipped:       importer.CountSkipped(outcomes) + existingSkipped,
		Errors:        importer.ErrorsFromOutcomes(outcomes),
	})
}

func storageFailure(rowNum int, employeeNumber string, err error) importer.RowOutcome {
	return importer.RowOutcome{
		Row:     rowNum,
		Kind:    importer.OutcomeSkippedError,
		Reason:  importer.ReasonStorageFailed,
		Message: err.Error(),
		Data:    map[string]any{"employeeNumber": employeeNumber},
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
