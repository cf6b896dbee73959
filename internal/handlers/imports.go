package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/costtrak/api/internal/httpx"
	"github.com/costtrak/api/internal/importer"
	"github.com/costtrak/api/internal/store"
)

type importUpload struct {
	Filename string
	SHA256   string
	Workbook *importer.Workbook
}

// parseImportUpload reads the multipart "file" part and parses it into the
// in-memory workbook model. The second return is false when an error
// response has already been written.
func (s *Server) parseImportUpload(w http.ResponseWriter, r *http.Request) (*importUpload, bool) {
	if err := r.ParseMultipartForm(s.Cfg.ImportMaxFileBytes); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_multipart", "Request must be multipart/form-data with a file part", nil)
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "missing_file", "A file part named \"file\" is required", nil)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "unreadable_file", "Unable to read the uploaded file", nil)
		return nil, false
	}

	var wb *importer.Workbook
	switch ext := strings.ToLower(filepath.Ext(header.Filename)); ext {
	case ".csv":
		wb, err = importer.ReadCSV(bytes.NewReader(data))
	case ".xlsx", ".xlsm", ".xls":
		wb, err = importer.ReadWorkbook(bytes.NewReader(data))
	default:
		httpx.WriteError(w, r, http.StatusBadRequest, "unsupported_file_type", "Supported formats are .xlsx, .xlsm, .xls and .csv",
			map[string]any{"filename": header.Filename})
		return nil, false
	}
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "unreadable_file", "Unable to parse the uploaded file", map[string]any{"error": err.Error()})
		return nil, false
	}

	sum := sha256.Sum256(data)
	return &importUpload{
		Filename: header.Filename,
		SHA256:   hex.EncodeToString(sum[:]),
		Workbook: wb,
	}, true
}

func (s *Server) checkRowCap(w http.ResponseWriter, r *http.Request, sheet importer.Sheet) bool {
	if s.Cfg.ImportMaxRows > 0 && len(sheet.Rows) > s.Cfg.ImportMaxRows {
		httpx.WriteError(w, r, http.StatusBadRequest, "too_many_rows",
			fmt.Sprintf("Sheet has %d rows, limit is %d", len(sheet.Rows), s.Cfg.ImportMaxRows), nil)
		return false
	}
	return true
}

// ImportBudget ingests a budget spreadsheet for one project. The BUDGETS
// positional layout and generic header-mapped sheets both land here; rows
// are aggregated before hitting storage, and persistence runs in one
// transaction so a clearExisting wipe cannot strand the project without a
// budget on failure.
func (s *Server) ImportBudget(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}

	upload, ok := s.parseImportUpload(w, r)
	if !ok {
		return
	}
	clearExisting := r.FormValue("clearExisting") == "true"

	located, err := upload.Workbook.LocateSheet()
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "unreadable_file", err.Error(), nil)
		return
	}
	if !s.checkRowCap(w, r, located.Sheet) {
		return
	}

	opts := importer.WalkOptions{AllowNegative: s.Cfg.ImportAllowNegativeRows}
	var parse importer.BudgetParse
	if located.Positional {
		parse = importer.WalkBudgetRows(located.Sheet.Rows, 1, opts)
	} else {
		cm, headerRow, mapErr := importer.MapBudgetColumns(located.Sheet.Rows)
		if mapErr != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, "no_budget_data", "No budget columns found in file", nil)
			return
		}
		parse = importer.ReadBudgetRows(located.Sheet.Rows, headerRow, cm, opts)
	}

	aggregated := importer.AggregateBudgetRows(project.ID, parse.Rows)
	if len(aggregated) == 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, importer.Result{
			Success: false,
			Skipped: importer.CountSkipped(parse.Outcomes),
			Errors:  importer.ErrorsFromOutcomes(parse.Outcomes),
		})
		return
	}

	batchID := uuid.New()
	userID := actorUserID(r)

	tx, err := s.Pool.Begin(r.Context())
	if err != nil {
		s.Logger.Error("budget import begin tx failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to import budget",
			map[string]any{"error": err.Error()})
		return
	}
	defer tx.Rollback(r.Context())

	qtx := s.Q.WithTx(tx)
	if clearExisting {
		if _, err := qtx.DeleteProjectBudget(r.Context(), project.ID); err != nil {
			s.Logger.Error("budget clear failed", "error", err, "projectId", project.ID)
			httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to import budget",
				map[string]any{"error": err.Error()})
			return
		}
	}

	imported, updated := 0, 0
	for _, row := range aggregated {
		var desc *string
		if row.Description != "" {
			d := row.Description
			desc = &d
		}
		inserted, err := qtx.UpsertBudgetLineItem(r.Context(), store.UpsertBudgetLineItemParams{
			ProjectID:     row.ProjectID,
			Discipline:    row.Discipline,
			CostType:      row.CostType,
			Manhours:      row.Manhours,
			Value:         row.Value,
			Description:   desc,
			ImportBatchID: batchID,
			CreatedBy:     userID,
		})
		if err != nil {
			s.Logger.Error("budget upsert failed", "error", err, "discipline", row.Discipline, "costType", row.CostType)
			httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to import budget",
				map[string]any{"error": err.Error()})
			return
		}
		if inserted {
			imported++
		} else {
			updated++
		}
	}

	if err := tx.Commit(r.Context()); err != nil {
		s.Logger.Error("budget import commit failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to import budget",
			map[string]any{"error": err.Error()})
		return
	}

	_ = s.Audit.Log(r.Context(), auditEntry(r, userID, "budget.import", "project", &project.ID, map[string]any{
		"importBatchId": batchID.String(),
		"filename":      upload.Filename,
		"sha256":        upload.SHA256,
		"clearExisting": clearExisting,
		"imported":      imported,
		"updated":       updated,
	}))

	s.Logger.Info("budget import complete",
		"projectId", project.ID, "importBatchId", batchID,
		"imported", imported, "updated", updated,
		"skipped", importer.CountSkipped(parse.Outcomes))

	httpx.WriteJSON(w, http.StatusOK, importer.Result{
		Success:       true,
		ImportBatchID: batchID.String(),
		Imported:      imported,
		Updated:       updated,
		Skipped:       importer.CountSkipped(parse.Outcomes),
		Errors:        importer.ErrorsFromOutcomes(parse.Outcomes),
	})
}

func (s *Server) ListBudget(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}

	items, err := s.Q.ListBudgetLineItems(r.Context(), project.ID)
	if err != nil {
		s.Logger.Error("budget list failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list budget", nil)
		return
	}
	totals, err := s.Q.BudgetDisciplineTotals(r.Context(), project.ID)
	if err != nil {
		s.Logger.Error("budget totals failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list budget", nil)
		return
	}

	resp := budgetListResponse{
		Items:  make([]budgetLineItemResponse, 0, len(items)),
		Totals: make([]disciplineTotalResponse, 0, len(totals)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, budgetLineItemResponse{
			ID:          item.ID.String(),
			Discipline:  item.Discipline,
			CostType:    item.CostType,
			Manhours:    item.Manhours,
			Value:       item.Value,
			Description: item.Description,
		})
	}
	for _, t := range totals {
		resp.Totals = append(resp.Totals, disciplineTotalResponse{
			Discipline: t.Discipline,
			Manhours:   t.Manhours,
			Value:      t.Value,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
