package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/costtrak/api/internal/httpx"
	"github.com/costtrak/api/internal/store"
)

func (s *Server) CreateChangeOrder(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}

	var req createChangeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON", nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_failed", "Invalid change order payload", validationDetails(err))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_failed", "amount must be a decimal number", nil)
		return
	}

	co, err := s.Q.CreateChangeOrder(r.Context(), store.CreateChangeOrderParams{
		ProjectID:   project.ID,
		CoNumber:    req.CoNumber,
		Description: req.Description,
		Amount:      amount.String(),
		CreatedBy:   actorUserID(r),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			httpx.WriteError(w, r, http.StatusConflict, "duplicate_co_number", "A change order with this number already exists on the project", nil)
			return
		}
		s.Logger.Error("change order create failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create change order", nil)
		return
	}

	_ = s.Audit.Log(r.Context(), auditEntry(r, actorUserID(r), "change_order.create", "change_order", &co.ID,
		map[string]any{"coNumber": co.CoNumber, "amount": co.Amount}))

	httpx.WriteJSON(w, http.StatusCreated, toChangeOrderResponse(co))
}

func (s *Server) ListChangeOrders(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}

	orders, err := s.Q.ListChangeOrdersByProject(r.Context(), project.ID)
	if err != nil {
		s.Logger.Error("change order list failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list change orders", nil)
		return
	}

	out := make([]changeOrderResponse, 0, len(orders))
	for _, co := range orders {
		out = append(out, toChangeOrderResponse(co))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"changeOrders": out})
}

func (s *Server) ApproveChangeOrder(w http.ResponseWriter, r *http.Request) {
	coID, err := uuid.Parse(chi.URLParam(r, "changeOrderId"))
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "changeOrderId must be a UUID", nil)
		return
	}
	approver := actorUserID(r)
	if approver == nil {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}

	co, err := s.Q.ApproveChangeOrder(r.Context(), store.ApproveChangeOrderParams{ID: coID, ApprovedBy: *approver})
	if err != nil {
		// No row means either an unknown id or an order that is not
		// pending anymore; both surface as a conflict on a known id.
		if errors.Is(err, pgx.ErrNoRows) {
			httpx.WriteError(w, r, http.StatusConflict, "not_pending", "Change order does not exist or is not pending", nil)
			return
		}
		s.Logger.Error("change order approve failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to approve change order", nil)
		return
	}

	_ = s.Audit.Log(r.Context(), auditEntry(r, approver, "change_order.approve", "change_order", &co.ID,
		map[string]any{"coNumber": co.CoNumber, "amount": co.Amount}))

	httpx.WriteJSON(w, http.StatusOK, toChangeOrderResponse(co))
}
