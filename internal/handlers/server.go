// Package handlers contains the HTTP endpoints. Handlers decode and validate
// the request, call into store/importer, and write the shared response
// envelope via httpx.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/costtrak/api/internal/audit"
	"github.com/costtrak/api/internal/config"
	"github.com/costtrak/api/internal/httpx"
	"github.com/costtrak/api/internal/store"
)

type Server struct {
	Cfg    config.Config
	Pool   *pgxpool.Pool
	Q      *store.Queries
	Audit  *audit.Logger
	Logger *slog.Logger
}

func NewServer(cfg config.Config, pool *pgxpool.Pool, logger *slog.Logger) *Server {
	q := store.New(pool)
	return &Server{
		Cfg:    cfg,
		Pool:   pool,
		Q:      q,
		Audit:  audit.NewLogger(q),
		Logger: logger,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.Pool.Ping(r.Context()); err != nil {
		httpx.WriteError(w, r, http.StatusServiceUnavailable, "unavailable", "Database is unreachable", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validationDetails(err error) any {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
