// Package app wires the HTTP surface: middleware chain, OpenAPI request
// validation, and route registration.
package app

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	openapimiddleware "github.com/oapi-codegen/nethttp-middleware"

	"github.com/costtrak/api/internal/config"
	"github.com/costtrak/api/internal/handlers"
	"github.com/costtrak/api/internal/httpx"
	"github.com/costtrak/api/internal/middleware"
)

//go:embed openapi.yaml
var openapiSpec []byte

func NewRouter(cfg config.Config, s *handlers.Server) (http.Handler, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}

	validateRequests := openapimiddleware.OapiRequestValidatorWithOptions(doc, &openapimiddleware.Options{
		SilenceServersWarning: true,
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			httpx.WriteJSON(w, statusCode, httpx.ErrorEnvelope{
				Error:     httpx.ErrorBody{Code: "validation_error", Message: message},
				RequestID: w.Header().Get("X-Request-Id"),
			})
		},
	})

	authMw := middleware.AuthMiddleware{Queries: s.Q, CookieName: cfg.SessionCookieName}
	loginLimiter := middleware.NewLoginRateLimiter(10, time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(s.Logger))
	r.Use(middleware.SecurityHeaders(cfg.Env))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.LimitBodyBytesWithOverrides(cfg.APIMaxBodyBytes, []middleware.BodyLimitOverride{
		{PathPrefix: "/api/", PathSuffix: "/import", MaxBytes: cfg.ImportMaxFileBytes},
	}))

	r.Get("/healthz", s.Health)

	r.Route("/api", func(api chi.Router) {
		api.Use(validateRequests)

		api.With(loginLimiter.Middleware).Post("/auth/login", s.Login)

		api.Group(func(priv chi.Router) {
			priv.Use(authMw.RequireAuth)

			priv.Get("/auth/me", s.Me)
			priv.Get("/auth/csrf", s.CSRFToken)
			priv.With(middleware.EnforceCSRF(cfg.CSRFEnforce)).Post("/auth/logout", s.Logout)

			priv.Get("/projects", s.ListProjects)
			priv.Get("/projects/{projectId}", s.GetProject)
			priv.Get("/projects/{projectId}/budget", s.ListBudget)
			priv.Get("/projects/{projectId}/change-orders", s.ListChangeOrders)
			priv.Get("/employees", s.ListEmployees)

			priv.Group(func(mut chi.Router) {
				mut.Use(middleware.EnforceCSRF(cfg.CSRFEnforce))

				mut.With(middleware.RequireRole("controller", "ops_manager", "project_manager")).
					Post("/projects", s.CreateProject)
				mut.With(middleware.RequireRole("controller", "project_manager")).
					Post("/projects/{projectId}/change-orders", s.CreateChangeOrder)
				mut.With(middleware.RequireRole("controller", "executive")).
					Post("/change-orders/{changeOrderId}/approve", s.ApproveChangeOrder)

				mut.Group(func(imp chi.Router) {
					imp.Use(middleware.RequireRole("controller", "ops_manager"))
					imp.Post("/projects/{projectId}/budget/import", s.ImportBudget)
					imp.Post("/projects/{projectId}/labor/import", s.ImportLabor)
					imp.Post("/employees/import", s.ImportEmployees)
				})
			})
		})
	})

	return r, nil
}
