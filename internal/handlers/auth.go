package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/costtrak/api/internal/auth"
	"github.com/costtrak/api/internal/httpx"
	"github.com/costtrak/api/internal/middleware"
	"github.com/costtrak/api/internal/store"
)

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON", nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_failed", "Email and password are required", validationDetails(err))
		return
	}

	user, err := s.Q.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			httpx.WriteError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
			return
		}
		s.Logger.Error("login lookup failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Login failed", nil)
		return
	}
	if !user.IsActive {
		httpx.WriteError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
		return
	}

	token, err := auth.GenerateToken()
	if err != nil {
		s.Logger.Error("token generation failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Login failed", nil)
		return
	}
	csrfToken, err := auth.GenerateToken()
	if err != nil {
		s.Logger.Error("token generation failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Login failed", nil)
		return
	}

	expiresAt := time.Now().Add(s.Cfg.SessionTTL)
	if _, err := s.Q.CreateSession(r.Context(), store.CreateSessionParams{
		UserID:    user.ID,
		TokenHash: auth.HashToken(token),
		CsrfToken: csrfToken,
		ExpiresAt: expiresAt,
	}); err != nil {
		s.Logger.Error("session create failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Login failed", nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.Cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.Cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	_ = s.Audit.Log(r.Context(), auditEntry(r, &user.ID, "auth.login", "user", &user.ID, nil))

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		User: userResponse{
			ID:       user.ID.String(),
			Email:    user.Email,
			FullName: user.FullName,
			Role:     user.Role,
		},
		CSRFToken: csrfToken,
		ExpiresAt: expiresAt,
	})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.Cfg.SessionCookieName); err == nil && cookie.Value != "" {
		_ = s.Q.RevokeSessionByTokenHash(r.Context(), auth.HashToken(cookie.Value))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.Cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userResponse{
		ID:       actor.UserID,
		Email:    actor.Email,
		FullName: actor.FullName,
		Role:     actor.Role,
	})
}

func (s *Server) CSRFToken(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"csrfToken": actor.CSRFToken})
}
