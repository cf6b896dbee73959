package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/costtrak/api/internal/audit"
	"github.com/costtrak/api/internal/middleware"
)

func auditEntry(r *http.Request, userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, metadata map[string]any) audit.Entry {
	return audit.Entry{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  middleware.RequestIDFromContext(r.Context()),
		Metadata:   metadata,
	}
}

// actorUserID resolves the authenticated user's id, nil when the actor is
// missing or malformed.
func actorUserID(r *http.Request) *uuid.UUID {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return nil
	}
	id, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil
	}
	return &id
}
