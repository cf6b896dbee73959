package store

import (
	"context"

	"github.com/google/uuid"
)

type InsertAuditLogParams struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	RequestID  *string
	Metadata   []byte
}

const insertAuditLog = `
INSERT INTO audit_log (user_id, action, entity_type, entity_id, request_id, metadata)
VALUES ($1, $2, $3, $4, $5, $6)
`

func (q *Queries) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) error {
	_, err := q.db.Exec(ctx, insertAuditLog, arg.UserID, arg.Action, arg.EntityType, arg.EntityID, arg.RequestID, arg.Metadata)
	return err
}
