package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CreateSessionParams struct {
	UserID    uuid.UUID
	TokenHash string
	CsrfToken string
	ExpiresAt time.Time
}

const createSession = `
INSERT INTO sessions (user_id, token_hash, csrf_token, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, createSession, arg.UserID, arg.TokenHash, arg.CsrfToken, arg.ExpiresAt)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const getSessionPrincipalByTokenHash = `
SELECT s.id, u.id, u.email, u.full_name, u.role, s.csrf_token, s.expires_at
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.token_hash = $1
  AND s.revoked_at IS NULL
  AND s.expires_at > now()
  AND u.is_active
`

func (q *Queries) GetSessionPrincipalByTokenHash(ctx context.Context, tokenHash string) (SessionPrincipal, error) {
	row := q.db.QueryRow(ctx, getSessionPrincipalByTokenHash, tokenHash)
	var p SessionPrincipal
	err := row.Scan(&p.SessionID, &p.UserID, &p.Email, &p.FullName, &p.Role, &p.CsrfToken, &p.ExpiresAt)
	return p, err
}

const touchSession = `
UPDATE sessions SET last_seen_at = now() WHERE id = $1
`

func (q *Queries) TouchSession(ctx context.Context, sessionID uuid.UUID) error {
	_, err := q.db.Exec(ctx, touchSession, sessionID)
	return err
}

const revokeSessionByID = `
UPDATE sessions SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL
`

func (q *Queries) RevokeSessionByID(ctx context.Context, sessionID uuid.UUID) error {
	_, err := q.db.Exec(ctx, revokeSessionByID, sessionID)
	return err
}

const revokeSessionByTokenHash = `
UPDATE sessions SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL
`

func (q *Queries) RevokeSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := q.db.Exec(ctx, revokeSessionByTokenHash, tokenHash)
	return err
}
