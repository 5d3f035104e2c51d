package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrTokenInvalid is returned when a refresh token is unknown, revoked
// or expired. Callers cannot tell the three apart, which keeps token
// probing uninformative.
var ErrTokenInvalid = errors.New("refresh token invalid")

// TokenRepo persists refresh-token sessions for the rental API. Only the
// SHA-256 hash of a token is stored; rotation revokes the old hash and
// inserts the new one, so a leaked database row cannot mint sessions.
type TokenRepo struct {
	db *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh records a freshly issued token hash for a user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh resolves a token hash to its user. Unknown, revoked
// and expired tokens all return ErrTokenInvalid.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ?",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTokenInvalid
		}
		return 0, err
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}

// RevokeByHash marks one token as revoked. Revoking an already-revoked
// or unknown hash is a no-op, which makes logout idempotent.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = ? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser ends every active session of a user, e.g. after a
// password change through the profile endpoint.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = ? AND revoked_at IS NULL",
		userID)
	return err
}
