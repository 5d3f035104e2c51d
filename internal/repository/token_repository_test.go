package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"})
}

func TestValidateRefreshActiveToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTokenRepo(db)

	mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = \?`).
		WithArgs("abc").
		WillReturnRows(tokenRows().AddRow(9, time.Now().UTC().Add(time.Hour), nil))

	uid, err := repo.ValidateRefresh(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), uid)
}

func TestValidateRefreshRejectsRevokedExpiredUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTokenRepo(db)

	revoked := time.Now().UTC().Add(-time.Minute)
	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash = \?`).
		WithArgs("revoked").
		WillReturnRows(tokenRows().AddRow(9, time.Now().UTC().Add(time.Hour), revoked))
	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash = \?`).
		WithArgs("expired").
		WillReturnRows(tokenRows().AddRow(9, time.Now().UTC().Add(-time.Hour), nil))
	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash = \?`).
		WithArgs("unknown").
		WillReturnRows(tokenRows())

	for _, hash := range []string{"revoked", "expired", "unknown"} {
		_, err := repo.ValidateRefresh(context.Background(), hash)
		assert.ErrorIs(t, err, ErrTokenInvalid, hash)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeByHashOnlyActiveRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTokenRepo(db)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = NOW\(\) WHERE token_hash = \? AND revoked_at IS NULL`).
		WithArgs("abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RevokeByHash(context.Background(), "abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
