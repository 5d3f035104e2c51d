package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/property-rental/internal/config"
	"github.com/iliyamo/property-rental/internal/repository"
)

func TestUpdateMeRevokesSessionsOnPasswordChange(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	cfg := config.Config{JWTSecret: "secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	h := NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))

	mock.ExpectExec(`UPDATE users SET full_name = \?, phone_number = \?, password_hash = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = NOW\(\) WHERE user_id = \? AND revoked_at IS NULL`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 2))

	body := map[string]any{"password": "brand-new-pass"}
	c, rec := newTestContext(t, http.MethodPut, "/v1/me", body,
		repository.User{ID: 9, IsActive: true, FullName: "Asha", Email: "asha@example.com"})
	require.NoError(t, h.UpdateMe(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMeProfileOnlyKeepsSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	cfg := config.Config{JWTSecret: "secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	h := NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))

	mock.ExpectExec(`UPDATE users SET full_name = \?, phone_number = \?, password_hash = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// No refresh_tokens statement expected: sessions survive a name change.

	body := map[string]any{"full_name": "Asha R"}
	c, rec := newTestContext(t, http.MethodPut, "/v1/me", body,
		repository.User{ID: 9, IsActive: true, FullName: "Asha", Email: "asha@example.com"})
	require.NoError(t, h.UpdateMe(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asha R")
	assert.NoError(t, mock.ExpectationsWereMet())
}
