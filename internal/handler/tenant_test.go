package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/property-rental/internal/repository"
)

func tenantCols() []string {
	return []string{
		"id", "user_id", "date_of_birth", "occupation", "employer",
		"annual_income", "identification_type", "identification_number",
		"emergency_contact_name", "emergency_contact_phone",
		"references_json", "created_at", "updated_at",
	}
}

func TestTenantRegisterSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewTenantHandler(repository.NewTenantRepo(db))

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE user_id = \?`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(tenantCols()))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tenants`).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(`UPDATE users SET is_tenant = TRUE`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE id = \?`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(tenantCols()).AddRow(
			4, 9, nil, nil, nil, nil, "passport", "P1234567", nil, nil, nil, now, now))
	mock.ExpectCommit()

	body := map[string]any{
		"identification_type":   "passport",
		"identification_number": "P1234567",
	}
	c, rec := newTestContext(t, http.MethodPost, "/v1/tenants/register", body, repository.User{ID: 9, IsActive: true})
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":9`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRegisterTwiceConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewTenantHandler(repository.NewTenantRepo(db))

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE user_id = \?`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(tenantCols()).AddRow(
			4, 9, nil, nil, nil, nil, "passport", "P1234567", nil, nil, nil, now, now))

	body := map[string]any{
		"identification_type":   "passport",
		"identification_number": "P1234567",
	}
	c, rec := newTestContext(t, http.MethodPost, "/v1/tenants/register", body, repository.User{ID: 9, IsActive: true})
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRegisterDuplicateIdentification(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewTenantHandler(repository.NewTenantRepo(db))

	mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE user_id = \?`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(tenantCols()))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tenants`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'P1234567' for key 'tenants.identification_number'"))
	mock.ExpectRollback()

	body := map[string]any{
		"identification_type":   "passport",
		"identification_number": "P1234567",
	}
	c, rec := newTestContext(t, http.MethodPost, "/v1/tenants/register", body, repository.User{ID: 9, IsActive: true})
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "identification")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRegisterBadDateOfBirth(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewTenantHandler(repository.NewTenantRepo(db))

	body := map[string]any{
		"identification_type":   "passport",
		"identification_number": "P1234567",
		"date_of_birth":         "01/02/1990",
	}
	c, rec := newTestContext(t, http.MethodPost, "/v1/tenants/register", body, repository.User{ID: 9, IsActive: true})
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
