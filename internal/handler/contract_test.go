package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/property-rental/internal/policy"
	"github.com/iliyamo/property-rental/internal/repository"
)

func propertyCols() []string {
	return []string{
		"id", "owner_id", "title", "description", "property_type", "address",
		"city", "state", "zip_code", "country", "bedrooms", "bathrooms",
		"area_sqft", "monthly_rent", "security_deposit", "is_available",
		"amenities", "images", "created_at", "updated_at",
	}
}

func newContractHandler(t *testing.T) (*ContractHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	properties := repository.NewPropertyRepo(db)
	tenants := repository.NewTenantRepo(db)
	contracts := repository.NewContractRepo(db)
	return NewContractHandler(contracts, properties, tenants, policy.New(properties, tenants)), mock
}

func validContractBody() map[string]any {
	return map[string]any{
		"property_id":      5,
		"tenant_id":        2,
		"start_date":       "2026-10-01",
		"end_date":         "2027-09-30",
		"monthly_rent":     18000,
		"security_deposit": 36000,
	}
}

// An omitted payment_due_day falls back to the 1st of the month.
func TestContractCreateDefaultsPaymentDueDayToFirst(t *testing.T) {
	h, mock := newContractHandler(t)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 9, 30, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(propertyCols()).AddRow(
			5, 1, "Flat", nil, "Apartment", "addr", "Pune", "MH", "411001",
			"India", 2, 1.0, nil, 18000.0, 36000.0, true, nil, nil,
			"2026-01-01 00:00:00", "2026-01-01 00:00:00"))
	mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE id = \?`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "date_of_birth", "occupation", "employer",
			"annual_income", "identification_type", "identification_number",
			"emergency_contact_name", "emergency_contact_phone",
			"references_json", "created_at", "updated_at",
		}).AddRow(2, 9, nil, nil, nil, nil, "passport", "P1", nil, nil, nil, now, now))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO rental_contracts`).
		WithArgs(5, 2, start, end, 18000.0, 36000.0, true, 1, nil, false, false, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`UPDATE properties SET is_available = FALSE`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM rental_contracts WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "property_id", "tenant_id", "start_date", "end_date",
			"monthly_rent", "security_deposit", "is_active", "payment_due_day",
			"contract_terms", "signed_by_owner", "signed_by_tenant",
			"contract_file_url", "created_at", "updated_at",
		}).AddRow(7, 5, 2, start, end, 18000.0, 36000.0, true, 1,
			nil, false, false, nil, now, now))
	mock.ExpectCommit()

	c, rec := newTestContext(t, http.MethodPost, "/v1/contracts", validContractBody(),
		repository.User{ID: 1, IsActive: true, IsPropertyOwner: true})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payment_due_day":1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractCreateRejectsInvertedDates(t *testing.T) {
	h, _ := newContractHandler(t)

	body := validContractBody()
	body["start_date"] = "2027-09-30"
	body["end_date"] = "2026-10-01"
	c, rec := newTestContext(t, http.MethodPost, "/v1/contracts", body,
		repository.User{ID: 1, IsActive: true, IsPropertyOwner: true})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "start_date must be before end_date")
}

func TestContractCreateMissingProperty(t *testing.T) {
	h, mock := newContractHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(propertyCols()))

	c, rec := newTestContext(t, http.MethodPost, "/v1/contracts", validContractBody(),
		repository.User{ID: 1, IsActive: true, IsPropertyOwner: true})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "property not found")
}

func TestContractCreateForeignProperty(t *testing.T) {
	h, mock := newContractHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(propertyCols()).AddRow(
			5, 100, "Flat", nil, "Apartment", "addr", "Pune", "MH", "411001",
			"India", 2, 1.0, nil, 18000.0, 36000.0, true, nil, nil,
			"2026-01-01 00:00:00", "2026-01-01 00:00:00"))

	c, rec := newTestContext(t, http.MethodPost, "/v1/contracts", validContractBody(),
		repository.User{ID: 1, IsActive: true, IsPropertyOwner: true})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not your property")
}

func TestContractCreateUnavailableProperty(t *testing.T) {
	h, mock := newContractHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(propertyCols()).AddRow(
			5, 1, "Flat", nil, "Apartment", "addr", "Pune", "MH", "411001",
			"India", 2, 1.0, nil, 18000.0, 36000.0, false, nil, nil,
			"2026-01-01 00:00:00", "2026-01-01 00:00:00"))

	c, rec := newTestContext(t, http.MethodPost, "/v1/contracts", validContractBody(),
		repository.User{ID: 1, IsActive: true, IsPropertyOwner: true})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not available")
}

func TestContractCreateMissingTenant(t *testing.T) {
	h, mock := newContractHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(propertyCols()).AddRow(
			5, 1, "Flat", nil, "Apartment", "addr", "Pune", "MH", "411001",
			"India", 2, 1.0, nil, 18000.0, 36000.0, true, nil, nil,
			"2026-01-01 00:00:00", "2026-01-01 00:00:00"))
	mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE id = \?`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newTestContext(t, http.MethodPost, "/v1/contracts", validContractBody(),
		repository.User{ID: 1, IsActive: true, IsPropertyOwner: true})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "tenant not found")
}

func TestContractGetForbiddenForStranger(t *testing.T) {
	h, mock := newContractHandler(t)

	contractCols := []string{
		"id", "property_id", "tenant_id", "start_date", "end_date",
		"monthly_rent", "security_deposit", "is_active", "payment_due_day",
		"contract_terms", "signed_by_owner", "signed_by_tenant",
		"contract_file_url", "created_at", "updated_at",
	}
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 9, 30, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT (.+) FROM rental_contracts WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(contractCols).AddRow(
			7, 5, 2, start, end,
			18000.0, 36000.0, true, 5, nil, false, false, nil,
			now, now))

	c, rec := newTestContext(t, http.MethodGet, "/v1/contracts/7", nil,
		repository.User{ID: 50, IsActive: true})
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
