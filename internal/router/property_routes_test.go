package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/repository"
)

// Listings are a public storefront: both the search and the detail read
// must answer without a token, while mutations stay behind auth.
func TestPropertyReadsArePublic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	e := echo.New()
	RegisterProperties(e, handler.NewPropertyHandler(repository.NewPropertyRepo(db)),
		repository.NewUserRepo(db), "secret")

	propertyCols := []string{
		"id", "owner_id", "title", "description", "property_type", "address",
		"city", "state", "zip_code", "country", "bedrooms", "bathrooms",
		"area_sqft", "monthly_rent", "security_deposit", "is_available",
		"amenities", "images", "created_at", "updated_at",
	}
	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE is_available = TRUE`).
		WillReturnRows(sqlmock.NewRows(propertyCols))
	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE id = \?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(propertyCols).AddRow(
			3, 1, "Flat", nil, "Apartment", "addr", "Pune", "MH", "411001",
			"India", 2, 1.0, nil, 18000.0, 36000.0, true, nil, nil,
			"2026-01-01 00:00:00", "2026-01-01 00:00:00"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/properties", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/properties/3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":3`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/properties/3", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
