package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func propertyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "title", "description", "property_type", "address",
		"city", "state", "zip_code", "country", "bedrooms", "bathrooms",
		"area_sqft", "monthly_rent", "security_deposit", "is_available",
		"amenities", "images", "created_at", "updated_at",
	})
}

func TestPropertySearchCombinesFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPropertyRepo(db)

	rows := propertyRows().AddRow(
		3, 1, "Sunny 2BHK", nil, "Apartment", "12 Hill Rd",
		"Pune", "MH", "411001", "India", 2, 1.0,
		nil, 18000.0, 36000.0, true,
		nil, nil, "2026-01-01 00:00:00", "2026-01-01 00:00:00",
	)
	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE is_available = TRUE AND city = \? AND bedrooms >= \? AND monthly_rent <= \? ORDER BY id LIMIT \? OFFSET \?`).
		WithArgs("Pune", 2, 20000.0, 50, 0).
		WillReturnRows(rows)

	got, err := repo.Search(context.Background(), PropertyFilter{
		City:        "Pune",
		MinBedrooms: 2,
		MaxRent:     20000,
	}, 0, 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(3), got[0].ID)
	assert.Equal(t, "Pune", got[0].City)
	assert.True(t, got[0].IsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertySearchEmptyFilterListsAvailableOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPropertyRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE is_available = TRUE ORDER BY id LIMIT \? OFFSET \?`).
		WithArgs(100, 0).
		WillReturnRows(propertyRows())

	got, err := repo.Search(context.Background(), PropertyFilter{}, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPropertyRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM properties WHERE id = \?`).
		WithArgs(99).
		WillReturnRows(propertyRows())

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyDeleteMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPropertyRepo(db)

	mock.ExpectExec(`DELETE FROM properties WHERE id = \?`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
