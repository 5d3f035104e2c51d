package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "property_id", "tenant_id", "start_date", "end_date",
		"monthly_rent", "security_deposit", "is_active", "payment_due_day",
		"contract_terms", "signed_by_owner", "signed_by_tenant",
		"contract_file_url", "created_at", "updated_at",
	})
}

func TestContractCreateFlipsAvailability(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewContractRepo(db)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 9, 30, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO rental_contracts`).
		WithArgs(5, 2, start, end, 18000.0, 36000.0, true, 5, nil, false, false, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`UPDATE properties SET is_available = FALSE`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM rental_contracts WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(contractRows().AddRow(
			7, 5, 2, start, end, 18000.0, 36000.0, true, 5,
			nil, false, false, nil, now, now))
	mock.ExpectCommit()

	ct := &RentalContract{
		PropertyID:      5,
		TenantID:        2,
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     18000,
		SecurityDeposit: 36000,
		IsActive:        true,
		PaymentDueDay:   5,
	}
	require.NoError(t, repo.Create(context.Background(), ct))
	assert.Equal(t, uint64(7), ct.ID)
	assert.True(t, ct.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractCreateRollsBackWhenFlipFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewContractRepo(db)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 9, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO rental_contracts`).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`UPDATE properties SET is_available = FALSE`).
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	ct := &RentalContract{PropertyID: 5, TenantID: 2, StartDate: start, EndDate: end,
		MonthlyRent: 18000, IsActive: true, PaymentDueDay: 5}
	err = repo.Create(context.Background(), ct)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractListExpiringQueriesWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewContractRepo(db)

	mock.ExpectQuery(`JOIN properties p ON p.id = c.property_id WHERE p.owner_id = \? AND c.is_active = TRUE AND c.end_date >= CURDATE\(\) AND c.end_date <= DATE_ADD\(CURDATE\(\), INTERVAL \? DAY\)`).
		WithArgs(1, 30, 100, 0).
		WillReturnRows(contractRows())

	got, err := repo.ListExpiringByOwner(context.Background(), 1, 30, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewContractRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM rental_contracts WHERE id = \?`).
		WithArgs(404).
		WillReturnRows(contractRows())

	_, err = repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrContractNotFound)
}
