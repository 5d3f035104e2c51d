// This file defines the RentalContract model and repository. The contract
// is the aggregate root for rent payments and maintenance requests.
// Creating a contract also marks the referenced property unavailable;
// both writes commit or roll back as one transaction so the availability
// flag can never diverge from the contract table.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// RentalContract represents a row in the 'rental_contracts' table binding
// one property to one tenant over a date range.
type RentalContract struct {
	ID              uint64    `json:"id"`
	PropertyID      uint64    `json:"property_id"`
	TenantID        uint64    `json:"tenant_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MonthlyRent     float64   `json:"monthly_rent"`
	SecurityDeposit float64   `json:"security_deposit"`
	IsActive        bool      `json:"is_active"`
	PaymentDueDay   int       `json:"payment_due_day"` // day of month rent is due
	ContractTerms   *string   `json:"contract_terms,omitempty"`
	SignedByOwner   bool      `json:"signed_by_owner"`
	SignedByTenant  bool      `json:"signed_by_tenant"`
	ContractFileURL *string   `json:"contract_file_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ErrContractNotFound is returned when a contract cannot be found.
var ErrContractNotFound = errors.New("contract not found")

// ContractRepo encapsulates all database queries related to rental
// contracts.
type ContractRepo struct {
	db *sql.DB
}

func NewContractRepo(db *sql.DB) *ContractRepo { return &ContractRepo{db: db} }

// DB exposes the underlying handle for callers that need to compose
// transactions across repositories.
func (r *ContractRepo) DB() *sql.DB { return r.db }

const contractCols = `id, property_id, tenant_id, start_date, end_date, monthly_rent,
	security_deposit, is_active, payment_due_day, contract_terms, signed_by_owner,
	signed_by_tenant, contract_file_url, created_at, updated_at`

func scanContract(sc interface{ Scan(...any) error }) (*RentalContract, error) {
	ct := new(RentalContract)
	err := sc.Scan(&ct.ID, &ct.PropertyID, &ct.TenantID, &ct.StartDate, &ct.EndDate,
		&ct.MonthlyRent, &ct.SecurityDeposit, &ct.IsActive, &ct.PaymentDueDay,
		&ct.ContractTerms, &ct.SignedByOwner, &ct.SignedByTenant,
		&ct.ContractFileURL, &ct.CreatedAt, &ct.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// Create inserts the contract and sets the referenced property's
// is_available flag to false within a single transaction. Callers must
// have resolved property ownership and tenant existence beforehand.
func (r *ContractRepo) Create(ctx context.Context, ct *RentalContract) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO rental_contracts (property_id, tenant_id, start_date, end_date,
		 monthly_rent, security_deposit, is_active, payment_due_day, contract_terms,
		 signed_by_owner, signed_by_tenant, contract_file_url)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		ct.PropertyID, ct.TenantID, ct.StartDate, ct.EndDate, ct.MonthlyRent,
		ct.SecurityDeposit, ct.IsActive, ct.PaymentDueDay, ct.ContractTerms,
		ct.SignedByOwner, ct.SignedByTenant, ct.ContractFileURL)
	if err != nil {
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	ct.ID = uint64(id)

	if _, err = tx.ExecContext(ctx,
		`UPDATE properties SET is_available = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		ct.PropertyID); err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx,
		"SELECT "+contractCols+" FROM rental_contracts WHERE id = ?", ct.ID).
		Scan(&ct.ID, &ct.PropertyID, &ct.TenantID, &ct.StartDate, &ct.EndDate,
			&ct.MonthlyRent, &ct.SecurityDeposit, &ct.IsActive, &ct.PaymentDueDay,
			&ct.ContractTerms, &ct.SignedByOwner, &ct.SignedByTenant,
			&ct.ContractFileURL, &ct.CreatedAt, &ct.UpdatedAt)
	return err
}

// GetByID fetches a contract by id. ErrContractNotFound when missing.
func (r *ContractRepo) GetByID(ctx context.Context, id uint64) (*RentalContract, error) {
	ct, err := scanContract(r.db.QueryRowContext(ctx,
		"SELECT "+contractCols+" FROM rental_contracts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContractNotFound
	}
	return ct, err
}

// ListByOwner returns contracts whose property belongs to the given
// owner, ordered by id.
func (r *ContractRepo) ListByOwner(ctx context.Context, ownerID uint64, skip, limit int) ([]*RentalContract, error) {
	const q = `SELECT c.id, c.property_id, c.tenant_id, c.start_date, c.end_date,
	           c.monthly_rent, c.security_deposit, c.is_active, c.payment_due_day,
	           c.contract_terms, c.signed_by_owner, c.signed_by_tenant,
	           c.contract_file_url, c.created_at, c.updated_at
	           FROM rental_contracts c
	           JOIN properties p ON p.id = c.property_id
	           WHERE p.owner_id = ?
	           ORDER BY c.id LIMIT ? OFFSET ?`
	return r.list(ctx, q, ownerID, limit, skip)
}

// ListByTenant returns contracts linked to the given tenant profile.
func (r *ContractRepo) ListByTenant(ctx context.Context, tenantID uint64, skip, limit int) ([]*RentalContract, error) {
	const q = "SELECT " + contractCols + ` FROM rental_contracts
	           WHERE tenant_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return r.list(ctx, q, tenantID, limit, skip)
}

// ListExpiringByOwner returns active contracts on the owner's properties
// ending within the next N days. This is an on-demand query; nothing in
// the system scans for expiry in the background.
func (r *ContractRepo) ListExpiringByOwner(ctx context.Context, ownerID uint64, days, skip, limit int) ([]*RentalContract, error) {
	const q = `SELECT c.id, c.property_id, c.tenant_id, c.start_date, c.end_date,
	           c.monthly_rent, c.security_deposit, c.is_active, c.payment_due_day,
	           c.contract_terms, c.signed_by_owner, c.signed_by_tenant,
	           c.contract_file_url, c.created_at, c.updated_at
	           FROM rental_contracts c
	           JOIN properties p ON p.id = c.property_id
	           WHERE p.owner_id = ?
	             AND c.is_active = TRUE
	             AND c.end_date >= CURDATE()
	             AND c.end_date <= DATE_ADD(CURDATE(), INTERVAL ? DAY)
	           ORDER BY c.end_date LIMIT ? OFFSET ?`
	return r.list(ctx, q, ownerID, days, limit, skip)
}

func (r *ContractRepo) list(ctx context.Context, q string, args ...any) ([]*RentalContract, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RentalContract
	for rows.Next() {
		ct, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes every mutable column. There is no dedicated terminate
// transition; deactivation happens by patching is_active here.
func (r *ContractRepo) Update(ctx context.Context, ct *RentalContract) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rental_contracts
		 SET start_date = ?, end_date = ?, monthly_rent = ?, security_deposit = ?,
		     is_active = ?, payment_due_day = ?, contract_terms = ?,
		     signed_by_owner = ?, signed_by_tenant = ?, contract_file_url = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		ct.StartDate, ct.EndDate, ct.MonthlyRent, ct.SecurityDeposit, ct.IsActive,
		ct.PaymentDueDay, ct.ContractTerms, ct.SignedByOwner, ct.SignedByTenant,
		ct.ContractFileURL, ct.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContractNotFound
	}
	return nil
}
