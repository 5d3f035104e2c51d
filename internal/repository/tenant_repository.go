// This file defines the Tenant profile model and its repository. A tenant
// profile is a one-to-one extension of a user carrying rental-application
// data. Creating a profile also promotes the owning user to the tenant
// role; both writes happen in one transaction so the role flag can never
// diverge from the profile row.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Tenant represents a row in the 'tenants' table. UserID is unique: at
// most one profile per user. IdentificationNumber is globally unique.
type Tenant struct {
	ID                    uint64     `json:"id"`
	UserID                uint64     `json:"user_id"`
	DateOfBirth           *time.Time `json:"date_of_birth,omitempty"`
	Occupation            *string    `json:"occupation,omitempty"`
	Employer              *string    `json:"employer,omitempty"`
	AnnualIncome          *int64     `json:"annual_income,omitempty"`
	IdentificationType    string     `json:"identification_type"`
	IdentificationNumber  string     `json:"identification_number"`
	EmergencyContactName  *string    `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone,omitempty"`
	References            *string    `json:"references,omitempty"` // JSON blob supplied by the client
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// ErrTenantNotFound is returned when a tenant profile cannot be found.
var ErrTenantNotFound = errors.New("tenant not found")

// ErrIdentificationExists is returned when the identification number is
// already registered, by this user or anyone else.
var ErrIdentificationExists = errors.New("identification number already registered")

type TenantRepo struct {
	db *sql.DB
}

func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{db: db} }

const tenantCols = `id, user_id, date_of_birth, occupation, employer, annual_income,
	identification_type, identification_number, emergency_contact_name,
	emergency_contact_phone, references_json, created_at, updated_at`

func scanTenant(sc interface{ Scan(...any) error }) (*Tenant, error) {
	t := new(Tenant)
	err := sc.Scan(&t.ID, &t.UserID, &t.DateOfBirth, &t.Occupation, &t.Employer,
		&t.AnnualIncome, &t.IdentificationType, &t.IdentificationNumber,
		&t.EmergencyContactName, &t.EmergencyContactPhone, &t.References,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a tenant profile and flips the owning user's is_tenant
// flag in the same transaction. A duplicate identification number maps
// to ErrIdentificationExists; a duplicate user_id maps to ErrConflict
// (the user already has a profile).
func (r *TenantRepo) Create(ctx context.Context, t *Tenant) error {
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
		`INSERT INTO tenants (user_id, date_of_birth, occupation, employer, annual_income,
		 identification_type, identification_number, emergency_contact_name,
		 emergency_contact_phone, references_json)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		t.UserID, t.DateOfBirth, t.Occupation, t.Employer, t.AnnualIncome,
		t.IdentificationType, t.IdentificationNumber, t.EmergencyContactName,
		t.EmergencyContactPhone, t.References)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			if strings.Contains(err.Error(), "identification") {
				err = ErrIdentificationExists
				return err
			}
			err = ErrConflict
			return err
		}
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET is_tenant = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		t.UserID); err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx,
		"SELECT "+tenantCols+" FROM tenants WHERE id = ?", t.ID).
		Scan(&t.ID, &t.UserID, &t.DateOfBirth, &t.Occupation, &t.Employer,
			&t.AnnualIncome, &t.IdentificationType, &t.IdentificationNumber,
			&t.EmergencyContactName, &t.EmergencyContactPhone, &t.References,
			&t.CreatedAt, &t.UpdatedAt)
	return err
}

// GetByID fetches a tenant profile by its ID.
func (r *TenantRepo) GetByID(ctx context.Context, id uint64) (*Tenant, error) {
	t, err := scanTenant(r.db.QueryRowContext(ctx,
		"SELECT "+tenantCols+" FROM tenants WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	return t, err
}

// GetByUserID fetches the tenant profile linked to a user, if any.
func (r *TenantRepo) GetByUserID(ctx context.Context, userID uint64) (*Tenant, error) {
	t, err := scanTenant(r.db.QueryRowContext(ctx,
		"SELECT "+tenantCols+" FROM tenants WHERE user_id = ?", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	return t, err
}

// GetByIdentification fetches a tenant profile by identification number.
func (r *TenantRepo) GetByIdentification(ctx context.Context, number string) (*Tenant, error) {
	t, err := scanTenant(r.db.QueryRowContext(ctx,
		"SELECT "+tenantCols+" FROM tenants WHERE identification_number = ?", number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	return t, err
}

// Update writes every mutable column of the profile. Handlers merge
// partial input into the loaded record first, matching the load-merge-
// write pattern used across this codebase.
func (r *TenantRepo) Update(ctx context.Context, t *Tenant) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tenants
		 SET date_of_birth = ?, occupation = ?, employer = ?, annual_income = ?,
		     identification_type = ?, identification_number = ?,
		     emergency_contact_name = ?, emergency_contact_phone = ?,
		     references_json = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		t.DateOfBirth, t.Occupation, t.Employer, t.AnnualIncome,
		t.IdentificationType, t.IdentificationNumber,
		t.EmergencyContactName, t.EmergencyContactPhone, t.References, t.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrIdentificationExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTenantNotFound
	}
	return nil
}
