package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/property-rental/internal/utils"
)

// User mirrors the 'users' table. Roles are boolean capability flags
// rather than an enum: a user may be a property owner and a tenant at
// the same time. IsTenant is flipped by tenant registration only, never
// at signup.
type User struct {
	ID              uint64    `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FullName        string    `json:"full_name"`
	PhoneNumber     *string   `json:"phone_number,omitempty"`
	IsActive        bool      `json:"is_active"`
	IsPropertyOwner bool      `json:"is_property_owner"`
	IsTenant        bool      `json:"is_tenant"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userCols = "id,email,password_hash,full_name,phone_number,is_active,is_property_owner,is_tenant,created_at,updated_at"

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.PhoneNumber,
		&u.IsActive, &u.IsPropertyOwner, &u.IsTenant, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID. The is_tenant flag is never
// set here; tenant registration is the only path that grants it.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName string, isPropertyOwner bool, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name, is_property_owner) VALUES (?,?,?,?)",
		email, hash, fullName, isPropertyOwner)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile persists profile fields the user may change about
// themselves. Handlers merge partial input into the current record
// before calling, so every column is written.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *User) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users
		 SET full_name = ?, phone_number = ?, password_hash = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		u.FullName, u.PhoneNumber, u.PasswordHash, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
