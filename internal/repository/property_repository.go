// This file defines the Property model and repository methods for CRUD and
// search operations. A Property is a listing owned by exactly one user
// holding the property-owner role. Availability is derived state: contract
// creation flips it off inside the contract transaction, not here.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Property represents a property listing persisted in the database.
type Property struct {
	ID              uint64   `json:"id"`
	OwnerID         uint64   `json:"owner_id"`
	Title           string   `json:"title"`
	Description     *string  `json:"description,omitempty"`
	PropertyType    string   `json:"property_type"` // Apartment, House, Condo, ...
	Address         string   `json:"address"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	ZipCode         string   `json:"zip_code"`
	Country         string   `json:"country"`
	Bedrooms        int      `json:"bedrooms"`
	Bathrooms       float64  `json:"bathrooms"`
	AreaSqft        *float64 `json:"area_sqft,omitempty"`
	MonthlyRent     float64  `json:"monthly_rent"`
	SecurityDeposit float64  `json:"security_deposit"`
	IsAvailable     bool     `json:"is_available"`
	Amenities       *string  `json:"amenities,omitempty"` // JSON string
	Images          *string  `json:"images,omitempty"`    // JSON array of URLs
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// PropertyFilter carries optional search predicates. All supplied fields
// are combined with AND; listings are always restricted to available
// properties when searching or browsing without filters.
type PropertyFilter struct {
	City         string
	State        string
	MinBedrooms  int
	MaxRent      float64
	PropertyType string
}

// Empty reports whether no filter field was supplied.
func (f PropertyFilter) Empty() bool {
	return f.City == "" && f.State == "" && f.MinBedrooms == 0 && f.MaxRent == 0 && f.PropertyType == ""
}

// ErrPropertyNotFound is returned when a property cannot be found.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyRepo encapsulates all database queries related to properties.
type PropertyRepo struct {
	db *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

const propertyCols = `id, owner_id, title, description, property_type, address, city, state,
	zip_code, country, bedrooms, bathrooms, area_sqft, monthly_rent, security_deposit,
	is_available, amenities, images, created_at, updated_at`

func scanProperty(sc interface{ Scan(...any) error }) (*Property, error) {
	p := new(Property)
	err := sc.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.PropertyType,
		&p.Address, &p.City, &p.State, &p.ZipCode, &p.Country, &p.Bedrooms,
		&p.Bathrooms, &p.AreaSqft, &p.MonthlyRent, &p.SecurityDeposit,
		&p.IsAvailable, &p.Amenities, &p.Images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new property. On success the ID, timestamp and default
// columns are populated by a follow-up SELECT so callers receive a fully
// populated record.
func (r *PropertyRepo) Create(ctx context.Context, p *Property) error {
	if p.Country == "" {
		p.Country = "India"
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO properties (owner_id, title, description, property_type, address, city,
		 state, zip_code, country, bedrooms, bathrooms, area_sqft, monthly_rent,
		 security_deposit, is_available, amenities, images)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.OwnerID, p.Title, p.Description, p.PropertyType, p.Address, p.City,
		p.State, p.ZipCode, p.Country, p.Bedrooms, p.Bathrooms, p.AreaSqft,
		p.MonthlyRent, p.SecurityDeposit, p.IsAvailable, p.Amenities, p.Images)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	got, err := scanProperty(r.db.QueryRowContext(ctx,
		"SELECT "+propertyCols+" FROM properties WHERE id = ?", p.ID))
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByID fetches a property by its ID regardless of owner. It returns
// ErrPropertyNotFound if no row is found. Ownership is enforced by the
// policy layer, not here, so missing and foreign records can be told
// apart (404 vs 403).
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx,
		"SELECT "+propertyCols+" FROM properties WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	return p, err
}

// Search returns available properties matching every supplied filter
// field, paginated. With an empty filter it degenerates to the plain
// available-properties listing.
func (r *PropertyRepo) Search(ctx context.Context, f PropertyFilter, skip, limit int) ([]*Property, error) {
	where := []string{"is_available = TRUE"}
	args := []any{}

	if f.City != "" {
		where = append(where, "city = ?")
		args = append(args, f.City)
	}
	if f.State != "" {
		where = append(where, "state = ?")
		args = append(args, f.State)
	}
	if f.MinBedrooms > 0 {
		where = append(where, "bedrooms >= ?")
		args = append(args, f.MinBedrooms)
	}
	if f.MaxRent > 0 {
		where = append(where, "monthly_rent <= ?")
		args = append(args, f.MaxRent)
	}
	if f.PropertyType != "" {
		where = append(where, "property_type = ?")
		args = append(args, f.PropertyType)
	}

	q := "SELECT " + propertyCols + " FROM properties WHERE " +
		strings.Join(where, " AND ") + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByOwner returns every property of an owner, available or not,
// ordered by id.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64, skip, limit int) ([]*Property, error) {
	const q = "SELECT " + propertyCols + ` FROM properties
	           WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, ownerID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes every mutable column. Handlers merge partial input into
// the loaded record before calling.
func (r *PropertyRepo) Update(ctx context.Context, p *Property) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE properties
		 SET title = ?, description = ?, property_type = ?, address = ?, city = ?,
		     state = ?, zip_code = ?, country = ?, bedrooms = ?, bathrooms = ?,
		     area_sqft = ?, monthly_rent = ?, security_deposit = ?, is_available = ?,
		     amenities = ?, images = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Title, p.Description, p.PropertyType, p.Address, p.City, p.State,
		p.ZipCode, p.Country, p.Bedrooms, p.Bathrooms, p.AreaSqft,
		p.MonthlyRent, p.SecurityDeposit, p.IsAvailable, p.Amenities, p.Images, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// Delete removes a property row. Ownership must already have been
// verified through the policy layer.
func (r *PropertyRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
