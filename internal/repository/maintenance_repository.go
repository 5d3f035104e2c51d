package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Maintenance request status and priority are closed sets. Any status may
// follow any other: there is deliberately no transition table, matching
// how owners actually use the workflow (e.g. reopening a rejected
// request by setting it back to pending).
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"

	PriorityLow       = "low"
	PriorityMedium    = "medium"
	PriorityHigh      = "high"
	PriorityEmergency = "emergency"
)

// ValidStatus reports whether s is one of the allowed status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the allowed priority values.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency:
		return true
	}
	return false
}

// MaintenanceRequest is a child record of a contract. Only the contract's
// tenant may create one; only the property's owner may update status,
// cost and completion fields.
type MaintenanceRequest struct {
	ID             uint64     `json:"id"`
	ContractID     uint64     `json:"contract_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	RequestDate    time.Time  `json:"request_date"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Cost           *float64   `json:"cost,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ErrRequestNotFound is returned when a maintenance request cannot be found.
var ErrRequestNotFound = errors.New("maintenance request not found")

type MaintenanceRepo struct {
	db *sql.DB
}

func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

const maintenanceCols = `id, contract_id, title, description, request_date, status,
	priority, completion_date, cost, notes, created_at, updated_at`

func scanMaintenance(sc interface{ Scan(...any) error }) (*MaintenanceRequest, error) {
	m := new(MaintenanceRequest)
	err := sc.Scan(&m.ID, &m.ContractID, &m.Title, &m.Description, &m.RequestDate,
		&m.Status, &m.Priority, &m.CompletionDate, &m.Cost, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a maintenance request and reloads the stored row.
func (r *MaintenanceRepo) Create(ctx context.Context, m *MaintenanceRequest) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO maintenance_requests (contract_id, title, description, request_date,
		 status, priority, completion_date, cost, notes)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		m.ContractID, m.Title, m.Description, m.RequestDate, m.Status,
		m.Priority, m.CompletionDate, m.Cost, m.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	got, err := scanMaintenance(r.db.QueryRowContext(ctx,
		"SELECT "+maintenanceCols+" FROM maintenance_requests WHERE id = ?", m.ID))
	if err != nil {
		return err
	}
	*m = *got
	return nil
}

// GetByID fetches a maintenance request by id.
func (r *MaintenanceRepo) GetByID(ctx context.Context, id uint64) (*MaintenanceRequest, error) {
	m, err := scanMaintenance(r.db.QueryRowContext(ctx,
		"SELECT "+maintenanceCols+" FROM maintenance_requests WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	return m, err
}

// ListByContract returns maintenance requests of a contract ordered by
// request date.
func (r *MaintenanceRepo) ListByContract(ctx context.Context, contractID uint64, skip, limit int) ([]*MaintenanceRequest, error) {
	const q = "SELECT " + maintenanceCols + ` FROM maintenance_requests
	           WHERE contract_id = ? ORDER BY request_date, id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, contractID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*MaintenanceRequest
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes the owner-mutable columns. Handlers merge partial input
// into the loaded record first.
func (r *MaintenanceRepo) Update(ctx context.Context, m *MaintenanceRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_requests
		 SET title = ?, description = ?, status = ?, priority = ?,
		     completion_date = ?, cost = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		m.Title, m.Description, m.Status, m.Priority,
		m.CompletionDate, m.Cost, m.Notes, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRequestNotFound
	}
	return nil
}
