package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// RentPayment records a single rent payment against a contract. Payments
// are append-only: no update or delete path is exposed. LateFee is only
// meaningful when IsLate is set.
type RentPayment struct {
	ID            uint64    `json:"id"`
	ContractID    uint64    `json:"contract_id"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
	TransactionID string    `json:"transaction_id"`
	IsLate        bool      `json:"is_late"`
	LateFee       float64   `json:"late_fee"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ErrPaymentNotFound is returned when a payment cannot be found.
var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = `id, contract_id, amount, payment_date, payment_method,
	transaction_id, is_late, late_fee, notes, created_at`

func scanPayment(sc interface{ Scan(...any) error }) (*RentPayment, error) {
	p := new(RentPayment)
	err := sc.Scan(&p.ID, &p.ContractID, &p.Amount, &p.PaymentDate, &p.PaymentMethod,
		&p.TransactionID, &p.IsLate, &p.LateFee, &p.Notes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create appends a payment record. No duplicate or overlap validation is
// performed; callers may record arbitrary payments.
func (r *PaymentRepo) Create(ctx context.Context, p *RentPayment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rent_payments (contract_id, amount, payment_date, payment_method,
		 transaction_id, is_late, late_fee, notes)
		 VALUES (?,?,?,?,?,?,?,?)`,
		p.ContractID, p.Amount, p.PaymentDate, p.PaymentMethod,
		p.TransactionID, p.IsLate, p.LateFee, p.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	got, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM rent_payments WHERE id = ?", p.ID))
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// ListByContract returns payments of a contract ordered by payment date.
func (r *PaymentRepo) ListByContract(ctx context.Context, contractID uint64, skip, limit int) ([]*RentPayment, error) {
	const q = "SELECT " + paymentCols + ` FROM rent_payments
	           WHERE contract_id = ? ORDER BY payment_date, id LIMIT ? OFFSET ?`
	return r.list(ctx, q, contractID, limit, skip)
}

// ListLateByOwner returns late payments across every contract whose
// property belongs to the owner. Late fees are recorded by callers, not
// computed by a scheduler; this query is the on-demand view over them.
func (r *PaymentRepo) ListLateByOwner(ctx context.Context, ownerID uint64, skip, limit int) ([]*RentPayment, error) {
	const q = `SELECT rp.id, rp.contract_id, rp.amount, rp.payment_date, rp.payment_method,
	           rp.transaction_id, rp.is_late, rp.late_fee, rp.notes, rp.created_at
	           FROM rent_payments rp
	           JOIN rental_contracts c ON c.id = rp.contract_id
	           JOIN properties p ON p.id = c.property_id
	           WHERE p.owner_id = ? AND rp.is_late = TRUE
	           ORDER BY rp.payment_date DESC LIMIT ? OFFSET ?`
	return r.list(ctx, q, ownerID, limit, skip)
}

func (r *PaymentRepo) list(ctx context.Context, q string, args ...any) ([]*RentPayment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RentPayment
	for rows.Next() {
		p, err := scanPayment(rows)
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
