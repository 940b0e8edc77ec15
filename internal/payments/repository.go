package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates voucher not found.
var ErrNotFound = errors.New("payments: not found")

// Repository provides PostgreSQL backed persistence for vouchers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a voucher, generating a number when none was supplied.
func (r *Repository) Create(ctx context.Context, input CreatePaymentInput) (*Payment, error) {
	number := input.Number
	if number == "" {
		if err := r.pool.QueryRow(ctx,
			`SELECT 'PAY-' || LPAD(nextval('payment_number_seq')::text, 6, '0')`,
		).Scan(&number); err != nil {
			return nil, err
		}
	}

	payment := Payment{
		Number:    number,
		PartyID:   input.PartyID,
		BranchID:  input.BranchID,
		Direction: input.Direction,
		PaidOn:    input.PaidOn,
		Amount:    input.Amount,
		Method:    input.Method,
		Note:      input.Note,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO payments (number, party_id, branch_id, direction, paid_on, amount, method, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		number, input.PartyID, input.BranchID, input.Direction, input.PaidOn, input.Amount, input.Method, input.Note,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Get retrieves one voucher.
func (r *Repository) Get(ctx context.Context, id int64) (*Payment, error) {
	var payment Payment
	var method *string
	err := r.pool.QueryRow(ctx, `
		SELECT id, number, party_id, branch_id, direction, paid_on, amount, method, note, created_at, updated_at
		FROM payments
		WHERE id = $1`, id,
	).Scan(
		&payment.ID, &payment.Number, &payment.PartyID, &payment.BranchID,
		&payment.Direction, &payment.PaidOn, &payment.Amount, &method, &payment.Note,
		&payment.CreatedAt, &payment.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if method != nil {
		payment.Method = *method
	}
	return &payment, nil
}

// List returns vouchers with optional filtering.
func (r *Repository) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, error) {
	query := `
		SELECT id, number, party_id, branch_id, direction, paid_on, amount, method, note, created_at, updated_at
		FROM payments
		WHERE 1=1`

	args := []any{}
	argNum := 1

	if req.PartyID > 0 {
		query += fmt.Sprintf(" AND party_id = $%d", argNum)
		args = append(args, req.PartyID)
		argNum++
	}
	if req.Direction != "" {
		query += fmt.Sprintf(" AND direction = $%d", argNum)
		args = append(args, req.Direction)
		argNum++
	}
	if !req.From.IsZero() {
		query += fmt.Sprintf(" AND paid_on >= $%d", argNum)
		args = append(args, req.From)
		argNum++
	}
	if !req.To.IsZero() {
		query += fmt.Sprintf(" AND paid_on <= $%d", argNum)
		args = append(args, req.To)
		argNum++
	}

	query += " ORDER BY paid_on DESC, id DESC"

	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, req.Limit)
		argNum++
	}
	if req.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var payment Payment
		var method *string
		err := rows.Scan(
			&payment.ID, &payment.Number, &payment.PartyID, &payment.BranchID,
			&payment.Direction, &payment.PaidOn, &payment.Amount, &method, &payment.Note,
			&payment.CreatedAt, &payment.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if method != nil {
			payment.Method = *method
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// Delete removes a voucher.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
