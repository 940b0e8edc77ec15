package purchasing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jimohammad/po-sub000/internal/platform/db"
)

// ErrNotFound indicates bill not found.
var ErrNotFound = errors.New("purchasing: not found")

// Repository provides PostgreSQL backed persistence for purchase bills.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the bill header and its lines in one transaction.
func (r *Repository) Create(ctx context.Context, input CreatePurchaseInput, total decimal.Decimal, lines []PurchaseLine) (*Purchase, error) {
	var purchase Purchase
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		number := input.Number
		if number == "" {
			if err := tx.QueryRow(ctx,
				`SELECT 'BILL-' || LPAD(nextval('purchase_number_seq')::text, 6, '0')`,
			).Scan(&number); err != nil {
				return err
			}
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO purchases (number, supplier_id, branch_id, purchase_date, total_amount, note, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			number, input.SupplierID, input.BranchID, input.PurchaseDate, total, input.Note,
		).Scan(&purchase.ID, &purchase.CreatedAt, &purchase.UpdatedAt)
		if err != nil {
			return err
		}

		purchase.Number = number
		purchase.SupplierID = input.SupplierID
		purchase.BranchID = input.BranchID
		purchase.PurchaseDate = input.PurchaseDate
		purchase.TotalAmount = total
		purchase.Note = input.Note

		for i := range lines {
			line := &lines[i]
			line.PurchaseID = purchase.ID
			if err := tx.QueryRow(ctx, `
				INSERT INTO purchase_lines (purchase_id, description, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`,
				purchase.ID, line.Description, line.Quantity, line.UnitPrice, line.LineTotal,
			).Scan(&line.ID); err != nil {
				return err
			}
		}
		purchase.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// Get retrieves a bill with its lines.
func (r *Repository) Get(ctx context.Context, id int64) (*Purchase, error) {
	var purchase Purchase
	err := r.pool.QueryRow(ctx, `
		SELECT id, number, supplier_id, branch_id, purchase_date, total_amount, note, created_at, updated_at
		FROM purchases
		WHERE id = $1`, id,
	).Scan(
		&purchase.ID, &purchase.Number, &purchase.SupplierID, &purchase.BranchID,
		&purchase.PurchaseDate, &purchase.TotalAmount, &purchase.Note,
		&purchase.CreatedAt, &purchase.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, purchase_id, description, quantity, unit_price, line_total
		FROM purchase_lines
		WHERE purchase_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line PurchaseLine
		if err := rows.Scan(&line.ID, &line.PurchaseID, &line.Description, &line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, err
		}
		purchase.Lines = append(purchase.Lines, line)
	}
	return &purchase, rows.Err()
}

// List returns bills with optional filtering.
func (r *Repository) List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, error) {
	query := `
		SELECT id, number, supplier_id, branch_id, purchase_date, total_amount, note, created_at, updated_at
		FROM purchases
		WHERE 1=1`

	args := []any{}
	argNum := 1

	if req.SupplierID > 0 {
		query += fmt.Sprintf(" AND supplier_id = $%d", argNum)
		args = append(args, req.SupplierID)
		argNum++
	}
	if !req.From.IsZero() {
		query += fmt.Sprintf(" AND purchase_date >= $%d", argNum)
		args = append(args, req.From)
		argNum++
	}
	if !req.To.IsZero() {
		query += fmt.Sprintf(" AND purchase_date <= $%d", argNum)
		args = append(args, req.To)
		argNum++
	}

	query += " ORDER BY purchase_date DESC, id DESC"

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

	var purchases []Purchase
	for rows.Next() {
		var purchase Purchase
		err := rows.Scan(
			&purchase.ID, &purchase.Number, &purchase.SupplierID, &purchase.BranchID,
			&purchase.PurchaseDate, &purchase.TotalAmount, &purchase.Note,
			&purchase.CreatedAt, &purchase.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}

// Delete removes a bill and its lines in one transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1`, id); err != nil {
			return err
		}
		result, err := tx.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
