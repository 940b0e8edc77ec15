package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jimohammad/po-sub000/internal/platform/db"
)

// ErrNotFound indicates invoice not found.
var ErrNotFound = errors.New("sales: not found")

// Repository provides PostgreSQL backed persistence for sale invoices.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the invoice header and its lines in one transaction,
// so a concurrent balance computation never observes a header without
// its items.
func (r *Repository) Create(ctx context.Context, input CreateSaleInput, total decimal.Decimal, lines []SaleLine) (*Sale, error) {
	var sale Sale
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		number := input.Number
		if number == "" {
			if err := tx.QueryRow(ctx,
				`SELECT 'INV-' || LPAD(nextval('sale_number_seq')::text, 6, '0')`,
			).Scan(&number); err != nil {
				return err
			}
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO sales (number, customer_id, branch_id, sale_date, total_amount, note, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			number, input.CustomerID, input.BranchID, input.SaleDate, total, input.Note,
		).Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
		if err != nil {
			return err
		}

		sale.Number = number
		sale.CustomerID = input.CustomerID
		sale.BranchID = input.BranchID
		sale.SaleDate = input.SaleDate
		sale.TotalAmount = total
		sale.Note = input.Note

		for i := range lines {
			line := &lines[i]
			line.SaleID = sale.ID
			if err := tx.QueryRow(ctx, `
				INSERT INTO sale_lines (sale_id, description, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`,
				sale.ID, line.Description, line.Quantity, line.UnitPrice, line.LineTotal,
			).Scan(&line.ID); err != nil {
				return err
			}
		}
		sale.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Get retrieves an invoice with its lines.
func (r *Repository) Get(ctx context.Context, id int64) (*Sale, error) {
	var sale Sale
	err := r.pool.QueryRow(ctx, `
		SELECT id, number, customer_id, branch_id, sale_date, total_amount, note, created_at, updated_at
		FROM sales
		WHERE id = $1`, id,
	).Scan(
		&sale.ID, &sale.Number, &sale.CustomerID, &sale.BranchID, &sale.SaleDate,
		&sale.TotalAmount, &sale.Note, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, sale_id, description, quantity, unit_price, line_total
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line SaleLine
		if err := rows.Scan(&line.ID, &line.SaleID, &line.Description, &line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, err
		}
		sale.Lines = append(sale.Lines, line)
	}
	return &sale, rows.Err()
}

// List returns invoices with optional filtering.
func (r *Repository) List(ctx context.Context, req ListSalesRequest) ([]Sale, error) {
	query := `
		SELECT id, number, customer_id, branch_id, sale_date, total_amount, note, created_at, updated_at
		FROM sales
		WHERE 1=1`

	args := []any{}
	argNum := 1

	if req.CustomerID > 0 {
		query += fmt.Sprintf(" AND customer_id = $%d", argNum)
		args = append(args, req.CustomerID)
		argNum++
	}
	if !req.From.IsZero() {
		query += fmt.Sprintf(" AND sale_date >= $%d", argNum)
		args = append(args, req.From)
		argNum++
	}
	if !req.To.IsZero() {
		query += fmt.Sprintf(" AND sale_date <= $%d", argNum)
		args = append(args, req.To)
		argNum++
	}

	query += " ORDER BY sale_date DESC, id DESC"

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

	var sales []Sale
	for rows.Next() {
		var sale Sale
		err := rows.Scan(
			&sale.ID, &sale.Number, &sale.CustomerID, &sale.BranchID, &sale.SaleDate,
			&sale.TotalAmount, &sale.Note, &sale.CreatedAt, &sale.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// Delete removes an invoice and its lines in one transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, id); err != nil {
			return err
		}
		result, err := tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
