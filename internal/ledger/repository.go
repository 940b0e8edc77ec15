package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jimohammad/po-sub000/internal/shared"
)

// Repository provides PostgreSQL backed extraction of ledger events.
// Amounts are selected as text so the normalizer owns decimal parsing
// and its malformed-row recovery.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetParty returns the party projection, or nil when the id is unknown.
func (r *Repository) GetParty(ctx context.Context, id int64) (*Party, error) {
	var p Party
	err := r.pool.QueryRow(ctx,
		`SELECT id, type, name FROM parties WHERE id = $1`, id,
	).Scan(&p.ID, &p.Type, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListSales returns sale invoices for a customer within the range.
func (r *Repository) ListSales(ctx context.Context, customerID int64, rng shared.DateRange, branchID int64) ([]SourceRow, error) {
	query := `
		SELECT id, sale_date, total_amount::text, 'Invoice ' || number
		FROM sales
		WHERE customer_id = $1`
	return r.listRows(ctx, query, "sale_date", []any{customerID}, rng, branchID)
}

// ListPurchases returns purchase bills for a supplier within the range.
func (r *Repository) ListPurchases(ctx context.Context, supplierID int64, rng shared.DateRange, branchID int64) ([]SourceRow, error) {
	query := `
		SELECT id, purchase_date, total_amount::text, 'Bill ' || number
		FROM purchases
		WHERE supplier_id = $1`
	return r.listRows(ctx, query, "purchase_date", []any{supplierID}, rng, branchID)
}

// ListPayments returns payments of one direction for a party.
func (r *Repository) ListPayments(ctx context.Context, partyID int64, direction Direction, rng shared.DateRange, branchID int64) ([]SourceRow, error) {
	query := `
		SELECT id, paid_on, amount::text, 'Payment ' || number || COALESCE(' (' || method || ')', '')
		FROM payments
		WHERE party_id = $1 AND direction = $2`
	return r.listRows(ctx, query, "paid_on", []any{partyID, string(direction)}, rng, branchID)
}

// ListReturns returns sale or purchase returns for a party.
func (r *Repository) ListReturns(ctx context.Context, partyID int64, origin ReturnOrigin, rng shared.DateRange, branchID int64) ([]ReturnRow, error) {
	query := `
		SELECT id, returned_on, amount::text, 'Return ' || number
		FROM returns
		WHERE party_id = $1 AND origin = $2`
	rows, err := r.listRows(ctx, query, "returned_on", []any{partyID, string(origin)}, rng, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]ReturnRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ReturnRow{SourceRow: row, Origin: origin})
	}
	return out, nil
}

// GetOpeningBalance returns the seed row for the party, or nil when the
// party has none. With a branch scope the branch-specific row wins over
// the company-wide one.
func (r *Repository) GetOpeningBalance(ctx context.Context, partyID int64, branchID int64) (*OpeningRow, error) {
	query := `
		SELECT amount::text, effective_date
		FROM opening_balances
		WHERE party_id = $1 AND branch_id IS NULL`
	args := []any{partyID}
	if branchID > 0 {
		query = `
			SELECT amount::text, effective_date
			FROM opening_balances
			WHERE party_id = $1 AND (branch_id = $2 OR branch_id IS NULL)
			ORDER BY branch_id NULLS LAST
			LIMIT 1`
		args = append(args, branchID)
	}

	var row OpeningRow
	err := r.pool.QueryRow(ctx, query, args...).Scan(&row.Amount, &row.EffectiveDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// listRows runs one source query with the shared range and branch
// filters appended. Bounds are inclusive on both ends.
func (r *Repository) listRows(ctx context.Context, query, dateColumn string, args []any, rng shared.DateRange, branchID int64) ([]SourceRow, error) {
	argNum := len(args) + 1

	if !rng.From.IsZero() {
		query += fmt.Sprintf(" AND %s >= $%d", dateColumn, argNum)
		args = append(args, rng.From)
		argNum++
	}
	if !rng.To.IsZero() {
		query += fmt.Sprintf(" AND %s <= $%d", dateColumn, argNum)
		args = append(args, rng.To)
		argNum++
	}
	if branchID > 0 {
		query += fmt.Sprintf(" AND branch_id = $%d", argNum)
		args = append(args, branchID)
	}
	query += fmt.Sprintf(" ORDER BY %s, id", dateColumn)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceRow
	for rows.Next() {
		var row SourceRow
		if err := rows.Scan(&row.ID, &row.Date, &row.Amount, &row.Description); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
