package party

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates party not found.
var ErrNotFound = errors.New("party: not found")

// ErrInUse indicates the party is still referenced by ledger events and
// cannot be deleted.
var ErrInUse = errors.New("party: referenced by ledger events")

const fkViolation = "23503"

// Repository provides PostgreSQL backed persistence for parties.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new party.
func (r *Repository) Create(ctx context.Context, input CreatePartyInput) (*Party, error) {
	query := `
		INSERT INTO parties (type, name, phone, email, address, credit_limit, commission_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	p := Party{
		Type:           input.Type,
		Name:           input.Name,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
		CreditLimit:    input.CreditLimit,
		CommissionRate: input.CommissionRate,
	}
	err := r.pool.QueryRow(ctx, query,
		input.Type, input.Name, input.Phone, input.Email, input.Address,
		input.CreditLimit, input.CommissionRate,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get retrieves a party by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Party, error) {
	query := `
		SELECT id, type, name, phone, email, address, credit_limit, commission_rate, created_at, updated_at
		FROM parties
		WHERE id = $1`

	var p Party
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Type, &p.Name, &p.Phone, &p.Email, &p.Address,
		&p.CreditLimit, &p.CommissionRate, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns parties with optional filtering.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Party, error) {
	query := `
		SELECT id, type, name, phone, email, address, credit_limit, commission_rate, created_at, updated_at
		FROM parties
		WHERE 1=1`

	args := []any{}
	argNum := 1

	if filters.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argNum)
		args = append(args, filters.Type)
		argNum++
	}
	if filters.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argNum)
		args = append(args, "%"+filters.Search+"%")
		argNum++
	}

	query += " ORDER BY name"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
		argNum++
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filters.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []Party
	for rows.Next() {
		var p Party
		err := rows.Scan(
			&p.ID, &p.Type, &p.Name, &p.Phone, &p.Email, &p.Address,
			&p.CreditLimit, &p.CommissionRate, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// Update edits an existing party.
func (r *Repository) Update(ctx context.Context, id int64, p Party) error {
	query := `
		UPDATE parties
		SET name = $1, phone = $2, email = $3, address = $4,
			credit_limit = $5, commission_rate = $6, updated_at = NOW()
		WHERE id = $7`

	result, err := r.pool.Exec(ctx, query,
		p.Name, p.Phone, p.Email, p.Address, p.CreditLimit, p.CommissionRate, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a party. Sales, purchases, payments, returns and
// opening balances reference parties with ON DELETE RESTRICT, so a
// party with ledger history cannot be removed.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM parties WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return ErrInUse
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOpeningBalance upserts the seed balance for a party and branch
// scope. NULL branch means company-wide.
func (r *Repository) SetOpeningBalance(ctx context.Context, input SetOpeningBalanceInput) (*OpeningBalance, error) {
	query := `
		INSERT INTO opening_balances (party_id, branch_id, amount, effective_date, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (party_id, COALESCE(branch_id, 0))
		DO UPDATE SET amount = EXCLUDED.amount, effective_date = EXCLUDED.effective_date, updated_at = NOW()
		RETURNING id, created_at`

	ob := OpeningBalance{
		PartyID:       input.PartyID,
		BranchID:      input.BranchID,
		Amount:        input.Amount,
		EffectiveDate: input.EffectiveDate,
	}
	err := r.pool.QueryRow(ctx, query,
		input.PartyID, input.BranchID, input.Amount, input.EffectiveDate,
	).Scan(&ob.ID, &ob.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ob, nil
}

// GetOpeningBalance returns the company-wide seed balance for a party.
func (r *Repository) GetOpeningBalance(ctx context.Context, partyID int64) (*OpeningBalance, error) {
	query := `
		SELECT id, party_id, branch_id, amount, effective_date, created_at
		FROM opening_balances
		WHERE party_id = $1 AND branch_id IS NULL`

	var ob OpeningBalance
	err := r.pool.QueryRow(ctx, query, partyID).Scan(
		&ob.ID, &ob.PartyID, &ob.BranchID, &ob.Amount, &ob.EffectiveDate, &ob.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ob, nil
}

// ListIDsByType returns ids of all parties of the given type. The
// balance snapshot job uses it to walk every ledger party.
func (r *Repository) ListIDsByType(ctx context.Context, t Type) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM parties WHERE type = $1 ORDER BY id`, t)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
