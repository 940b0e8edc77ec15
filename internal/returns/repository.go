package returns

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates return note not found.
var ErrNotFound = errors.New("returns: not found")

// Repository provides PostgreSQL backed persistence for return notes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a return note, generating a number when none was supplied.
func (r *Repository) Create(ctx context.Context, input CreateReturnInput) (*Return, error) {
	number := input.Number
	if number == "" {
		if err := r.pool.QueryRow(ctx,
			`SELECT 'RET-' || LPAD(nextval('return_number_seq')::text, 6, '0')`,
		).Scan(&number); err != nil {
			return nil, err
		}
	}

	ret := Return{
		Number:     number,
		PartyID:    input.PartyID,
		BranchID:   input.BranchID,
		Origin:     input.Origin,
		ReturnedOn: input.ReturnedOn,
		Amount:     input.Amount,
		Reason:     input.Reason,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO returns (number, party_id, branch_id, origin, returned_on, amount, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		number, input.PartyID, input.BranchID, input.Origin, input.ReturnedOn, input.Amount, input.Reason,
	).Scan(&ret.ID, &ret.CreatedAt, &ret.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// Get retrieves one return note.
func (r *Repository) Get(ctx context.Context, id int64) (*Return, error) {
	var ret Return
	err := r.pool.QueryRow(ctx, `
		SELECT id, number, party_id, branch_id, origin, returned_on, amount, reason, created_at, updated_at
		FROM returns
		WHERE id = $1`, id,
	).Scan(
		&ret.ID, &ret.Number, &ret.PartyID, &ret.BranchID,
		&ret.Origin, &ret.ReturnedOn, &ret.Amount, &ret.Reason,
		&ret.CreatedAt, &ret.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// List returns return notes with optional filtering.
func (r *Repository) List(ctx context.Context, req ListReturnsRequest) ([]Return, error) {
	query := `
		SELECT id, number, party_id, branch_id, origin, returned_on, amount, reason, created_at, updated_at
		FROM returns
		WHERE 1=1`

	args := []any{}
	argNum := 1

	if req.PartyID > 0 {
		query += fmt.Sprintf(" AND party_id = $%d", argNum)
		args = append(args, req.PartyID)
		argNum++
	}
	if req.Origin != "" {
		query += fmt.Sprintf(" AND origin = $%d", argNum)
		args = append(args, req.Origin)
		argNum++
	}
	if !req.From.IsZero() {
		query += fmt.Sprintf(" AND returned_on >= $%d", argNum)
		args = append(args, req.From)
		argNum++
	}
	if !req.To.IsZero() {
		query += fmt.Sprintf(" AND returned_on <= $%d", argNum)
		args = append(args, req.To)
		argNum++
	}

	query += " ORDER BY returned_on DESC, id DESC"

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

	var rets []Return
	for rows.Next() {
		var ret Return
		err := rows.Scan(
			&ret.ID, &ret.Number, &ret.PartyID, &ret.BranchID,
			&ret.Origin, &ret.ReturnedOn, &ret.Amount, &ret.Reason,
			&ret.CreatedAt, &ret.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rets = append(rets, ret)
	}
	return rets, rows.Err()
}

// Delete removes a return note.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM returns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
