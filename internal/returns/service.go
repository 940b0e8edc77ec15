package returns

import (
	"context"
	"fmt"

	"github.com/jimohammad/po-sub000/internal/platform/httpx"
)

// RepositoryPort defines data access methods for return notes.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateReturnInput) (*Return, error)
	Get(ctx context.Context, id int64) (*Return, error)
	List(ctx context.Context, req ListReturnsRequest) ([]Return, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles return note business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create validates and records a return note. The note is independent
// of any particular invoice or bill; only party, origin, date and
// amount matter for the balance.
func (s *Service) Create(ctx context.Context, input CreateReturnInput) (*Return, error) {
	if input.PartyID <= 0 {
		return nil, fmt.Errorf("%w: party ID required", httpx.ErrValidation)
	}
	if !input.Origin.Valid() {
		return nil, fmt.Errorf("%w: origin must be sale or purchase", httpx.ErrValidation)
	}
	if input.ReturnedOn.IsZero() {
		return nil, fmt.Errorf("%w: return date required", httpx.ErrValidation)
	}
	if input.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", httpx.ErrValidation)
	}
	input.Amount = input.Amount.Round(3)
	return s.repo.Create(ctx, input)
}

// Get returns one return note.
func (s *Service) Get(ctx context.Context, id int64) (*Return, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// List returns return notes matching the request.
func (s *Service) List(ctx context.Context, req ListReturnsRequest) ([]Return, error) {
	if req.Origin != "" && !req.Origin.Valid() {
		return nil, fmt.Errorf("%w: origin must be sale or purchase", httpx.ErrValidation)
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Delete removes a return note.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
