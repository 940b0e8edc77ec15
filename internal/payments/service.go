package payments

import (
	"context"
	"fmt"

	"github.com/jimohammad/po-sub000/internal/platform/httpx"
)

// RepositoryPort defines data access methods for payments.
type RepositoryPort interface {
	Create(ctx context.Context, input CreatePaymentInput) (*Payment, error)
	Get(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]Payment, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles payments business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create validates and records a voucher. Amounts are stored positive;
// the direction decides the sign on statements.
func (s *Service) Create(ctx context.Context, input CreatePaymentInput) (*Payment, error) {
	if input.PartyID <= 0 {
		return nil, fmt.Errorf("%w: party ID required", httpx.ErrValidation)
	}
	if !input.Direction.Valid() {
		return nil, fmt.Errorf("%w: direction must be in or out", httpx.ErrValidation)
	}
	if input.PaidOn.IsZero() {
		return nil, fmt.Errorf("%w: payment date required", httpx.ErrValidation)
	}
	if input.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", httpx.ErrValidation)
	}
	input.Amount = input.Amount.Round(3)
	return s.repo.Create(ctx, input)
}

// Get returns one voucher.
func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// List returns vouchers matching the request.
func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, error) {
	if req.Direction != "" && !req.Direction.Valid() {
		return nil, fmt.Errorf("%w: direction must be in or out", httpx.ErrValidation)
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Delete removes a voucher.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
