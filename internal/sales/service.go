package sales

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jimohammad/po-sub000/internal/platform/httpx"
)

// RepositoryPort defines data access methods for sales.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateSaleInput, total decimal.Decimal, lines []SaleLine) (*Sale, error)
	Get(ctx context.Context, id int64) (*Sale, error)
	List(ctx context.Context, req ListSalesRequest) ([]Sale, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles sales business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create validates an invoice, computes line and header totals at KWD
// precision, and persists atomically.
func (s *Service) Create(ctx context.Context, input CreateSaleInput) (*Sale, error) {
	if input.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customer ID required", httpx.ErrValidation)
	}
	if input.SaleDate.IsZero() {
		return nil, fmt.Errorf("%w: sale date required", httpx.ErrValidation)
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line item required", httpx.ErrValidation)
	}

	total := decimal.Zero
	lines := make([]SaleLine, 0, len(input.Lines))
	for _, in := range input.Lines {
		if in.Quantity.Sign() <= 0 {
			return nil, fmt.Errorf("%w: line quantity must be positive", httpx.ErrValidation)
		}
		if in.UnitPrice.Sign() < 0 {
			return nil, fmt.Errorf("%w: line unit price cannot be negative", httpx.ErrValidation)
		}
		lineTotal := in.Quantity.Mul(in.UnitPrice).Round(3)
		total = total.Add(lineTotal).Round(3)
		lines = append(lines, SaleLine{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   lineTotal,
		})
	}
	if total.Sign() <= 0 {
		return nil, fmt.Errorf("%w: invoice total must be positive", httpx.ErrValidation)
	}

	return s.repo.Create(ctx, input, total, lines)
}

// Get returns one invoice with lines.
func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// List returns invoices matching the request.
func (s *Service) List(ctx context.Context, req ListSalesRequest) ([]Sale, error) {
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Delete removes an invoice; its ledger event disappears on the next
// balance computation.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
