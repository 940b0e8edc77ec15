package party

import (
	"context"
	"fmt"
	"strings"

	"github.com/jimohammad/po-sub000/internal/platform/httpx"
)

// RepositoryPort defines data access methods for parties.
type RepositoryPort interface {
	Create(ctx context.Context, input CreatePartyInput) (*Party, error)
	Get(ctx context.Context, id int64) (*Party, error)
	List(ctx context.Context, filters ListFilters) ([]Party, error)
	Update(ctx context.Context, id int64, p Party) error
	Delete(ctx context.Context, id int64) error
	SetOpeningBalance(ctx context.Context, input SetOpeningBalanceInput) (*OpeningBalance, error)
	GetOpeningBalance(ctx context.Context, partyID int64) (*OpeningBalance, error)
}

// Service handles party business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new party.
func (s *Service) Create(ctx context.Context, input CreatePartyInput) (*Party, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: party type must be customer, supplier or salesman", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: party name is required", httpx.ErrValidation)
	}
	if input.CreditLimit != nil && input.Type != TypeCustomer {
		return nil, fmt.Errorf("%w: credit limit applies to customers only", httpx.ErrValidation)
	}
	if input.CommissionRate != nil && input.Type != TypeSalesman {
		return nil, fmt.Errorf("%w: commission rate applies to salesmen only", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, input)
}

// Get returns one party.
func (s *Service) Get(ctx context.Context, id int64) (*Party, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// List returns parties matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Party, error) {
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 100
	}
	return s.repo.List(ctx, filters)
}

// Update applies partial edits to an existing party.
func (s *Service) Update(ctx context.Context, id int64, input UpdatePartyInput) (*Party, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, fmt.Errorf("%w: party name is required", httpx.ErrValidation)
		}
		existing.Name = *input.Name
	}
	if input.Phone != nil {
		existing.Phone = *input.Phone
	}
	if input.Email != nil {
		existing.Email = *input.Email
	}
	if input.Address != nil {
		existing.Address = *input.Address
	}
	if input.CreditLimit != nil {
		if existing.Type != TypeCustomer {
			return nil, fmt.Errorf("%w: credit limit applies to customers only", httpx.ErrValidation)
		}
		existing.CreditLimit = input.CreditLimit
	}
	if input.CommissionRate != nil {
		if existing.Type != TypeSalesman {
			return nil, fmt.Errorf("%w: commission rate applies to salesmen only", httpx.ErrValidation)
		}
		existing.CommissionRate = input.CommissionRate
	}

	if err := s.repo.Update(ctx, id, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a party unless ledger events still reference it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// SetOpeningBalance upserts the seed balance. Salesmen have no ledger,
// so they cannot carry one.
func (s *Service) SetOpeningBalance(ctx context.Context, input SetOpeningBalanceInput) (*OpeningBalance, error) {
	p, err := s.repo.Get(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}
	if p.Type == TypeSalesman {
		return nil, fmt.Errorf("%w: salesmen do not carry an opening balance", httpx.ErrValidation)
	}
	if input.EffectiveDate.IsZero() {
		return nil, fmt.Errorf("%w: effective date is required", httpx.ErrValidation)
	}
	return s.repo.SetOpeningBalance(ctx, input)
}

// GetOpeningBalance returns the company-wide seed balance.
func (s *Service) GetOpeningBalance(ctx context.Context, partyID int64) (*OpeningBalance, error) {
	if partyID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetOpeningBalance(ctx, partyID)
}
