package party

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jimohammad/po-sub000/internal/platform/httpx"
)

type fakeRepo struct {
	parties  map[int64]Party
	openings map[int64]OpeningBalance
	nextID   int64
	inUse    map[int64]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		parties:  map[int64]Party{},
		openings: map[int64]OpeningBalance{},
		inUse:    map[int64]bool{},
	}
}

func (f *fakeRepo) Create(_ context.Context, input CreatePartyInput) (*Party, error) {
	f.nextID++
	p := Party{
		ID:             f.nextID,
		Type:           input.Type,
		Name:           input.Name,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
		CreditLimit:    input.CreditLimit,
		CommissionRate: input.CommissionRate,
	}
	f.parties[p.ID] = p
	return &p, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Party, error) {
	p, ok := f.parties[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (f *fakeRepo) List(_ context.Context, filters ListFilters) ([]Party, error) {
	var out []Party
	for _, p := range f.parties {
		if filters.Type != "" && p.Type != filters.Type {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, p Party) error {
	if _, ok := f.parties[id]; !ok {
		return ErrNotFound
	}
	f.parties[id] = p
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.parties[id]; !ok {
		return ErrNotFound
	}
	if f.inUse[id] {
		return ErrInUse
	}
	delete(f.parties, id)
	return nil
}

func (f *fakeRepo) SetOpeningBalance(_ context.Context, input SetOpeningBalanceInput) (*OpeningBalance, error) {
	ob := OpeningBalance{
		ID:            input.PartyID,
		PartyID:       input.PartyID,
		BranchID:      input.BranchID,
		Amount:        input.Amount,
		EffectiveDate: input.EffectiveDate,
	}
	f.openings[input.PartyID] = ob
	return &ob, nil
}

func (f *fakeRepo) GetOpeningBalance(_ context.Context, partyID int64) (*OpeningBalance, error) {
	ob, ok := f.openings[partyID]
	if !ok {
		return nil, ErrNotFound
	}
	return &ob, nil
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePartyInput{Type: "vendor", Name: "X"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, CreatePartyInput{Type: TypeCustomer, Name: "   "})
	require.ErrorIs(t, err, httpx.ErrValidation)

	// Credit limit only fits customers.
	_, err = svc.Create(ctx, CreatePartyInput{Type: TypeSupplier, Name: "Gulf Supplies", CreditLimit: dec("100")})
	require.ErrorIs(t, err, httpx.ErrValidation)

	// Commission only fits salesmen.
	_, err = svc.Create(ctx, CreatePartyInput{Type: TypeCustomer, Name: "Al Salam", CommissionRate: dec("0.02")})
	require.ErrorIs(t, err, httpx.ErrValidation)

	p, err := svc.Create(ctx, CreatePartyInput{Type: TypeCustomer, Name: "Al Salam", CreditLimit: dec("500")})
	require.NoError(t, err)
	require.Equal(t, TypeCustomer, p.Type)
	require.NotZero(t, p.ID)
}

func TestUpdatePartial(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePartyInput{Type: TypeCustomer, Name: "Al Salam", Phone: "111"})
	require.NoError(t, err)

	name := "Al Salam Trading"
	updated, err := svc.Update(ctx, p.ID, UpdatePartyInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Al Salam Trading", updated.Name)
	require.Equal(t, "111", updated.Phone)

	// Commission rate rejected for non-salesman even on update.
	_, err = svc.Update(ctx, p.ID, UpdatePartyInput{CommissionRate: dec("0.05")})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteBlockedWhenInUse(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePartyInput{Type: TypeSupplier, Name: "Gulf Supplies"})
	require.NoError(t, err)

	repo.inUse[p.ID] = true
	require.ErrorIs(t, svc.Delete(ctx, p.ID), ErrInUse)

	repo.inUse[p.ID] = false
	require.NoError(t, svc.Delete(ctx, p.ID))
	require.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}

func TestOpeningBalanceRules(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreatePartyInput{Type: TypeCustomer, Name: "Al Salam"})
	require.NoError(t, err)
	salesman, err := svc.Create(ctx, CreatePartyInput{Type: TypeSalesman, Name: "Yousef K", CommissionRate: dec("0.025")})
	require.NoError(t, err)

	effective := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err = svc.SetOpeningBalance(ctx, SetOpeningBalanceInput{PartyID: salesman.ID, Amount: decimal.New(1, 0), EffectiveDate: effective})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.SetOpeningBalance(ctx, SetOpeningBalanceInput{PartyID: customer.ID, Amount: decimal.New(1, 0)})
	require.ErrorIs(t, err, httpx.ErrValidation, "effective date required")

	ob, err := svc.SetOpeningBalance(ctx, SetOpeningBalanceInput{
		PartyID:       customer.ID,
		Amount:        decimal.RequireFromString("-42.500"),
		EffectiveDate: effective,
	})
	require.NoError(t, err)
	require.Equal(t, "-42.5", ob.Amount.String())

	got, err := svc.GetOpeningBalance(ctx, customer.ID)
	require.NoError(t, err)
	require.True(t, got.Amount.Equal(ob.Amount))
}
