package returns

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jimohammad/po-sub000/internal/platform/httpx"
)

type fakeRepo struct {
	created []Return
}

func (f *fakeRepo) Create(_ context.Context, input CreateReturnInput) (*Return, error) {
	r := Return{
		ID:         int64(len(f.created) + 1),
		PartyID:    input.PartyID,
		Origin:     input.Origin,
		ReturnedOn: input.ReturnedOn,
		Amount:     input.Amount,
	}
	f.created = append(f.created, r)
	return &r, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Return, error) {
	for _, r := range f.created {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ ListReturnsRequest) ([]Return, error) {
	return f.created, nil
}

func (f *fakeRepo) Delete(_ context.Context, _ int64) error { return nil }

func TestCreateValidates(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()
	returnedOn := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, CreateReturnInput{Origin: OriginSale, ReturnedOn: returnedOn, Amount: decimal.New(1, 0)})
	require.ErrorIs(t, err, httpx.ErrValidation, "party required")

	_, err = svc.Create(ctx, CreateReturnInput{PartyID: 1, Origin: "exchange", ReturnedOn: returnedOn, Amount: decimal.New(1, 0)})
	require.ErrorIs(t, err, httpx.ErrValidation, "bad origin")

	_, err = svc.Create(ctx, CreateReturnInput{PartyID: 1, Origin: OriginSale, ReturnedOn: returnedOn, Amount: decimal.New(-5, 0)})
	require.ErrorIs(t, err, httpx.ErrValidation, "amount must be positive")

	r, err := svc.Create(ctx, CreateReturnInput{
		PartyID:    1,
		Origin:     OriginPurchase,
		ReturnedOn: returnedOn,
		Amount:     decimal.RequireFromString("20.500"),
	})
	require.NoError(t, err)
	require.Equal(t, OriginPurchase, r.Origin)
	require.Equal(t, "20.500", r.Amount.StringFixed(3))
}
