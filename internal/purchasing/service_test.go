package purchasing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jimohammad/po-sub000/internal/platform/httpx"
)

type fakeRepo struct {
	created []Purchase
	nextID  int64
}

func (f *fakeRepo) Create(_ context.Context, input CreatePurchaseInput, total decimal.Decimal, lines []PurchaseLine) (*Purchase, error) {
	f.nextID++
	p := Purchase{
		ID:           f.nextID,
		Number:       input.Number,
		SupplierID:   input.SupplierID,
		PurchaseDate: input.PurchaseDate,
		TotalAmount:  total,
		Lines:        lines,
	}
	f.created = append(f.created, p)
	return &p, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Purchase, error) {
	for _, p := range f.created {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ ListPurchasesRequest) ([]Purchase, error) {
	return f.created, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	for i, p := range f.created {
		if p.ID == id {
			f.created = append(f.created[:i], f.created[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func billDate() time.Time {
	return time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
}

func TestCreateComputesLineAndHeaderTotals(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	got, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID:   2,
		PurchaseDate: billDate(),
		Lines: []CreatePurchaseLineInput{
			{Description: "Rice 25kg", Quantity: amt("40"), UnitPrice: amt("12.000")},
			{Description: "Oil 5L", Quantity: amt("3"), UnitPrice: amt("1.1115")},
		},
	})
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	require.Equal(t, "480.000", got.Lines[0].LineTotal.StringFixed(3))
	// 3 * 1.1115 = 3.3345, rounded half away from zero at 3 decimals.
	require.Equal(t, "3.335", got.Lines[1].LineTotal.StringFixed(3))
	require.Equal(t, "483.335", got.TotalAmount.StringFixed(3))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	line := CreatePurchaseLineInput{Description: "x", Quantity: amt("1"), UnitPrice: amt("2.500")}

	cases := []struct {
		name  string
		input CreatePurchaseInput
	}{
		{"missing supplier", CreatePurchaseInput{PurchaseDate: billDate(), Lines: []CreatePurchaseLineInput{line}}},
		{"missing date", CreatePurchaseInput{SupplierID: 2, Lines: []CreatePurchaseLineInput{line}}},
		{"no lines", CreatePurchaseInput{SupplierID: 2, PurchaseDate: billDate()}},
		{"zero quantity", CreatePurchaseInput{SupplierID: 2, PurchaseDate: billDate(), Lines: []CreatePurchaseLineInput{
			{Description: "x", Quantity: amt("0"), UnitPrice: amt("2.500")},
		}}},
		{"negative price", CreatePurchaseInput{SupplierID: 2, PurchaseDate: billDate(), Lines: []CreatePurchaseLineInput{
			{Description: "x", Quantity: amt("1"), UnitPrice: amt("-0.100")},
		}}},
		{"zero total", CreatePurchaseInput{SupplierID: 2, PurchaseDate: billDate(), Lines: []CreatePurchaseLineInput{
			{Description: "x", Quantity: amt("1"), UnitPrice: amt("0")},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			require.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestDeleteUnknownBill(t *testing.T) {
	svc := NewService(&fakeRepo{})
	require.ErrorIs(t, svc.Delete(context.Background(), 99), ErrNotFound)
}

func TestListClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	_, err := svc.List(context.Background(), ListPurchasesRequest{Limit: -5})
	require.NoError(t, err)
}
