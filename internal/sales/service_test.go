package sales

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jimohammad/po-sub000/internal/platform/httpx"
)

type fakeRepo struct {
	created []Sale
	nextID  int64
}

func (f *fakeRepo) Create(_ context.Context, input CreateSaleInput, total decimal.Decimal, lines []SaleLine) (*Sale, error) {
	f.nextID++
	s := Sale{
		ID:          f.nextID,
		Number:      input.Number,
		CustomerID:  input.CustomerID,
		SaleDate:    input.SaleDate,
		TotalAmount: total,
		Lines:       lines,
	}
	f.created = append(f.created, s)
	return &s, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Sale, error) {
	for _, s := range f.created {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ ListSalesRequest) ([]Sale, error) {
	return f.created, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	for i, s := range f.created {
		if s.ID == id {
			f.created = append(f.created[:i], f.created[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func saleDate() time.Time {
	return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
}

func TestCreateComputesTotals(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	sale, err := svc.Create(context.Background(), CreateSaleInput{
		CustomerID: 1,
		SaleDate:   saleDate(),
		Lines: []CreateSaleLineInput{
			{Description: "Water carton", Quantity: amt("50"), UnitPrice: amt("2.410")},
			{Description: "Juice carton", Quantity: amt("3"), UnitPrice: amt("1.1115")},
		},
	})
	require.NoError(t, err)

	// 50 * 2.410 = 120.500; 3 * 1.1115 = 3.3345 rounds half away to 3.335
	require.Equal(t, "3.335", sale.Lines[1].LineTotal.StringFixed(3))
	require.Equal(t, "123.835", sale.TotalAmount.StringFixed(3))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	line := CreateSaleLineInput{Description: "x", Quantity: amt("1"), UnitPrice: amt("1")}

	_, err := svc.Create(ctx, CreateSaleInput{SaleDate: saleDate(), Lines: []CreateSaleLineInput{line}})
	require.ErrorIs(t, err, httpx.ErrValidation, "customer required")

	_, err = svc.Create(ctx, CreateSaleInput{CustomerID: 1, Lines: []CreateSaleLineInput{line}})
	require.ErrorIs(t, err, httpx.ErrValidation, "date required")

	_, err = svc.Create(ctx, CreateSaleInput{CustomerID: 1, SaleDate: saleDate()})
	require.ErrorIs(t, err, httpx.ErrValidation, "lines required")

	_, err = svc.Create(ctx, CreateSaleInput{CustomerID: 1, SaleDate: saleDate(), Lines: []CreateSaleLineInput{
		{Description: "x", Quantity: amt("0"), UnitPrice: amt("1")},
	}})
	require.ErrorIs(t, err, httpx.ErrValidation, "zero quantity")

	_, err = svc.Create(ctx, CreateSaleInput{CustomerID: 1, SaleDate: saleDate(), Lines: []CreateSaleLineInput{
		{Description: "x", Quantity: amt("1"), UnitPrice: amt("-1")},
	}})
	require.ErrorIs(t, err, httpx.ErrValidation, "negative price")

	_, err = svc.Create(ctx, CreateSaleInput{CustomerID: 1, SaleDate: saleDate(), Lines: []CreateSaleLineInput{
		{Description: "x", Quantity: amt("1"), UnitPrice: amt("0")},
	}})
	require.ErrorIs(t, err, httpx.ErrValidation, "zero total")
}

func TestDeleteUnknown(t *testing.T) {
	svc := NewService(&fakeRepo{})
	require.ErrorIs(t, svc.Delete(context.Background(), 42), ErrNotFound)
	require.ErrorIs(t, svc.Delete(context.Background(), -1), ErrNotFound)
}
