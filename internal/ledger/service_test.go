package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jimohammad/po-sub000/internal/shared"
	_ "github.com/jimohammad/po-sub000/internal/testing/guard"
)

type fakeSource struct {
	parties     map[int64]*Party
	sales       []SourceRow
	purchases   []SourceRow
	paymentsIn  []SourceRow
	paymentsOut []SourceRow
	returns     []ReturnRow
	opening     *OpeningRow
}

func (f *fakeSource) GetParty(_ context.Context, id int64) (*Party, error) {
	return f.parties[id], nil
}

func (f *fakeSource) ListSales(_ context.Context, _ int64, _ shared.DateRange, _ int64) ([]SourceRow, error) {
	return f.sales, nil
}

func (f *fakeSource) ListPurchases(_ context.Context, _ int64, _ shared.DateRange, _ int64) ([]SourceRow, error) {
	return f.purchases, nil
}

func (f *fakeSource) ListPayments(_ context.Context, _ int64, direction Direction, _ shared.DateRange, _ int64) ([]SourceRow, error) {
	if direction == DirectionIn {
		return f.paymentsIn, nil
	}
	return f.paymentsOut, nil
}

func (f *fakeSource) ListReturns(_ context.Context, _ int64, _ ReturnOrigin, _ shared.DateRange, _ int64) ([]ReturnRow, error) {
	return f.returns, nil
}

func (f *fakeSource) GetOpeningBalance(_ context.Context, _ int64, _ int64) (*OpeningRow, error) {
	return f.opening, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// customerFixture mirrors a month of typical activity: opening balance,
// one invoice, one receipt and one sale return.
func customerFixture() *fakeSource {
	return &fakeSource{
		parties: map[int64]*Party{
			1: {ID: 1, Type: PartyCustomer, Name: "Al Salam Trading"},
		},
		sales: []SourceRow{
			{ID: 10, Date: day(5), Amount: "120.500", Description: "Invoice INV-000010"},
		},
		paymentsIn: []SourceRow{
			{ID: 20, Date: day(12), Amount: "100.000", Description: "Payment PAY-000020"},
		},
		returns: []ReturnRow{
			{SourceRow: SourceRow{ID: 30, Date: day(18), Amount: "20.500", Description: "Return RET-000030"}, Origin: ReturnOfSale},
		},
		opening: &OpeningRow{Amount: "250.000", EffectiveDate: day(1)},
	}
}

func TestCurrentBalanceCustomer(t *testing.T) {
	svc := NewService(customerFixture(), testLogger())

	// 250 + 120.5 - 100 - 20.5
	balance, err := svc.CurrentBalance(context.Background(), 1, PartyCustomer, time.Time{}, 0)
	require.NoError(t, err)
	require.True(t, balance.Equal(amt("250.000")), "got %s", balance)
}

func TestCurrentBalanceAsOfExcludesLaterEvents(t *testing.T) {
	svc := NewService(customerFixture(), testLogger())

	balance, err := svc.CurrentBalance(context.Background(), 1, PartyCustomer, day(10), 0)
	require.NoError(t, err)
	require.True(t, balance.Equal(amt("370.500")), "got %s", balance)

	// An event dated exactly on asOf is included.
	balance, err = svc.CurrentBalance(context.Background(), 1, PartyCustomer, day(12), 0)
	require.NoError(t, err)
	require.True(t, balance.Equal(amt("270.500")), "got %s", balance)
}

func TestCurrentBalanceSupplierSigns(t *testing.T) {
	src := &fakeSource{
		parties: map[int64]*Party{
			2: {ID: 2, Type: PartySupplier, Name: "Gulf Supplies Co"},
		},
		purchases: []SourceRow{
			{ID: 40, Date: day(3), Amount: "480.000", Description: "Bill BILL-000040"},
		},
		paymentsOut: []SourceRow{
			{ID: 41, Date: day(15), Amount: "200.000", Description: "Payment PAY-000041"},
		},
		returns: []ReturnRow{
			{SourceRow: SourceRow{ID: 42, Date: day(20), Amount: "30.000", Description: "Return RET-000042"}, Origin: ReturnOfPurchase},
		},
	}
	svc := NewService(src, testLogger())

	// 480 - 200 - 30
	balance, err := svc.CurrentBalance(context.Background(), 2, PartySupplier, time.Time{}, 0)
	require.NoError(t, err)
	require.True(t, balance.Equal(amt("250.000")), "got %s", balance)
}

func TestCurrentBalanceUnknownParty(t *testing.T) {
	svc := NewService(&fakeSource{parties: map[int64]*Party{}}, testLogger())

	_, err := svc.CurrentBalance(context.Background(), 99, PartyCustomer, time.Time{}, 0)
	require.ErrorIs(t, err, ErrPartyNotFound)
}

func TestCurrentBalanceNoHistoryIsZero(t *testing.T) {
	src := &fakeSource{parties: map[int64]*Party{1: {ID: 1, Type: PartyCustomer}}}
	svc := NewService(src, testLogger())

	balance, err := svc.CurrentBalance(context.Background(), 1, PartyCustomer, time.Time{}, 0)
	require.NoError(t, err)
	require.True(t, balance.IsZero())
}

func TestCurrentBalanceIdempotent(t *testing.T) {
	svc := NewService(customerFixture(), testLogger())

	first, err := svc.CurrentBalance(context.Background(), 1, PartyCustomer, time.Time{}, 0)
	require.NoError(t, err)
	second, err := svc.CurrentBalance(context.Background(), 1, PartyCustomer, time.Time{}, 0)
	require.NoError(t, err)
	require.True(t, first.Equal(second))
}

func TestStatementFullRange(t *testing.T) {
	svc := NewService(customerFixture(), testLogger())

	stmt, err := svc.Statement(context.Background(), 1, PartyCustomer, shared.DateRange{From: day(1), To: day(31)}, 0)
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 4)

	require.Equal(t, KindOpeningBalance, stmt.Lines[0].Kind)
	require.True(t, stmt.Lines[0].Running.Equal(amt("250.000")))

	require.Equal(t, KindSale, stmt.Lines[1].Kind)
	require.True(t, stmt.Lines[1].Running.Equal(amt("370.500")))

	require.Equal(t, KindPaymentIn, stmt.Lines[2].Kind)
	require.True(t, stmt.Lines[2].Amount.Equal(amt("-100.000")))
	require.True(t, stmt.Lines[2].Running.Equal(amt("270.500")))

	require.Equal(t, KindSaleReturn, stmt.Lines[3].Kind)
	require.True(t, stmt.Lines[3].Amount.Equal(amt("-20.500")))
	require.True(t, stmt.Lines[3].Running.Equal(amt("250.000")))

	require.True(t, stmt.Closing.Equal(amt("250.000")))
}

func TestStatementBroughtForward(t *testing.T) {
	svc := NewService(customerFixture(), testLogger())

	stmt, err := svc.Statement(context.Background(), 1, PartyCustomer, shared.DateRange{From: day(10), To: day(31)}, 0)
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 3)

	bf := stmt.Lines[0]
	require.Equal(t, KindBroughtForward, bf.Kind)
	require.True(t, bf.Date.Equal(day(10)))
	// opening 250 + sale 120.5, both dated before the 10th
	require.True(t, bf.Amount.Equal(amt("370.500")))
	require.True(t, bf.Running.Equal(amt("370.500")))

	require.Equal(t, KindPaymentIn, stmt.Lines[1].Kind)
	require.Equal(t, KindSaleReturn, stmt.Lines[2].Kind)
	require.True(t, stmt.Closing.Equal(amt("250.000")))
}

func TestStatementBoundaryDatesInclusive(t *testing.T) {
	svc := NewService(customerFixture(), testLogger())

	// 5th and 12th are both in range edges; the return on the 18th is out.
	stmt, err := svc.Statement(context.Background(), 1, PartyCustomer, shared.DateRange{From: day(5), To: day(12)}, 0)
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 3)
	require.Equal(t, KindBroughtForward, stmt.Lines[0].Kind)
	require.Equal(t, KindSale, stmt.Lines[1].Kind)
	require.Equal(t, KindPaymentIn, stmt.Lines[2].Kind)
	require.True(t, stmt.Closing.Equal(amt("270.500")))
}

func TestStatementEmptyRangeOnlyBroughtForward(t *testing.T) {
	svc := NewService(customerFixture(), testLogger())

	stmt, err := svc.Statement(context.Background(), 1, PartyCustomer, shared.DateRange{From: day(25), To: day(31)}, 0)
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 1)
	require.Equal(t, KindBroughtForward, stmt.Lines[0].Kind)
	require.True(t, stmt.Lines[0].Running.Equal(amt("250.000")))
	require.True(t, stmt.Closing.Equal(amt("250.000")))
}

func TestStatementNoHistoryAtAll(t *testing.T) {
	src := &fakeSource{parties: map[int64]*Party{1: {ID: 1, Type: PartyCustomer}}}
	svc := NewService(src, testLogger())

	stmt, err := svc.Statement(context.Background(), 1, PartyCustomer, shared.DateRange{From: day(1), To: day(31)}, 0)
	require.NoError(t, err)
	require.Empty(t, stmt.Lines)
	require.True(t, stmt.Closing.IsZero())
}

func TestStatementBroughtForwardNettingToZeroStillShown(t *testing.T) {
	src := customerFixture()
	src.opening = &OpeningRow{Amount: "-120.500", EffectiveDate: day(1)}
	svc := NewService(src, testLogger())

	// opening -120.5 + sale 120.5 = 0 carried into the range
	stmt, err := svc.Statement(context.Background(), 1, PartyCustomer, shared.DateRange{From: day(10), To: day(31)}, 0)
	require.NoError(t, err)
	require.Equal(t, KindBroughtForward, stmt.Lines[0].Kind)
	require.True(t, stmt.Lines[0].Amount.IsZero())
}

func TestStatementInvalidRange(t *testing.T) {
	svc := NewService(customerFixture(), testLogger())

	_, err := svc.Statement(context.Background(), 1, PartyCustomer, shared.DateRange{From: day(20), To: day(10)}, 0)
	require.ErrorIs(t, err, shared.ErrInvalidRange)
}

func TestStatementClosingMatchesCurrentBalance(t *testing.T) {
	svc := NewService(customerFixture(), testLogger())
	rangeEnd := day(31)

	stmt, err := svc.Statement(context.Background(), 1, PartyCustomer, shared.DateRange{From: day(1), To: rangeEnd}, 0)
	require.NoError(t, err)

	balance, err := svc.CurrentBalance(context.Background(), 1, PartyCustomer, rangeEnd, 0)
	require.NoError(t, err)
	require.True(t, stmt.Closing.Equal(balance))
}

func TestStatementMalformedAmountDegradesToZero(t *testing.T) {
	src := customerFixture()
	src.sales = append(src.sales, SourceRow{ID: 11, Date: day(6), Amount: "not-a-number", Description: "Invoice INV-000011"})
	svc := NewService(src, testLogger())

	stmt, err := svc.Statement(context.Background(), 1, PartyCustomer, shared.DateRange{From: day(1), To: day(31)}, 0)
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 5)
	require.True(t, stmt.Lines[2].Amount.IsZero())
	require.True(t, stmt.Closing.Equal(amt("250.000")))
}
