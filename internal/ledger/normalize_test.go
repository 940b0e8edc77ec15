package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSigns(t *testing.T) {
	svc := NewService(nil, testLogger())

	b := bundle{
		sales:       []SourceRow{{ID: 1, Date: day(2), Amount: "10.000"}},
		purchases:   []SourceRow{{ID: 2, Date: day(3), Amount: "20.000"}},
		paymentsIn:  []SourceRow{{ID: 3, Date: day(4), Amount: "5.000"}},
		paymentsOut: []SourceRow{{ID: 4, Date: day(5), Amount: "6.000"}},
		returns: []ReturnRow{
			{SourceRow: SourceRow{ID: 5, Date: day(6), Amount: "1.000"}, Origin: ReturnOfSale},
			{SourceRow: SourceRow{ID: 6, Date: day(7), Amount: "2.000"}, Origin: ReturnOfPurchase},
		},
		opening: &OpeningRow{Amount: "-3.000", EffectiveDate: day(1)},
	}

	entries := svc.normalize(PartyCustomer, b)
	require.Len(t, entries, 7)

	bySign := map[Kind]string{}
	for _, e := range entries {
		bySign[e.Kind] = e.Amount.String()
	}
	require.Equal(t, "10", bySign[KindSale])
	require.Equal(t, "20", bySign[KindPurchase])
	require.Equal(t, "-5", bySign[KindPaymentIn])
	require.Equal(t, "-6", bySign[KindPaymentOut])
	require.Equal(t, "-1", bySign[KindSaleReturn])
	require.Equal(t, "-2", bySign[KindPurchaseReturn])
	// Opening balance kept as stored, never negated.
	require.Equal(t, "-3", bySign[KindOpeningBalance])
}

func TestNormalizeOrdersByDateThenSeq(t *testing.T) {
	svc := NewService(nil, testLogger())

	b := bundle{
		sales: []SourceRow{
			{ID: 7, Date: day(5), Amount: "1.000"},
			{ID: 3, Date: day(5), Amount: "2.000"},
			{ID: 9, Date: day(2), Amount: "3.000"},
		},
		paymentsIn: []SourceRow{
			{ID: 5, Date: day(5), Amount: "4.000"},
		},
	}

	entries := svc.normalize(PartyCustomer, b)
	require.Len(t, entries, 4)

	// Date first, then source row id regardless of kind.
	require.Equal(t, int64(9), entries[0].Seq)
	require.Equal(t, int64(3), entries[1].Seq)
	require.Equal(t, int64(5), entries[2].Seq)
	require.Equal(t, int64(7), entries[3].Seq)
}

func TestNormalizeSameSeqFallsBackToKindRank(t *testing.T) {
	svc := NewService(nil, testLogger())

	b := bundle{
		sales:      []SourceRow{{ID: 5, Date: day(5), Amount: "1.000"}},
		paymentsIn: []SourceRow{{ID: 5, Date: day(5), Amount: "2.000"}},
	}

	entries := svc.normalize(PartyCustomer, b)
	require.Len(t, entries, 2)
	require.Equal(t, KindSale, entries[0].Kind)
	require.Equal(t, KindPaymentIn, entries[1].Kind)
}

func TestParseAmountRoundsToScale(t *testing.T) {
	svc := NewService(nil, testLogger())

	got := svc.parseAmount("1.23456", KindSale, 1)
	require.Equal(t, "1.235", got.StringFixed(Scale))
}

func TestParseAmountMalformedIsZero(t *testing.T) {
	svc := NewService(nil, testLogger())

	require.True(t, svc.parseAmount("garbage", KindSale, 1).IsZero())
	require.True(t, svc.parseAmount("", KindOpeningBalance, 0).IsZero())
}
