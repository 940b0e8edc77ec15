// Package ledger derives party balances and chronological statements
// from the raw sale, purchase, payment, return and opening-balance rows.
// There is no stored ledger table; every computation re-reads the source
// aggregates and folds them into a signed running total.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jimohammad/po-sub000/internal/shared"
)

// PartyType selects which side of the ledger a party sits on.
type PartyType string

const (
	PartyCustomer PartyType = "customer"
	PartySupplier PartyType = "supplier"
)

// ParsePartyType validates a party type from the API surface.
func ParsePartyType(s string) (PartyType, error) {
	switch PartyType(s) {
	case PartyCustomer, PartySupplier:
		return PartyType(s), nil
	default:
		return "", fmt.Errorf("unknown party type %q", s)
	}
}

// Kind tags a normalized ledger entry with its source variant.
type Kind string

const (
	KindOpeningBalance Kind = "opening_balance"
	KindSale           Kind = "sale"
	KindPurchase       Kind = "purchase"
	KindPaymentIn      Kind = "payment_in"
	KindPaymentOut     Kind = "payment_out"
	KindSaleReturn     Kind = "sale_return"
	KindPurchaseReturn Kind = "purchase_return"
	// KindBroughtForward marks the synthetic row summarizing all events
	// before a statement's range start.
	KindBroughtForward Kind = "brought_forward"
)

// rank breaks ordering ties between same-day events whose source row
// ids collide across tables. The order itself is arbitrary; what
// matters is that it is fixed, so statements are reproducible.
func (k Kind) rank() int {
	switch k {
	case KindOpeningBalance:
		return 0
	case KindSale:
		return 1
	case KindPurchase:
		return 2
	case KindPaymentIn:
		return 3
	case KindPaymentOut:
		return 4
	case KindSaleReturn:
		return 5
	case KindPurchaseReturn:
		return 6
	default:
		return 7
	}
}

// Party is the minimal party projection the engine needs.
type Party struct {
	ID   int64
	Type PartyType
	Name string
}

// Entry is one signed ledger event after normalization. Amount carries
// the sign convention applied: positive grows what the party owes the
// company (customer) or what the company owes the party (supplier).
type Entry struct {
	Date        time.Time
	Kind        Kind
	ReferenceID int64
	Seq         int64
	Description string
	Amount      decimal.Decimal
}

// StatementLine is an entry plus the running balance after it.
type StatementLine struct {
	Entry
	Running decimal.Decimal
}

// Statement is the chronological view over a date range.
type Statement struct {
	PartyID   int64
	PartyType PartyType
	Range     shared.DateRange
	Lines     []StatementLine
	Closing   decimal.Decimal
}

// Scale is the KWD precision: amounts carry three decimal places.
const Scale = 3

// round snaps an amount back to stored precision. Applied after every
// addition so repeated computation is reproducible bit-for-bit.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}
