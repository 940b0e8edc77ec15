package ledger

import (
	"context"
	"time"

	"github.com/jimohammad/po-sub000/internal/shared"
)

// Direction distinguishes money received from money paid out.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// ReturnOrigin names the document class a return reverses.
type ReturnOrigin string

const (
	ReturnOfSale     ReturnOrigin = "sale"
	ReturnOfPurchase ReturnOrigin = "purchase"
)

// SourceRow is one raw financial row before sign normalization. Amount
// is the stored text; parsing is deferred to the normalizer so a
// malformed value degrades to zero with a warning instead of failing
// the whole computation.
type SourceRow struct {
	ID          int64
	Date        time.Time
	Amount      string
	Description string
}

// ReturnRow carries the extra origin tag a return needs.
type ReturnRow struct {
	SourceRow
	Origin ReturnOrigin
}

// OpeningRow is the single seed event for a party. Amount is stored
// already signed: positive means the party owes the company.
type OpeningRow struct {
	Amount        string
	EffectiveDate time.Time
}

// SourcePort defines the data access the engine needs. The pgx-backed
// Repository implements it in production; tests supply an in-memory
// fake.
type SourcePort interface {
	GetParty(ctx context.Context, id int64) (*Party, error)
	ListSales(ctx context.Context, customerID int64, r shared.DateRange, branchID int64) ([]SourceRow, error)
	ListPurchases(ctx context.Context, supplierID int64, r shared.DateRange, branchID int64) ([]SourceRow, error)
	ListPayments(ctx context.Context, partyID int64, direction Direction, r shared.DateRange, branchID int64) ([]SourceRow, error)
	ListReturns(ctx context.Context, partyID int64, origin ReturnOrigin, r shared.DateRange, branchID int64) ([]ReturnRow, error)
	GetOpeningBalance(ctx context.Context, partyID int64, branchID int64) (*OpeningRow, error)
}
