// Package returns manages return notes. A sale return takes goods back
// from a customer; a purchase return sends goods back to a supplier.
// Each note reverses value against the party balance on its date.
package returns

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origin tells which side of the ledger the note reverses.
type Origin string

const (
	OriginSale     Origin = "sale"
	OriginPurchase Origin = "purchase"
)

// Valid reports whether the origin is one of the known values.
func (o Origin) Valid() bool {
	return o == OriginSale || o == OriginPurchase
}

// Return is a single return note.
type Return struct {
	ID         int64           `json:"id"`
	Number     string          `json:"number"`
	PartyID    int64           `json:"party_id"`
	BranchID   *int64          `json:"branch_id,omitempty"`
	Origin     Origin          `json:"origin"`
	ReturnedOn time.Time       `json:"returned_on"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateReturnInput for recording return notes.
type CreateReturnInput struct {
	PartyID    int64
	BranchID   *int64
	Number     string
	Origin     Origin
	ReturnedOn time.Time
	Amount     decimal.Decimal
	Reason     string
}

// ListReturnsRequest narrows return note listings.
type ListReturnsRequest struct {
	PartyID int64
	Origin  Origin
	From    time.Time
	To      time.Time
	Limit   int
	Offset  int
}
