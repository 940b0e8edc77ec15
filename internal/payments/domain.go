// Package payments manages payment vouchers. A voucher records money
// received from a customer or paid out to a supplier on a given date.
package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came in or went out.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Valid reports whether the direction is one of the known values.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Payment is a single voucher.
type Payment struct {
	ID        int64           `json:"id"`
	Number    string          `json:"number"`
	PartyID   int64           `json:"party_id"`
	BranchID  *int64          `json:"branch_id,omitempty"`
	Direction Direction       `json:"direction"`
	PaidOn    time.Time       `json:"paid_on"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreatePaymentInput for recording vouchers.
type CreatePaymentInput struct {
	PartyID   int64
	BranchID  *int64
	Number    string
	Direction Direction
	PaidOn    time.Time
	Amount    decimal.Decimal
	Method    string
	Note      string
}

// ListPaymentsRequest narrows voucher listings.
type ListPaymentsRequest struct {
	PartyID   int64
	Direction Direction
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}
