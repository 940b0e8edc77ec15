// Package purchasing manages purchase bills received from suppliers.
// A bill is the header plus its line items, always written in one
// transaction.
package purchasing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a bill header.
type Purchase struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	SupplierID   int64           `json:"supplier_id"`
	BranchID     *int64          `json:"branch_id,omitempty"`
	PurchaseDate time.Time       `json:"purchase_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Lines        []PurchaseLine  `json:"lines,omitempty"`
}

// PurchaseLine is one bill line item.
type PurchaseLine struct {
	ID          int64           `json:"id"`
	PurchaseID  int64           `json:"purchase_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CreatePurchaseLineInput for creating bill lines.
type CreatePurchaseLineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreatePurchaseInput for creating bills.
type CreatePurchaseInput struct {
	SupplierID   int64
	BranchID     *int64
	Number       string
	PurchaseDate time.Time
	Note         string
	Lines        []CreatePurchaseLineInput
}

// ListPurchasesRequest narrows bill listings.
type ListPurchasesRequest struct {
	SupplierID int64
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
