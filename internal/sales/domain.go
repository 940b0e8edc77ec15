// Package sales manages sale invoices issued to customers. An invoice
// is the header plus its line items, always written in one transaction.
package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an invoice header.
type Sale struct {
	ID          int64           `json:"id"`
	Number      string          `json:"number"`
	CustomerID  int64           `json:"customer_id"`
	BranchID    *int64          `json:"branch_id,omitempty"`
	SaleDate    time.Time       `json:"sale_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Lines       []SaleLine      `json:"lines,omitempty"`
}

// SaleLine is one invoice line item.
type SaleLine struct {
	ID          int64           `json:"id"`
	SaleID      int64           `json:"sale_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CreateSaleLineInput for creating invoice lines.
type CreateSaleLineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreateSaleInput for creating invoices.
type CreateSaleInput struct {
	CustomerID int64
	BranchID   *int64
	Number     string
	SaleDate   time.Time
	Note       string
	Lines      []CreateSaleLineInput
}

// ListSalesRequest narrows invoice listings.
type ListSalesRequest struct {
	CustomerID int64
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
