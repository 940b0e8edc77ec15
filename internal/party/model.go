// Package party manages customers, suppliers and salesmen plus their
// opening balances. Salesmen are master data only; they never appear in
// ledger computations.
package party

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type tags a party record.
type Type string

const (
	TypeCustomer Type = "customer"
	TypeSupplier Type = "supplier"
	TypeSalesman Type = "salesman"
)

// Valid reports whether t is a known party type.
func (t Type) Valid() bool {
	switch t {
	case TypeCustomer, TypeSupplier, TypeSalesman:
		return true
	}
	return false
}

// Party represents a customer, supplier or salesman.
type Party struct {
	ID             int64            `json:"id"`
	Type           Type             `json:"type"`
	Name           string           `json:"name"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Address        string           `json:"address"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// OpeningBalance is the single seed event per party (optionally per
// branch). Amount is stored signed: positive means the party owes the
// company.
type OpeningBalance struct {
	ID            int64           `json:"id"`
	PartyID       int64           `json:"party_id"`
	BranchID      *int64          `json:"branch_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveDate time.Time       `json:"effective_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreatePartyInput for creating parties.
type CreatePartyInput struct {
	Type           Type
	Name           string
	Phone          string
	Email          string
	Address        string
	CreditLimit    *decimal.Decimal
	CommissionRate *decimal.Decimal
}

// UpdatePartyInput for editing parties; nil fields are left unchanged.
type UpdatePartyInput struct {
	Name           *string
	Phone          *string
	Email          *string
	Address        *string
	CreditLimit    *decimal.Decimal
	CommissionRate *decimal.Decimal
}

// SetOpeningBalanceInput upserts a party's opening balance.
type SetOpeningBalanceInput struct {
	PartyID       int64
	BranchID      *int64
	Amount        decimal.Decimal
	EffectiveDate time.Time
}

// ListFilters narrows party listings.
type ListFilters struct {
	Type   Type
	Search string
	Limit  int
	Offset int
}
