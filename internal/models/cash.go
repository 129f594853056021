package models

import "time"

// CashEntryKind categorizes cash vault entries.
type CashEntryKind string

const (
	CashKindCash    CashEntryKind = "cash"    // plain cash balance
	CashKindDeposit CashEntryKind = "deposit" // time deposit
	CashKindFund    CashEntryKind = "fund"    // money-market fund shares
)

// validCashEntryKinds lists all accepted entry kinds.
var validCashEntryKinds = map[CashEntryKind]bool{
	CashKindCash:    true,
	CashKindDeposit: true,
	CashKindFund:    true,
}

// ValidCashEntryKind returns true if k is a valid cash entry kind.
func ValidCashEntryKind(k CashEntryKind) bool {
	return validCashEntryKinds[k]
}

// CashEntry is a cash vault holding: plain cash, a time deposit, or
// money-market fund shares.
//
// For fund entries the carrying value is not stored live: readers recompute
// units × live unit price. The entry only guarantees units × AvgUnitCost as
// the cost basis. Amount is authoritative for cash and deposit kinds only.
type CashEntry struct {
	ID           string        `json:"id"`
	PortfolioID  string        `json:"portfolio_id"`
	Kind         CashEntryKind `json:"kind"`
	Name         string        `json:"name"`
	Amount       float64       `json:"amount"`                  // carrying value, local currency
	InterestRate *float64      `json:"interest_rate,omitempty"` // annual, percent

	// Fund-only fields
	FundCode        string  `json:"fund_code,omitempty"`
	Units           float64 `json:"units,omitempty"`
	AvgUnitCost     float64 `json:"avg_unit_cost,omitempty"`    // local currency
	AcquisitionRate float64 `json:"acquisition_rate,omitempty"` // LC per FC at acquisition

	AcquiredAt time.Time `json:"acquired_at,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsFund returns true for money-market fund entries.
func (e CashEntry) IsFund() bool {
	return e.Kind == CashKindFund
}

// CostBasis returns the entry's cost basis in local currency:
// units × average unit cost for funds, the carrying value otherwise.
func (e CashEntry) CostBasis() float64 {
	if e.IsFund() {
		return e.Units * e.AvgUnitCost
	}
	return e.Amount
}
