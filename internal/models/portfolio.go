// Package models defines data structures for Varlik
package models

import "time"

// Category is the display bucket an instrument belongs to.
type Category string

const (
	CategoryMetal      Category = "metal"       // gold, silver, other precious metals
	CategoryCrypto     Category = "crypto"      // crypto assets
	CategoryEquity     Category = "equity"      // domestic exchange (BIST) equities
	CategoryForeignETF Category = "foreign_etf" // foreign-listed equities and funds
	CategoryFund       Category = "fund"        // domestic mutual funds (TEFAS)
	CategoryRetirement Category = "retirement"  // private pension (BES) accounts
	CategoryCurrency   Category = "currency"    // foreign cash / forex holdings
	CategoryOther      Category = "other"
)

// validCategories lists all accepted categories.
var validCategories = map[Category]bool{
	CategoryMetal:      true,
	CategoryCrypto:     true,
	CategoryEquity:     true,
	CategoryForeignETF: true,
	CategoryFund:       true,
	CategoryRetirement: true,
	CategoryCurrency:   true,
	CategoryOther:      true,
}

// ValidCategory returns true if c is a known category.
func ValidCategory(c Category) bool {
	return validCategories[c]
}

// PositionKind discriminates between ordinary priced positions and
// multi-component retirement accounts.
type PositionKind string

const (
	PositionOrdinary   PositionKind = "ordinary"
	PositionRetirement PositionKind = "retirement"
)

// RetirementComponents are the four sub-amounts of a retirement (BES)
// position, all in local currency. The position's value is their sum;
// quantity and average cost play no part in it.
type RetirementComponents struct {
	Principal              float64 `json:"principal"`
	StateContribution      float64 `json:"state_contribution"`
	StateContributionYield float64 `json:"state_contribution_yield"`
	PrincipalYield         float64 `json:"principal_yield"`
}

// Total returns the sum of all four components.
func (r RetirementComponents) Total() float64 {
	return r.Principal + r.StateContribution + r.StateContributionYield + r.PrincipalYield
}

// Gain returns everything above the paid-in principal.
func (r RetirementComponents) Gain() float64 {
	return r.StateContribution + r.StateContributionYield + r.PrincipalYield
}

// Position represents an open holding of a single instrument within a portfolio.
type Position struct {
	ID          string       `json:"id"`
	PortfolioID string       `json:"portfolio_id"`
	Symbol      string       `json:"symbol"`
	Kind        PositionKind `json:"kind"`
	Quantity    float64      `json:"quantity"`
	AvgCost     float64      `json:"avg_cost"` // always expressed in Currency
	Currency    string       `json:"currency"` // cost currency (local or foreign code)
	Category    Category     `json:"category"`

	// Total cost in the other display currency, fixed at the last
	// cost-affecting edit. Nil means stale: recompute from a live rate.
	OtherCurrencyCost *float64 `json:"other_currency_cost,omitempty"`

	PurchaseDate time.Time `json:"purchase_date"`

	// Set only for retirement positions.
	Retirement *RetirementComponents `json:"retirement,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CostBasis returns quantity × average cost in the position's own currency.
// Not meaningful for retirement positions (their cost basis is the principal).
func (p Position) CostBasis() float64 {
	return p.Quantity * p.AvgCost
}

// Portfolio is a named container of positions, cash vault entries, realized
// trades, and a cash balance in local currency. Sub-entities are stored as
// flat records in their own collections, keyed back by PortfolioID.
type Portfolio struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CashBalance float64   `json:"cash_balance"` // local currency
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PositionValuation is the read-side view of one position: current value,
// cost, and P&L in the requested display currency. Computed on demand from
// supplied prices and rates, never persisted.
type PositionValuation struct {
	PositionID string   `json:"position_id"`
	Symbol     string   `json:"symbol"`
	Category   Category `json:"category"`
	Currency   string   `json:"currency"` // display currency of the figures below
	Value      float64  `json:"value"`
	Cost       float64  `json:"cost"`
	Profit     float64  `json:"profit"`
	ProfitPct  float64  `json:"profit_pct"`

	// PriceKnown is false when no live price was available; Value then
	// defaults to Cost and Profit to zero.
	PriceKnown bool `json:"price_known"`
}

// PortfolioSummary aggregates valuations for a whole portfolio, bucketed by
// category. Computed on demand, never persisted.
type PortfolioSummary struct {
	PortfolioID   string                        `json:"portfolio_id"`
	PortfolioName string                        `json:"portfolio_name"`
	Currency      string                        `json:"currency"`
	Value         float64                       `json:"value"`
	Cost          float64                       `json:"cost"`
	Profit        float64                       `json:"profit"`
	ProfitPct     float64                       `json:"profit_pct"`
	CashBalance   float64                       `json:"cash_balance"`
	Categories    map[Category]CategoryBreakdown `json:"categories"`
	Positions     []PositionValuation           `json:"positions"`
}

// CategoryBreakdown holds aggregated figures for one category bucket.
type CategoryBreakdown struct {
	Value     float64 `json:"value"`
	Cost      float64 `json:"cost"`
	Profit    float64 `json:"profit"`
	ProfitPct float64 `json:"profit_pct"`
}
