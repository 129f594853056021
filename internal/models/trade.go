package models

import "time"

// TradeSource records what kind of holding a realized trade came from.
type TradeSource string

const (
	TradeSourcePosition TradeSource = "position" // sell of a ledger position
	TradeSourceFund     TradeSource = "fund"     // redemption of fund units
)

// RealizedTrade is the immutable record of a completed sell or fund
// redemption. Created once, never mutated; deletable only as an explicit
// trade-log cleanup (deleting it does not restore the sold quantity).
type RealizedTrade struct {
	ID          string      `json:"id"`
	PortfolioID string      `json:"portfolio_id"`
	Symbol      string      `json:"symbol"`
	Source      TradeSource `json:"source"`
	Category    Category    `json:"category"`

	Quantity  float64 `json:"quantity"`   // units sold/redeemed
	SellPrice float64 `json:"sell_price"` // unit price at sale
	CostPrice float64 `json:"cost_price"` // average unit cost at time of sale
	Currency  string  `json:"currency"`   // native currency of the prices above

	Profit        float64 `json:"profit"`         // native currency
	ProfitLocal   float64 `json:"profit_local"`   // local currency
	ProfitForeign float64 `json:"profit_foreign"` // foreign currency

	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// Proceeds returns quantity × sell price in the trade's native currency.
func (t RealizedTrade) Proceeds() float64 {
	return t.Quantity * t.SellPrice
}

// CostOfGoodsSold returns quantity × cost price in the trade's native currency.
func (t RealizedTrade) CostOfGoodsSold() float64 {
	return t.Quantity * t.CostPrice
}
