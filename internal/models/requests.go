package models

import "time"

// BuyOrder describes a buy or merge into a position. The optional fields use
// pointers: nil means "not supplied" and the documented fallback applies.
type BuyOrder struct {
	PortfolioID string
	Symbol      string
	Quantity    float64
	UnitCost    float64
	Currency    string // cost currency (local or foreign code)
	Date        time.Time

	// Explicit instrument type used by the classifier ("stock", "fund",
	// "crypto", "metal", "retirement"). Empty means classify by rules.
	InstrumentType string

	// Category overrides classification when set. On a merge it also
	// overrides the category assigned at first write.
	Category Category

	// Total cost of this purchase in the other display currency, fixed at
	// acquisition time. Accumulated additively into the position's cache.
	OtherCurrencyCost *float64
}

// PositionEdit is an unconditional manual correction of a position.
type PositionEdit struct {
	PositionID string
	Quantity   float64
	AvgCost    float64

	// New acquisition timestamp, when supplied.
	Date *time.Time

	// Rate (local per foreign) used to recompute the cached cross-currency
	// total cost. When nil the cache is cleared and treated as stale.
	HistoricalRate *float64
}

// SellOrder reduces an open position and realizes its P&L.
type SellOrder struct {
	PositionID string
	Quantity   float64
	UnitPrice  float64
	Date       time.Time

	// Rate (local per foreign) used to convert the sold portion's profit.
	// When nil a live rate is used, which is less precise for positions
	// bought before the most recent rate fetch.
	HistoricalRate *float64
}

// CashEntryInput creates a plain cash or time-deposit vault entry.
type CashEntryInput struct {
	PortfolioID  string
	Kind         CashEntryKind
	Name         string
	Amount       float64
	InterestRate *float64 // annual, percent
}

// FundPurchase creates a money-market fund vault entry.
type FundPurchase struct {
	PortfolioID string
	FundCode    string
	Name        string
	Units       float64
	UnitCost    float64 // local currency
	AcquiredAt  time.Time

	// Local-per-foreign rate at acquisition, recorded for later foreign
	// currency profit calculation. Zero means unknown.
	AcquisitionRate float64
}

// FundRedemption redeems fund units and realizes their P&L.
type FundRedemption struct {
	EntryID   string
	Units     float64
	UnitPrice float64 // local currency
	Date      time.Time

	// Exit rate (local per foreign). When nil a live rate is used.
	RateAtRedemption *float64
}

// QuoteSet carries externally supplied prices and the live exchange rate for
// read-side valuation. Missing map keys and a zero Rate mean "unavailable".
type QuoteSet struct {
	Prices map[string]float64 // unit price by symbol, in the instrument's trading currency
	Rate   float64            // local per foreign; 0 = unavailable
}

// Price returns the unit price for symbol, if known.
func (q QuoteSet) Price(symbol string) (float64, bool) {
	p, ok := q.Prices[symbol]
	return p, ok
}
