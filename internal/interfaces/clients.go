package interfaces

import (
	"context"
	"time"
)

// PriceSource supplies current unit prices for instruments. An unknown
// instrument is not an error: ok is false and valuation degrades to cost.
type PriceSource interface {
	CurrentUnitPrice(ctx context.Context, symbol string) (price float64, ok bool, err error)
}

// RateSource supplies the local-per-foreign exchange rate (e.g. TRY per USD).
// Absence degrades gracefully: ok is false and conversions fall back to the
// cached cross-currency cost or to zero profit.
type RateSource interface {
	CurrentRate(ctx context.Context) (rate float64, ok bool, err error)
	HistoricalRate(ctx context.Context, date time.Time) (rate float64, ok bool, err error)
}
