// Package fx converts amounts between the local and foreign display
// currencies using point-in-time exchange rates.
package fx

// Converter converts between the two display currencies. Rates are always
// expressed as local units per one foreign unit (e.g. TRY per USD).
type Converter struct {
	Local   string
	Foreign string
}

// New creates a Converter for the given currency pair.
func New(local, foreign string) Converter {
	return Converter{Local: local, Foreign: foreign}
}

// ToLocal converts a foreign-currency amount at rate.
func ToLocal(amountForeign, rate float64) float64 {
	return amountForeign * rate
}

// ToForeign converts a local-currency amount at rate. A zero rate yields
// zero rather than dividing by it.
func ToForeign(amountLocal, rate float64) float64 {
	if rate == 0 {
		return 0
	}
	return amountLocal / rate
}

// Convert converts amount from one display currency to the other. Amounts
// already in the requested currency pass through unchanged.
func (c Converter) Convert(amount float64, from, to string, rate float64) float64 {
	if from == to {
		return amount
	}
	if from == c.Foreign && to == c.Local {
		return ToLocal(amount, rate)
	}
	if from == c.Local && to == c.Foreign {
		return ToForeign(amount, rate)
	}
	return amount
}

// ResolveCost returns a position's cost basis in the requested display
// currency.
//
// When converting to the other currency the cached cross-currency total,
// fixed at acquisition time, always wins over a live-rate recompute of
// nativeCost. This order is a hard rule: re-deriving from a live rate
// introduces rate drift for any position bought before the most recent rate
// fetch.
func (c Converter) ResolveCost(nativeCost float64, nativeCurrency, displayCurrency string, cachedOther *float64, rate float64) float64 {
	if nativeCurrency == displayCurrency {
		return nativeCost
	}
	if cachedOther != nil {
		return *cachedOther
	}
	return c.Convert(nativeCost, nativeCurrency, displayCurrency, rate)
}
