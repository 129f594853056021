package ledger

import (
	"context"

	"github.com/varlik-app/varlik/internal/fx"
	"github.com/varlik-app/varlik/internal/models"
)

// ValuePosition computes one position's value, cost, and P&L in the
// requested display currency from externally supplied inputs.
//
// An absent price is not an error: the value defaults to the cost basis and
// displayed P&L is zero. The same degradation applies when a currency
// conversion is needed but no rate is available. Cost conversion always
// prefers the cached cross-currency total over a live-rate recompute.
func (s *Service) ValuePosition(pos *models.Position, displayCurrency string, price float64, priceKnown bool, rate float64) models.PositionValuation {
	v := models.PositionValuation{
		PositionID: pos.ID,
		Symbol:     pos.Symbol,
		Category:   pos.Category,
		Currency:   displayCurrency,
	}

	if pos.Kind == models.PositionRetirement && pos.Retirement != nil {
		v.Value, v.Cost, v.Profit = RetirementValuation(*pos.Retirement, displayCurrency, s.converter, rate)
		v.PriceKnown = true
	} else {
		v.Cost = s.converter.ResolveCost(pos.CostBasis(), pos.Currency, displayCurrency, pos.OtherCurrencyCost, rate)
		needsRate := pos.Currency != displayCurrency
		if priceKnown && (!needsRate || rate > 0) {
			v.Value = s.converter.Convert(pos.Quantity*price, pos.Currency, displayCurrency, rate)
			v.Profit = v.Value - v.Cost
			v.PriceKnown = true
		} else {
			v.Value = v.Cost
		}
	}

	if v.Cost != 0 {
		v.ProfitPct = v.Profit / v.Cost * 100
	}
	return v
}

// valueCashEntry values one vault entry in the display currency. Fund
// entries are worth units × live unit price; their foreign-currency cost is
// fixed at the acquisition-time rate when one was recorded. Cash and
// deposit entries are worth their carrying value.
func (s *Service) valueCashEntry(entry *models.CashEntry, displayCurrency string, price float64, priceKnown bool, rate float64) models.PositionValuation {
	v := models.PositionValuation{
		PositionID: entry.ID,
		Symbol:     entry.Name,
		Currency:   displayCurrency,
	}

	local := s.converter.Local
	if entry.IsFund() {
		v.Symbol = entry.FundCode
		v.Category = models.CategoryFund

		costLocal := entry.CostBasis()
		if displayCurrency == local {
			v.Cost = costLocal
		} else {
			costRate := entry.AcquisitionRate
			if costRate <= 0 {
				costRate = rate
			}
			v.Cost = fx.ToForeign(costLocal, costRate)
		}

		if priceKnown && (displayCurrency == local || rate > 0) {
			valueLocal := entry.Units * price
			v.Value = s.converter.Convert(valueLocal, local, displayCurrency, rate)
			v.Profit = v.Value - v.Cost
			v.PriceKnown = true
		} else {
			v.Value = v.Cost
		}
	} else {
		v.Category = models.CategoryCurrency
		amount := entry.Amount
		if displayCurrency != local {
			amount = fx.ToForeign(amount, rate)
		}
		v.Value = amount
		v.Cost = amount
		v.PriceKnown = true
	}

	if v.Cost != 0 {
		v.ProfitPct = v.Profit / v.Cost * 100
	}
	return v
}

// SummaryWithQuotes aggregates a portfolio's positions, vault entries, and
// cash balance into per-category and total figures, using only the supplied
// quotes. Pure over the in-memory snapshot: no lookups, no mutation.
func (s *Service) SummaryWithQuotes(portfolioID, displayCurrency string, quotes models.QuoteSet) (*models.PortfolioSummary, error) {
	p, err := s.Portfolio(portfolioID)
	if err != nil {
		return nil, err
	}

	summary := &models.PortfolioSummary{
		PortfolioID:   p.ID,
		PortfolioName: p.Name,
		Currency:      displayCurrency,
		Categories:    make(map[models.Category]models.CategoryBreakdown),
	}

	add := func(v models.PositionValuation) {
		summary.Value += v.Value
		summary.Cost += v.Cost
		summary.Profit += v.Profit

		b := summary.Categories[v.Category]
		b.Value += v.Value
		b.Cost += v.Cost
		b.Profit += v.Profit
		if b.Cost != 0 {
			b.ProfitPct = b.Profit / b.Cost * 100
		}
		summary.Categories[v.Category] = b
	}

	for _, pos := range s.Positions(portfolioID) {
		price, priceKnown := quotes.Price(pos.Symbol)
		v := s.ValuePosition(pos, displayCurrency, price, priceKnown, quotes.Rate)
		summary.Positions = append(summary.Positions, v)
		add(v)
	}
	for _, entry := range s.CashEntries(portfolioID) {
		price, priceKnown := quotes.Price(entry.FundCode)
		add(s.valueCashEntry(entry, displayCurrency, price, priceKnown, quotes.Rate))
	}

	cash := p.CashBalance
	if displayCurrency != s.converter.Local {
		cash = fx.ToForeign(cash, quotes.Rate)
	}
	summary.CashBalance = cash
	summary.Value += cash
	summary.Cost += cash

	if summary.Cost != 0 {
		summary.ProfitPct = summary.Profit / summary.Cost * 100
	}
	return summary, nil
}

// Summary gathers live quotes from the wired price and rate sources, then
// aggregates. Source failures degrade to cost-equal display, never error.
func (s *Service) Summary(ctx context.Context, portfolioID, displayCurrency string) (*models.PortfolioSummary, error) {
	if _, err := s.Portfolio(portfolioID); err != nil {
		return nil, err
	}

	quotes := models.QuoteSet{Prices: make(map[string]float64)}
	if rate, ok := s.liveRate(ctx); ok {
		quotes.Rate = rate
	}

	if s.prices != nil {
		lookup := func(symbol string) {
			if symbol == "" {
				return
			}
			if _, done := quotes.Prices[symbol]; done {
				return
			}
			price, ok, err := s.prices.CurrentUnitPrice(ctx, symbol)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Price lookup failed; valuing at cost")
				return
			}
			if ok {
				quotes.Prices[symbol] = price
			}
		}
		for _, pos := range s.Positions(portfolioID) {
			if pos.Kind == models.PositionOrdinary {
				lookup(pos.Symbol)
			}
		}
		for _, entry := range s.CashEntries(portfolioID) {
			if entry.IsFund() {
				lookup(entry.FundCode)
			}
		}
	}

	return s.SummaryWithQuotes(portfolioID, displayCurrency, quotes)
}
