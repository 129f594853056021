package ledger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/varlik-app/varlik/internal/category"
	"github.com/varlik-app/varlik/internal/fx"
	"github.com/varlik-app/varlik/internal/models"
)

// Buy opens a position or merges into the existing one for the same symbol.
// Merging recomputes the quantity-weighted average cost; the cached
// cross-currency total cost accumulates additively when supplied, and is
// cleared as stale otherwise.
func (s *Service) Buy(ctx context.Context, order models.BuyOrder) (*models.Position, *models.Undo, error) {
	if err := validateBuy(order, s.converter); err != nil {
		return nil, nil, err
	}
	if _, err := s.Portfolio(order.PortfolioID); err != nil {
		return nil, nil, err
	}

	symbol := strings.ToUpper(strings.TrimSpace(order.Symbol))
	now := time.Now()
	date := order.Date
	if date.IsZero() {
		date = now
	}

	undo := &models.Undo{Op: "buy", PortfolioID: order.PortfolioID}

	pos := s.findOpenPosition(order.PortfolioID, symbol)
	if pos == nil {
		bucket := order.Category
		if bucket == "" {
			bucket = s.classifier.Classify(category.Input{
				Symbol:         symbol,
				InstrumentType: order.InstrumentType,
				Currency:       order.Currency,
			})
		}
		pos = &models.Position{
			ID:           uuid.NewString(),
			PortfolioID:  order.PortfolioID,
			Symbol:       symbol,
			Kind:         models.PositionOrdinary,
			Quantity:     order.Quantity,
			AvgCost:      order.UnitCost,
			Currency:     order.Currency,
			Category:     bucket,
			PurchaseDate: date,
			CreatedAt:    now,
		}
		if order.OtherCurrencyCost != nil {
			v := *order.OtherCurrencyCost
			pos.OtherCurrencyCost = &v
		}
		s.positions[pos.ID] = pos
		undo.Created = append(undo.Created, models.UndoRef{Kind: models.KindPosition, ID: pos.ID})
	} else {
		// A weighted average only makes sense within one currency; the
		// position's averageCost stays expressed in its own currency.
		if order.Currency != pos.Currency {
			return nil, nil, models.NewValidationError("currency",
				fmt.Sprintf("open %s position is held in %s", symbol, pos.Currency))
		}
		undo.Positions = append(undo.Positions, clonePosition(pos))

		totalQty := pos.Quantity + order.Quantity
		pos.AvgCost = (pos.Quantity*pos.AvgCost + order.Quantity*order.UnitCost) / totalQty
		pos.Quantity = totalQty

		switch {
		case order.OtherCurrencyCost == nil:
			// Cost basis changed without a cross-currency figure: the old
			// cached total no longer covers the whole position.
			pos.OtherCurrencyCost = nil
		case pos.OtherCurrencyCost != nil:
			sum := *pos.OtherCurrencyCost + *order.OtherCurrencyCost
			pos.OtherCurrencyCost = &sum
		default:
			// The prior total is unknown; a partial figure would understate.
			pos.OtherCurrencyCost = nil
		}

		// Category is assigned at first write, unless explicitly overridden.
		if order.Category != "" {
			pos.Category = order.Category
		}
	}

	pos.UpdatedAt = now
	s.persist(models.KindPosition, pos.ID, pos)

	s.logger.Info().
		Str("portfolio", order.PortfolioID).
		Str("symbol", symbol).
		Float64("quantity", order.Quantity).
		Float64("unit_cost", order.UnitCost).
		Str("currency", order.Currency).
		Msg("Buy applied")
	return pos, undo, nil
}

// EditPosition unconditionally overwrites quantity and average cost. It is a
// data-entry correction: no realized trade is emitted. The cached
// cross-currency total is recomputed from the supplied historical rate, or
// cleared as stale when none is given.
func (s *Service) EditPosition(ctx context.Context, edit models.PositionEdit) (*models.Position, *models.Undo, error) {
	pos, ok := s.positions[edit.PositionID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", models.ErrPositionNotFound, edit.PositionID)
	}
	if pos.Kind == models.PositionRetirement {
		return nil, nil, models.NewValidationError("position", "retirement positions are edited by components")
	}
	if err := validateAmount("quantity", edit.Quantity); err != nil {
		return nil, nil, err
	}
	if err := validateAmount("averageCost", edit.AvgCost); err != nil {
		return nil, nil, err
	}
	if edit.HistoricalRate != nil && *edit.HistoricalRate <= 0 {
		return nil, nil, models.NewValidationError("historicalRate", "must be positive")
	}

	undo := &models.Undo{Op: "edit_position", PortfolioID: pos.PortfolioID}
	undo.Positions = append(undo.Positions, clonePosition(pos))

	pos.Quantity = edit.Quantity
	pos.AvgCost = edit.AvgCost
	if edit.Date != nil {
		pos.PurchaseDate = *edit.Date
	}

	if edit.HistoricalRate != nil {
		total := pos.Quantity * pos.AvgCost
		var other float64
		if pos.Currency == s.converter.Local {
			other = fx.ToForeign(total, *edit.HistoricalRate)
		} else {
			other = fx.ToLocal(total, *edit.HistoricalRate)
		}
		pos.OtherCurrencyCost = &other
	} else {
		pos.OtherCurrencyCost = nil
	}

	pos.UpdatedAt = time.Now()
	s.persist(models.KindPosition, pos.ID, pos)

	s.logger.Info().Str("position", pos.ID).Str("symbol", pos.Symbol).Msg("Position edited")
	return pos, undo, nil
}

// Sell reduces a position and realizes its P&L. The secondary-currency
// profit prices the cost leg from the cached cross-currency total when the
// position carries one, and converts the proceeds with the supplied
// historical rate, falling back to a live rate. Selling the full quantity
// removes the position.
func (s *Service) Sell(ctx context.Context, order models.SellOrder) (*models.RealizedTrade, *models.Undo, error) {
	pos, ok := s.positions[order.PositionID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", models.ErrPositionNotFound, order.PositionID)
	}
	if pos.Kind == models.PositionRetirement {
		return nil, nil, models.NewValidationError("position", "retirement positions cannot be sold by units")
	}
	if err := validateAmount("quantity", order.Quantity); err != nil {
		return nil, nil, err
	}
	if err := validateAmount("unitPrice", order.UnitPrice); err != nil {
		return nil, nil, err
	}
	if order.HistoricalRate != nil && *order.HistoricalRate <= 0 {
		return nil, nil, models.NewValidationError("historicalRate", "must be positive")
	}
	if order.Quantity > pos.Quantity {
		return nil, nil, fmt.Errorf("%w: want %v, have %v", models.ErrInsufficientQuantity, order.Quantity, pos.Quantity)
	}

	undo := &models.Undo{Op: "sell", PortfolioID: pos.PortfolioID}
	undo.Positions = append(undo.Positions, clonePosition(pos))

	costOfGoodsSold := order.Quantity * pos.AvgCost
	proceeds := order.Quantity * order.UnitPrice
	profit := proceeds - costOfGoodsSold

	rate, rateKnown := 0.0, false
	if order.HistoricalRate != nil {
		rate, rateKnown = *order.HistoricalRate, true
	} else {
		rate, rateKnown = s.liveRate(ctx)
	}

	// The cost leg in the other currency comes from the cached acquisition
	// total, scaled to the sold fraction, when one exists; only the proceeds
	// leg is converted at the supplied or live rate.
	var soldOtherCost *float64
	if pos.OtherCurrencyCost != nil {
		scaled := *pos.OtherCurrencyCost * order.Quantity / pos.Quantity
		soldOtherCost = &scaled
	}

	var profitLocal, profitForeign float64
	if pos.Currency == s.converter.Local {
		profitLocal = profit
		if rateKnown {
			profitForeign = fx.ToForeign(proceeds, rate) -
				s.converter.ResolveCost(costOfGoodsSold, pos.Currency, s.converter.Foreign, soldOtherCost, rate)
		}
	} else {
		profitForeign = profit
		if rateKnown {
			profitLocal = fx.ToLocal(proceeds, rate) -
				s.converter.ResolveCost(costOfGoodsSold, pos.Currency, s.converter.Local, soldOtherCost, rate)
		}
	}

	now := time.Now()
	date := order.Date
	if date.IsZero() {
		date = now
	}

	trade := &models.RealizedTrade{
		ID:            uuid.NewString(),
		PortfolioID:   pos.PortfolioID,
		Symbol:        pos.Symbol,
		Source:        models.TradeSourcePosition,
		Category:      pos.Category,
		Quantity:      order.Quantity,
		SellPrice:     order.UnitPrice,
		CostPrice:     pos.AvgCost,
		Currency:      pos.Currency,
		Profit:        profit,
		ProfitLocal:   profitLocal,
		ProfitForeign: profitForeign,
		Date:          date,
		CreatedAt:     now,
	}
	s.trades[trade.ID] = trade
	undo.Created = append(undo.Created, models.UndoRef{Kind: models.KindTrade, ID: trade.ID})
	s.persist(models.KindTrade, trade.ID, trade)

	remaining := pos.Quantity - order.Quantity
	if remaining <= 0 {
		delete(s.positions, pos.ID)
		s.remove(models.KindPosition, pos.ID)
	} else {
		// The cached cross-currency total covers the whole position; keep it
		// proportional to the remaining cost basis.
		if pos.OtherCurrencyCost != nil {
			scaled := *pos.OtherCurrencyCost * remaining / pos.Quantity
			pos.OtherCurrencyCost = &scaled
		}
		pos.Quantity = remaining
		pos.UpdatedAt = now
		s.persist(models.KindPosition, pos.ID, pos)
	}

	s.logger.Info().
		Str("position", order.PositionID).
		Str("symbol", pos.Symbol).
		Float64("quantity", order.Quantity).
		Float64("profit", profit).
		Str("currency", pos.Currency).
		Msg("Sell applied")
	return trade, undo, nil
}

// DeletePosition removes a position unconditionally without emitting a
// realized trade. This is a correction, not a sale.
func (s *Service) DeletePosition(ctx context.Context, id string) (*models.Undo, error) {
	pos, ok := s.positions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrPositionNotFound, id)
	}

	undo := &models.Undo{Op: "delete_position", PortfolioID: pos.PortfolioID}
	undo.Positions = append(undo.Positions, clonePosition(pos))

	delete(s.positions, id)
	s.remove(models.KindPosition, id)

	s.logger.Info().Str("position", id).Str("symbol", pos.Symbol).Msg("Position deleted")
	return undo, nil
}

// Positions returns a portfolio's open positions, oldest purchase first.
func (s *Service) Positions(portfolioID string) []*models.Position {
	var result []*models.Position
	for _, pos := range s.positions {
		if pos.PortfolioID == portfolioID {
			result = append(result, pos)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].PurchaseDate.Equal(result[j].PurchaseDate) {
			return result[i].Symbol < result[j].Symbol
		}
		return result[i].PurchaseDate.Before(result[j].PurchaseDate)
	})
	return result
}

func (s *Service) findOpenPosition(portfolioID, symbol string) *models.Position {
	for _, pos := range s.positions {
		if pos.PortfolioID == portfolioID && pos.Symbol == symbol && pos.Kind == models.PositionOrdinary {
			return pos
		}
	}
	return nil
}

func validateBuy(order models.BuyOrder, converter fx.Converter) error {
	if strings.TrimSpace(order.Symbol) == "" {
		return models.NewValidationError("symbol", "must not be empty")
	}
	if err := validateAmount("quantity", order.Quantity); err != nil {
		return err
	}
	if err := validateAmount("unitCost", order.UnitCost); err != nil {
		return err
	}
	if order.Currency != converter.Local && order.Currency != converter.Foreign {
		return models.NewValidationError("currency", fmt.Sprintf("must be %s or %s", converter.Local, converter.Foreign))
	}
	if order.OtherCurrencyCost != nil && *order.OtherCurrencyCost <= 0 {
		return models.NewValidationError("crossCurrencyTotalCost", "must be positive")
	}
	if order.Category != "" && !models.ValidCategory(order.Category) {
		return models.NewValidationError("category", fmt.Sprintf("unknown category %q", order.Category))
	}
	return nil
}

func validateAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.NewValidationError(field, "must be a finite number")
	}
	if v <= 0 {
		return models.NewValidationError(field, "must be positive")
	}
	return nil
}
