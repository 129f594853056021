package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/varlik-app/varlik/internal/fx"
	"github.com/varlik-app/varlik/internal/models"
)

// AddCashEntry creates a plain cash or time-deposit vault entry. These carry
// no cost basis beyond their value; the amount is a correction-friendly
// carrying value in local currency.
func (s *Service) AddCashEntry(ctx context.Context, input models.CashEntryInput) (*models.CashEntry, *models.Undo, error) {
	if _, err := s.Portfolio(input.PortfolioID); err != nil {
		return nil, nil, err
	}
	if input.Kind == models.CashKindFund {
		return nil, nil, models.NewValidationError("kind", "fund entries are created with AddFundEntry")
	}
	if !models.ValidCashEntryKind(input.Kind) {
		return nil, nil, models.NewValidationError("kind", fmt.Sprintf("unknown kind %q", input.Kind))
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, models.NewValidationError("name", "must not be empty")
	}
	if err := validateAmount("amount", input.Amount); err != nil {
		return nil, nil, err
	}
	if input.InterestRate != nil && *input.InterestRate < 0 {
		return nil, nil, models.NewValidationError("interestRate", "must not be negative")
	}

	now := time.Now()
	entry := &models.CashEntry{
		ID:           uuid.NewString(),
		PortfolioID:  input.PortfolioID,
		Kind:         input.Kind,
		Name:         strings.TrimSpace(input.Name),
		Amount:       input.Amount,
		InterestRate: input.InterestRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.entries[entry.ID] = entry

	undo := &models.Undo{
		Op:          "add_cash_entry",
		PortfolioID: input.PortfolioID,
		Created:     []models.UndoRef{{Kind: models.KindCashEntry, ID: entry.ID}},
	}
	s.persist(models.KindCashEntry, entry.ID, entry)

	s.logger.Info().Str("portfolio", input.PortfolioID).Str("kind", string(input.Kind)).
		Float64("amount", input.Amount).Msg("Cash entry added")
	return entry, undo, nil
}

// AddFundEntry creates a money-market fund entry. Cost basis is
// units × unit cost; the carrying value is recomputed from the live unit
// price at read time, never stored.
func (s *Service) AddFundEntry(ctx context.Context, purchase models.FundPurchase) (*models.CashEntry, *models.Undo, error) {
	if _, err := s.Portfolio(purchase.PortfolioID); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(purchase.FundCode) == "" {
		return nil, nil, models.NewValidationError("fundCode", "must not be empty")
	}
	if err := validateAmount("units", purchase.Units); err != nil {
		return nil, nil, err
	}
	if err := validateAmount("unitCost", purchase.UnitCost); err != nil {
		return nil, nil, err
	}
	if purchase.AcquisitionRate < 0 {
		return nil, nil, models.NewValidationError("acquisitionRate", "must not be negative")
	}

	now := time.Now()
	acquired := purchase.AcquiredAt
	if acquired.IsZero() {
		acquired = now
	}
	name := strings.TrimSpace(purchase.Name)
	if name == "" {
		name = strings.ToUpper(strings.TrimSpace(purchase.FundCode))
	}

	entry := &models.CashEntry{
		ID:              uuid.NewString(),
		PortfolioID:     purchase.PortfolioID,
		Kind:            models.CashKindFund,
		Name:            name,
		FundCode:        strings.ToUpper(strings.TrimSpace(purchase.FundCode)),
		Units:           purchase.Units,
		AvgUnitCost:     purchase.UnitCost,
		AcquisitionRate: purchase.AcquisitionRate,
		AcquiredAt:      acquired,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.entries[entry.ID] = entry

	undo := &models.Undo{
		Op:          "add_fund_entry",
		PortfolioID: purchase.PortfolioID,
		Created:     []models.UndoRef{{Kind: models.KindCashEntry, ID: entry.ID}},
	}
	s.persist(models.KindCashEntry, entry.ID, entry)

	s.logger.Info().Str("portfolio", purchase.PortfolioID).Str("fund", entry.FundCode).
		Float64("units", purchase.Units).Msg("Fund entry added")
	return entry, undo, nil
}

// UpdateCashEntry overwrites a cash or deposit entry's carrying value. It is
// a correction, not a transaction: no realized trade is emitted.
func (s *Service) UpdateCashEntry(ctx context.Context, id string, amount float64) (*models.CashEntry, *models.Undo, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", models.ErrCashEntryNotFound, id)
	}
	if entry.IsFund() {
		return nil, nil, models.NewValidationError("entry", "fund entries are valued from units, not a carrying value")
	}
	if err := validateAmount("amount", amount); err != nil {
		return nil, nil, err
	}

	undo := &models.Undo{Op: "update_cash_entry", PortfolioID: entry.PortfolioID}
	undo.CashEntries = append(undo.CashEntries, cloneEntry(entry))

	entry.Amount = amount
	entry.UpdatedAt = time.Now()
	s.persist(models.KindCashEntry, entry.ID, entry)
	return entry, undo, nil
}

// RedeemFund redeems fund units, realizing profit in both display
// currencies. The foreign-currency figure values the cost at the entry's
// acquisition-time rate and the proceeds at the exit rate (supplied or
// live). Redeeming every unit removes the entry.
func (s *Service) RedeemFund(ctx context.Context, redemption models.FundRedemption) (*models.RealizedTrade, *models.Undo, error) {
	entry, ok := s.entries[redemption.EntryID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", models.ErrCashEntryNotFound, redemption.EntryID)
	}
	if !entry.IsFund() {
		return nil, nil, models.NewValidationError("entry", "only fund entries can be redeemed")
	}
	if err := validateAmount("units", redemption.Units); err != nil {
		return nil, nil, err
	}
	if err := validateAmount("unitPrice", redemption.UnitPrice); err != nil {
		return nil, nil, err
	}
	if redemption.RateAtRedemption != nil && *redemption.RateAtRedemption <= 0 {
		return nil, nil, models.NewValidationError("rateAtRedemption", "must be positive")
	}
	if redemption.Units > entry.Units {
		return nil, nil, fmt.Errorf("%w: want %v, have %v", models.ErrInsufficientUnits, redemption.Units, entry.Units)
	}

	undo := &models.Undo{Op: "redeem_fund", PortfolioID: entry.PortfolioID}
	undo.CashEntries = append(undo.CashEntries, cloneEntry(entry))

	costOfUnitsSold := redemption.Units * entry.AvgUnitCost
	proceeds := redemption.Units * redemption.UnitPrice
	profitLocal := proceeds - costOfUnitsSold

	exitRate, exitKnown := 0.0, false
	if redemption.RateAtRedemption != nil {
		exitRate, exitKnown = *redemption.RateAtRedemption, true
	} else {
		exitRate, exitKnown = s.liveRate(ctx)
	}
	acqRate := entry.AcquisitionRate
	if acqRate <= 0 {
		acqRate = exitRate
	}

	var profitForeign float64
	if exitKnown && acqRate > 0 {
		profitForeign = fx.ToForeign(proceeds, exitRate) - fx.ToForeign(costOfUnitsSold, acqRate)
	}

	now := time.Now()
	date := redemption.Date
	if date.IsZero() {
		date = now
	}

	trade := &models.RealizedTrade{
		ID:            uuid.NewString(),
		PortfolioID:   entry.PortfolioID,
		Symbol:        entry.FundCode,
		Source:        models.TradeSourceFund,
		Category:      models.CategoryFund,
		Quantity:      redemption.Units,
		SellPrice:     redemption.UnitPrice,
		CostPrice:     entry.AvgUnitCost,
		Currency:      s.converter.Local,
		Profit:        profitLocal,
		ProfitLocal:   profitLocal,
		ProfitForeign: profitForeign,
		Date:          date,
		CreatedAt:     now,
	}
	s.trades[trade.ID] = trade
	undo.Created = append(undo.Created, models.UndoRef{Kind: models.KindTrade, ID: trade.ID})
	s.persist(models.KindTrade, trade.ID, trade)

	remaining := entry.Units - redemption.Units
	if remaining <= 0 {
		delete(s.entries, entry.ID)
		s.remove(models.KindCashEntry, entry.ID)
	} else {
		entry.Units = remaining
		entry.UpdatedAt = now
		s.persist(models.KindCashEntry, entry.ID, entry)
	}

	s.logger.Info().Str("entry", redemption.EntryID).Str("fund", entry.FundCode).
		Float64("units", redemption.Units).Float64("profit", profitLocal).Msg("Fund redeemed")
	return trade, undo, nil
}

// DeleteCashEntry removes a vault entry unconditionally, without a trade.
func (s *Service) DeleteCashEntry(ctx context.Context, id string) (*models.Undo, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrCashEntryNotFound, id)
	}

	undo := &models.Undo{Op: "delete_cash_entry", PortfolioID: entry.PortfolioID}
	undo.CashEntries = append(undo.CashEntries, cloneEntry(entry))

	delete(s.entries, id)
	s.remove(models.KindCashEntry, id)

	s.logger.Info().Str("entry", id).Str("name", entry.Name).Msg("Cash entry deleted")
	return undo, nil
}

// CashEntries returns a portfolio's vault entries, oldest first.
func (s *Service) CashEntries(portfolioID string) []*models.CashEntry {
	var result []*models.CashEntry
	for _, entry := range s.entries {
		if entry.PortfolioID == portfolioID {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Name < result[j].Name
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
