package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/varlik-app/varlik/internal/fx"
	"github.com/varlik-app/varlik/internal/models"
)

// UpsertRetirementPosition creates or overwrites a retirement (BES) position.
// Retirement positions have no unit price or quantity: their value is the sum
// of the four components, all in local currency.
func (s *Service) UpsertRetirementPosition(ctx context.Context, portfolioID, symbol string, components models.RetirementComponents) (*models.Position, *models.Undo, error) {
	if _, err := s.Portfolio(portfolioID); err != nil {
		return nil, nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, nil, models.NewValidationError("symbol", "must not be empty")
	}
	if err := validateComponents(components); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	undo := &models.Undo{Op: "upsert_retirement", PortfolioID: portfolioID}

	pos := s.findRetirementPosition(portfolioID, symbol)
	if pos == nil {
		pos = &models.Position{
			ID:           uuid.NewString(),
			PortfolioID:  portfolioID,
			Symbol:       symbol,
			Kind:         models.PositionRetirement,
			Currency:     s.converter.Local,
			Category:     models.CategoryRetirement,
			PurchaseDate: now,
			CreatedAt:    now,
		}
		s.positions[pos.ID] = pos
		undo.Created = append(undo.Created, models.UndoRef{Kind: models.KindPosition, ID: pos.ID})
	} else {
		undo.Positions = append(undo.Positions, clonePosition(pos))
	}

	c := components
	pos.Retirement = &c
	pos.UpdatedAt = now
	s.persist(models.KindPosition, pos.ID, pos)

	s.logger.Info().
		Str("portfolio", portfolioID).
		Str("symbol", symbol).
		Float64("total", components.Total()).
		Msg("Retirement position upserted")
	return pos, undo, nil
}

// RetirementValuation values a retirement position: value is the component
// sum, cost basis is the paid-in principal, and profit is everything else.
// A foreign-currency view divides the aggregates by the live rate; without a
// rate the foreign view is all zeros.
func RetirementValuation(components models.RetirementComponents, displayCurrency string, converter fx.Converter, rate float64) (value, cost, profit float64) {
	value = components.Total()
	cost = components.Principal
	profit = components.Gain()
	if displayCurrency == converter.Foreign {
		value = fx.ToForeign(value, rate)
		cost = fx.ToForeign(cost, rate)
		profit = fx.ToForeign(profit, rate)
	}
	return value, cost, profit
}

func (s *Service) findRetirementPosition(portfolioID, symbol string) *models.Position {
	for _, pos := range s.positions {
		if pos.PortfolioID == portfolioID && pos.Symbol == symbol && pos.Kind == models.PositionRetirement {
			return pos
		}
	}
	return nil
}

func validateComponents(c models.RetirementComponents) error {
	fields := map[string]float64{
		"principal":              c.Principal,
		"stateContribution":      c.StateContribution,
		"stateContributionYield": c.StateContributionYield,
		"principalYield":         c.PrincipalYield,
	}
	for field, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.NewValidationError(field, "must be a finite number")
		}
		if v < 0 {
			return models.NewValidationError(field, fmt.Sprintf("must not be negative, got %v", v))
		}
	}
	return nil
}
