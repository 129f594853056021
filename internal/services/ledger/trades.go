package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/varlik-app/varlik/internal/models"
)

// Trades returns a portfolio's realized trades in chronological order.
// Reverse-chronological display is a presentation concern.
func (s *Service) Trades(portfolioID string) []*models.RealizedTrade {
	var result []*models.RealizedTrade
	for _, trade := range s.trades {
		if trade.PortfolioID == portfolioID {
			result = append(result, trade)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// DeleteTrade removes a realized trade as an explicit, user-initiated
// cleanup of the trade log. It does NOT restore the sold quantity to the
// open position; this is not an undo-sell. Reversing a sale in full is done
// by applying the Undo descriptor the Sell call returned.
func (s *Service) DeleteTrade(ctx context.Context, id string) error {
	trade, ok := s.trades[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrTradeNotFound, id)
	}
	delete(s.trades, id)
	s.remove(models.KindTrade, id)

	s.logger.Info().Str("trade", id).Str("symbol", trade.Symbol).Msg("Realized trade deleted")
	return nil
}
