package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/varlik-app/varlik/internal/models"
)

func TestTradesChronological(t *testing.T) {
	svc, _, p := newTestPortfolio(t)
	ctx := context.Background()

	pos, _, _ := svc.Buy(ctx, models.BuyOrder{
		PortfolioID: p.ID, Symbol: "THYAO.IS", Quantity: 10, UnitCost: 100, Currency: testLocal,
	})
	later := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	svc.Sell(ctx, models.SellOrder{PositionID: pos.ID, Quantity: 1, UnitPrice: 120, Date: later})
	svc.Sell(ctx, models.SellOrder{PositionID: pos.ID, Quantity: 1, UnitPrice: 130, Date: earlier})

	trades := svc.Trades(p.ID)
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if !trades[0].Date.Equal(earlier) || !trades[1].Date.Equal(later) {
		t.Errorf("trades not in chronological order: %v, %v", trades[0].Date, trades[1].Date)
	}
}

func TestDeleteTradeDoesNotRestoreQuantity(t *testing.T) {
	svc, store, p := newTestPortfolio(t)
	ctx := context.Background()

	pos, _, _ := svc.Buy(ctx, models.BuyOrder{
		PortfolioID: p.ID, Symbol: "THYAO.IS", Quantity: 10, UnitCost: 100, Currency: testLocal,
	})
	trade, _, _ := svc.Sell(ctx, models.SellOrder{PositionID: pos.ID, Quantity: 4, UnitPrice: 120})

	if err := svc.DeleteTrade(ctx, trade.ID); err != nil {
		t.Fatalf("DeleteTrade: %v", err)
	}
	if len(svc.Trades(p.ID)) != 0 {
		t.Errorf("trade not removed")
	}
	if !approxEqual(pos.Quantity, 6, 1e-9) {
		t.Errorf("deleting the trade log entry must not restore quantity, got %v", pos.Quantity)
	}
	svc.Wait()
	if store.count(models.KindTrade) != 0 {
		t.Errorf("trade record should be deleted")
	}
}

func TestDeleteTradeUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeleteTrade(context.Background(), "nope")
	if !errors.Is(err, models.ErrTradeNotFound) {
		t.Errorf("expected ErrTradeNotFound, got %v", err)
	}
}
