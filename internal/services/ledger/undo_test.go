package ledger

import (
	"context"
	"testing"

	"github.com/varlik-app/varlik/internal/models"
)

func TestRevertBuyRemovesCreatedPosition(t *testing.T) {
	svc, store, p := newTestPortfolio(t)
	ctx := context.Background()

	_, undo, err := svc.Buy(ctx, models.BuyOrder{
		PortfolioID: p.ID, Symbol: "BTC", Quantity: 1, UnitCost: 50000, Currency: testForeign,
	})
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}

	if err := svc.Revert(ctx, undo); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if len(svc.Positions(p.ID)) != 0 {
		t.Errorf("reverting a position-opening buy should remove the position")
	}
	svc.Wait()
	if store.count(models.KindPosition) != 0 {
		t.Errorf("position record should be deleted")
	}
}

func TestRevertMergeRestoresSnapshot(t *testing.T) {
	svc, _, p := newTestPortfolio(t)
	ctx := context.Background()

	svc.Buy(ctx, models.BuyOrder{
		PortfolioID: p.ID, Symbol: "THYAO.IS", Quantity: 10, UnitCost: 100, Currency: testLocal,
	})
	_, undo, err := svc.Buy(ctx, models.BuyOrder{
		PortfolioID: p.ID, Symbol: "THYAO.IS", Quantity: 10, UnitCost: 200, Currency: testLocal,
	})
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}

	if err := svc.Revert(ctx, undo); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	positions := svc.Positions(p.ID)
	if len(positions) != 1 {
		t.Fatalf("expected the original position, got %d", len(positions))
	}
	if !approxEqual(positions[0].Quantity, 10, 1e-9) || !approxEqual(positions[0].AvgCost, 100, 1e-9) {
		t.Errorf("snapshot not restored: %+v", positions[0])
	}
}

func TestRevertSellRestoresPositionAndDropsTrade(t *testing.T) {
	svc, _, p := newTestPortfolio(t)
	ctx := context.Background()

	pos, _, _ := svc.Buy(ctx, models.BuyOrder{
		PortfolioID: p.ID, Symbol: "THYAO.IS", Quantity: 20, UnitCost: 150, Currency: testLocal,
	})
	_, undo, err := svc.Sell(ctx, models.SellOrder{PositionID: pos.ID, Quantity: 20, UnitPrice: 300})
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}
	if len(svc.Positions(p.ID)) != 0 {
		t.Fatalf("full sell should remove the position")
	}

	if err := svc.Revert(ctx, undo); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	positions := svc.Positions(p.ID)
	if len(positions) != 1 || !approxEqual(positions[0].Quantity, 20, 1e-9) {
		t.Errorf("sell not reverted: %+v", positions)
	}
	if len(svc.Trades(p.ID)) != 0 {
		t.Errorf("the emitted trade should be removed on revert")
	}
}

func TestRevertDeleteCashEntry(t *testing.T) {
	svc, _, p := newTestPortfolio(t)
	ctx := context.Background()

	entry, _, _ := svc.AddFundEntry(ctx, models.FundPurchase{
		PortfolioID: p.ID, FundCode: "AFT", Units: 1000, UnitCost: 1.25, AcquisitionRate: 30,
	})
	undo, err := svc.DeleteCashEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("DeleteCashEntry: %v", err)
	}

	if err := svc.Revert(ctx, undo); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	entries := svc.CashEntries(p.ID)
	if len(entries) != 1 || entries[0].FundCode != "AFT" || !approxEqual(entries[0].Units, 1000, 1e-9) {
		t.Errorf("entry not restored: %+v", entries)
	}
}

func TestRevertSnapshotIsolation(t *testing.T) {
	svc, _, p := newTestPortfolio(t)
	ctx := context.Background()

	pos, _, _ := svc.Buy(ctx, models.BuyOrder{
		PortfolioID: p.ID, Symbol: "AAPL", Quantity: 10, UnitCost: 100,
		Currency: testForeign, OtherCurrencyCost: ptr(30000),
	})
	_, undo, _ := svc.EditPosition(ctx, models.PositionEdit{
		PositionID: pos.ID, Quantity: 5, AvgCost: 100, HistoricalRate: ptr(35),
	})

	// Mutating the live position must not bleed into the snapshot.
	*pos.OtherCurrencyCost = 999

	if err := svc.Revert(ctx, undo); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	restored := svc.Positions(p.ID)[0]
	if restored.OtherCurrencyCost == nil || !approxEqual(*restored.OtherCurrencyCost, 30000, 1e-9) {
		t.Errorf("snapshot was not isolated: %v", restored.OtherCurrencyCost)
	}
}

func TestRevertNilIsNoop(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Revert(context.Background(), nil); err != nil {
		t.Errorf("reverting nil should be a no-op, got %v", err)
	}
}
