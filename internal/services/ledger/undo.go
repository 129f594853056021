package ledger

import (
	"context"

	"github.com/varlik-app/varlik/internal/models"
)

// Revert applies a compensating descriptor returned by a mutating operation:
// entities the operation created are removed, and prior snapshots of the
// entities it touched are restored. Restoration is persisted the same
// fire-and-forget way as any other mutation.
func (s *Service) Revert(ctx context.Context, undo *models.Undo) error {
	if undo == nil {
		return nil
	}

	for _, ref := range undo.Created {
		switch ref.Kind {
		case models.KindPortfolio:
			delete(s.portfolios, ref.ID)
		case models.KindPosition:
			delete(s.positions, ref.ID)
		case models.KindCashEntry:
			delete(s.entries, ref.ID)
		case models.KindTrade:
			delete(s.trades, ref.ID)
		}
		s.remove(ref.Kind, ref.ID)
	}

	for i := range undo.Portfolios {
		p := undo.Portfolios[i]
		s.portfolios[p.ID] = &p
		s.persist(models.KindPortfolio, p.ID, &p)
	}
	for i := range undo.Positions {
		snapshot := undo.Positions[i]
		pos := clonePositionValue(snapshot)
		s.positions[pos.ID] = pos
		s.persist(models.KindPosition, pos.ID, pos)
	}
	for i := range undo.CashEntries {
		snapshot := undo.CashEntries[i]
		entry := cloneEntryValue(snapshot)
		s.entries[entry.ID] = entry
		s.persist(models.KindCashEntry, entry.ID, entry)
	}
	for i := range undo.Trades {
		t := undo.Trades[i]
		s.trades[t.ID] = &t
		s.persist(models.KindTrade, t.ID, &t)
	}

	s.logger.Info().Str("op", undo.Op).Str("portfolio", undo.PortfolioID).Msg("Operation reverted")
	return nil
}

func clonePositionValue(p models.Position) *models.Position {
	cp := clonePosition(&p)
	return &cp
}

func cloneEntryValue(e models.CashEntry) *models.CashEntry {
	ce := cloneEntry(&e)
	return &ce
}
