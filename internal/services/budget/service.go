// Package budget propagates linked budget entries into portfolio cash
// balance adjustments. An expense entry moves money into its linked
// portfolio, an income entry withdraws it; edits reverse the old effect
// before applying the new one, and deletes reverse only.
package budget

import (
	"context"
	"fmt"

	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/interfaces"
	"github.com/varlik-app/varlik/internal/models"
)

// Compile-time interface check
var _ interfaces.BudgetBridge = (*Service)(nil)

// Service implements BudgetBridge
type Service struct {
	ledger interfaces.CashAdjuster
	logger *common.Logger
}

// NewService creates a new budget bridge.
func NewService(ledger interfaces.CashAdjuster, logger *common.Logger) *Service {
	return &Service{ledger: ledger, logger: logger}
}

// EntryCreated applies a new entry's cash effect to its linked portfolio.
// Entries without a link are ignored.
func (s *Service) EntryCreated(ctx context.Context, entry models.BudgetEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	if !entry.IsLinked() {
		return nil
	}
	if err := s.ledger.AdjustCashBalance(ctx, entry.LinkedPortfolioID, entry.CashEffect()); err != nil {
		return fmt.Errorf("failed to apply budget entry %s: %w", entry.ID, err)
	}
	s.logger.Debug().Str("entry", entry.ID).Str("portfolio", entry.LinkedPortfolioID).
		Float64("effect", entry.CashEffect()).Msg("Budget entry applied")
	return nil
}

// EntryUpdated first reverses the old entry's effect, using the old type,
// amount, and link, then applies the new entry's effect. The two-step order
// is mandatory: it keeps the balance correct when the amount, direction, or
// link target changed.
func (s *Service) EntryUpdated(ctx context.Context, oldEntry, newEntry models.BudgetEntry) error {
	if err := validateEntry(newEntry); err != nil {
		return err
	}
	if err := s.EntryDeleted(ctx, oldEntry); err != nil {
		return err
	}
	return s.EntryCreated(ctx, newEntry)
}

// EntryDeleted reverses an entry's cash effect on its linked portfolio.
func (s *Service) EntryDeleted(ctx context.Context, entry models.BudgetEntry) error {
	if !entry.IsLinked() {
		return nil
	}
	if err := s.ledger.AdjustCashBalance(ctx, entry.LinkedPortfolioID, -entry.CashEffect()); err != nil {
		return fmt.Errorf("failed to reverse budget entry %s: %w", entry.ID, err)
	}
	s.logger.Debug().Str("entry", entry.ID).Str("portfolio", entry.LinkedPortfolioID).
		Float64("effect", -entry.CashEffect()).Msg("Budget entry reversed")
	return nil
}

func validateEntry(entry models.BudgetEntry) error {
	if !models.ValidBudgetEntryType(entry.Type) {
		return models.NewValidationError("type", fmt.Sprintf("unknown entry type %q", entry.Type))
	}
	if entry.Amount <= 0 {
		return models.NewValidationError("amount", "must be positive")
	}
	return nil
}
