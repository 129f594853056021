package interfaces

import (
	"context"

	"github.com/varlik-app/varlik/internal/models"
)

// LedgerService owns the collection of portfolios and their open holdings,
// cash vault entries, and realized trades. All mutations go through it;
// reads are pure functions over the in-memory snapshot plus supplied quotes.
type LedgerService interface {
	// Load hydrates in-memory state from the record store.
	Load(ctx context.Context) error

	// Portfolio lifecycle
	CreatePortfolio(ctx context.Context, name, color, icon string) (*models.Portfolio, error)
	RenamePortfolio(ctx context.Context, id, name string) error
	DeletePortfolio(ctx context.Context, id string) error
	Portfolios() []*models.Portfolio
	Portfolio(id string) (*models.Portfolio, error)
	SetActive(ctx context.Context, id string) error
	Active() *models.Portfolio

	// Positions
	Buy(ctx context.Context, order models.BuyOrder) (*models.Position, *models.Undo, error)
	EditPosition(ctx context.Context, edit models.PositionEdit) (*models.Position, *models.Undo, error)
	Sell(ctx context.Context, order models.SellOrder) (*models.RealizedTrade, *models.Undo, error)
	DeletePosition(ctx context.Context, id string) (*models.Undo, error)
	Positions(portfolioID string) []*models.Position

	// Retirement accounts
	UpsertRetirementPosition(ctx context.Context, portfolioID, symbol string, components models.RetirementComponents) (*models.Position, *models.Undo, error)

	// Cash vault
	AddCashEntry(ctx context.Context, input models.CashEntryInput) (*models.CashEntry, *models.Undo, error)
	AddFundEntry(ctx context.Context, purchase models.FundPurchase) (*models.CashEntry, *models.Undo, error)
	UpdateCashEntry(ctx context.Context, id string, amount float64) (*models.CashEntry, *models.Undo, error)
	RedeemFund(ctx context.Context, redemption models.FundRedemption) (*models.RealizedTrade, *models.Undo, error)
	DeleteCashEntry(ctx context.Context, id string) (*models.Undo, error)
	CashEntries(portfolioID string) []*models.CashEntry

	// Realized trades
	Trades(portfolioID string) []*models.RealizedTrade
	DeleteTrade(ctx context.Context, id string) error

	// Cash balance
	AdjustCashBalance(ctx context.Context, portfolioID string, delta float64) error

	// Read-side valuation
	Summary(ctx context.Context, portfolioID, displayCurrency string) (*models.PortfolioSummary, error)
	SummaryWithQuotes(portfolioID, displayCurrency string, quotes models.QuoteSet) (*models.PortfolioSummary, error)

	// Revert applies a compensating descriptor returned by a mutating
	// operation, restoring prior state.
	Revert(ctx context.Context, undo *models.Undo) error

	// Wait blocks until in-flight persistence writes have drained.
	Wait()
}

// CashAdjuster is the narrow ledger surface the budget bridge needs.
type CashAdjuster interface {
	AdjustCashBalance(ctx context.Context, portfolioID string, delta float64) error
}

// BudgetBridge consumes linked budget entry events and propagates them into
// portfolio cash balance adjustments.
type BudgetBridge interface {
	EntryCreated(ctx context.Context, entry models.BudgetEntry) error
	EntryUpdated(ctx context.Context, oldEntry, newEntry models.BudgetEntry) error
	EntryDeleted(ctx context.Context, entry models.BudgetEntry) error
}
