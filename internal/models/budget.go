package models

import "time"

// BudgetEntryType is the direction of a recurring budget entry.
type BudgetEntryType string

const (
	// BudgetExpense is money moving into the linked portfolio
	// (a recurring investment contribution).
	BudgetExpense BudgetEntryType = "expense"
	// BudgetIncome is money withdrawn from the linked portfolio.
	BudgetIncome BudgetEntryType = "income"
)

// ValidBudgetEntryType returns true if t is a valid budget entry type.
func ValidBudgetEntryType(t BudgetEntryType) bool {
	return t == BudgetExpense || t == BudgetIncome
}

// BudgetEntry is a cash-flow record external to the ledger. When it carries
// a LinkedPortfolioID, its presence adjusts that portfolio's cash balance;
// the adjustment is reversed symmetrically on edit and delete.
type BudgetEntry struct {
	ID                string          `json:"id"`
	Type              BudgetEntryType `json:"type"`
	Amount            float64         `json:"amount"` // local currency, positive
	Description       string          `json:"description,omitempty"`
	LinkedPortfolioID string          `json:"linked_portfolio_id,omitempty"`
	Date              time.Time       `json:"date"`
}

// IsLinked returns true when the entry targets a portfolio.
func (e BudgetEntry) IsLinked() bool {
	return e.LinkedPortfolioID != ""
}

// CashEffect returns the signed adjustment this entry applies to the linked
// portfolio's cash balance: +amount for expenses (money moved into the
// portfolio), -amount for income (money withdrawn from it).
func (e BudgetEntry) CashEffect() float64 {
	if e.Type == BudgetIncome {
		return -e.Amount
	}
	return e.Amount
}
