package models

// UndoRef identifies an entity created by an operation; reverting the
// operation removes it.
type UndoRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Undo is the compensating descriptor returned by every mutating ledger
// operation. It carries deep-copied prior snapshots of every entity the
// operation touched, plus references to entities the operation created.
// Applying it restores the snapshots and removes the created entities.
//
// Persistence is fire-and-forget, so a failed remote write leaves local and
// remote state diverged; the descriptor is the hook for explicit
// reconciliation instead of silent divergence.
type Undo struct {
	Op          string `json:"op"`
	PortfolioID string `json:"portfolio_id,omitempty"`

	Portfolios  []Portfolio     `json:"portfolios,omitempty"`
	Positions   []Position      `json:"positions,omitempty"`
	CashEntries []CashEntry     `json:"cash_entries,omitempty"`
	Trades      []RealizedTrade `json:"trades,omitempty"`

	Created []UndoRef `json:"created,omitempty"`
}
