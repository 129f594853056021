package models

import "time"

// Collection kinds for the persistence port. Every entity is persisted as a
// flat Record in its own collection, keyed by id.
const (
	KindPortfolio = "portfolios"
	KindPosition  = "positions"
	KindCashEntry = "cash_entries"
	KindTrade     = "realized_trades"
	KindSetting   = "settings"
)

// SettingActivePortfolio is the settings-record id holding the id of the
// currently active portfolio.
const SettingActivePortfolio = "active_portfolio"

// Record is the generic persistence envelope. The entity is JSON-encoded in
// Value; stores never interpret it.
type Record struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Value    string    `json:"value"`
	Version  int       `json:"version"`
	DateTime time.Time `json:"datetime"`
}
