// Package ledger owns portfolios and their holdings: positions, cash vault
// entries, and realized trades. Every mutation updates in-memory state
// synchronously and persists fire-and-forget; reads are pure functions over
// the current snapshot plus externally supplied prices and rates.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/varlik-app/varlik/internal/category"
	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/fx"
	"github.com/varlik-app/varlik/internal/interfaces"
	"github.com/varlik-app/varlik/internal/models"
)

// persistTimeout bounds each background store write.
const persistTimeout = 10 * time.Second

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService
type Service struct {
	storage    interfaces.RecordStore
	prices     interfaces.PriceSource
	rates      interfaces.RateSource
	classifier *category.Classifier
	converter  fx.Converter
	logger     *common.Logger

	portfolios map[string]*models.Portfolio
	positions  map[string]*models.Position
	entries    map[string]*models.CashEntry
	trades     map[string]*models.RealizedTrade
	activeID   string

	persistWG sync.WaitGroup
}

// NewService creates a new ledger service. prices and rates may be nil;
// valuation then degrades to cost-equal display.
func NewService(
	storage interfaces.RecordStore,
	prices interfaces.PriceSource,
	rates interfaces.RateSource,
	converter fx.Converter,
	classifier *category.Classifier,
	logger *common.Logger,
) *Service {
	return &Service{
		storage:    storage,
		prices:     prices,
		rates:      rates,
		classifier: classifier,
		converter:  converter,
		logger:     logger,
		portfolios: make(map[string]*models.Portfolio),
		positions:  make(map[string]*models.Position),
		entries:    make(map[string]*models.CashEntry),
		trades:     make(map[string]*models.RealizedTrade),
	}
}

// Load hydrates in-memory state from the record store.
func (s *Service) Load(ctx context.Context) error {
	if err := loadKind(ctx, s, models.KindPortfolio, func(p *models.Portfolio) { s.portfolios[p.ID] = p }); err != nil {
		return err
	}
	if err := loadKind(ctx, s, models.KindPosition, func(p *models.Position) { s.positions[p.ID] = p }); err != nil {
		return err
	}
	if err := loadKind(ctx, s, models.KindCashEntry, func(e *models.CashEntry) { s.entries[e.ID] = e }); err != nil {
		return err
	}
	if err := loadKind(ctx, s, models.KindTrade, func(t *models.RealizedTrade) { s.trades[t.ID] = t }); err != nil {
		return err
	}

	records, err := s.storage.LoadRecords(ctx, models.KindSetting)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	for _, rec := range records {
		if rec.ID == models.SettingActivePortfolio {
			var id string
			if err := json.Unmarshal([]byte(rec.Value), &id); err == nil {
				if _, ok := s.portfolios[id]; ok {
					s.activeID = id
				}
			}
		}
	}

	s.logger.Info().
		Int("portfolios", len(s.portfolios)).
		Int("positions", len(s.positions)).
		Int("cash_entries", len(s.entries)).
		Int("trades", len(s.trades)).
		Msg("Ledger loaded")
	return nil
}

func loadKind[T any](ctx context.Context, s *Service, kind string, add func(*T)) error {
	records, err := s.storage.LoadRecords(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", kind, err)
	}
	for _, rec := range records {
		entity := new(T)
		if err := json.Unmarshal([]byte(rec.Value), entity); err != nil {
			s.logger.Warn().Err(err).Str("kind", kind).Str("id", rec.ID).Msg("Skipping unreadable record")
			continue
		}
		add(entity)
	}
	return nil
}

// CreatePortfolio creates a named portfolio. The first portfolio created
// becomes the active one.
func (s *Service) CreatePortfolio(ctx context.Context, name, color, icon string) (*models.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "must not be empty")
	}

	now := time.Now()
	p := &models.Portfolio{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.portfolios[p.ID] = p
	s.persist(models.KindPortfolio, p.ID, p)

	if s.activeID == "" {
		s.activeID = p.ID
		s.persistActive()
	}

	s.logger.Info().Str("portfolio", p.ID).Str("name", name).Msg("Portfolio created")
	return p, nil
}

// RenamePortfolio changes a portfolio's display name.
func (s *Service) RenamePortfolio(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.NewValidationError("name", "must not be empty")
	}
	p, ok := s.portfolios[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrPortfolioNotFound, id)
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	s.persist(models.KindPortfolio, p.ID, p)
	return nil
}

// DeletePortfolio removes a portfolio and everything it contains. The
// active portfolio cannot be deleted; reassign active status first.
func (s *Service) DeletePortfolio(ctx context.Context, id string) error {
	if _, ok := s.portfolios[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrPortfolioNotFound, id)
	}
	if id == s.activeID {
		return fmt.Errorf("%w: reassign the active portfolio before deleting", models.ErrPortfolioActive)
	}

	for posID, pos := range s.positions {
		if pos.PortfolioID == id {
			delete(s.positions, posID)
			s.remove(models.KindPosition, posID)
		}
	}
	for entryID, entry := range s.entries {
		if entry.PortfolioID == id {
			delete(s.entries, entryID)
			s.remove(models.KindCashEntry, entryID)
		}
	}
	for tradeID, trade := range s.trades {
		if trade.PortfolioID == id {
			delete(s.trades, tradeID)
			s.remove(models.KindTrade, tradeID)
		}
	}
	delete(s.portfolios, id)
	s.remove(models.KindPortfolio, id)

	s.logger.Info().Str("portfolio", id).Msg("Portfolio deleted")
	return nil
}

// Portfolios returns all portfolios, oldest first.
func (s *Service) Portfolios() []*models.Portfolio {
	result := make([]*models.Portfolio, 0, len(s.portfolios))
	for _, p := range s.portfolios {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Name < result[j].Name
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Portfolio returns one portfolio by id.
func (s *Service) Portfolio(id string) (*models.Portfolio, error) {
	p, ok := s.portfolios[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrPortfolioNotFound, id)
	}
	return p, nil
}

// SetActive marks a portfolio as the active one. Exactly one portfolio is
// active at a time.
func (s *Service) SetActive(ctx context.Context, id string) error {
	if _, ok := s.portfolios[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrPortfolioNotFound, id)
	}
	s.activeID = id
	s.persistActive()
	return nil
}

// Active returns the active portfolio, or nil when none exists.
func (s *Service) Active() *models.Portfolio {
	return s.portfolios[s.activeID]
}

// AdjustCashBalance applies a signed delta to a portfolio's cash balance.
func (s *Service) AdjustCashBalance(ctx context.Context, portfolioID string, delta float64) error {
	p, ok := s.portfolios[portfolioID]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrPortfolioNotFound, portfolioID)
	}
	p.CashBalance += delta
	p.UpdatedAt = time.Now()
	s.persist(models.KindPortfolio, p.ID, p)
	return nil
}

// Wait blocks until in-flight persistence writes have drained. Used at
// shutdown and by tests; callers of mutating operations never wait.
func (s *Service) Wait() {
	s.persistWG.Wait()
}

// persist schedules a fire-and-forget upsert of one entity. A failed write
// is logged; the in-memory mutation is never rolled back.
func (s *Service) persist(kind, id string, entity any) {
	value, err := json.Marshal(entity)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", kind).Str("id", id).Msg("Failed to encode record")
		return
	}
	rec := &models.Record{
		ID:       id,
		Kind:     kind,
		Value:    string(value),
		DateTime: time.Now(),
	}

	s.persistWG.Add(1)
	go func() {
		defer s.persistWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.storage.SaveRecords(ctx, kind, []*models.Record{rec}); err != nil {
			s.logger.Error().Err(err).Str("kind", kind).Str("id", id).
				Msg("Persist failed; local state kept, remote diverged until next successful save")
		}
	}()
}

// remove schedules a fire-and-forget delete of one record.
func (s *Service) remove(kind, id string) {
	s.persistWG.Add(1)
	go func() {
		defer s.persistWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.storage.DeleteRecord(ctx, kind, id); err != nil {
			s.logger.Error().Err(err).Str("kind", kind).Str("id", id).
				Msg("Delete failed; local state kept, remote diverged until next successful save")
		}
	}()
}

func (s *Service) persistActive() {
	s.persist(models.KindSetting, models.SettingActivePortfolio, s.activeID)
}

// liveRate fetches the current local-per-foreign rate, if a source is wired.
func (s *Service) liveRate(ctx context.Context) (float64, bool) {
	if s.rates == nil {
		return 0, false
	}
	rate, ok, err := s.rates.CurrentRate(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Rate lookup failed; conversions degrade")
		return 0, false
	}
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// clonePosition deep-copies a position, including its pointer fields, so
// undo snapshots stay stable after later mutation.
func clonePosition(p *models.Position) models.Position {
	cp := *p
	if p.OtherCurrencyCost != nil {
		v := *p.OtherCurrencyCost
		cp.OtherCurrencyCost = &v
	}
	if p.Retirement != nil {
		r := *p.Retirement
		cp.Retirement = &r
	}
	return cp
}

// cloneEntry deep-copies a cash entry.
func cloneEntry(e *models.CashEntry) models.CashEntry {
	ce := *e
	if e.InterestRate != nil {
		v := *e.InterestRate
		ce.InterestRate = &v
	}
	return ce
}
