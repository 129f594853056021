package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/varlik-app/varlik/internal/category"
	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/fx"
	"github.com/varlik-app/varlik/internal/models"
)

// memStore is an in-memory RecordStore for tests. Safe for the service's
// concurrent fire-and-forget writes.
type memStore struct {
	mu      sync.Mutex
	records map[string]map[string]*models.Record // kind -> id -> record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]map[string]*models.Record)}
}

func (m *memStore) SaveRecords(_ context.Context, kind string, records []*models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[kind] == nil {
		m.records[kind] = make(map[string]*models.Record)
	}
	for _, rec := range records {
		cp := *rec
		m.records[kind][rec.ID] = &cp
	}
	return nil
}

func (m *memStore) DeleteRecord(_ context.Context, kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records[kind], id)
	return nil
}

func (m *memStore) LoadRecords(_ context.Context, kind string) ([]*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.Record
	for _, rec := range m.records[kind] {
		cp := *rec
		result = append(result, &cp)
	}
	return result, nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[kind])
}

// stubPrices serves fixed unit prices.
type stubPrices struct {
	prices map[string]float64
}

func (s *stubPrices) CurrentUnitPrice(_ context.Context, symbol string) (float64, bool, error) {
	p, ok := s.prices[symbol]
	return p, ok, nil
}

// stubRates serves one fixed rate for both current and historical lookups.
// A zero rate means unavailable.
type stubRates struct {
	rate float64
}

func (s *stubRates) CurrentRate(_ context.Context) (float64, bool, error) {
	return s.rate, s.rate > 0, nil
}

func (s *stubRates) HistoricalRate(_ context.Context, _ time.Time) (float64, bool, error) {
	return s.rate, s.rate > 0, nil
}

const (
	testLocal   = "TRY"
	testForeign = "USD"
)

// newTestService wires a service over an in-memory store with a fixed live
// rate of 40 local per foreign.
func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := NewService(
		store,
		&stubPrices{prices: map[string]float64{}},
		&stubRates{rate: 40},
		fx.New(testLocal, testForeign),
		category.New(testLocal, testForeign, category.Options{}),
		common.NewSilentLogger(),
	)
	t.Cleanup(svc.Wait)
	return svc, store
}

// newTestPortfolio creates a service plus one portfolio to operate on.
func newTestPortfolio(t *testing.T) (*Service, *memStore, *models.Portfolio) {
	t.Helper()
	svc, store := newTestService(t)
	p, err := svc.CreatePortfolio(context.Background(), "Main", "", "")
	if err != nil {
		t.Fatalf("CreatePortfolio: %v", err)
	}
	return svc, store, p
}

func ptr(v float64) *float64 { return &v }
