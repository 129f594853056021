// Package badgerdb implements the RecordStore port using BadgerHold.
// Records of every collection share one store under composite keys.
package badgerdb

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/interfaces"
	"github.com/varlik-app/varlik/internal/models"
)

// Compile-time interface check
var _ interfaces.RecordStore = (*Store)(nil)

// Store implements interfaces.RecordStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (creating if needed) a BadgerHold store at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Badger store opened")
	return &Store{db: db, logger: logger}, nil
}

// keySep is the composite key separator. Using a null byte prevents
// collisions when kind or id contain other separators.
const keySep = "\x00"

// compositeKey builds the storage key: kind + \x00 + id
func compositeKey(kind, id string) string {
	return kind + keySep + id
}

// SaveRecords upserts records into a collection, bumping each record's
// version past the stored one.
func (s *Store) SaveRecords(_ context.Context, kind string, records []*models.Record) error {
	for _, record := range records {
		ck := compositeKey(kind, record.ID)
		record.Kind = kind

		var existing models.Record
		if err := s.db.Get(ck, &existing); err == nil {
			record.Version = existing.Version + 1
		} else {
			record.Version = 1
		}
		if record.DateTime.IsZero() {
			record.DateTime = time.Now()
		}

		if err := s.db.Upsert(ck, record); err != nil {
			return fmt.Errorf("failed to save %s record '%s': %w", kind, record.ID, err)
		}
	}
	return nil
}

// DeleteRecord removes one record. Deleting a missing record is not an error.
func (s *Store) DeleteRecord(_ context.Context, kind, id string) error {
	ck := compositeKey(kind, id)
	if err := s.db.Delete(ck, models.Record{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete %s record '%s': %w", kind, id, err)
	}
	return nil
}

// LoadRecords returns every record in a collection.
func (s *Store) LoadRecords(_ context.Context, kind string) ([]*models.Record, error) {
	var all []models.Record
	if err := s.db.Find(&all, badgerhold.Where("Kind").Eq(kind)); err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", kind, err)
	}
	result := make([]*models.Record, 0, len(all))
	for i := range all {
		rec := all[i]
		result = append(result, &rec)
	}
	return result, nil
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.db.Close()
}
