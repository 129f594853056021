// Package surrealdb implements the RecordStore port on SurrealDB.
// Each record kind is kept in its own schemaless table.
package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/interfaces"
	"github.com/varlik-app/varlik/internal/models"
)

// Compile-time interface check
var _ interfaces.RecordStore = (*Store)(nil)

// Store implements interfaces.RecordStore using SurrealDB.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewStore connects to SurrealDB, signs in, selects the namespace and
// database, and defines the record tables.
func NewStore(logger *common.Logger, config *common.Config) (*Store, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables up front (SurrealDB v3 errors on querying non-existent tables)
	tables := []string{
		models.KindPortfolio,
		models.KindPosition,
		models.KindCashEntry,
		models.KindTrade,
		models.KindSetting,
	}
	for _, table := range tables {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB record store initialized")

	return &Store{db: db, logger: logger}, nil
}

// SaveRecords upserts records into the kind's table, continuing each
// record's stored version sequence.
func (s *Store) SaveRecords(ctx context.Context, kind string, records []*models.Record) error {
	for _, record := range records {
		record.Kind = kind

		rid := surrealmodels.NewRecordID(kind, record.ID)
		stored, err := surrealdb.Select[models.Record](ctx, s.db, rid)
		if err != nil && !isNotFoundError(err) {
			return fmt.Errorf("failed to read %s record '%s': %w", kind, record.ID, err)
		}
		if stored != nil {
			record.Version = stored.Version + 1
		} else {
			record.Version = 1
		}
		if record.DateTime.IsZero() {
			record.DateTime = time.Now()
		}

		sql := "UPSERT $rid CONTENT $record"
		vars := map[string]any{
			"rid":    rid,
			"record": record,
		}
		if _, err := surrealdb.Query[[]models.Record](ctx, s.db, sql, vars); err != nil {
			return fmt.Errorf("failed to save %s record '%s': %w", kind, record.ID, err)
		}
	}
	return nil
}

// DeleteRecord removes one record. Deleting a missing record is not an error.
func (s *Store) DeleteRecord(ctx context.Context, kind, id string) error {
	_, err := surrealdb.Delete[models.Record](ctx, s.db, surrealmodels.NewRecordID(kind, id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete %s record '%s': %w", kind, id, err)
	}
	return nil
}

// LoadRecords returns every record in the kind's table.
func (s *Store) LoadRecords(ctx context.Context, kind string) ([]*models.Record, error) {
	sql := fmt.Sprintf("SELECT * FROM %s", kind)
	results, err := surrealdb.Query[[]models.Record](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", kind, err)
	}

	var records []*models.Record
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			records = append(records, &(*results)[0].Result[i])
		}
	}
	return records, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.db.Close(context.Background())
	return nil
}

// isNotFoundError reports whether err is SurrealDB's record-not-found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no record")
}
