// Package interfaces defines service contracts for Varlik
package interfaces

import (
	"context"

	"github.com/varlik-app/varlik/internal/models"
)

// RecordStore is the persistence port. Every entity collection is a flat set
// of records keyed by id; stores never interpret record contents.
//
// The ledger calls these after each mutating operation and does not wait for
// completion to return control to the caller: a failed write is logged and
// the in-memory state is not reverted.
type RecordStore interface {
	// SaveRecords upserts records into a collection.
	SaveRecords(ctx context.Context, kind string, records []*models.Record) error

	// DeleteRecord removes one record from a collection. Deleting a record
	// that does not exist is not an error.
	DeleteRecord(ctx context.Context, kind, id string) error

	// LoadRecords returns every record in a collection.
	LoadRecords(ctx context.Context, kind string) ([]*models.Record, error)

	// Lifecycle
	Close() error
}
