// Package storage selects a RecordStore backend from configuration.
package storage

import (
	"fmt"

	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/interfaces"
	"github.com/varlik-app/varlik/internal/storage/badgerdb"
	"github.com/varlik-app/varlik/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendBadger  = "badger"
	BackendSurreal = "surrealdb"
)

// NewRecordStore creates a record store based on the configuration.
// Supported backends: "badger" (default), "surrealdb".
func NewRecordStore(logger *common.Logger, config *common.Config) (interfaces.RecordStore, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = BackendBadger
	}

	switch backend {
	case BackendBadger:
		return badgerdb.NewStore(logger, config.Storage.Path)

	case BackendSurreal:
		return surrealdb.NewStore(logger, config)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: badger, surrealdb)", backend)
	}
}
