package history

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrNotFound    = errors.New("history record not found")
	ErrInvalidID   = errors.New("invalid history record ID")
	ErrStoreClosed = errors.New("history store is closed")
)

// Store defines the interface for switch history storage.
// List returns records newest first.
type Store interface {
	// Add stores a record and returns its ID. An empty ID is generated.
	Add(ctx context.Context, record Record) (string, error)

	// Get retrieves a single record by ID.
	Get(ctx context.Context, id string) (Record, error)

	// List retrieves records matching the query options.
	List(ctx context.Context, opts QueryOptions) ([]Record, error)

	// Count returns the number of records matching the query options.
	Count(ctx context.Context, opts QueryOptions) (int64, error)

	// Prune removes old records based on the prune options.
	Prune(ctx context.Context, opts PruneOptions) (PruneResult, error)

	// Clear removes all records.
	Clear(ctx context.Context) error

	// Close closes the store and releases resources.
	Close() error
}
