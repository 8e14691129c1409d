package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tests for the Store interface are in testing.go and can be run against
// any Store implementation using RunStoreTests.

func TestStoreInterface(t *testing.T) {
	var _ Store = (*mockStore)(nil)
}

// mockStore is a minimal mock for compile-time interface checking.
type mockStore struct{}

func (m *mockStore) Add(ctx context.Context, record Record) (string, error) { return "", nil }
func (m *mockStore) Get(ctx context.Context, id string) (Record, error) { return Record{}, nil }
func (m *mockStore) List(ctx context.Context, opts QueryOptions) ([]Record, error) { return nil, nil }
func (m *mockStore) Count(ctx context.Context, opts QueryOptions) (int64, error) { return 0, nil }
func (m *mockStore) Prune(ctx context.Context, opts PruneOptions) (PruneResult, error) {
	return PruneResult{}, nil
}
func (m *mockStore) Clear(ctx context.Context) error { return nil }
func (m *mockStore) Close() error { return nil }

func TestErrors(t *testing.T) {
	t.Run("messages", func(t *testing.T) {
		assert.Equal(t, "history record not found", ErrNotFound.Error())
		assert.Equal(t, "invalid history record ID", ErrInvalidID.Error())
		assert.Equal(t, "history store is closed", ErrStoreClosed.Error())
	})

	t.Run("errors are comparable", func(t *testing.T) {
		wrapped := errors.Join(ErrNotFound, errors.New("context"))
		assert.True(t, errors.Is(wrapped, ErrNotFound))
		assert.False(t, errors.Is(wrapped, ErrStoreClosed))
	})
}
