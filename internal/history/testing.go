package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreTests runs the standard store test suite against any Store implementation.
// Use this to verify that a Store implementation correctly implements the interface.
func RunStoreTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("Add", func(t *testing.T) {
		runAddTests(t, newStore)
	})
	t.Run("Get", func(t *testing.T) {
		runGetTests(t, newStore)
	})
	t.Run("List", func(t *testing.T) {
		runListTests(t, newStore)
	})
	t.Run("Count", func(t *testing.T) {
		runCountTests(t, newStore)
	})
	t.Run("Prune", func(t *testing.T) {
		runPruneTests(t, newStore)
	})
	t.Run("Clear", func(t *testing.T) {
		runClearTests(t, newStore)
	})
	t.Run("Close", func(t *testing.T) {
		runCloseTests(t, newStore)
	})
}

func addRecords(t *testing.T, store Store, records ...Record) []string {
	t.Helper()
	ids := make([]string, 0, len(records))
	for _, r := range records {
		id, err := store.Add(context.Background(), r)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

// switchesAt builds successful switch records to env, one per offset
// before base.
func switchesAt(base time.Time, env string, offsets ...time.Duration) []Record {
	records := make([]Record, 0, len(offsets))
	for _, off := range offsets {
		records = append(records, Record{
			Timestamp:   base.Add(-off),
			Environment: env,
			HostsPath:   "/etc/hosts",
			Success:     true,
		})
	}
	return records
}

func runAddTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("adds record and returns ID", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		id, err := store.Add(context.Background(), Record{
			Timestamp:   time.Now(),
			Environment: "dev",
			HostsPath:   "/etc/hosts",
			Success:     true,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("keeps caller supplied ID", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		id, err := store.Add(context.Background(), Record{ID: "switch-1", Timestamp: time.Now(), Environment: "dev"})

		require.NoError(t, err)
		assert.Equal(t, "switch-1", id)
	})

	t.Run("round trips all fields", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		record := Record{
			Timestamp:   time.Date(2024, 5, 1, 12, 30, 45, 123456789, time.UTC),
			Environment: "staging",
			Previous:    "dev",
			HostsPath:   "/etc/hosts",
			BackupPath:  "/etc/hosts.bak.20240501-123045",
			EntryCount:  3,
			Success:     false,
			Error:       "permission denied: cannot write /etc/hosts",
		}

		id, err := store.Add(context.Background(), record)
		require.NoError(t, err)

		got, err := store.Get(context.Background(), id)
		require.NoError(t, err)

		record.ID = id
		assert.True(t, record.Timestamp.Equal(got.Timestamp))
		got.Timestamp = record.Timestamp
		assert.Equal(t, record, got)
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ids := make(map[string]bool)
		for i := 0; i < 10; i++ {
			id, err := store.Add(context.Background(), Record{Timestamp: time.Now(), Environment: "dev"})
			require.NoError(t, err)
			assert.False(t, ids[id], "Duplicate ID generated")
			ids[id] = true
		}
	})
}

func runGetTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("returns error for non-existent record", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, err := store.Get(context.Background(), "non-existent-id")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("returns error for empty ID", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, err := store.Get(context.Background(), "")

		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func runListTests(t *testing.T, newStore func() (Store, func())) {
	base := time.Now().UTC()

	t.Run("lists newest first", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, Record{Timestamp: base.Add(-3 * time.Hour), Environment: "a"})
		addRecords(t, store, Record{Timestamp: base.Add(-1 * time.Hour), Environment: "c"})
		addRecords(t, store, Record{Timestamp: base.Add(-2 * time.Hour), Environment: "b"})

		records, err := store.List(context.Background(), QueryOptions{})
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "c", records[0].Environment)
		assert.Equal(t, "b", records[1].Environment)
		assert.Equal(t, "a", records[2].Environment)
	})

	t.Run("empty store", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		records, err := store.List(context.Background(), QueryOptions{})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("filters by environment", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, switchesAt(base, "dev", time.Hour, 2*time.Hour)...)
		addRecords(t, store, switchesAt(base, "prod", 3*time.Hour)...)

		records, err := store.List(context.Background(), QueryOptions{Environment: "dev"})
		require.NoError(t, err)
		assert.Len(t, records, 2)
		for _, r := range records {
			assert.Equal(t, "dev", r.Environment)
		}
	})

	t.Run("filters failed switches", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, switchesAt(base, "dev", time.Hour)...)
		addRecords(t, store, Record{Timestamp: base, Environment: "dev", Error: "boom"})

		records, err := store.List(context.Background(), QueryOptions{FailedOnly: true})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "boom", records[0].Error)
	})

	t.Run("filters by time range", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, switchesAt(base, "dev", time.Hour, 3*time.Hour, 5*time.Hour)...)

		records, err := store.List(context.Background(), QueryOptions{
			After:  base.Add(-4 * time.Hour),
			Before: base.Add(-2 * time.Hour),
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].Timestamp.Equal(base.Add(-3*time.Hour)))
	})

	t.Run("paginates", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		for i := 0; i < 5; i++ {
			addRecords(t, store, Record{Timestamp: base.Add(-time.Duration(i) * time.Minute), Environment: fmt.Sprintf("env%d", i)})
		}

		page, err := store.List(context.Background(), QueryOptions{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "env1", page[0].Environment)
		assert.Equal(t, "env2", page[1].Environment)
	})
}

func runCountTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("counts matching records", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		base := time.Now()
		addRecords(t, store, switchesAt(base, "dev", time.Hour, 2*time.Hour)...)
		addRecords(t, store, switchesAt(base, "prod", time.Hour)...)

		total, err := store.Count(context.Background(), QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		dev, err := store.Count(context.Background(), QueryOptions{Environment: "dev"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), dev)
	})

	t.Run("ignores pagination", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, switchesAt(time.Now(), "dev", time.Hour, 2*time.Hour, 3*time.Hour)...)

		count, err := store.Count(context.Background(), QueryOptions{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func runPruneTests(t *testing.T, newStore func() (Store, func())) {
	base := time.Now()

	t.Run("prunes older than duration", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, switchesAt(base, "dev", time.Hour, 48*time.Hour, 72*time.Hour)...)

		result, err := store.Prune(context.Background(), PruneOptions{OlderThan: 24 * time.Hour})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.DeletedCount)

		count, err := store.Count(context.Background(), QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("keeps last N", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, Record{Timestamp: base.Add(-3 * time.Hour), Environment: "old"})
		addRecords(t, store, Record{Timestamp: base.Add(-1 * time.Hour), Environment: "newest"})
		addRecords(t, store, Record{Timestamp: base.Add(-2 * time.Hour), Environment: "middle"})

		result, err := store.Prune(context.Background(), PruneOptions{KeepLast: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.DeletedCount)

		records, err := store.List(context.Background(), QueryOptions{})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "newest", records[0].Environment)
		assert.Equal(t, "middle", records[1].Environment)
	})

	t.Run("keep last larger than total", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, switchesAt(base, "dev", time.Hour)...)

		result, err := store.Prune(context.Background(), PruneOptions{KeepLast: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.DeletedCount)
	})

	t.Run("prunes before time", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, switchesAt(base, "dev", time.Hour, 5*time.Hour)...)

		result, err := store.Prune(context.Background(), PruneOptions{Before: base.Add(-2 * time.Hour)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.DeletedCount)
	})

	t.Run("no criteria deletes nothing", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, switchesAt(base, "dev", time.Hour)...)

		result, err := store.Prune(context.Background(), PruneOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.DeletedCount)
	})
}

func runClearTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("removes all records", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		addRecords(t, store, switchesAt(time.Now(), "dev", time.Hour, 2*time.Hour)...)

		require.NoError(t, store.Clear(context.Background()))

		count, err := store.Count(context.Background(), QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func runCloseTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("operations fail after close", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		require.NoError(t, store.Close())

		_, err := store.Add(context.Background(), Record{Timestamp: time.Now(), Environment: "dev"})
		assert.ErrorIs(t, err, ErrStoreClosed)
		_, err = store.List(context.Background(), QueryOptions{})
		assert.ErrorIs(t, err, ErrStoreClosed)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		require.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}
