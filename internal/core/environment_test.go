package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntry(t *testing.T, address string, hostnames ...string) HostEntry {
	t.Helper()
	entry, err := NewHostEntry(address, hostnames...)
	require.NoError(t, err)
	return entry
}

func TestNewEnvironment(t *testing.T) {
	t.Run("creates environment with name", func(t *testing.T) {
		env := NewEnvironment("dev")
		assert.Equal(t, "dev", env.Name())
		assert.False(t, env.CreatedAt().IsZero())
		assert.Equal(t, env.CreatedAt(), env.UpdatedAt())
	})

	t.Run("starts with no entries", func(t *testing.T) {
		env := NewEnvironment("dev")
		assert.Empty(t, env.Entries())
		assert.Equal(t, 0, env.EntryCount())
		assert.Equal(t, "", env.Description())
	})
}

func TestEnvironment_Entries(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		env := NewEnvironment("dev")
		require.NoError(t, env.AddEntry(mustEntry(t, "10.0.0.2", "b.local")))
		require.NoError(t, env.AddEntry(mustEntry(t, "10.0.0.1", "a.local")))
		require.NoError(t, env.AddEntry(mustEntry(t, "10.0.0.3", "c.local")))

		entries := env.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "b.local", entries[0].PrimaryHostname())
		assert.Equal(t, "a.local", entries[1].PrimaryHostname())
		assert.Equal(t, "c.local", entries[2].PrimaryHostname())
	})

	t.Run("rejects invalid entry", func(t *testing.T) {
		env := NewEnvironment("dev")
		err := env.AddEntry(HostEntry{Address: "not-an-ip", Hostnames: []string{"a.local"}, Enabled: true})
		assert.ErrorIs(t, err, ErrInvalidEntry)
		assert.Empty(t, env.Entries())
	})

	t.Run("entries returns copy not reference", func(t *testing.T) {
		env := NewEnvironment("dev")
		require.NoError(t, env.AddEntry(mustEntry(t, "127.0.0.1", "api.local")))

		entries := env.Entries()
		entries[0].Hostnames[0] = "modified"
		entries[0].Enabled = false

		again := env.Entries()
		assert.Equal(t, "api.local", again[0].Hostnames[0])
		assert.True(t, again[0].Enabled)
	})

	t.Run("mutations update timestamp", func(t *testing.T) {
		env := NewEnvironmentWithTimestamps("dev", time.Unix(0, 0).UTC(), time.Unix(0, 0).UTC())
		require.NoError(t, env.AddEntry(mustEntry(t, "127.0.0.1", "api.local")))
		assert.True(t, env.UpdatedAt().After(env.CreatedAt()))
	})
}

func TestEnvironment_DuplicateHostnames(t *testing.T) {
	env := NewEnvironment("dev")
	require.NoError(t, env.AddEntry(mustEntry(t, "192.168.1.1", "duplicate")))
	require.NoError(t, env.AddEntry(mustEntry(t, "192.168.1.2", "duplicate")))
	assert.Equal(t, 2, env.EntryCount())

	t.Run("find returns first match", func(t *testing.T) {
		found, ok := env.FindEntry("duplicate")
		require.True(t, ok)
		assert.Equal(t, "192.168.1.1", found.Address)
	})

	t.Run("remove removes first match only", func(t *testing.T) {
		assert.True(t, env.RemoveEntry("duplicate"))
		entries := env.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "192.168.1.2", entries[0].Address)
	})
}

func TestEnvironment_RemoveEntry(t *testing.T) {
	t.Run("matches any hostname token", func(t *testing.T) {
		env := NewEnvironment("dev")
		require.NoError(t, env.AddEntry(mustEntry(t, "10.0.0.1", "api.internal", "api")))

		assert.True(t, env.RemoveEntry("api"))
		assert.Empty(t, env.Entries())
	})

	t.Run("returns false when missing", func(t *testing.T) {
		env := NewEnvironment("dev")
		assert.False(t, env.RemoveEntry("nonexistent"))
	})
}

func TestEnvironment_SetEntryEnabled(t *testing.T) {
	env := NewEnvironment("dev")
	require.NoError(t, env.AddEntry(mustEntry(t, "10.0.0.1", "api.local")))

	assert.True(t, env.SetEntryEnabled("api.local", false))
	entry, _ := env.FindEntry("api.local")
	assert.False(t, entry.Enabled)

	assert.True(t, env.SetEntryEnabled("api.local", true))
	entry, _ = env.FindEntry("api.local")
	assert.True(t, entry.Enabled)

	assert.False(t, env.SetEntryEnabled("missing.local", true))
}

func TestEnvironment_Clone(t *testing.T) {
	env := NewEnvironment("dev")
	env.SetDescription("Development")
	require.NoError(t, env.AddEntry(mustEntry(t, "10.0.0.1", "api.local")))

	clone := env.Clone()
	assert.Equal(t, env.Name(), clone.Name())
	assert.Equal(t, env.Description(), clone.Description())
	assert.Equal(t, env.Entries(), clone.Entries())
	assert.Equal(t, env.UpdatedAt(), clone.UpdatedAt())

	clone.RemoveEntry("api.local")
	assert.Equal(t, 1, env.EntryCount())
}

func TestEnvironment_Restore(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)

	t.Run("keeps timestamps", func(t *testing.T) {
		env := NewEnvironmentWithTimestamps("dev", created, updated)
		err := env.Restore("desc", []HostEntry{mustEntry(t, "::1", "ipv6.local")})
		require.NoError(t, err)

		assert.Equal(t, created, env.CreatedAt())
		assert.Equal(t, updated, env.UpdatedAt())
		assert.Equal(t, "desc", env.Description())
		assert.Equal(t, 1, env.EntryCount())
	})

	t.Run("rejects invalid entries", func(t *testing.T) {
		env := NewEnvironmentWithTimestamps("dev", created, updated)
		err := env.Restore("", []HostEntry{{Address: "127.0.0.1", Enabled: true}})
		assert.ErrorIs(t, err, ErrInvalidEntry)
	})
}
