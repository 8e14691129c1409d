package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnvironmentName(t *testing.T) {
	for _, name := range []string{"dev", "Dev", "staging-2", "test_environment", "a"} {
		assert.NoError(t, ValidateEnvironmentName(name), name)
	}
	for _, name := range []string{"", "has space", "semi;colon", "dot.name", "slash/name", "ümlaut"} {
		assert.ErrorIs(t, ValidateEnvironmentName(name), ErrInvalidName, name)
	}
}

func TestStore_Create(t *testing.T) {
	t.Run("creates environment", func(t *testing.T) {
		store := NewStore()
		env, err := store.Create("dev", "Development")
		require.NoError(t, err)
		assert.Equal(t, "dev", env.Name())
		assert.Equal(t, "Development", env.Description())
		assert.Equal(t, 1, store.Len())
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		store := NewStore()
		_, err := store.Create("dev", "")
		require.NoError(t, err)

		_, err = store.Create("dev", "again")
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("names are case sensitive", func(t *testing.T) {
		store := NewStore()
		_, err := store.Create("dev", "")
		require.NoError(t, err)
		_, err = store.Create("Dev", "")
		assert.NoError(t, err)
	})

	t.Run("rejects invalid name", func(t *testing.T) {
		store := NewStore()
		_, err := store.Create("", "")
		assert.ErrorIs(t, err, ErrInvalidName)
		_, err = store.Create("bad name", "")
		assert.ErrorIs(t, err, ErrInvalidName)
		assert.Equal(t, 0, store.Len())
	})
}

func TestStore_List(t *testing.T) {
	store := NewStore()
	for _, name := range []string{"staging", "dev", "prod"} {
		_, err := store.Create(name, "")
		require.NoError(t, err)
	}

	t.Run("returns insertion order", func(t *testing.T) {
		var names []string
		for _, env := range store.List() {
			names = append(names, env.Name())
		}
		assert.Equal(t, []string{"staging", "dev", "prod"}, names)
		assert.Equal(t, names, store.Names())
	})

	t.Run("order survives removal", func(t *testing.T) {
		require.NoError(t, store.Remove("dev"))
		assert.Equal(t, []string{"staging", "prod"}, store.Names())
	})
}

func TestStore_Remove(t *testing.T) {
	t.Run("removes environment", func(t *testing.T) {
		store := NewStore()
		_, err := store.Create("qa", "")
		require.NoError(t, err)

		require.NoError(t, store.Remove("qa"))
		_, err = store.Get("qa")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("returns not found", func(t *testing.T) {
		store := NewStore()
		assert.ErrorIs(t, store.Remove("nonexistent"), ErrNotFound)
	})

	t.Run("clears active when removing active environment", func(t *testing.T) {
		store := NewStore()
		_, err := store.Create("env1", "")
		require.NoError(t, err)
		_, err = store.Create("env2", "")
		require.NoError(t, err)
		require.NoError(t, store.SetActive("env1"))

		require.NoError(t, store.Remove("env1"))

		_, ok := store.Active()
		assert.False(t, ok)
		assert.Nil(t, store.ActiveEnvironment())
		_, err = store.Get("env2")
		assert.NoError(t, err)
	})

	t.Run("keeps active when removing another environment", func(t *testing.T) {
		store := NewStore()
		_, err := store.Create("env1", "")
		require.NoError(t, err)
		_, err = store.Create("env2", "")
		require.NoError(t, err)
		require.NoError(t, store.SetActive("env1"))

		require.NoError(t, store.Remove("env2"))

		active, ok := store.Active()
		assert.True(t, ok)
		assert.Equal(t, "env1", active)
	})
}

func TestStore_Entries(t *testing.T) {
	store := NewStore()
	_, err := store.Create("dev", "")
	require.NoError(t, err)

	t.Run("adds entry", func(t *testing.T) {
		require.NoError(t, store.AddEntry("dev", mustEntry(t, "127.0.0.1", "api.local")))
		env, err := store.Get("dev")
		require.NoError(t, err)
		assert.Equal(t, 1, env.EntryCount())
	})

	t.Run("add to missing environment", func(t *testing.T) {
		err := store.AddEntry("missing", mustEntry(t, "127.0.0.1", "api.local"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("add invalid entry", func(t *testing.T) {
		err := store.AddEntry("dev", HostEntry{Address: "300.1.1.1", Hostnames: []string{"x"}})
		assert.ErrorIs(t, err, ErrInvalidEntry)
	})

	t.Run("disables entry", func(t *testing.T) {
		require.NoError(t, store.SetEntryEnabled("dev", "api.local", false))
		env, err := store.Get("dev")
		require.NoError(t, err)
		assert.False(t, env.Entries()[0].Enabled)
	})

	t.Run("toggle missing entry", func(t *testing.T) {
		assert.ErrorIs(t, store.SetEntryEnabled("dev", "missing.local", true), ErrEntryNotFound)
		assert.ErrorIs(t, store.SetEntryEnabled("missing", "api.local", true), ErrNotFound)
	})

	t.Run("removes entry", func(t *testing.T) {
		require.NoError(t, store.RemoveEntry("dev", "api.local"))
		env, err := store.Get("dev")
		require.NoError(t, err)
		assert.Equal(t, 0, env.EntryCount())
	})

	t.Run("remove missing entry", func(t *testing.T) {
		assert.ErrorIs(t, store.RemoveEntry("dev", "api.local"), ErrEntryNotFound)
		assert.ErrorIs(t, store.RemoveEntry("missing", "api.local"), ErrNotFound)
	})
}

func TestStore_Get(t *testing.T) {
	store := NewStore()
	_, err := store.Create("dev", "")
	require.NoError(t, err)

	env, err := store.Get("dev")
	require.NoError(t, err)
	require.NoError(t, env.AddEntry(mustEntry(t, "127.0.0.1", "api.local")))

	again, err := store.Get("dev")
	require.NoError(t, err)
	assert.Equal(t, 0, again.EntryCount(), "Get returns a copy")
}

func TestStore_SetActive(t *testing.T) {
	t.Run("starts unset", func(t *testing.T) {
		store := NewStore()
		name, ok := store.Active()
		assert.False(t, ok)
		assert.Equal(t, "", name)
	})

	t.Run("sets existing environment", func(t *testing.T) {
		store := NewStore()
		_, err := store.Create("dev", "")
		require.NoError(t, err)

		require.NoError(t, store.SetActive("dev"))
		name, ok := store.Active()
		assert.True(t, ok)
		assert.Equal(t, "dev", name)
		assert.Equal(t, "dev", store.ActiveEnvironment().Name())
	})

	t.Run("rejects missing environment", func(t *testing.T) {
		store := NewStore()
		assert.ErrorIs(t, store.SetActive("missing"), ErrNotFound)
		_, ok := store.Active()
		assert.False(t, ok)
	})

	t.Run("clears active", func(t *testing.T) {
		store := NewStore()
		_, err := store.Create("dev", "")
		require.NoError(t, err)
		require.NoError(t, store.SetActive("dev"))

		store.ClearActive()
		_, ok := store.Active()
		assert.False(t, ok)
	})
}

func TestStore_Add(t *testing.T) {
	store := NewStore()
	env := NewEnvironment("dev")
	require.NoError(t, env.AddEntry(mustEntry(t, "127.0.0.1", "api.local")))

	require.NoError(t, store.Add(env))
	assert.ErrorIs(t, store.Add(env), ErrDuplicateName)
	assert.ErrorIs(t, store.Add(NewEnvironment("bad name")), ErrInvalidName)

	loaded, err := store.Get("dev")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.EntryCount())
}
