package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/artpar/hostctl/internal/core"
	"github.com/artpar/hostctl/internal/history"
	"github.com/artpar/hostctl/internal/history/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app     *App
	config  Config
	history history.Store
}

func newFixture(t *testing.T, hostsContent string, opts ...Option) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := Config{
		ConfigPath:  filepath.Join(dir, "config", "config.yaml"),
		HostsPath:   filepath.Join(dir, "hosts"),
		HistoryPath: filepath.Join(dir, "config", "history.db"),
	}
	require.NoError(t, os.WriteFile(cfg.HostsPath, []byte(hostsContent), 0644))

	hist, err := sqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { hist.Close() })

	opts = append([]Option{WithConfig(cfg), WithHistory(hist)}, opts...)
	return &fixture{app: New(opts...), config: cfg, history: hist}
}

func (f *fixture) hosts(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.config.HostsPath)
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) seed(t *testing.T, fn func(*core.Store) error) {
	t.Helper()
	require.NoError(t, f.app.Update(context.Background(), fn))
}

func addDev(s *core.Store) error {
	if _, err := s.Create("dev", "local stack"); err != nil {
		return err
	}
	entry, err := core.NewHostEntry("127.0.0.1", "api.local")
	if err != nil {
		return err
	}
	return s.AddEntry("dev", entry)
}

func TestDefaultConfig(t *testing.T) {
	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/tmp/hc/config.yaml")
		t.Setenv(EnvHostsPath, "/tmp/hc/hosts")
		t.Setenv(EnvHistoryPath, "")

		cfg := DefaultConfig()
		assert.Equal(t, "/tmp/hc/config.yaml", cfg.ConfigPath)
		assert.Equal(t, "/tmp/hc/hosts", cfg.HostsPath)
		assert.Equal(t, filepath.Join("/tmp/hc", "history.db"), cfg.HistoryPath)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvHostsPath, "")
		t.Setenv(EnvHistoryPath, "")

		cfg := DefaultConfig()
		assert.Equal(t, "config.yaml", filepath.Base(cfg.ConfigPath))
		assert.Equal(t, "hostctl", filepath.Base(filepath.Dir(cfg.ConfigPath)))
		assert.NotEmpty(t, cfg.HostsPath)
		assert.Equal(t, DefaultHistoryPath(cfg.ConfigPath), cfg.HistoryPath)
	})
}

func TestNewApp(t *testing.T) {
	cfg := Config{ConfigPath: "/x/config.yaml", HostsPath: "/x/hosts", HistoryPath: "/x/history.db"}
	app := New(WithConfig(cfg))

	assert.Equal(t, cfg, app.Config())
	assert.Equal(t, "/x/hosts", app.Editor().Path())
	assert.NoError(t, app.Close())
}

func TestApp_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("persists changes", func(t *testing.T) {
		f := newFixture(t, "")
		f.seed(t, addDev)

		store, err := f.app.LoadStore(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"dev"}, store.Names())
	})

	t.Run("does not save on error", func(t *testing.T) {
		f := newFixture(t, "")
		f.seed(t, addDev)

		err := f.app.Update(ctx, func(s *core.Store) error {
			require.NoError(t, s.Remove("dev"))
			_, err := s.Create("dev", "")
			if err != nil {
				return err
			}
			return s.Remove("missing")
		})
		assert.ErrorIs(t, err, core.ErrNotFound)

		store, err := f.app.LoadStore(ctx)
		require.NoError(t, err)
		env, err := store.Get("dev")
		require.NoError(t, err)
		assert.Equal(t, "local stack", env.Description())
	})
}

func TestApp_Switch(t *testing.T) {
	ctx := context.Background()

	t.Run("writes hosts file and sets active", func(t *testing.T) {
		f := newFixture(t, "127.0.0.1 localhost\n")
		f.seed(t, addDev)

		result, err := f.app.Switch(ctx, "dev", SwitchOptions{})
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.Equal(t, 1, result.Entries)
		assert.Empty(t, result.Previous)

		assert.Equal(t,
			"127.0.0.1 localhost\n# HOSTCTL-MANAGED-START\n127.0.0.1 api.local\n# HOSTCTL-MANAGED-END\n",
			f.hosts(t))

		store, err := f.app.LoadStore(ctx)
		require.NoError(t, err)
		active, ok := store.Active()
		assert.True(t, ok)
		assert.Equal(t, "dev", active)
	})

	t.Run("switching twice is idempotent", func(t *testing.T) {
		f := newFixture(t, "127.0.0.1 localhost\n")
		f.seed(t, addDev)

		_, err := f.app.Switch(ctx, "dev", SwitchOptions{})
		require.NoError(t, err)
		first := f.hosts(t)

		result, err := f.app.Switch(ctx, "dev", SwitchOptions{})
		require.NoError(t, err)
		assert.False(t, result.Changed)
		assert.Equal(t, "dev", result.Previous)
		assert.Equal(t, first, f.hosts(t))
	})

	t.Run("empty environment leaves empty region", func(t *testing.T) {
		f := newFixture(t, "127.0.0.1 localhost\n")
		f.seed(t, addDev)

		_, err := f.app.Switch(ctx, "dev", SwitchOptions{})
		require.NoError(t, err)

		f.seed(t, func(s *core.Store) error { return s.RemoveEntry("dev", "api.local") })
		_, err = f.app.Switch(ctx, "dev", SwitchOptions{})
		require.NoError(t, err)

		assert.Equal(t,
			"127.0.0.1 localhost\n# HOSTCTL-MANAGED-START\n# HOSTCTL-MANAGED-END\n",
			f.hosts(t))
	})

	t.Run("unknown environment", func(t *testing.T) {
		f := newFixture(t, "127.0.0.1 localhost\n")

		_, err := f.app.Switch(ctx, "nope", SwitchOptions{})
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.Equal(t, "127.0.0.1 localhost\n", f.hosts(t))
	})

	t.Run("malformed hosts file leaves store untouched", func(t *testing.T) {
		f := newFixture(t, "# HOSTCTL-MANAGED-START\n")
		f.seed(t, addDev)

		_, err := f.app.Switch(ctx, "dev", SwitchOptions{})
		assert.ErrorIs(t, err, core.ErrMalformedManagedRegion)

		store, err := f.app.LoadStore(ctx)
		require.NoError(t, err)
		_, ok := store.Active()
		assert.False(t, ok)

		failed, err := f.history.List(ctx, history.QueryOptions{FailedOnly: true})
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, "dev", failed[0].Environment)
		assert.Contains(t, failed[0].Error, "malformed managed region")
	})

	t.Run("backup and history record", func(t *testing.T) {
		ts := time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)
		f := newFixture(t, "127.0.0.1 localhost\n", WithClock(func() time.Time { return ts }))
		f.seed(t, addDev)

		result, err := f.app.Switch(ctx, "dev", SwitchOptions{Backup: true})
		require.NoError(t, err)
		assert.Equal(t, f.config.HostsPath+".bak.20240601-080000", result.BackupPath)

		records, err := f.history.List(ctx, history.QueryOptions{})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].Success)
		assert.Equal(t, result.BackupPath, records[0].BackupPath)
		assert.Equal(t, f.config.HostsPath, records[0].HostsPath)
		assert.Equal(t, 1, records[0].EntryCount)
		assert.True(t, records[0].Timestamp.Equal(ts))
	})

	t.Run("history failure does not fail switch", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("relies on unix path semantics")
		}
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))
		cfg := Config{
			ConfigPath:  filepath.Join(dir, "config.yaml"),
			HostsPath:   filepath.Join(dir, "hosts"),
			HistoryPath: filepath.Join(blocker, "history.db"),
		}
		require.NoError(t, os.WriteFile(cfg.HostsPath, []byte("127.0.0.1 localhost\n"), 0644))

		var logs bytes.Buffer
		logger := logrus.New()
		logger.SetOutput(&logs)

		app := New(WithConfig(cfg), WithLogger(logger))
		defer app.Close()
		require.NoError(t, app.Update(ctx, addDev))

		_, err := app.Switch(ctx, "dev", SwitchOptions{})
		require.NoError(t, err)
		assert.Contains(t, logs.String(), "switch history unavailable")
	})
}

func TestApp_History(t *testing.T) {
	dir := t.TempDir()
	app := New(WithConfig(Config{
		ConfigPath:  filepath.Join(dir, "config.yaml"),
		HostsPath:   filepath.Join(dir, "hosts"),
		HistoryPath: filepath.Join(dir, "nested", "history.db"),
	}))

	store, err := app.History()
	require.NoError(t, err)
	again, err := app.History()
	require.NoError(t, err)
	assert.Same(t, store, again)

	require.NoError(t, app.Close())
	_, err = os.Stat(filepath.Join(dir, "nested", "history.db"))
	assert.NoError(t, err)
}
