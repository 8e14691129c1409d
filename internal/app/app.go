package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/artpar/hostctl/internal/atomicfile"
	"github.com/artpar/hostctl/internal/core"
	"github.com/artpar/hostctl/internal/history"
	"github.com/artpar/hostctl/internal/history/sqlite"
	"github.com/artpar/hostctl/internal/hostsfile"
	"github.com/artpar/hostctl/internal/storage/filesystem"
	"github.com/sirupsen/logrus"
)

// Environment variables overriding the default paths.
const (
	EnvConfigPath  = "HOSTCTL_CONFIG"
	EnvHostsPath   = "HOSTCTL_HOSTS_FILE"
	EnvHistoryPath = "HOSTCTL_HISTORY"
)

// Config holds application configuration.
type Config struct {
	ConfigPath  string
	HostsPath   string
	HistoryPath string
}

// DefaultConfig resolves paths from the environment, falling back to the
// user config directory and the platform hosts file.
func DefaultConfig() Config {
	cfg := Config{
		ConfigPath:  os.Getenv(EnvConfigPath),
		HostsPath:   os.Getenv(EnvHostsPath),
		HistoryPath: os.Getenv(EnvHistoryPath),
	}

	if cfg.ConfigPath == "" {
		cfg.ConfigPath = filepath.Join(userConfigDir(), "hostctl", "config.yaml")
	}
	if cfg.HostsPath == "" {
		cfg.HostsPath = hostsfile.DefaultPath()
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = DefaultHistoryPath(cfg.ConfigPath)
	}
	return cfg
}

// DefaultHistoryPath returns the history database location for a config file.
func DefaultHistoryPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "history.db")
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return "."
}

// App wires the configuration store, the hosts file editor and the switch
// history together.
type App struct {
	config Config
	logger logrus.FieldLogger
	now    func() time.Time

	configStore *filesystem.ConfigStore
	editor      *hostsfile.Editor

	historyMu   sync.Mutex
	history     history.Store
	historyErr  error
	ownsHistory bool
}

// Option is a function that configures the App.
type Option func(*App)

// New creates a new App with the given options.
func New(opts ...Option) *App {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	app := &App{
		config: DefaultConfig(),
		logger: discard,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(app)
	}

	app.configStore = filesystem.NewConfigStore(app.config.ConfigPath)
	app.editor = hostsfile.NewEditor(app.config.HostsPath,
		hostsfile.WithLogger(app.logger),
		hostsfile.WithClock(app.now),
	)
	return app
}

// WithConfig sets the application configuration.
func WithConfig(cfg Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithLogger sets the logger shared by all components.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithHistory sets the switch history store. The caller keeps ownership.
func WithHistory(store history.Store) Option {
	return func(a *App) {
		a.history = store
	}
}

// WithClock sets the clock used for history records and backup names.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// Config returns the application configuration.
func (a *App) Config() Config {
	return a.config
}

// Editor returns the hosts file editor.
func (a *App) Editor() *hostsfile.Editor {
	return a.editor
}

// History returns the switch history store, opening the sqlite database at
// Config.HistoryPath on first use.
func (a *App) History() (history.Store, error) {
	a.historyMu.Lock()
	defer a.historyMu.Unlock()

	if a.history != nil || a.historyErr != nil {
		return a.history, a.historyErr
	}

	if err := atomicfile.EnsureDir(filepath.Dir(a.config.HistoryPath), 0755); err != nil {
		a.historyErr = err
		return nil, err
	}
	store, err := sqlite.New(a.config.HistoryPath)
	if err != nil {
		a.historyErr = err
		return nil, err
	}
	a.history = store
	a.ownsHistory = true
	return store, nil
}

// Close releases the history store if the App opened it.
func (a *App) Close() error {
	a.historyMu.Lock()
	defer a.historyMu.Unlock()

	if a.history == nil || !a.ownsHistory {
		return nil
	}
	err := a.history.Close()
	a.history = nil
	a.ownsHistory = false
	return err
}

// LoadStore reads the environment store from the configuration file.
func (a *App) LoadStore(ctx context.Context) (*core.Store, error) {
	return a.configStore.Load(ctx)
}

// SaveStore persists the environment store.
func (a *App) SaveStore(ctx context.Context, store *core.Store) error {
	return a.configStore.Save(ctx, store)
}

// Update loads the store, applies fn and saves the result. Nothing is
// written when fn fails.
func (a *App) Update(ctx context.Context, fn func(*core.Store) error) error {
	store, err := a.LoadStore(ctx)
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	return a.SaveStore(ctx, store)
}
