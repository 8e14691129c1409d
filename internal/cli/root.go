package cli

import (
	"io"
	"os"

	"github.com/artpar/hostctl/internal/app"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	ConfigPath  string
	HostsPath   string
	HistoryPath string
	Verbose     bool
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hostctl",
		Short: "hostctl - switch hosts file environments",
		Long: "hostctl keeps named sets of hosts entries (environments) and switches\n" +
			"between them by rewriting a managed region of the system hosts file.\n" +
			"Content outside the region is never touched.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive(cmd) {
				return cmd.Help()
			}
			return runPick(cmd, opts, &PickOptions{})
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Configuration file (default $"+app.EnvConfigPath+" or <user config dir>/hostctl/config.yaml)")
	flags.StringVar(&opts.HostsPath, "hosts-file", "", "Hosts file to manage (default $"+app.EnvHostsPath+" or the system hosts file)")
	flags.StringVar(&opts.HistoryPath, "history", "", "Switch history database (default $"+app.EnvHistoryPath+" or history.db next to the config)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		NewListCommand(opts),
		NewCurrentCommand(opts),
		NewAddCommand(opts),
		NewRemoveCommand(opts),
		NewShowCommand(opts),
		NewSwitchCommand(opts),
		NewPickCommand(opts),
		NewAddEntryCommand(opts),
		NewRemoveEntryCommand(opts),
		NewToggleEntryCommand(opts, true),
		NewToggleEntryCommand(opts, false),
		NewBackupCommand(opts),
		NewBackupsCommand(opts),
		NewHistoryCommand(opts),
	)

	return cmd
}

// config resolves paths: flags win over environment variables, which win
// over the platform defaults.
func (o *rootOptions) config() app.Config {
	cfg := app.DefaultConfig()
	if o.ConfigPath != "" {
		cfg.ConfigPath = o.ConfigPath
		if os.Getenv(app.EnvHistoryPath) == "" {
			cfg.HistoryPath = app.DefaultHistoryPath(cfg.ConfigPath)
		}
	}
	if o.HostsPath != "" {
		cfg.HostsPath = o.HostsPath
	}
	if o.HistoryPath != "" {
		cfg.HistoryPath = o.HistoryPath
	}
	return cfg
}

func (o *rootOptions) logger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if o.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// newApp builds the application for one command invocation. Callers must
// Close it.
func (o *rootOptions) newApp(cmd *cobra.Command) *app.App {
	cfg := o.config()
	logger := o.logger(cmd.ErrOrStderr())
	logger.WithFields(logrus.Fields{
		"config":  cfg.ConfigPath,
		"hosts":   cfg.HostsPath,
		"history": cfg.HistoryPath,
	}).Debug("resolved paths")

	return app.New(
		app.WithConfig(cfg),
		app.WithLogger(logger),
	)
}

func isInteractive(cmd *cobra.Command) bool {
	return isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout())
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
