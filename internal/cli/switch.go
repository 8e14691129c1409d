package cli

import (
	"fmt"

	"github.com/artpar/hostctl/internal/app"
	"github.com/artpar/hostctl/internal/core"
	"github.com/artpar/hostctl/internal/tui"
	"github.com/spf13/cobra"
)

// SwitchOptions holds options for the switch command.
type SwitchOptions struct {
	Backup bool
}

// NewSwitchCommand creates the switch command.
func NewSwitchCommand(root *rootOptions) *cobra.Command {
	opts := &SwitchOptions{}

	cmd := &cobra.Command{
		Use:   "switch NAME",
		Short: "Render an environment into the hosts file",
		Long: "Render an environment into the managed region of the hosts file and\n" +
			"mark it active. Writing the hosts file usually requires root or\n" +
			"administrator privileges.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			return runSwitch(cmd, application, args[0], opts.Backup)
		},
	}

	cmd.Flags().BoolVar(&opts.Backup, "backup", false, "Back up the hosts file before rewriting it")

	return cmd
}

func runSwitch(cmd *cobra.Command, application *app.App, name string, backup bool) error {
	result, err := application.Switch(cmd.Context(), name, app.SwitchOptions{Backup: backup})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.BackupPath != "" {
		fmt.Fprintf(out, "Backup written to %s\n", result.BackupPath)
	}
	if !result.Changed {
		fmt.Fprintln(out, newStyles(out).dim.Render("Hosts file already up to date."))
	}
	fmt.Fprintf(out, "Switched to environment: %s\n", name)
	return nil
}

// PickOptions holds options for the pick command.
type PickOptions struct {
	Backup bool
}

// NewPickCommand creates the pick command.
func NewPickCommand(root *rootOptions) *cobra.Command {
	opts := &PickOptions{}

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose an environment interactively and switch to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Backup, "backup", false, "Back up the hosts file before rewriting it")

	return cmd
}

func runPick(cmd *cobra.Command, root *rootOptions, opts *PickOptions) error {
	application := root.newApp(cmd)
	defer application.Close()

	store, err := application.LoadStore(cmd.Context())
	if err != nil {
		return err
	}

	name, ok, err := tui.Run(cmd.Context(), pickerItems(store), cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No environment selected.")
		return nil
	}

	return runSwitch(cmd, application, name, opts.Backup)
}

func pickerItems(store *core.Store) []tui.Item {
	active, _ := store.Active()
	envs := store.List()
	items := make([]tui.Item, 0, len(envs))
	for _, env := range envs {
		items = append(items, tui.Item{
			Name:        env.Name(),
			Description: env.Description(),
			Entries:     env.EntryCount(),
			Active:      env.Name() == active,
		})
	}
	return items
}
