package cli

import (
	"fmt"
	"io"

	"github.com/artpar/hostctl/internal/core"
	"github.com/artpar/hostctl/internal/hostsfile"
	"github.com/artpar/hostctl/internal/tui"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// NewListCommand creates the list command.
func NewListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			store, err := application.LoadStore(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if store.Len() == 0 {
				fmt.Fprintln(out, "No environments configured.")
				return nil
			}

			st := newStyles(out)
			active, _ := store.Active()

			fmt.Fprintln(out, "Environments:")
			for _, env := range store.List() {
				current := ""
				if env.Name() == active {
					current = st.active.Render(" (current)")
				}
				n := env.EntryCount()
				fmt.Fprintf(out, "  - %s%s: %d %s", st.name.Render(env.Name()), current, n, tui.Plural(n, "entry", "entries"))
				if env.Description() != "" {
					fmt.Fprintf(out, " %s", st.dim.Render("- "+env.Description()))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

// NewCurrentCommand creates the current command.
func NewCurrentCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the active environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			store, err := application.LoadStore(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			env := store.ActiveEnvironment()
			if env == nil {
				fmt.Fprintln(out, "No environment is currently active.")
				return nil
			}

			fmt.Fprintf(out, "Current environment: %s\n", newStyles(out).name.Render(env.Name()))
			printEnvironmentBody(out, env)
			return nil
		},
	}
}

// AddOptions holds options for the add command.
type AddOptions struct {
	Description string
}

// NewAddCommand creates the add command.
func NewAddCommand(root *rootOptions) *cobra.Command {
	opts := &AddOptions{}

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			name := args[0]
			err := application.Update(cmd.Context(), func(s *core.Store) error {
				_, err := s.Create(name, opts.Description)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Environment '%s' created successfully.\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Environment description")

	return cmd
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove an environment",
		Long:    "Remove an environment. Removing the active environment clears the active\nmarker; the hosts file is left as is until the next switch.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			name := args[0]
			err := application.Update(cmd.Context(), func(s *core.Store) error {
				return s.Remove(name)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Environment '%s' removed successfully.\n", name)
			return nil
		},
	}
}

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Copy bool
}

// NewShowCommand creates the show command.
func NewShowCommand(root *rootOptions) *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show an environment's entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			store, err := application.LoadStore(cmd.Context())
			if err != nil {
				return err
			}
			env, err := store.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Environment: %s\n", newStyles(out).name.Render(env.Name()))
			printEnvironmentBody(out, env)

			if opts.Copy {
				if err := copyToClipboard(hostsfile.RenderBlock(env.Entries())); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				fmt.Fprintln(out, "Managed block copied to clipboard.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Copy, "copy", false, "Copy the rendered managed block to the clipboard")

	return cmd
}

func printEnvironmentBody(out io.Writer, env *core.Environment) {
	st := newStyles(out)
	if env.Description() != "" {
		fmt.Fprintf(out, "Description: %s\n", env.Description())
	}
	fmt.Fprintln(out, "Entries:")
	entries := env.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(out, st.dim.Render("  (no entries)"))
		return
	}
	for _, entry := range entries {
		line := hostsfile.RenderLine(entry)
		if !entry.Enabled {
			line = st.dim.Render(line)
		}
		fmt.Fprintf(out, "  %s\n", line)
	}
}
