package cli

import (
	"fmt"
	"strings"

	"github.com/artpar/hostctl/internal/core"
	"github.com/spf13/cobra"
)

// AddEntryOptions holds options for the add-entry command.
type AddEntryOptions struct {
	Comment  string
	Disabled bool
}

// NewAddEntryCommand creates the add-entry command.
func NewAddEntryCommand(root *rootOptions) *cobra.Command {
	opts := &AddEntryOptions{}

	cmd := &cobra.Command{
		Use:   "add-entry ENV ADDRESS HOSTNAME...",
		Short: "Add a host entry to an environment",
		Long:  "Add a host entry to an environment. Several hostnames form one entry\nsharing the address.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			envName := args[0]
			entry, err := core.NewHostEntry(args[1], args[2:]...)
			if err != nil {
				return err
			}
			entry = entry.WithComment(opts.Comment).WithEnabled(!opts.Disabled)

			err = application.Update(cmd.Context(), func(s *core.Store) error {
				return s.AddEntry(envName, entry)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Entry added to environment '%s': %s %s\n",
				envName, entry.Address, strings.Join(entry.Hostnames, " "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Comment, "comment", "c", "", "Trailing comment for the hosts line")
	cmd.Flags().BoolVar(&opts.Disabled, "disabled", false, "Add the entry commented out")

	return cmd
}

// NewRemoveEntryCommand creates the remove-entry command.
func NewRemoveEntryCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-entry ENV HOSTNAME",
		Short: "Remove the first entry listing a hostname",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			envName, hostname := args[0], args[1]
			err := application.Update(cmd.Context(), func(s *core.Store) error {
				return s.RemoveEntry(envName, hostname)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Entry removed from environment '%s': %s\n", envName, hostname)
			return nil
		},
	}
}

// NewToggleEntryCommand creates enable-entry or disable-entry.
func NewToggleEntryCommand(root *rootOptions, enable bool) *cobra.Command {
	verb := "disable"
	if enable {
		verb = "enable"
	}

	return &cobra.Command{
		Use:   verb + "-entry ENV HOSTNAME",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " the first entry listing a hostname",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			envName, hostname := args[0], args[1]
			err := application.Update(cmd.Context(), func(s *core.Store) error {
				return s.SetEntryEnabled(envName, hostname, enable)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Entry %sd in environment '%s': %s\n", verb, envName, hostname)
			return nil
		},
	}
}
