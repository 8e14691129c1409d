package cli

import (
	"fmt"

	"github.com/artpar/hostctl/internal/history"
	"github.com/artpar/hostctl/internal/tui"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit       int
	Environment string
	FailedOnly  bool
	PruneKeep   int
	Clear       bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(root *rootOptions) *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the log of environment switches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			store, err := application.History()
			if err != nil {
				return fmt.Errorf("failed to open switch history: %w", err)
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if opts.Clear {
				if err := store.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "Switch history cleared.")
				return nil
			}

			if opts.PruneKeep > 0 {
				result, err := store.Prune(ctx, history.PruneOptions{KeepLast: opts.PruneKeep})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d %s.\n", result.DeletedCount, tui.Plural(int(result.DeletedCount), "record", "records"))
				return nil
			}

			records, err := store.List(ctx, history.QueryOptions{
				Environment: opts.Environment,
				FailedOnly:  opts.FailedOnly,
				Limit:       opts.Limit,
			})
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(out, "No switches recorded.")
				return nil
			}

			st := newStyles(out)
			for _, r := range records {
				status := st.success.Render("ok")
				if !r.Success {
					status = st.failure.Render("failed: " + r.Error)
				}
				line := fmt.Sprintf("%s  %s  %s", r.Timestamp.Local().Format("2006-01-02 15:04:05"), st.name.Render(r.Environment), status)
				if r.Previous != "" {
					line += st.dim.Render(" (from " + r.Previous + ")")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of records to show (0 for all)")
	cmd.Flags().StringVar(&opts.Environment, "env", "", "Only show switches to this environment")
	cmd.Flags().BoolVar(&opts.FailedOnly, "failed", false, "Only show failed switches")
	cmd.Flags().IntVar(&opts.PruneKeep, "prune-keep", 0, "Delete all but the newest N records")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete all records")

	return cmd
}
