package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBackupCommand creates the backup command.
func NewBackupCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a timestamped copy of the hosts file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			path, err := application.Editor().Backup(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			return nil
		},
	}
}

// NewBackupsCommand creates the backups command.
func NewBackupsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backups of the hosts file, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := root.newApp(cmd)
			defer application.Close()

			backups, err := application.Editor().ListBackups()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(backups) == 0 {
				fmt.Fprintln(out, "No backups found.")
				return nil
			}

			st := newStyles(out)
			for _, b := range backups {
				fmt.Fprintf(out, "%s  %s\n", b.Path,
					st.dim.Render(fmt.Sprintf("(%s, %d bytes)", b.CreatedAt.Format("2006-01-02 15:04:05"), b.Size)))
			}
			return nil
		},
	}
}
