package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tally/internal/cli"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage data file backups",
		Long: `Create, list, restore, and prune backups of the data file.

Backups are timestamped copies of the JSON document kept next to it in a
backups directory. A restore validates the backup's integrity before it
overwrites the active data file.`,
		Example: `  # Create a backup before bulk edits
  tally backup create --tag pre-cleanup

  # List available backups
  tally backup list

  # Restore a backup
  tally backup restore ~/.local/share/tally/backups/pre-cleanup.json`,
	}

	cmd.AddCommand(createBackupCmd())
	cmd.AddCommand(listBackupsCmd())
	cmd.AddCommand(restoreBackupCmd())
	cmd.AddCommand(pruneBackupsCmd())

	return cmd
}

func createBackupCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a backup of the data file",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := initStore()
			if err != nil {
				return err
			}

			path, err := store.Backups().Create(tag)
			if err != nil {
				return err
			}

			var size int64
			if stat, statErr := os.Stat(path); statErr == nil {
				size = stat.Size()
			}

			fmt.Printf("%s Created backup %s (%s)\n",
				cli.SuccessStyle.Render("✓"),
				cli.InfoStyle.Render(path),
				formatFileSize(size))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Backup name (timestamped if not provided)")

	return cmd
}

func listBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available backups",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := initStore()
			if err != nil {
				return err
			}

			backups, err := store.Backups().List()
			if err != nil {
				return err
			}

			if len(backups) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No backups found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tCREATED")
			for _, backup := range backups {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					backup.Name,
					formatFileSize(backup.Size),
					backup.ModifiedAt.Format("2006-01-02 15:04:05"))
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func restoreBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Restore the data file from a backup",
		Long: `Restore the data file from a backup. The backup is parsed and
integrity-checked first; the current data file is snapshotted before it is
replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStore()
			if err != nil {
				return err
			}

			if err := store.Backups().Restore(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("%s Restored data from %s\n",
				cli.SuccessStyle.Render("✓"),
				cli.InfoStyle.Render(args[0]))
			return nil
		},
	}
}

func pruneBackupsCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old backups",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := initStore()
			if err != nil {
				return err
			}

			deleted, err := store.Backups().Prune(keep)
			if err != nil {
				return err
			}

			fmt.Printf("%s Deleted %d old backup(s), keeping the %d most recent\n",
				cli.SuccessStyle.Render("✓"),
				deleted,
				keep)
			return nil
		},
	}

	cmd.Flags().IntVarP(&keep, "keep", "k", 10, "Number of backups to keep")

	return cmd
}
