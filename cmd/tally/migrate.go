package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/storage"
)

func migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade the data file schema",
		Long: `Apply any pending schema migrations to the data file.

Loading the data file migrates it automatically; this command exists to run
the upgrade explicitly and to inspect the current schema version.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStore()
			if err != nil {
				return err
			}

			if status {
				// Inspect reads the document as-is; Load would apply and
				// persist pending migrations.
				ds, inspectErr := store.Inspect(cmd.Context())
				if inspectErr != nil {
					return inspectErr
				}
				fmt.Printf("Data file: %s\n", store.Path())
				fmt.Printf("Schema version: %d (latest: %d)\n", ds.SchemaVersion, storage.CurrentSchemaVersion)
				if storage.NeedsMigration(ds) {
					fmt.Println(cli.WarningStyle.Render("Pending migrations: run `tally migrate` to upgrade."))
				}
				for _, record := range ds.MigrationHistory {
					fmt.Printf("  migrated %d -> %d at %s\n",
						record.FromVersion,
						record.ToVersion,
						record.MigratedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			}

			// Load applies pending migrations and persists the result.
			ds, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("%s Data file is at schema version %d\n",
				cli.SuccessStyle.Render("✓"),
				ds.SchemaVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Show current schema version without applying changes")

	return cmd
}
