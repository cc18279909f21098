package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/service"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show data file statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStore()
			if err != nil {
				return err
			}

			ds, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}

			transactions := service.NewTransactionService(store)
			income, expenses, err := transactions.Totals(cmd.Context())
			if err != nil {
				return err
			}

			var fileSize int64
			if stat, statErr := os.Stat(store.Path()); statErr == nil {
				fileSize = stat.Size()
			}

			fmt.Println(cli.TitleStyle.Render("Tally Data File"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Path:\t%s\n", store.Path())
			fmt.Fprintf(w, "Size:\t%s\n", formatFileSize(fileSize))
			fmt.Fprintf(w, "Schema version:\t%d\n", ds.SchemaVersion)
			fmt.Fprintf(w, "Transactions:\t%d\n", len(ds.Transactions))
			fmt.Fprintf(w, "Categories:\t%d\n", len(ds.Categories))
			fmt.Fprintf(w, "Currency:\t%s\n", ds.Settings.Currency)
			fmt.Fprintf(w, "Total income:\t%s\n", formatAmount(income, ds.Settings.Currency))
			fmt.Fprintf(w, "Total expenses:\t%s\n", formatAmount(expenses, ds.Settings.Currency))
			fmt.Fprintf(w, "Net balance:\t%s\n", formatAmount(income.Sub(expenses), ds.Settings.Currency))
			if !ds.Metadata.CreatedAt.IsZero() {
				fmt.Fprintf(w, "Created:\t%s\n", ds.Metadata.CreatedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}
