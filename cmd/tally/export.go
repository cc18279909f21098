package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/service"
)

func exportCmd() *cobra.Command {
	var (
		output   string
		txType   string
		category string
		from     string
		to       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as CSV",
		Example: `  # Export everything to a file
  tally export --output transactions.csv

  # Export one category to stdout
  tally export --category "Food & Dining"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := service.ListFilter{Category: category}
			if txType != "" {
				parsed, err := parseTransactionType(txType)
				if err != nil {
					return err
				}
				filter.Type = parsed
			}
			if from != "" {
				parsed, err := parseDate(from)
				if err != nil {
					return err
				}
				filter.From = parsed
			}
			if to != "" {
				parsed, err := parseDate(to)
				if err != nil {
					return err
				}
				filter.To = parsed
			}

			store, err := initStore()
			if err != nil {
				return err
			}

			exporter := service.NewExportService(service.NewTransactionService(store))

			out := os.Stdout
			if output != "" {
				f, createErr := os.Create(output)
				if createErr != nil {
					return fmt.Errorf("failed to create output file: %w", createErr)
				}
				defer func() {
					if closeErr := f.Close(); closeErr != nil {
						fmt.Fprintln(os.Stderr, cli.WarningStyle.Render(fmt.Sprintf("warning: %v", closeErr)))
					}
				}()
				out = f
			}

			count, err := exporter.ExportCSV(cmd.Context(), out, filter)
			if err != nil {
				return err
			}

			if output != "" {
				fmt.Printf("%s Exported %d transactions to %s\n",
					cli.SuccessStyle.Render("✓"),
					count,
					cli.InfoStyle.Render(output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&txType, "type", "t", "", "Filter by type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category name")
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")

	return cmd
}
