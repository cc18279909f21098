package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/service"
)

func listCmd() *cobra.Command {
	var (
		txType   string
		category string
		from     string
		to       string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `List recorded transactions, newest first, optionally filtered by type, category, or date range.`,
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
				// Include the whole end day.
				filter.To = parsed.Add(24*time.Hour - time.Nanosecond)
			}

			store, err := initStore()
			if err != nil {
				return err
			}

			transactions := service.NewTransactionService(store)
			txns, err := transactions.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if len(txns) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No transactions found."))
				return nil
			}
			if limit > 0 && len(txns) > limit {
				txns = txns[:limit]
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION\tID")
			for _, txn := range txns {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					txn.Date.Format("2006-01-02"),
					txn.Type,
					txn.Amount.StringFixed(2),
					txn.Category,
					txn.Description,
					txn.ID)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "Filter by type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category name")
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N transactions (0 = all)")

	return cmd
}
