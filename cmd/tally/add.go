package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/service"
)

func addCmd() *cobra.Command {
	var (
		txType      string
		category    string
		description string
		date        string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Long:  `Record a new income or expense transaction against an existing category.`,
		Example: `  # Record an expense
  tally add 25.50 --category "Food & Dining" --description "Lunch"

  # Record income on a specific date
  tally add 3200 --type income --category Salary --description "March salary" --date 2026-03-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			parsedType, err := parseTransactionType(txType)
			if err != nil {
				return err
			}
			parsedDate, err := parseDate(date)
			if err != nil {
				return err
			}

			store, err := initStore()
			if err != nil {
				return err
			}

			transactions := service.NewTransactionService(store)
			txn, err := transactions.Create(cmd.Context(), amount, description, category, parsedType, parsedDate)
			if err != nil {
				return err
			}

			fmt.Printf("%s Recorded %s of %s in %s\n",
				cli.SuccessStyle.Render("✓"),
				txn.Type,
				cli.BoldStyle.Render(txn.Amount.StringFixed(2)),
				cli.InfoStyle.Render(txn.Category))
			fmt.Printf("  ID: %s\n", cli.SubtleStyle.Render(txn.ID))

			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "expense", "Transaction type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category name (must exist for the chosen type)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "Transaction description")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Transaction date (YYYY-MM-DD, default: today)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}
