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

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "View financial reports",
		Long:  `Summaries, per-category breakdowns, and monthly totals over recorded transactions.`,
	}

	cmd.AddCommand(summaryReportCmd())
	cmd.AddCommand(categoryReportCmd())
	cmd.AddCommand(monthlyReportCmd())

	return cmd
}

func reportServices() (*service.ReportService, error) {
	store, err := initStore()
	if err != nil {
		return nil, err
	}
	return service.NewReportService(service.NewTransactionService(store)), nil
}

func summaryReportCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Overall income/expense summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var fromDate, toDate time.Time
			var err error
			if from != "" {
				if fromDate, err = parseDate(from); err != nil {
					return err
				}
			}
			if to != "" {
				if toDate, err = parseDate(to); err != nil {
					return err
				}
				toDate = toDate.Add(24*time.Hour - time.Nanosecond)
			}

			reports, err := reportServices()
			if err != nil {
				return err
			}

			summary, err := reports.Summary(cmd.Context(), fromDate, toDate)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Financial Summary"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Total income:\t%s\t(%d transactions)\n", summary.TotalIncome.StringFixed(2), summary.IncomeCount)
			fmt.Fprintf(w, "Total expenses:\t%s\t(%d transactions)\n", summary.TotalExpenses.StringFixed(2), summary.ExpenseCount)
			fmt.Fprintf(w, "Net balance:\t%s\t\n", summary.NetBalance.StringFixed(2))
			if summary.IncomeCount > 0 {
				fmt.Fprintf(w, "Average income:\t%s\t\n", summary.AverageIncome.StringFixed(2))
			}
			if summary.ExpenseCount > 0 {
				fmt.Fprintf(w, "Average expense:\t%s\t\n", summary.AverageExpense.StringFixed(2))
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")

	return cmd
}

func categoryReportCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Per-category breakdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseTransactionType(txType)
			if err != nil {
				return err
			}

			reports, err := reportServices()
			if err != nil {
				return err
			}

			breakdown, err := reports.ByCategory(cmd.Context(), parsed)
			if err != nil {
				return err
			}

			if len(breakdown) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No transactions to report."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s by Category", parsed)))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tTOTAL\tCOUNT\tAVERAGE\tSHARE")
			for _, row := range breakdown {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s%%\n",
					row.Category,
					row.Total.StringFixed(2),
					row.Count,
					row.Average.StringFixed(2),
					row.Percentage.StringFixed(1))
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "expense", "Transaction type (income, expense)")

	return cmd
}

func monthlyReportCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Month-by-month totals for a year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year == 0 {
				year = time.Now().Year()
			}

			reports, err := reportServices()
			if err != nil {
				return err
			}

			rows, err := reports.Monthly(cmd.Context(), year)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Monthly Report %d", year)))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tINCOME\tEXPENSES\tNET\tCOUNT")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					row.Month.String(),
					row.Income.StringFixed(2),
					row.Expenses.StringFixed(2),
					row.Net.StringFixed(2),
					row.Count)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year to report (default: current year)")

	return cmd
}
