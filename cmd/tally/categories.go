package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/model"
	"tally/internal/service"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
		Long: `List, add, and delete transaction categories.

Category names are unique within their type. Default categories are seeded
automatically and cannot be deleted; custom categories can only be deleted
while no transaction references them.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStore()
			if err != nil {
				return err
			}

			categories := service.NewCategoryService(store)
			if err := categories.EnsureDefaults(cmd.Context()); err != nil {
				return err
			}

			var cats []model.Category
			if txType != "" {
				parsed, parseErr := parseTransactionType(txType)
				if parseErr != nil {
					return parseErr
				}
				cats, err = categories.ListByType(cmd.Context(), model.CategoryType(parsed))
			} else {
				cats, err = categories.List(cmd.Context())
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tDEFAULT")
			for _, cat := range cats {
				defaultLabel := ""
				if cat.IsDefault {
					defaultLabel = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", cat.Name, cat.Type, defaultLabel)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "Filter by type (income, expense)")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseTransactionType(txType)
			if err != nil {
				return err
			}

			store, err := initStore()
			if err != nil {
				return err
			}

			categories := service.NewCategoryService(store)
			cat, err := categories.Create(cmd.Context(), args[0], model.CategoryType(parsed))
			if err != nil {
				return err
			}

			fmt.Printf("%s Added %s category %s\n",
				cli.SuccessStyle.Render("✓"),
				cat.Type,
				cli.InfoStyle.Render(cat.Name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "expense", "Category type (income, expense)")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a custom category",
		Long: `Delete a custom category. Default categories cannot be deleted, and a
category still referenced by transactions is refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseTransactionType(txType)
			if err != nil {
				return err
			}

			store, err := initStore()
			if err != nil {
				return err
			}

			categories := service.NewCategoryService(store)
			if err := categories.Delete(cmd.Context(), args[0], model.CategoryType(parsed)); err != nil {
				return err
			}

			fmt.Printf("%s Deleted category %s\n",
				cli.SuccessStyle.Render("✓"),
				cli.InfoStyle.Render(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "expense", "Category type (income, expense)")

	return cmd
}
