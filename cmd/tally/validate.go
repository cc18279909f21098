package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate data file integrity",
		Long: `Check the data file for structural and referential problems: duplicate
transaction IDs, references to nonexistent categories, missing required
fields, malformed enum values, and non-positive amounts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStore()
			if err != nil {
				return err
			}

			violations, err := store.CheckFile(cmd.Context())
			if err != nil {
				return err
			}

			if len(violations) == 0 {
				fmt.Printf("%s Data file is valid: %s\n",
					cli.SuccessStyle.Render("✓"),
					cli.SubtleStyle.Render(store.Path()))
				return nil
			}

			fmt.Printf("%s Found %d integrity problem(s):\n",
				cli.ErrorStyle.Render("✗"),
				len(violations))
			for _, v := range violations {
				fmt.Printf("  [%s] %s\n", cli.WarningStyle.Render(string(v.Kind)), v.String())
			}
			return fmt.Errorf("data file failed validation")
		},
	}
}
