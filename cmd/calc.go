package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/waterfall-cli/internal/report"
)

var (
	calcForm *formFlags
	calcJSON bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute the waterfall for one capital structure",
	Long:  "Distributes gross revenue through every tier and prints the ledger, the four-phase view and the headline metrics. Blank inputs take their configured defaults.",
	Example: `  waterfall-cli calc --gross 2400000 --budget 2000000 --senior-debt 600000 --equity 1000000 --marketing-cap 75000
  waterfall-cli calc -f deal.yaml --gross 1000000 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, _, err := calcForm.structure(cmd)
		if err != nil {
			return err
		}

		v := report.NewView(cs)
		if calcJSON {
			return writeJSON(cmd.OutOrStdout(), v)
		}
		formatView(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	calcForm = addFormFlags(calcCmd)
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(calcCmd)
}
