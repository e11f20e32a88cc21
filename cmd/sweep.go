package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/waterfall-cli/internal/report"
)

var (
	sweepForm  *formFlags
	sweepRange *sweepFlags
	sweepJSON  bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Recompute the waterfall across a range of gross revenue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, _, err := sweepForm.structure(cmd)
		if err != nil {
			return err
		}
		r, err := sweepRange.rangeFor(cs)
		if err != nil {
			return err
		}

		points, err := report.Sweep(cmd.Context(), cs, r, sweepRange.workers())
		if err != nil {
			return err
		}
		zap.L().Debug("sweep complete", zap.Int("points", len(points)))

		if sweepJSON {
			return writeJSON(cmd.OutOrStdout(), points)
		}
		formatSweep(cmd.OutOrStdout(), points)
		return nil
	},
}

func init() {
	sweepForm = addFormFlags(sweepCmd)
	sweepRange = addSweepFlags(sweepCmd)
	sweepCmd.Flags().BoolVar(&sweepJSON, "json", false, "print points as JSON")
	rootCmd.AddCommand(sweepCmd)
}
