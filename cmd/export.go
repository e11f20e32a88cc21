package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/waterfall-cli/internal/report"
	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

var (
	exportForm    *formFlags
	exportRange   *sweepFlags
	exportOut     string
	exportNoSweep bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger, summary and revenue sweep to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, _, err := exportForm.structure(cmd)
		if err != nil {
			return err
		}
		res := waterfall.Calculate(cs)

		var points []report.SweepPoint
		if !exportNoSweep {
			r, err := exportRange.rangeFor(cs)
			if err != nil {
				return err
			}
			if points, err = report.Sweep(cmd.Context(), cs, r, exportRange.workers()); err != nil {
				return err
			}
		}

		if err := report.WriteXLSX(exportOut, res, points); err != nil {
			return eris.Wrap(err, "export")
		}
		zap.L().Info("workbook written", zap.String("path", exportOut), zap.Int("sweep_points", len(points)))
		return nil
	},
}

func init() {
	exportForm = addFormFlags(exportCmd)
	exportRange = addSweepFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "waterfall.xlsx", "output workbook path")
	exportCmd.Flags().BoolVar(&exportNoSweep, "no-sweep", false, "omit the revenue sweep sheet")
	rootCmd.AddCommand(exportCmd)
}
