package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sells-group/waterfall-cli/internal/report"
	"github.com/sells-group/waterfall-cli/internal/store"
	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// formatLedger writes the tier ledger to out.
func formatLedger(out io.Writer, v report.View) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIER\tDUE\tPAID\tSHORTFALL\tSTATUS")
	_, _ = fmt.Fprintln(w, "----\t---\t----\t---------\t------")
	for _, t := range v.Tiers {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.Name,
			report.FormatUSD(t.Due),
			report.FormatUSD(t.Paid),
			report.FormatUSD(t.Shortfall),
			t.Status,
		)
	}
	_ = w.Flush()
}

// formatPhases writes the four-phase view to out.
func formatPhases(out io.Writer, v report.View) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PHASE\tDUE\tPAID\tSTATUS")
	_, _ = fmt.Fprintln(w, "-----\t---\t----\t------")
	for _, p := range v.Phases {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, report.FormatUSD(p.Due), report.FormatUSD(p.Paid), p.Status)
	}
	_ = w.Flush()
}

// formatSummary writes the headline metrics to out.
func formatSummary(out io.Writer, res waterfall.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Gross revenue:\t%s\n", report.FormatUSD(res.GrossRevenue))
	_, _ = fmt.Fprintf(w, "Total hurdle:\t%s\n", report.FormatUSD(res.TotalHurdle))
	_, _ = fmt.Fprintf(w, "Profit pool:\t%s\n", report.FormatUSD(res.ProfitPool))
	_, _ = fmt.Fprintf(w, "  Producer share:\t%s\n", report.FormatUSD(res.ProducerShare))
	_, _ = fmt.Fprintf(w, "  Investor share:\t%s\n", report.FormatUSD(res.InvestorShare))
	_, _ = fmt.Fprintf(w, "Capital recouped:\t%s of %s (%s)\n",
		report.FormatUSD(res.TotalRecouped),
		report.FormatUSD(res.InvestedCapital),
		report.FormatPct(res.RecoupPct),
	)
	_, _ = fmt.Fprintf(w, "Return multiple:\t%s\n", report.FormatMultiple(res.ReturnMultiple))
	_, _ = fmt.Fprintf(w, "Breakeven revenue:\t%s\n", report.FormatUSD(res.BreakevenRevenue))
	_, _ = fmt.Fprintf(w, "Revenue to budget:\t%s\n", report.FormatMultiple(res.RevenueToBudget))
	_ = w.Flush()
}

// formatView writes ledger, phases and summary separated by blank lines.
func formatView(out io.Writer, v report.View) {
	formatLedger(out, v)
	_, _ = fmt.Fprintln(out)
	formatPhases(out, v)
	_, _ = fmt.Fprintln(out)
	formatSummary(out, v.Result)
}

// formatSweep writes one row per revenue level.
func formatSweep(out io.Writer, points []report.SweepPoint) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GROSS\tPOOL\tPRODUCER\tINVESTOR\tRECOUPED\tRECOUP\tMULTIPLE")
	_, _ = fmt.Fprintln(w, "-----\t----\t--------\t--------\t--------\t------\t--------")
	for _, p := range points {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			report.FormatUSD(p.GrossRevenue),
			report.FormatUSD(p.ProfitPool),
			report.FormatUSD(p.ProducerShare),
			report.FormatUSD(p.InvestorShare),
			report.FormatUSD(p.TotalRecouped),
			report.FormatPct(p.RecoupPct),
			report.FormatMultiple(p.ReturnMultiple),
		)
	}
	_ = w.Flush()
}

// formatScenarioList writes a tabular list of saved scenarios.
func formatScenarioList(out io.Writer, scenarios []store.Scenario) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tGROSS\tPOOL\tUPDATED")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t----\t-------")
	for _, sc := range scenarios {
		res := waterfall.Calculate(sc.Structure)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			sc.ID,
			sc.Name,
			report.FormatUSD(res.GrossRevenue),
			report.FormatUSD(res.ProfitPool),
			sc.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
