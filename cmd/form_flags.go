package main

import (
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sells-group/waterfall-cli/internal/intake"
	"github.com/sells-group/waterfall-cli/internal/report"
	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// formFields maps each numeric flag to its form field.
var formFields = []struct {
	flag  string
	usage string
	field func(*intake.Form) **float64
}{
	{"gross", "gross revenue", func(f *intake.Form) **float64 { return &f.GrossRevenue }},
	{"budget", "negative cost (production budget)", func(f *intake.Form) **float64 { return &f.NegativeCost }},
	{"soft-money", "soft money credits, deducted from equity principal", func(f *intake.Form) **float64 { return &f.SoftMoneyCredits }},
	{"senior-debt", "senior debt principal", func(f *intake.Form) **float64 { return &f.SeniorDebtPrincipal }},
	{"senior-rate", "senior debt interest rate percent", func(f *intake.Form) **float64 { return &f.SeniorDebtRatePct }},
	{"gap-debt", "gap/mezzanine debt principal", func(f *intake.Form) **float64 { return &f.GapDebtPrincipal }},
	{"gap-rate", "gap debt interest rate percent", func(f *intake.Form) **float64 { return &f.GapDebtRatePct }},
	{"equity", "equity principal", func(f *intake.Form) **float64 { return &f.EquityPrincipal }},
	{"pref-return", "equity preferred return percent", func(f *intake.Form) **float64 { return &f.PreferredReturnPct }},
	{"commission", "sales agent commission percent of gross", func(f *intake.Form) **float64 { return &f.SalesCommissionPct }},
	{"marketing-cap", "marketing expenses cap", func(f *intake.Form) **float64 { return &f.MarketingCapAmount }},
	{"cam-rate", "collection account management fee percent of gross", func(f *intake.Form) **float64 { return &f.CAMFeeRatePct }},
}

// formFlags collects capital structure inputs from flags and an optional scenario file.
type formFlags struct {
	file   string
	strict bool
	values map[string]*float64
	guilds waterfall.GuildFlags
}

func addFormFlags(cmd *cobra.Command) *formFlags {
	ff := &formFlags{values: make(map[string]*float64, len(formFields))}
	for _, f := range formFields {
		v := new(float64)
		ff.values[f.flag] = v
		cmd.Flags().Float64Var(v, f.flag, 0, f.usage)
	}
	cmd.Flags().BoolVar(&ff.guilds.SAG, "sag", false, "SAG residuals apply")
	cmd.Flags().BoolVar(&ff.guilds.WGA, "wga", false, "WGA residuals apply")
	cmd.Flags().BoolVar(&ff.guilds.DGA, "dga", false, "DGA residuals apply")
	cmd.Flags().StringVarP(&ff.file, "file", "f", "", "scenario YAML file; flags override its values")
	cmd.Flags().BoolVar(&ff.strict, "strict", false, "reject negative or out-of-range inputs instead of clamping them")
	return ff
}

// form merges the scenario file, if any, with the flags the user set.
// Unset flags stay blank so defaults apply. Returns the scenario name from the file.
func (ff *formFlags) form(cmd *cobra.Command) (intake.Form, string, error) {
	var form intake.Form
	var name string
	if ff.file != "" {
		sc, err := intake.LoadScenario(ff.file)
		if err != nil {
			return intake.Form{}, "", err
		}
		form, name = sc.Form, sc.Name
	}

	flags := cmd.Flags()
	for _, f := range formFields {
		if flags.Changed(f.flag) {
			*f.field(&form) = intake.Float(*ff.values[f.flag])
		}
	}
	if flags.Changed("sag") {
		form.Guilds.SAG = ff.guilds.SAG
	}
	if flags.Changed("wga") {
		form.Guilds.WGA = ff.guilds.WGA
	}
	if flags.Changed("dga") {
		form.Guilds.DGA = ff.guilds.DGA
	}
	return form, name, nil
}

func (ff *formFlags) structure(cmd *cobra.Command) (waterfall.CapitalStructure, string, error) {
	form, name, err := ff.form(cmd)
	if err != nil {
		return waterfall.CapitalStructure{}, "", err
	}
	cs, err := form.Build(cfg.Defaults, ff.strict)
	if err != nil {
		return waterfall.CapitalStructure{}, "", err
	}
	return cs, name, nil
}

// sweepFlags describes a revenue sweep on the command line.
type sweepFlags struct {
	from, to, step string
	concurrency    int
}

func addSweepFlags(cmd *cobra.Command) *sweepFlags {
	sf := &sweepFlags{}
	cmd.Flags().StringVar(&sf.from, "from", "0", "lowest gross revenue")
	cmd.Flags().StringVar(&sf.to, "to", "", "highest gross revenue (default 1.5x breakeven)")
	cmd.Flags().StringVar(&sf.step, "step", "", "revenue increment (default range/20)")
	cmd.Flags().IntVar(&sf.concurrency, "concurrency", 0, "parallel workers (default from config)")
	return sf
}

// sweepDefaultPoints is the number of intervals when --step is omitted.
const sweepDefaultPoints = 20

// minSweepStep is the smallest default step: one cent.
var minSweepStep = decimal.New(1, -2)

// rangeFor resolves the flags against cs. Blank --to sweeps to 1.5x breakeven.
func (sf *sweepFlags) rangeFor(cs waterfall.CapitalStructure) (report.SweepRange, error) {
	from, err := decimal.NewFromString(sf.from)
	if err != nil {
		return report.SweepRange{}, eris.Wrapf(err, "parse --from %q", sf.from)
	}

	var to decimal.Decimal
	if sf.to == "" {
		to = waterfall.BreakevenRevenue(cs).Mul(decimal.New(15, -1)).Round(0)
		if to.LessThanOrEqual(from) {
			to = from.Add(decimal.New(1, 6))
		}
	} else if to, err = decimal.NewFromString(sf.to); err != nil {
		return report.SweepRange{}, eris.Wrapf(err, "parse --to %q", sf.to)
	}

	step := decimal.Max(to.Sub(from).Div(decimal.NewFromInt(sweepDefaultPoints)).Round(2), minSweepStep)
	if sf.step != "" {
		if step, err = decimal.NewFromString(sf.step); err != nil {
			return report.SweepRange{}, eris.Wrapf(err, "parse --step %q", sf.step)
		}
	}
	return report.SweepRange{From: from, To: to, Step: step}, nil
}

func (sf *sweepFlags) workers() int {
	if sf.concurrency > 0 {
		return sf.concurrency
	}
	return cfg.Sweep.Concurrency
}
