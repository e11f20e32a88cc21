// Package waterfall computes how a single acquisition payment for a film is
// distributed across fees, debt and equity in contractual priority order, and
// derives the reporting metrics shown alongside the resulting ledger.
//
// Every function in this package is pure: no I/O, no logging, no shared state.
package waterfall

import "github.com/shopspring/decimal"

// Guild residual rates as a percentage of gross revenue.
var (
	SAGRatePct = decimal.RequireFromString("4.5")
	WGARatePct = decimal.RequireFromString("1.2")
	DGARatePct = decimal.RequireFromString("1.2")
)

// GuildFlags marks which union residual obligations apply to the picture.
type GuildFlags struct {
	SAG bool `json:"sag" yaml:"sag"`
	WGA bool `json:"wga" yaml:"wga"`
	DGA bool `json:"dga" yaml:"dga"`
}

// RatePct returns the combined residual rate of every enabled guild. Rates add;
// they never compound.
func (g GuildFlags) RatePct() decimal.Decimal {
	total := decimal.Zero
	if g.SAG {
		total = total.Add(SAGRatePct)
	}
	if g.WGA {
		total = total.Add(WGARatePct)
	}
	if g.DGA {
		total = total.Add(DGARatePct)
	}
	return total
}

// CapitalStructure describes one financing scenario. Money fields are in
// currency units, rate fields are percentages (10 means 10%).
type CapitalStructure struct {
	GrossRevenue     decimal.Decimal `json:"grossRevenue"`
	NegativeCost     decimal.Decimal `json:"negativeCost"`
	SoftMoneyCredits decimal.Decimal `json:"softMoneyCredits"`

	SeniorDebtPrincipal decimal.Decimal `json:"seniorDebtPrincipal"`
	SeniorDebtRatePct   decimal.Decimal `json:"seniorDebtRatePct"`
	GapDebtPrincipal    decimal.Decimal `json:"gapDebtPrincipal"`
	GapDebtRatePct      decimal.Decimal `json:"gapDebtRatePct"`
	EquityPrincipal     decimal.Decimal `json:"equityPrincipal"`
	PreferredReturnPct  decimal.Decimal `json:"preferredReturnPct"`

	SalesCommissionPct decimal.Decimal `json:"salesCommissionPct"`
	MarketingCapAmount decimal.Decimal `json:"marketingCapAmount"`
	Guilds             GuildFlags      `json:"guilds"`
	CAMFeeRatePct      decimal.Decimal `json:"camFeeRatePct"`
}

// Normalize clamps every negative field to zero and rounds money fields to
// cents. It is idempotent.
func Normalize(cs CapitalStructure) CapitalStructure {
	money := func(d decimal.Decimal) decimal.Decimal { return Cents(NonNegative(d)) }

	cs.GrossRevenue = money(cs.GrossRevenue)
	cs.NegativeCost = money(cs.NegativeCost)
	cs.SoftMoneyCredits = money(cs.SoftMoneyCredits)
	cs.SeniorDebtPrincipal = money(cs.SeniorDebtPrincipal)
	cs.GapDebtPrincipal = money(cs.GapDebtPrincipal)
	cs.EquityPrincipal = money(cs.EquityPrincipal)
	cs.MarketingCapAmount = money(cs.MarketingCapAmount)

	cs.SeniorDebtRatePct = NonNegative(cs.SeniorDebtRatePct)
	cs.GapDebtRatePct = NonNegative(cs.GapDebtRatePct)
	cs.PreferredReturnPct = NonNegative(cs.PreferredReturnPct)
	cs.SalesCommissionPct = NonNegative(cs.SalesCommissionPct)
	cs.CAMFeeRatePct = NonNegative(cs.CAMFeeRatePct)
	return cs
}

// NetEquityPrincipal is the equity investors must recoup once soft money has
// offset part of the capital requirement. Never negative.
func (cs CapitalStructure) NetEquityPrincipal() decimal.Decimal {
	return NonNegative(NonNegative(cs.EquityPrincipal).Sub(NonNegative(cs.SoftMoneyCredits)))
}

// InvestedCapital is the total principal put in by debt and equity holders.
func (cs CapitalStructure) InvestedCapital() decimal.Decimal {
	return sum(NonNegative(cs.SeniorDebtPrincipal), NonNegative(cs.GapDebtPrincipal), cs.NetEquityPrincipal())
}

// LedgerEntry records what a tier was owed and what it actually received.
type LedgerEntry struct {
	Name string          `json:"name"`
	Due  decimal.Decimal `json:"due"`
	Paid decimal.Decimal `json:"paid"`
}

// Shortfall is the unpaid part of the tier's due amount.
func (e LedgerEntry) Shortfall() decimal.Decimal {
	return e.Due.Sub(e.Paid)
}

// Result is the full outcome of running one scenario through the waterfall.
type Result struct {
	GrossRevenue     decimal.Decimal `json:"grossRevenue"`
	Ledger           []LedgerEntry   `json:"ledger"`
	ProfitPool       decimal.Decimal `json:"profitPool"`
	ProducerShare    decimal.Decimal `json:"producerShare"`
	InvestorShare    decimal.Decimal `json:"investorShare"`
	TotalHurdle      decimal.Decimal `json:"totalHurdle"`
	TotalRecouped    decimal.Decimal `json:"totalRecouped"`
	InvestedCapital  decimal.Decimal `json:"investedCapital"`
	RecoupPct        decimal.Decimal `json:"recoupPct"`
	ReturnMultiple   decimal.Decimal `json:"returnMultiple"`
	BreakevenRevenue decimal.Decimal `json:"breakevenRevenue"`
	RevenueToBudget  decimal.Decimal `json:"revenueToBudget"`
}

// Entry looks up a ledger entry by tier name.
func (r Result) Entry(name string) (LedgerEntry, bool) {
	return findEntry(r.Ledger, name)
}

func findEntry(ledger []LedgerEntry, name string) (LedgerEntry, bool) {
	for _, e := range ledger {
		if e.Name == name {
			return e, true
		}
	}
	return LedgerEntry{}, false
}
