package report

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// Phase names of the simplified view.
const (
	PhaseOffTheTop = "Off the Top"
	PhaseDebt      = "Debt"
	PhaseEquity    = "Equity"
	PhaseProfit    = "Profit"
)

// Phase aggregates consecutive tiers for the four-step summary.
type Phase struct {
	Name   string          `json:"name"`
	Due    decimal.Decimal `json:"due"`
	Paid   decimal.Decimal `json:"paid"`
	Status TierStatus      `json:"status"`
}

var phaseTiers = []struct {
	phase string
	tiers []string
}{
	{PhaseOffTheTop, []string{waterfall.TierCAMFee, waterfall.TierSalesCommission, waterfall.TierGuildResiduals, waterfall.TierMarketing}},
	{PhaseDebt, []string{waterfall.TierSeniorDebt, waterfall.TierGapDebt}},
	{PhaseEquity, []string{waterfall.TierEquity}},
}

// Phases collapses the ledger into off-the-top costs, debt, equity and
// profit. Tiers are looked up by name. The profit phase has nothing due and
// is paid the profit pool.
func Phases(res waterfall.Result) []Phase {
	phases := make([]Phase, 0, len(phaseTiers)+1)
	for _, pt := range phaseTiers {
		p := Phase{Name: pt.phase, Due: decimal.Zero, Paid: decimal.Zero}
		for _, name := range pt.tiers {
			if e, ok := res.Entry(name); ok {
				p.Due = p.Due.Add(e.Due)
				p.Paid = p.Paid.Add(e.Paid)
			}
		}
		p.Status = Status(waterfall.LedgerEntry{Due: p.Due, Paid: p.Paid})
		p.Due, p.Paid = waterfall.Cents(p.Due), waterfall.Cents(p.Paid)
		phases = append(phases, p)
	}

	profit := Phase{Name: PhaseProfit, Due: decimal.Zero, Paid: waterfall.Cents(res.ProfitPool), Status: StatusUnpaid}
	if res.ProfitPool.IsPositive() {
		profit.Status = StatusPaid
	}
	return append(phases, profit)
}
