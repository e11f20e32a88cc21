package waterfall

import "github.com/shopspring/decimal"

// Allocate cascades gross revenue through the tiers of cs and returns the
// ledger, in tier order, plus the unallocated remainder (the profit pool).
//
// Each tier receives min(remaining, due). Once revenue runs out the tier at
// the exhaustion point is partially paid and every later tier receives zero.
// When remaining equals due exactly the tier is paid in full and the next tier
// starts from zero.
func Allocate(cs CapitalStructure) ([]LedgerEntry, decimal.Decimal) {
	cs = Normalize(cs)

	tiers := Tiers(cs)
	ledger := make([]LedgerEntry, 0, len(tiers))
	remaining := cs.GrossRevenue

	for _, t := range tiers {
		due := dueAmount(t, cs.GrossRevenue)
		paid := decimal.Min(remaining, due)
		remaining = remaining.Sub(paid)
		ledger = append(ledger, LedgerEntry{Name: t.Name, Due: due, Paid: paid})
	}

	return ledger, remaining
}

// Calculate runs the allocator and derives every reporting metric.
func Calculate(cs CapitalStructure) Result {
	ledger, pool := Allocate(cs)
	return DeriveMetrics(cs, ledger, pool)
}
