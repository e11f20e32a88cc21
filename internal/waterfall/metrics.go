package waterfall

import "github.com/shopspring/decimal"

// maxBreakevenSteps bounds the cent-by-cent correction applied after the
// closed-form breakeven estimate.
const maxBreakevenSteps = 100

// DeriveMetrics computes the reporting figures for a ledger produced by
// Allocate from the same capital structure.
//
// The producer takes half of the profit pool. The investor takes the other
// half plus whatever the equity tier recouped. Ratios whose denominator is
// zero are reported as zero.
func DeriveMetrics(cs CapitalStructure, ledger []LedgerEntry, profitPool decimal.Decimal) Result {
	cs = Normalize(cs)

	hurdle := decimal.Zero
	recouped := decimal.Zero
	for _, e := range ledger {
		hurdle = hurdle.Add(e.Due)
		if IsCapitalTier(e.Name) {
			recouped = recouped.Add(e.Paid)
		}
	}

	equityPaid := decimal.Zero
	if e, ok := findEntry(ledger, TierEquity); ok {
		equityPaid = e.Paid
	}

	producer := Cents(profitPool.Mul(half))
	investor := profitPool.Sub(producer).Add(equityPaid)
	invested := cs.InvestedCapital()

	return Result{
		GrossRevenue:     cs.GrossRevenue,
		Ledger:           ledger,
		ProfitPool:       profitPool,
		ProducerShare:    producer,
		InvestorShare:    investor,
		TotalHurdle:      hurdle,
		TotalRecouped:    recouped,
		InvestedCapital:  invested,
		RecoupPct:        ratio(recouped.Mul(hundred), invested).Round(pctPlaces),
		ReturnMultiple:   ratio(recouped.Add(profitPool), invested).Round(multiplePlaces),
		BreakevenRevenue: BreakevenRevenue(cs),
		RevenueToBudget:  ratio(cs.GrossRevenue, cs.NegativeCost).Round(multiplePlaces),
	}
}

// BreakevenRevenue returns the smallest gross revenue, in cents, at which
// every tier of cs is paid in full. Percentage tiers grow with revenue, so this
// is the fixed point G = fixed / (1 - pct/100) rather than the sum of dues at
// the current gross. It returns zero when the percentage tiers take 100% or
// more of gross, since no revenue can then clear the waterfall.
func BreakevenRevenue(cs CapitalStructure) decimal.Decimal {
	cs = Normalize(cs)

	pct := decimal.Zero
	fixed := decimal.Zero
	for _, t := range Tiers(cs) {
		if b, ok := t.Basis.(PercentOfGross); ok {
			pct = pct.Add(b.Pct)
			continue
		}
		fixed = fixed.Add(dueAmount(t, decimal.Zero))
	}

	retained := one.Sub(pct.Div(hundred))
	if !retained.IsPositive() {
		return decimal.Zero
	}

	gross := fixed.Div(retained).RoundUp(centPlaces)
	for range maxBreakevenSteps {
		at := cs
		at.GrossRevenue = gross
		if fullyPaid(at) {
			break
		}
		gross = gross.Add(cent)
	}
	return gross
}

func fullyPaid(cs CapitalStructure) bool {
	ledger, _ := Allocate(cs)
	for _, e := range ledger {
		if e.Paid.LessThan(e.Due) {
			return false
		}
	}
	return true
}
