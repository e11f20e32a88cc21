package waterfall

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) bool {
	t.Helper()
	return assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

// thinDeal is a $2M picture with senior debt, equity, a 15% sales agent and a
// $75k marketing cap.
func thinDeal(gross string) CapitalStructure {
	return CapitalStructure{
		GrossRevenue:        dec(gross),
		NegativeCost:        dec("2000000"),
		SeniorDebtPrincipal: dec("600000"),
		SeniorDebtRatePct:   dec("10"),
		EquityPrincipal:     dec("1000000"),
		PreferredReturnPct:  dec("20"),
		SalesCommissionPct:  dec("15"),
		MarketingCapAmount:  dec("75000"),
		CAMFeeRatePct:       dec("1"),
	}
}

func ledgerByName(ledger []LedgerEntry) map[string]LedgerEntry {
	m := make(map[string]LedgerEntry, len(ledger))
	for _, e := range ledger {
		m[e.Name] = e
	}
	return m
}
