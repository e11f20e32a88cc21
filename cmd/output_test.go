//go:build !integration

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/waterfall-cli/internal/report"
	"github.com/sells-group/waterfall-cli/internal/store"
	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

func thinDeal(gross string) waterfall.CapitalStructure {
	return waterfall.CapitalStructure{
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

func TestFormatView_ThinDeal(t *testing.T) {
	var buf bytes.Buffer
	formatView(&buf, report.NewView(thinDeal("2400000")))

	output := buf.String()
	assert.Contains(t, output, "TIER")
	assert.Contains(t, output, waterfall.TierCAMFee)
	assert.Contains(t, output, "$24,000")
	assert.Contains(t, output, "$1,200,000")
	assert.Contains(t, output, "PHASE")
	assert.Contains(t, output, report.PhaseOffTheTop)
	assert.Contains(t, output, "Profit pool:")
	assert.Contains(t, output, "$81,000")
	assert.Contains(t, output, "$40,500")
	assert.Contains(t, output, "116.3%")
	assert.Contains(t, output, "1.21x")
}

func TestFormatLedger_Shortfall(t *testing.T) {
	var buf bytes.Buffer
	formatLedger(&buf, report.NewView(thinDeal("1000000")))

	output := buf.String()
	assert.Contains(t, output, "partial")
	assert.Contains(t, output, "$105,000")
	assert.Contains(t, output, "$1,095,000")
}

func TestFormatSweep(t *testing.T) {
	points := []report.SweepPoint{
		{GrossRevenue: dec("0"), ProfitPool: dec("0"), RecoupPct: dec("0"), ReturnMultiple: dec("0")},
		{GrossRevenue: dec("2400000"), ProfitPool: dec("81000"), ProducerShare: dec("40500"), RecoupPct: dec("116.25"), ReturnMultiple: dec("1.2131")},
	}

	var buf bytes.Buffer
	formatSweep(&buf, points)

	output := buf.String()
	assert.Contains(t, output, "GROSS")
	assert.Contains(t, output, "$2,400,000")
	assert.Contains(t, output, "$81,000")
	assert.Contains(t, output, "1.21x")
}

func TestFormatScenarioList(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	scenarios := []store.Scenario{
		{ID: "abc12345", Name: "Thin deal", Structure: thinDeal("2400000"), CreatedAt: now, UpdatedAt: now},
	}

	var buf bytes.Buffer
	formatScenarioList(&buf, scenarios)

	output := buf.String()
	assert.Contains(t, output, "abc12345")
	assert.Contains(t, output, "Thin deal")
	assert.Contains(t, output, "$81,000")
	assert.Contains(t, output, "2026-03-02 09:15")
}
