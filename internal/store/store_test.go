package store

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testStructure() waterfall.CapitalStructure {
	return waterfall.CapitalStructure{
		GrossRevenue:        dec("2400000"),
		NegativeCost:        dec("2000000"),
		SeniorDebtPrincipal: dec("600000"),
		SeniorDebtRatePct:   dec("10"),
		EquityPrincipal:     dec("1000000"),
		PreferredReturnPct:  dec("20"),
		SalesCommissionPct:  dec("15"),
		MarketingCapAmount:  dec("75000"),
		CAMFeeRatePct:       dec("1"),
		Guilds:              waterfall.GuildFlags{SAG: true},
	}
}

// testStoreContract exercises the behavior every Store backend must share.
func testStoreContract(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	cs := testStructure()
	saved, err := st.SaveScenario(ctx, "Thin deal", cs)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "Thin deal", saved.Name)

	got, err := st.GetScenario(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thin deal", got.Name)
	assert.True(t, got.Structure.GrossRevenue.Equal(dec("2400000")))
	assert.True(t, got.Structure.PreferredReturnPct.Equal(dec("20")))
	assert.True(t, got.Structure.Guilds.SAG)
	assert.False(t, got.Structure.Guilds.WGA)

	// Recomputing from the stored structure gives the same ledger.
	want := waterfall.Calculate(cs)
	again := waterfall.Calculate(got.Structure)
	assert.True(t, want.ProfitPool.Equal(again.ProfitPool))

	cs.GrossRevenue = dec("1000000")
	require.NoError(t, st.UpdateScenario(ctx, saved.ID, cs))
	got, err = st.GetScenario(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, got.Structure.GrossRevenue.Equal(dec("1000000")))

	_, err = st.SaveScenario(ctx, "Shortfall", cs)
	require.NoError(t, err)

	all, err := st.ListScenarios(ctx, ScenarioFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	named, err := st.ListScenarios(ctx, ScenarioFilter{Name: "Shortfall"})
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "Shortfall", named[0].Name)

	limited, err := st.ListScenarios(ctx, ScenarioFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	past, err := st.ListScenarios(ctx, ScenarioFilter{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, past)

	require.NoError(t, st.DeleteScenario(ctx, saved.ID))
	_, err = st.GetScenario(ctx, saved.ID)
	assert.True(t, eris.Is(err, ErrNotFound), "got %v", err)

	err = st.DeleteScenario(ctx, saved.ID)
	assert.True(t, eris.Is(err, ErrNotFound), "got %v", err)

	err = st.UpdateScenario(ctx, "missing", cs)
	assert.True(t, eris.Is(err, ErrNotFound), "got %v", err)
}
