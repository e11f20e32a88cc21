package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

func TestWriteXLSX_LedgerAndSweep(t *testing.T) {
	cs := thinDeal("2400000")
	res := waterfall.Calculate(cs)
	points, err := Sweep(context.Background(), cs, SweepRange{From: dec("0"), To: dec("3000000"), Step: dec("1000000")}, 2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "waterfall.xlsx")
	require.NoError(t, WriteXLSX(path, res, points))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)

	ledger, ok := f.Sheet[SheetLedger]
	require.True(t, ok)
	require.Len(t, ledger.Rows, 9) // header + 7 tiers + profit pool
	assert.Equal(t, "Tier", ledger.Rows[0].Cells[0].String())
	assert.Equal(t, waterfall.TierCAMFee, ledger.Rows[1].Cells[0].String())
	assert.Equal(t, waterfall.TierEquity, ledger.Rows[7].Cells[0].String())
	assert.Equal(t, "paid", ledger.Rows[7].Cells[4].String())
	assert.Equal(t, "Profit Pool", ledger.Rows[8].Cells[0].String())

	sweep, ok := f.Sheet[SheetSweep]
	require.True(t, ok)
	assert.Len(t, sweep.Rows, 5) // header + 4 levels
}

func TestWorkbook_NoSweepSheetWithoutPoints(t *testing.T) {
	f, err := Workbook(waterfall.Calculate(thinDeal("1000000")), nil)
	require.NoError(t, err)

	_, ok := f.Sheet[SheetSweep]
	assert.False(t, ok)
	assert.Len(t, f.Sheets, 2)
}

func TestWriteXLSX_BadPath(t *testing.T) {
	err := WriteXLSX("/nonexistent/dir/out.xlsx", waterfall.Calculate(thinDeal("1")), nil)
	assert.Error(t, err)
}
