package report

import (
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// Sheet names in the exported workbook.
const (
	SheetLedger  = "Ledger"
	SheetSummary = "Summary"
	SheetSweep   = "Sweep"
)

// Workbook lays out res, and optionally a revenue sweep, as a spreadsheet.
// The sweep sheet is omitted when points is empty.
func Workbook(res waterfall.Result, points []SweepPoint) (*xlsx.File, error) {
	f := xlsx.NewFile()

	ledger, err := f.AddSheet(SheetLedger)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add ledger sheet")
	}
	addStrings(ledger, "Tier", "Due", "Paid", "Shortfall", "Status")
	for _, tv := range Tiers(res) {
		row := ledger.AddRow()
		row.AddCell().SetString(tv.Name)
		addMoney(row, tv.Due, tv.Paid, tv.Shortfall)
		row.AddCell().SetString(string(tv.Status))
	}
	profit := ledger.AddRow()
	profit.AddCell().SetString("Profit Pool")
	addMoney(profit, decimal.Zero, res.ProfitPool, decimal.Zero)

	summary, err := f.AddSheet(SheetSummary)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add summary sheet")
	}
	addStrings(summary, "Metric", "Value")
	for _, m := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Gross Revenue", res.GrossRevenue},
		{"Profit Pool", res.ProfitPool},
		{"Producer Share", res.ProducerShare},
		{"Investor Share", res.InvestorShare},
		{"Total Hurdle", res.TotalHurdle},
		{"Breakeven Revenue", res.BreakevenRevenue},
		{"Total Recouped", res.TotalRecouped},
		{"Invested Capital", res.InvestedCapital},
		{"Recoup %", res.RecoupPct},
		{"Return Multiple", res.ReturnMultiple},
	} {
		row := summary.AddRow()
		row.AddCell().SetString(m.label)
		addMoney(row, m.value)
	}

	if len(points) == 0 {
		return f, nil
	}

	sweep, err := f.AddSheet(SheetSweep)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add sweep sheet")
	}
	addStrings(sweep, "Gross Revenue", "Profit Pool", "Producer Share", "Investor Share", "Total Recouped", "Recoup %", "Return Multiple")
	for _, p := range points {
		addMoney(sweep.AddRow(), p.GrossRevenue, p.ProfitPool, p.ProducerShare, p.InvestorShare, p.TotalRecouped, p.RecoupPct, p.ReturnMultiple)
	}
	return f, nil
}

// WriteXLSX saves the workbook for res to path.
func WriteXLSX(path string, res waterfall.Result, points []SweepPoint) error {
	f, err := Workbook(res, points)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func addStrings(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addMoney(row *xlsx.Row, values ...decimal.Decimal) {
	for _, v := range values {
		row.AddCell().SetFloat(v.InexactFloat64())
	}
}
