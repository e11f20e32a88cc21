// Package report derives presentation views from a waterfall.Result: per-tier
// payment status, the simplified four-phase view, formatted figures, revenue
// sweeps and spreadsheet export.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// TierStatus is the payment badge shown next to a tier.
type TierStatus string

const (
	StatusPaid    TierStatus = "paid"
	StatusPartial TierStatus = "partial"
	StatusUnpaid  TierStatus = "unpaid"
)

// Status compares paid to due. A tier that owes nothing counts as paid.
func Status(e waterfall.LedgerEntry) TierStatus {
	switch {
	case e.Paid.GreaterThanOrEqual(e.Due):
		return StatusPaid
	case e.Paid.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// TierView is one ledger row with its status badge.
type TierView struct {
	Name      string          `json:"name"`
	Due       decimal.Decimal `json:"due"`
	Paid      decimal.Decimal `json:"paid"`
	Shortfall decimal.Decimal `json:"shortfall"`
	Status    TierStatus      `json:"status"`
}

// Tiers returns the ledger of res as display rows, in tier order. Amounts are
// rounded to cents; status is judged on the unrounded ledger.
func Tiers(res waterfall.Result) []TierView {
	views := make([]TierView, len(res.Ledger))
	for i, e := range res.Ledger {
		views[i] = TierView{
			Name:      e.Name,
			Due:       waterfall.Cents(e.Due),
			Paid:      waterfall.Cents(e.Paid),
			Shortfall: waterfall.Cents(e.Shortfall()),
			Status:    Status(e),
		}
	}
	return views
}

// View bundles a result with its display rows and phases.
type View struct {
	Result waterfall.Result `json:"result"`
	Tiers  []TierView       `json:"tiers"`
	Phases []Phase          `json:"phases"`
}

// NewView computes cs and returns the full presentation view.
func NewView(cs waterfall.CapitalStructure) View {
	res := waterfall.Calculate(cs)
	return View{
		Result: res,
		Tiers:  Tiers(res),
		Phases: Phases(res),
	}
}
