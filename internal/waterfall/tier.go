package waterfall

import "github.com/shopspring/decimal"

// Tier names, in payment order. Downstream views look tiers up by these names.
const (
	TierCAMFee          = "CAM Fee"
	TierSalesCommission = "Sales Commission"
	TierGuildResiduals  = "Guild Residuals"
	TierMarketing       = "Marketing Expenses"
	TierSeniorDebt      = "Senior Debt"
	TierGapDebt         = "Gap Debt"
	TierEquity          = "Equity"
)

// Basis is how a tier's due amount is derived. The set of implementations is
// closed: PercentOfGross, FixedAmount and PrincipalWithRate.
type Basis interface {
	// Due resolves the amount owed given the original gross revenue. The
	// result may be negative; callers clamp.
	Due(gross decimal.Decimal) decimal.Decimal
	isBasis()
}

// PercentOfGross is owed as a percentage of the original gross revenue,
// never of the balance remaining at the tier's position.
type PercentOfGross struct {
	Pct decimal.Decimal
}

func (b PercentOfGross) Due(gross decimal.Decimal) decimal.Decimal { return PercentOf(gross, b.Pct) }
func (PercentOfGross) isBasis() {}

// FixedAmount is owed regardless of revenue.
type FixedAmount struct {
	Amount decimal.Decimal
}

func (b FixedAmount) Due(decimal.Decimal) decimal.Decimal { return b.Amount }
func (FixedAmount) isBasis() {}

// PrincipalWithRate is principal plus a single all-in percentage (interest
// and fees, or a preferred return).
type PrincipalWithRate struct {
	Principal decimal.Decimal
	RatePct   decimal.Decimal
}

func (b PrincipalWithRate) Due(decimal.Decimal) decimal.Decimal {
	return b.Principal.Mul(one.Add(b.RatePct.Div(hundred)))
}
func (PrincipalWithRate) isBasis() {}

// Tier is one position in the waterfall.
type Tier struct {
	Name  string
	Basis Basis
}

// Tiers returns the seven payable tiers of cs in their fixed priority order.
// The profit pool is not a tier; it is whatever the tiers leave behind.
func Tiers(cs CapitalStructure) []Tier {
	return []Tier{
		{Name: TierCAMFee, Basis: PercentOfGross{Pct: cs.CAMFeeRatePct}},
		{Name: TierSalesCommission, Basis: PercentOfGross{Pct: cs.SalesCommissionPct}},
		{Name: TierGuildResiduals, Basis: PercentOfGross{Pct: cs.Guilds.RatePct()}},
		{Name: TierMarketing, Basis: FixedAmount{Amount: cs.MarketingCapAmount}},
		{Name: TierSeniorDebt, Basis: PrincipalWithRate{Principal: cs.SeniorDebtPrincipal, RatePct: cs.SeniorDebtRatePct}},
		{Name: TierGapDebt, Basis: PrincipalWithRate{Principal: cs.GapDebtPrincipal, RatePct: cs.GapDebtRatePct}},
		{Name: TierEquity, Basis: PrincipalWithRate{Principal: cs.NetEquityPrincipal(), RatePct: cs.PreferredReturnPct}},
	}
}

// IsCapitalTier reports whether the named tier repays invested capital
// (senior debt, gap debt or equity).
func IsCapitalTier(name string) bool {
	switch name {
	case TierSeniorDebt, TierGapDebt, TierEquity:
		return true
	}
	return false
}

// dueAmount resolves a tier's due, clamped at zero. Percentage dues stay exact
// so combined fees never rise by more than gross does. Fixed and principal
// dues do not move with gross and are held in cents.
func dueAmount(t Tier, gross decimal.Decimal) decimal.Decimal {
	due := NonNegative(t.Basis.Due(gross))
	if _, ok := t.Basis.(PercentOfGross); ok {
		return due
	}
	return Cents(due)
}
