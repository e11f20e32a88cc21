// Package intake turns user-entered form values into a waterfall.CapitalStructure.
// It owns the concerns the engine leaves to its caller: defaults for blank
// fields, and either clamping or rejecting out-of-range values.
package intake

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// Form mirrors the calculator inputs. A nil field was left blank.
type Form struct {
	GrossRevenue        *float64             `json:"grossRevenue,omitempty" yaml:"gross_revenue,omitempty"`
	NegativeCost        *float64             `json:"negativeCost,omitempty" yaml:"negative_cost,omitempty"`
	SoftMoneyCredits    *float64             `json:"softMoneyCredits,omitempty" yaml:"soft_money_credits,omitempty"`
	SeniorDebtPrincipal *float64             `json:"seniorDebtPrincipal,omitempty" yaml:"senior_debt_principal,omitempty"`
	SeniorDebtRatePct   *float64             `json:"seniorDebtRatePct,omitempty" yaml:"senior_debt_rate_pct,omitempty"`
	GapDebtPrincipal    *float64             `json:"gapDebtPrincipal,omitempty" yaml:"gap_debt_principal,omitempty"`
	GapDebtRatePct      *float64             `json:"gapDebtRatePct,omitempty" yaml:"gap_debt_rate_pct,omitempty"`
	EquityPrincipal     *float64             `json:"equityPrincipal,omitempty" yaml:"equity_principal,omitempty"`
	PreferredReturnPct  *float64             `json:"preferredReturnPct,omitempty" yaml:"preferred_return_pct,omitempty"`
	SalesCommissionPct  *float64             `json:"salesCommissionPct,omitempty" yaml:"sales_commission_pct,omitempty"`
	MarketingCapAmount  *float64             `json:"marketingCapAmount,omitempty" yaml:"marketing_cap_amount,omitempty"`
	CAMFeeRatePct       *float64             `json:"camFeeRatePct,omitempty" yaml:"cam_fee_rate_pct,omitempty"`
	Guilds              waterfall.GuildFlags `json:"guilds" yaml:"guilds"`
}

// Defaults fill blank form fields.
type Defaults struct {
	SeniorDebtRatePct  float64 `yaml:"senior_debt_rate_pct" mapstructure:"senior_debt_rate_pct"`
	GapDebtRatePct     float64 `yaml:"gap_debt_rate_pct" mapstructure:"gap_debt_rate_pct"`
	PreferredReturnPct float64 `yaml:"preferred_return_pct" mapstructure:"preferred_return_pct"`
	SalesCommissionPct float64 `yaml:"sales_commission_pct" mapstructure:"sales_commission_pct"`
	CAMFeeRatePct      float64 `yaml:"cam_fee_rate_pct" mapstructure:"cam_fee_rate_pct"`
	MarketingCapAmount float64 `yaml:"marketing_cap_amount" mapstructure:"marketing_cap_amount"`
}

// StandardDefaults returns the rates the calculator assumes for blank fields.
func StandardDefaults() Defaults {
	return Defaults{
		SeniorDebtRatePct:  10,
		PreferredReturnPct: 20,
		SalesCommissionPct: 15,
		CAMFeeRatePct:      1,
	}
}

// Float returns a pointer to v, for building forms in code.
func Float(v float64) *float64 {
	return &v
}

// Build converts the form into a capital structure. Blank fields take their
// default. In strict mode any negative, non-finite, or over-100% share of
// gross is rejected with a *ValidationError naming every such field;
// otherwise those values are clamped into range.
func (f Form) Build(d Defaults, strict bool) (waterfall.CapitalStructure, error) {
	b := builder{}

	cs := waterfall.CapitalStructure{
		GrossRevenue:        b.money("grossRevenue", f.GrossRevenue, 0),
		NegativeCost:        b.money("negativeCost", f.NegativeCost, 0),
		SoftMoneyCredits:    b.money("softMoneyCredits", f.SoftMoneyCredits, 0),
		SeniorDebtPrincipal: b.money("seniorDebtPrincipal", f.SeniorDebtPrincipal, 0),
		SeniorDebtRatePct:   b.rate("seniorDebtRatePct", f.SeniorDebtRatePct, d.SeniorDebtRatePct),
		GapDebtPrincipal:    b.money("gapDebtPrincipal", f.GapDebtPrincipal, 0),
		GapDebtRatePct:      b.rate("gapDebtRatePct", f.GapDebtRatePct, d.GapDebtRatePct),
		EquityPrincipal:     b.money("equityPrincipal", f.EquityPrincipal, 0),
		PreferredReturnPct:  b.rate("preferredReturnPct", f.PreferredReturnPct, d.PreferredReturnPct),
		SalesCommissionPct:  b.shareOfGross("salesCommissionPct", f.SalesCommissionPct, d.SalesCommissionPct),
		MarketingCapAmount:  b.money("marketingCapAmount", f.MarketingCapAmount, d.MarketingCapAmount),
		CAMFeeRatePct:       b.shareOfGross("camFeeRatePct", f.CAMFeeRatePct, d.CAMFeeRatePct),
		Guilds:              f.Guilds,
	}

	if strict && len(b.invalid) > 0 {
		return waterfall.CapitalStructure{}, &ValidationError{Fields: b.invalid}
	}
	return waterfall.Normalize(cs), nil
}

// Validate reports every out-of-range field without building a structure.
func (f Form) Validate() error {
	_, err := f.Build(Defaults{}, true)
	return err
}

// builder resolves fields one at a time, recording the names of those that
// had to be clamped.
type builder struct {
	invalid []string
}

func (b *builder) resolve(name string, v *float64, fallback, upper float64) decimal.Decimal {
	x := fallback
	if v != nil {
		x = *v
	}
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0) || x < 0:
		b.invalid = append(b.invalid, name)
		return decimal.Zero
	case upper > 0 && x > upper:
		b.invalid = append(b.invalid, name)
		return decimal.NewFromFloat(upper)
	}
	return decimal.NewFromFloat(x)
}

func (b *builder) money(name string, v *float64, fallback float64) decimal.Decimal {
	return b.resolve(name, v, fallback, 0)
}

func (b *builder) rate(name string, v *float64, fallback float64) decimal.Decimal {
	return b.resolve(name, v, fallback, 0)
}

// shareOfGross resolves a rate charged against gross revenue, which cannot
// exceed 100%.
func (b *builder) shareOfGross(name string, v *float64, fallback float64) decimal.Decimal {
	return b.resolve(name, v, fallback, 100)
}
