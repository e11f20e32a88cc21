package waterfall

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
	half    = decimal.New(5, -1)
	cent    = decimal.New(1, -2)
)

const (
	centPlaces     = 2
	pctPlaces      = 2
	multiplePlaces = 4
)

// Cents rounds d to whole cents, half away from zero.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(centPlaces)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// PercentOf returns pct percent of base, exactly.
func PercentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Shift(-2)
}

// ratio divides num by den, or returns zero when den is not positive.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Div(den)
}

func sum(ds ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}
