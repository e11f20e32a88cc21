package report

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// MaxSweepPoints caps the number of revenue levels in one sweep.
const MaxSweepPoints = 10000

// SweepPoint is the headline outcome at one gross revenue level.
type SweepPoint struct {
	GrossRevenue   decimal.Decimal `json:"grossRevenue"`
	ProfitPool     decimal.Decimal `json:"profitPool"`
	ProducerShare  decimal.Decimal `json:"producerShare"`
	InvestorShare  decimal.Decimal `json:"investorShare"`
	TotalRecouped  decimal.Decimal `json:"totalRecouped"`
	RecoupPct      decimal.Decimal `json:"recoupPct"`
	ReturnMultiple decimal.Decimal `json:"returnMultiple"`
}

// SweepRange describes the revenue levels from From to To inclusive, Step apart.
type SweepRange struct {
	From decimal.Decimal `json:"from"`
	To   decimal.Decimal `json:"to"`
	Step decimal.Decimal `json:"step"`
}

// Levels expands the range into individual revenue levels.
func (r SweepRange) Levels() ([]decimal.Decimal, error) {
	if !r.Step.IsPositive() {
		return nil, eris.New("report: sweep step must be positive")
	}
	if r.From.IsNegative() || r.To.LessThan(r.From) {
		return nil, eris.Errorf("report: invalid sweep range %s..%s", r.From, r.To)
	}
	// Compare in decimal; the quotient can exceed int64.
	intervals := r.To.Sub(r.From).Div(r.Step).Floor()
	if intervals.GreaterThanOrEqual(decimal.NewFromInt(MaxSweepPoints)) {
		return nil, eris.Errorf("report: sweep has %s points, max %d", intervals.Add(decimal.NewFromInt(1)), MaxSweepPoints)
	}
	n := intervals.IntPart() + 1

	levels := make([]decimal.Decimal, 0, n)
	for g := r.From; g.LessThanOrEqual(r.To); g = g.Add(r.Step) {
		levels = append(levels, g)
	}
	return levels, nil
}

// Sweep recomputes cs at every revenue level in r, spreading the work over
// up to concurrency goroutines. Points come back in revenue order.
func Sweep(ctx context.Context, cs waterfall.CapitalStructure, r SweepRange, concurrency int) ([]SweepPoint, error) {
	levels, err := r.Levels()
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = 1
	}

	points := make([]SweepPoint, len(levels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, gross := range levels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			at := cs
			at.GrossRevenue = gross
			res := waterfall.Calculate(at)
			points[i] = SweepPoint{
				GrossRevenue:   res.GrossRevenue,
				ProfitPool:     waterfall.Cents(res.ProfitPool),
				ProducerShare:  waterfall.Cents(res.ProducerShare),
				InvestorShare:  waterfall.Cents(res.InvestorShare),
				TotalRecouped:  waterfall.Cents(res.TotalRecouped),
				RecoupPct:      res.RecoupPct,
				ReturnMultiple: res.ReturnMultiple,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "report: sweep")
	}
	return points, nil
}
