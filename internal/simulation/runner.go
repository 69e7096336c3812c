// Package simulation drives the generator over a process catalog, one event
// per simulated time step.
package simulation

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/config"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/generator"
)

// Summary aggregates a run.
type Summary struct {
	Entries    int
	TrueLines  int
	NoiseLines int
	Skipped    int
	NoiseLeft  decimal.Decimal
	NoiseRight decimal.Decimal
}

type Runner struct {
	gen     *generator.Generator
	catalog *config.Catalog
	clock   *generator.SimClock
	rng     *rand.Rand // base amounts only; the generator has its own source
	logger  *zap.Logger
}

func NewRunner(gen *generator.Generator, catalog *config.Catalog, clock *generator.SimClock, rng *rand.Rand, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		gen:     gen,
		catalog: catalog,
		clock:   clock,
		rng:     rng,
		logger:  logger,
	}
}

// Run generates events entries, cycling through the catalog processes.
// Events rejected as bad data are skipped; configuration and store failures abort the run.
func (r *Runner) Run(ctx context.Context, events int) (Summary, error) {
	sum := Summary{NoiseLeft: decimal.Zero, NoiseRight: decimal.Zero}

	for i := 0; i < events; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		p := r.catalog.Processes[i%len(r.catalog.Processes)]
		base := r.baseAmount(p)

		res, err := r.gen.Generate(ctx, generator.Request{
			ProcessName: p.Name,
			BaseAmount:  base,
			TrueLines:   p.TrueLines(base),
			Noise:       r.catalog.NoiseFor(p),
		})
		switch {
		case errors.Is(err, generator.ErrData):
			r.logger.Warn("skipping event", zap.String("process", p.Name), zap.Error(err))
			sum.Skipped++
		case err != nil:
			return sum, err
		default:
			sum.Entries++
			sum.TrueLines += len(res.LineIDs)
			sum.NoiseLines += len(res.NoiseLineIDs)
			sum.NoiseLeft = sum.NoiseLeft.Add(res.Noise.LeftTotal())
			sum.NoiseRight = sum.NoiseRight.Add(res.Noise.RightTotal())
		}

		r.clock.Advance(1)
	}
	return sum, nil
}

// baseAmount draws uniformly from the process range, in cents.
func (r *Runner) baseAmount(p config.Process) decimal.Decimal {
	v := p.BaseMin + r.rng.Float64()*(p.BaseMax-p.BaseMin)
	base := decimal.NewFromFloat(v).Round(2)
	if !base.IsPositive() {
		base = decimal.New(1, -2)
	}
	return base
}
