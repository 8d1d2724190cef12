package simulator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjacklab/internal/randutil"
)

// Compare runs the same simulation once per strategy, each with an
// independent seed derived from the base seed so runs are reproducible
// but uncorrelated. Reports come back in the order the strategies were
// given.
func Compare(ctx context.Context, base Config, strategies []string) ([]*Report, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no strategies to compare")
	}

	reports := make([]*Report, len(strategies))
	g, ctx := errgroup.WithContext(ctx)

	for i, name := range strategies {
		g.Go(func() error {
			cfg := base
			cfg.Strategy = name
			cfg.Seed = randutil.DeriveSeed(base.Seed, i)
			if base.Logger != nil {
				cfg.Logger = base.Logger.With("strategy", name)
			}

			report, err := New(cfg).Run(ctx)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
