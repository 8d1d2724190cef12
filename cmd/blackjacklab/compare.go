package main

import (
	"os"
	"time"

	"github.com/lox/blackjacklab/cmd/blackjacklab/shared"
	"github.com/lox/blackjacklab/internal/game"
	"github.com/lox/blackjacklab/internal/randutil"
	"github.com/lox/blackjacklab/internal/simulator"
	"github.com/lox/blackjacklab/internal/strategy"
)

// CompareCmd runs each strategy against its own shoe and tabulates results.
type CompareCmd struct {
	Config     string        `kong:"type='path',help='Path to an HCL config file'"`
	Debug      bool          `kong:"help='Enable debug logging'"`
	Strategies []string      `kong:"help='Strategies to compare (default: all)'"`
	Rounds     int           `kong:"default='10000',help='Rounds per strategy'"`
	Seed       *int64        `kong:"help='Deterministic seed (optional)'"`
	Bankroll   float64       `kong:"help='Starting bankroll (overrides config)'"`
	Bet        int           `kong:"help='Base bet (overrides config)'"`
	Progress   time.Duration `kong:"default='0',help='Progress logging interval (0 to disable)'"`
}

func (c *CompareCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	ctx := shared.SetupSignalHandler(logger)

	cfg, err := game.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	bankroll := cfg.Session.Bankroll
	baseBet := cfg.Session.BaseBet
	if c.Bankroll > 0 {
		bankroll = c.Bankroll
	}
	if c.Bet > 0 {
		baseBet = c.Bet
	}

	seed := randutil.Seed()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	}

	names := c.Strategies
	if len(names) == 0 {
		names = strategy.Names()
	}

	base := simulator.Config{
		Rounds:           c.Rounds,
		Seed:             seed,
		Rules:            *cfg.Table,
		Bankroll:         bankroll,
		BaseBet:          baseBet,
		Logger:           logger,
		ProgressInterval: c.Progress,
	}

	reports, err := simulator.Compare(ctx, base, names)
	if err != nil {
		return err
	}

	printComparison(os.Stdout, reports)
	return nil
}
