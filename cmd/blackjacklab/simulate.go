package main

import (
	"os"
	"time"

	"github.com/lox/blackjacklab/cmd/blackjacklab/shared"
	"github.com/lox/blackjacklab/internal/game"
	"github.com/lox/blackjacklab/internal/history"
	"github.com/lox/blackjacklab/internal/randutil"
	"github.com/lox/blackjacklab/internal/roundid"
	"github.com/lox/blackjacklab/internal/session"
	"github.com/lox/blackjacklab/internal/simulator"
	"github.com/lox/blackjacklab/internal/store"
)

// SimulateCmd plays one strategy unattended and reports its statistics.
type SimulateCmd struct {
	Config   string        `kong:"type='path',help='Path to an HCL config file'"`
	Debug    bool          `kong:"help='Enable debug logging'"`
	Strategy string        `kong:"default='basic',enum='${strategies}',help='Strategy to play (${strategies})'"`
	Rounds   int           `kong:"default='10000',help='Rounds to play'"`
	Seed     *int64        `kong:"help='Deterministic seed (optional)'"`
	Bankroll float64       `kong:"help='Starting bankroll (overrides config)'"`
	Bet      int           `kong:"help='Base bet (overrides config)'"`
	Progress time.Duration `kong:"default='5s',help='Progress logging interval (0 to disable)'"`
	History  string        `kong:"type='path',help='Write round history JSON to this file'"`
	DB       string        `kong:"env='BLACKJACKLAB_DB',help='Record rounds to this SQLite database'"`
}

func (c *SimulateCmd) Run() error {
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

	simCfg := simulator.Config{
		Strategy:         c.Strategy,
		Rounds:           c.Rounds,
		Seed:             seed,
		Rules:            *cfg.Table,
		Bankroll:         bankroll,
		BaseBet:          baseBet,
		Logger:           logger,
		ProgressInterval: c.Progress,
	}

	sessionID := roundid.New()
	var hist *history.Writer
	if c.History != "" {
		hist = history.NewWriter(c.History, sessionID, c.Strategy)
		simCfg.Sinks = append(simCfg.Sinks, hist)
	}
	if c.DB != "" {
		db, err := store.Open(c.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.CreateSession(ctx, sessionID, c.Strategy, bankroll, baseBet, seed); err != nil {
			return err
		}
		var sink session.Sink = store.NewSessionSink(db, sessionID)
		simCfg.Sinks = append(simCfg.Sinks, sink)
	}

	report, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}
	if hist != nil {
		if err := hist.Flush(); err != nil {
			return err
		}
	}

	printReport(os.Stdout, report)
	return nil
}
