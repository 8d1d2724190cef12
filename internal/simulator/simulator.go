// Package simulator runs batches of automated rounds and aggregates their
// statistics, either for a single strategy or several side by side.
package simulator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
	"github.com/lox/blackjacklab/internal/randutil"
	"github.com/lox/blackjacklab/internal/session"
	"github.com/lox/blackjacklab/internal/statistics"
	"github.com/lox/blackjacklab/internal/strategy"
)

// Config holds the parameters for one simulation run.
type Config struct {
	Strategy string
	Rounds   int
	Seed     int64
	Rules    game.Rules
	Bankroll float64
	BaseBet  int
	Logger   *log.Logger
	Clock    quartz.Clock
	Sinks    []session.Sink

	// ProgressInterval controls periodic progress logging; zero disables
	// it.
	ProgressInterval time.Duration
}

// Report is the outcome of a completed run.
type Report struct {
	Strategy        string
	Seed            int64
	RoundsRequested int
	RoundsPlayed    int
	Duration        time.Duration
	Bankroll        float64
	InitialBankroll float64
	Stats           *statistics.Statistics
}

// Simulator drives sessions to completion.
type Simulator struct {
	cfg    Config
	logger *log.Logger
	clock  quartz.Clock
}

// New creates a simulator. A nil clock means the real one.
func New(cfg Config) *Simulator {
	s := &Simulator{cfg: cfg, logger: cfg.Logger, clock: cfg.Clock}
	if s.logger == nil {
		s.logger = log.Default().WithPrefix("simulator")
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	return s
}

// Run plays the configured number of rounds with a fresh shoe and
// strategy, returning the aggregated report. A session that runs out of
// bankroll before the requested count still reports cleanly.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.cfg.Rounds <= 0 {
		return nil, fmt.Errorf("round count must be positive, got %d", s.cfg.Rounds)
	}

	start := s.clock.Now("simulator", "start")
	rng := randutil.New(s.cfg.Seed)
	shoe := deck.NewShoe(rng, s.cfg.Rules.NumDecks,
		deck.WithPenetration(s.cfg.Rules.PenetrationThreshold))

	strat, err := strategy.New(s.cfg.Strategy, shoe)
	if err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	var played atomic.Int64
	statSink := session.SinkFunc(func(_ context.Context, res *game.Result, bankroll float64) error {
		stats.Add(res, bankroll)
		played.Add(1)
		return nil
	})

	opts := []session.Option{
		session.WithBankroll(s.cfg.Bankroll),
		session.WithBaseBet(s.cfg.BaseBet),
		session.WithLogger(s.logger),
		session.WithSink(statSink),
	}
	for _, sink := range s.cfg.Sinks {
		opts = append(opts, session.WithSink(sink))
	}
	sess := session.New(fmt.Sprintf("%s-%d", strat.Name(), s.cfg.Seed),
		s.cfg.Rules, shoe, strat, opts...)

	if s.cfg.ProgressInterval > 0 {
		progressCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		s.clock.TickerFunc(progressCtx, s.cfg.ProgressInterval, func() error {
			s.logger.Info("simulation progress",
				"strategy", strat.Name(),
				"rounds", played.Load(),
				"total", s.cfg.Rounds)
			return nil
		}, "simulator", "progress")
	}

	if err := sess.Play(ctx, s.cfg.Rounds); err != nil {
		return nil, fmt.Errorf("strategy %s: %w", strat.Name(), err)
	}
	if sess.Rounds() > 0 {
		if err := stats.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed: %w", err)
		}
	}

	report := &Report{
		Strategy:        strat.Name(),
		Seed:            s.cfg.Seed,
		RoundsRequested: s.cfg.Rounds,
		RoundsPlayed:    sess.Rounds(),
		Duration:        s.clock.Since(start, "simulator", "elapsed"),
		Bankroll:        sess.Bankroll(),
		InitialBankroll: sess.InitialBankroll(),
		Stats:           stats,
	}
	s.logger.Info("simulation complete",
		"strategy", report.Strategy,
		"rounds", report.RoundsPlayed,
		"net", stats.NetSum,
		"duration", report.Duration)
	return report, nil
}
