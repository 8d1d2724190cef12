package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjacklab/cmd/blackjacklab/shared"
	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
	"github.com/lox/blackjacklab/internal/history"
	"github.com/lox/blackjacklab/internal/randutil"
	"github.com/lox/blackjacklab/internal/roundid"
	"github.com/lox/blackjacklab/internal/store"
	"github.com/lox/blackjacklab/internal/tui"
)

// PlayCmd runs the interactive table.
type PlayCmd struct {
	Config   string  `kong:"type='path',help='Path to an HCL config file'"`
	Debug    bool    `kong:"help='Enable debug logging to blackjacklab.log'"`
	Bankroll float64 `kong:"help='Starting bankroll (overrides config)'"`
	Bet      int     `kong:"help='Default bet (overrides config)'"`
	Seed     *int64  `kong:"help='Deterministic shoe seed (optional)'"`
	History  string  `kong:"type='path',help='Write round history JSON to this file'"`
	DB       string  `kong:"env='BLACKJACKLAB_DB',help='Record rounds to this SQLite database'"`
}

func (c *PlayCmd) Run() error {
	cfg, err := game.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	rules := *cfg.Table
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
	}

	// The alternate screen owns stderr too, so debug output goes to a
	// file rather than through the TUI.
	logger := log.New(io.Discard)
	if c.Debug {
		f, err := os.OpenFile("blackjacklab.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{Level: log.DebugLevel, ReportTimestamp: true})
	}

	shoe := deck.NewShoe(randutil.New(seed), rules.NumDecks,
		deck.WithPenetration(rules.PenetrationThreshold))

	sessionID := roundid.New()
	opts := []tui.Option{tui.WithLogger(logger)}

	var hist *history.Writer
	if c.History != "" {
		hist = history.NewWriter(c.History, sessionID, "human", history.WithFlushEvery(1))
		opts = append(opts, tui.WithSink(hist))
	}
	if c.DB != "" {
		db, err := store.Open(c.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		ctx := shared.SetupSignalHandler(logger)
		if err := db.CreateSession(ctx, sessionID, "human", bankroll, baseBet, seed); err != nil {
			return err
		}
		opts = append(opts, tui.WithSink(store.NewSessionSink(db, sessionID)))
	}

	model := tui.New(rules, shoe, bankroll, baseBet, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running table: %w", err)
	}

	if hist != nil {
		if err := hist.Flush(); err != nil {
			return err
		}
	}

	net := model.Bankroll() - bankroll
	fmt.Printf("session %s: %d rounds, net %+.2f, final bankroll %.2f\n",
		sessionID, model.Rounds(), net, model.Bankroll())
	return nil
}
