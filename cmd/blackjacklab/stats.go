package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lox/blackjacklab/cmd/blackjacklab/shared"
	"github.com/lox/blackjacklab/internal/simulator"
	"github.com/lox/blackjacklab/internal/statistics"
	"github.com/lox/blackjacklab/internal/store"
)

// StatsCmd lists recorded sessions, or rebuilds full statistics for one.
type StatsCmd struct {
	Debug   bool   `kong:"help='Enable debug logging'"`
	DB      string `kong:"env='BLACKJACKLAB_DB',required='',help='SQLite database to read'"`
	Session string `kong:"help='Show detailed statistics for one session ID'"`
}

func (c *StatsCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	ctx := shared.SetupSignalHandler(logger)

	db, err := store.Open(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Session != "" {
		return c.showSession(ctx, db)
	}

	summaries, err := db.SessionSummaries(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		logger.Info("no sessions recorded", "db", c.DB)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		reportHeaderStyle.Render("session"),
		reportHeaderStyle.Render("strategy"),
		reportHeaderStyle.Render("started"),
		reportHeaderStyle.Render("rounds"),
		reportHeaderStyle.Render("net"),
		reportHeaderStyle.Render("bankroll"),
		reportHeaderStyle.Render("final"))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%.2f\t%.2f\n",
			s.ID,
			s.Strategy,
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.Rounds,
			signedStyle(s.Net).Render(fmt.Sprintf("%+.2f", s.Net)),
			s.Bankroll,
			s.Final)
	}
	return tw.Flush()
}

// showSession replays a session's stored rounds through the statistics
// accumulator so the detail view matches what the simulator reports.
func (c *StatsCmd) showSession(ctx context.Context, db *store.DB) error {
	summaries, err := db.SessionSummaries(ctx)
	if err != nil {
		return err
	}
	var summary *store.SessionSummary
	for i := range summaries {
		if summaries[i].ID == c.Session {
			summary = &summaries[i]
			break
		}
	}
	if summary == nil {
		return fmt.Errorf("session %s not found in %s", c.Session, c.DB)
	}

	rounds, err := db.SessionRounds(ctx, c.Session)
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		return fmt.Errorf("session %s has no recorded rounds", c.Session)
	}

	stats := &statistics.Statistics{}
	for _, r := range rounds {
		stats.Add(r.Result, r.Bankroll)
	}

	printReport(os.Stdout, &simulator.Report{
		Strategy:        summary.Strategy,
		Seed:            summary.Seed,
		RoundsRequested: len(rounds),
		RoundsPlayed:    len(rounds),
		Bankroll:        rounds[len(rounds)-1].Bankroll,
		InitialBankroll: summary.Bankroll,
		Stats:           stats,
	})
	return nil
}
