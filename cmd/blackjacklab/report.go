package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjacklab/internal/simulator"
)

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color("#96CEB4"))
	reportHeaderStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color("#FFEAA7"))
	gainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787"))
	dropStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

func signedStyle(v float64) lipgloss.Style {
	if v < 0 {
		return dropStyle
	}
	return gainStyle
}

// printReport writes a single run's summary block.
func printReport(w io.Writer, r *simulator.Report) {
	s := r.Stats
	lo, hi := s.ConfidenceInterval95()

	fmt.Fprintln(w, reportTitleStyle.Render(fmt.Sprintf("%s over %d rounds (seed %d, %s)",
		r.Strategy, r.RoundsPlayed, r.Seed, r.Duration.Truncate(time.Millisecond))))
	fmt.Fprintf(w, "  bankroll    %.2f -> %s (min %.2f, max %.2f)\n",
		r.InitialBankroll, signedStyle(r.Bankroll-r.InitialBankroll).Render(fmt.Sprintf("%.2f", r.Bankroll)),
		s.BankrollMin, s.BankrollMax)
	fmt.Fprintf(w, "  net         %s over %.0f wagered (ROI %+.3f%%)\n",
		signedStyle(s.NetSum).Render(fmt.Sprintf("%+.2f", s.NetSum)), s.TotalWagered, s.ROI()*100)
	fmt.Fprintf(w, "  per round   mean %+.4f  median %+.2f  stddev %.2f  95%% CI [%+.4f, %+.4f]\n",
		s.Mean(), s.Median(), s.StdDev(), lo, hi)
	fmt.Fprintf(w, "  hands       %d (win rate %.1f%%): %d won, %d lost, %d pushed, %d surrendered\n",
		s.Hands, s.WinRate()*100, s.Wins, s.Losses, s.Pushes, s.Surrenders)
	fmt.Fprintf(w, "  of which    %d blackjacks, %d busts, %d splits, %d doubles\n",
		s.Blackjacks, s.Busts, s.Splits, s.Doubles)
	if s.InsuranceTaken > 0 {
		fmt.Fprintf(w, "  insurance   %d taken, %d won, net %+.2f\n",
			s.InsuranceTaken, s.InsuranceWon, s.InsuranceNet)
	}
}

// printComparison renders one row per strategy, aligned with tabwriter.
func printComparison(w io.Writer, reports []*simulator.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		reportHeaderStyle.Render("strategy"),
		reportHeaderStyle.Render("rounds"),
		reportHeaderStyle.Render("net"),
		reportHeaderStyle.Render("mean/round"),
		reportHeaderStyle.Render("roi"),
		reportHeaderStyle.Render("win rate"),
		reportHeaderStyle.Render("final"))

	for _, r := range reports {
		s := r.Stats
		fmt.Fprintf(tw, "%s\t%d\t%s\t%+.4f\t%+.3f%%\t%.1f%%\t%.2f\n",
			r.Strategy,
			r.RoundsPlayed,
			signedStyle(s.NetSum).Render(fmt.Sprintf("%+.2f", s.NetSum)),
			s.Mean(),
			s.ROI()*100,
			s.WinRate()*100,
			r.Bankroll)
	}

	tw.Flush()
}
