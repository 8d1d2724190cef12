package statistics

import (
	"math"
	"testing"

	"github.com/lox/blackjacklab/internal/game"
)

func win(net float64) *game.Result {
	return &game.Result{
		Wager: int(net),
		Seats: []game.SeatResult{{Wager: int(net), Outcome: game.OutcomeWin, Net: net}},
		Net:   net,
	}
}

func loss(net float64) *game.Result {
	return &game.Result{
		Wager: int(net),
		Seats: []game.SeatResult{{Wager: int(net), Outcome: game.OutcomeLoss, Net: -net}},
		Net:   -net,
	}
}

func push(wager int) *game.Result {
	return &game.Result{
		Wager: wager,
		Seats: []game.SeatResult{{Wager: wager, Outcome: game.OutcomePush}},
	}
}

func TestStatisticsMeanAndSpread(t *testing.T) {
	s := &Statistics{}
	bankroll := 100.0
	for _, res := range []*game.Result{win(10), loss(10), win(10), loss(10), win(10)} {
		bankroll += res.Net
		s.Add(res, bankroll)
	}

	if got := s.Mean(); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("mean %.4f, want 2.0", got)
	}
	// Sample variance of {10,-10,10,-10,10} around mean 2 is 120.
	if got := s.Variance(); math.Abs(got-120.0) > 1e-9 {
		t.Errorf("variance %.4f, want 120", got)
	}
	if got := s.StdDev(); math.Abs(got-math.Sqrt(120)) > 1e-9 {
		t.Errorf("stddev %.4f", got)
	}
	if got := s.Median(); got != 10 {
		t.Errorf("median %.4f, want 10", got)
	}
	lo, hi := s.ConfidenceInterval95()
	if lo >= hi || lo > s.Mean() || hi < s.Mean() {
		t.Errorf("confidence interval [%.4f, %.4f] does not bracket the mean", lo, hi)
	}
}

func TestStatisticsOutcomeTallies(t *testing.T) {
	s := &Statistics{}
	bankroll := 100.0

	blackjack := &game.Result{
		Wager: 10,
		Seats: []game.SeatResult{{Wager: 10, Outcome: game.OutcomeBlackjack, Net: 15}},
		Net:   15,
	}
	bust := &game.Result{
		Wager: 10,
		Seats: []game.SeatResult{{Wager: 10, Outcome: game.OutcomeBust, Net: -10}},
		Net:   -10,
	}
	surrender := &game.Result{
		Wager: 10,
		Seats: []game.SeatResult{{Wager: 10, Outcome: game.OutcomeSurrender, Net: -5}},
		Net:   -5,
	}
	split := &game.Result{
		Wager: 10,
		Seats: []game.SeatResult{
			{Wager: 10, Outcome: game.OutcomeWin, FromSplit: true, Net: 10},
			{Wager: 20, Outcome: game.OutcomeLoss, FromSplit: true, Doubled: true, Net: -20},
		},
		Net: -10,
	}

	for _, res := range []*game.Result{blackjack, bust, surrender, split, push(10)} {
		bankroll += res.Net
		s.Add(res, bankroll)
	}

	if s.Rounds != 5 || s.Hands != 6 {
		t.Fatalf("rounds %d hands %d, want 5 and 6", s.Rounds, s.Hands)
	}
	if s.Wins != 2 || s.Losses != 2 || s.Pushes != 1 || s.Surrenders != 1 {
		t.Errorf("tallies W%d L%d P%d S%d", s.Wins, s.Losses, s.Pushes, s.Surrenders)
	}
	if s.Blackjacks != 1 || s.Busts != 1 || s.Splits != 1 || s.Doubles != 1 {
		t.Errorf("blackjacks %d busts %d splits %d doubles %d", s.Blackjacks, s.Busts, s.Splits, s.Doubles)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestStatisticsBankrollTrajectory(t *testing.T) {
	s := &Statistics{}
	s.Add(loss(30), 70)
	s.Add(win(50), 120)
	s.Add(loss(10), 110)

	if s.BankrollMin != 70 {
		t.Errorf("min %.2f, want 70", s.BankrollMin)
	}
	if s.BankrollMax != 120 {
		t.Errorf("max %.2f, want 120", s.BankrollMax)
	}
	if s.BankrollFinal != 110 {
		t.Errorf("final %.2f, want 110", s.BankrollFinal)
	}
}

func TestStatisticsWinRateAndROI(t *testing.T) {
	s := &Statistics{}
	bankroll := 100.0
	for _, res := range []*game.Result{win(10), loss(10), push(10), loss(10)} {
		bankroll += res.Net
		s.Add(res, bankroll)
	}

	if got := s.WinRate(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("win rate %.4f, want 0.25", got)
	}
	// Net -10 over 40 wagered.
	if got := s.ROI(); math.Abs(got+0.25) > 1e-9 {
		t.Errorf("ROI %.4f, want -0.25", got)
	}
}

func TestStatisticsPercentile(t *testing.T) {
	s := &Statistics{}
	bankroll := 0.0
	for i := 1; i <= 5; i++ {
		res := win(float64(i * 10))
		bankroll += res.Net
		s.Add(res, bankroll)
	}
	if got := s.Percentile(0); got != 10 {
		t.Errorf("p0 %.2f, want 10", got)
	}
	if got := s.Percentile(1); got != 50 {
		t.Errorf("p100 %.2f, want 50", got)
	}
	if got := s.Percentile(0.5); got != 30 {
		t.Errorf("p50 %.2f, want 30", got)
	}
}

func TestStatisticsValidateCatchesMismatch(t *testing.T) {
	s := &Statistics{}
	if err := s.Validate(); err == nil {
		t.Error("empty statistics should fail validation")
	}

	s.Add(win(10), 110)
	s.NetSum = 999
	if err := s.Validate(); err == nil {
		t.Error("corrupted ledger should fail validation")
	}
}
