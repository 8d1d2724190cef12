// Package statistics accumulates per-round results into the aggregate
// measures reported after a simulation: expectation, spread, outcome
// frequencies and bankroll extremes.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjacklab/internal/game"
)

// Statistics tracks comprehensive results over a run of rounds. Nets are
// accumulated both as running sums (for mean and variance) and as raw
// values (for median and percentiles).
type Statistics struct {
	Rounds  int
	NetSum  float64
	NetSum2 float64 // Sum of squares for variance calculation
	Values  []float64

	// Outcome tallies, counted per seat so split hands contribute
	// individually.
	Hands      int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Busts      int
	Surrenders int

	// Action tallies per round.
	Splits          int
	Doubles         int
	InsuranceTaken  int
	InsuranceWon    int
	InsuranceNet    float64
	TotalWagered    float64
	DealerBlackjack int
	DealerBusts     int

	// Bankroll trajectory.
	BankrollMin   float64
	BankrollMax   float64
	BankrollFinal float64
	bankrollSeen  bool
}

// Add incorporates a settled round and the bankroll after it.
func (s *Statistics) Add(res *game.Result, bankroll float64) {
	s.Rounds++
	s.NetSum += res.Net
	s.NetSum2 += res.Net * res.Net
	s.Values = append(s.Values, res.Net)
	s.TotalWagered += float64(res.TotalWagered())

	for _, seat := range res.Seats {
		s.Hands++
		switch seat.Outcome {
		case game.OutcomeWin:
			s.Wins++
		case game.OutcomeBlackjack:
			s.Wins++
			s.Blackjacks++
		case game.OutcomeLoss:
			s.Losses++
		case game.OutcomeBust:
			s.Losses++
			s.Busts++
		case game.OutcomePush:
			s.Pushes++
		case game.OutcomeSurrender:
			s.Surrenders++
		}
		if seat.Doubled {
			s.Doubles++
		}
	}
	if res.WasSplit() {
		s.Splits += len(res.Seats) - 1
	}

	if res.Insurance.Taken {
		s.InsuranceTaken++
		if res.Insurance.Won {
			s.InsuranceWon++
		}
		s.InsuranceNet += res.Insurance.Net
	}
	if res.Dealer.Blackjack {
		s.DealerBlackjack++
	}
	if res.Dealer.Busted {
		s.DealerBusts++
	}

	if !s.bankrollSeen {
		s.BankrollMin = bankroll
		s.BankrollMax = bankroll
		s.bankrollSeen = true
	}
	if bankroll < s.BankrollMin {
		s.BankrollMin = bankroll
	}
	if bankroll > s.BankrollMax {
		s.BankrollMax = bankroll
	}
	s.BankrollFinal = bankroll
}

// Mean returns the average net per round.
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.NetSum / float64(s.Rounds)
}

// Variance returns the sample variance of round nets.
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.NetSum2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of round nets.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median round net.
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0),
// linearly interpolated between adjacent values.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the fraction of hands won, pushes excluded from the
// numerator but counted in the denominator.
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

// ROI returns net winnings as a fraction of the total amount wagered,
// the per-unit house edge experienced over the run.
func (s *Statistics) ROI() float64 {
	if s.TotalWagered == 0 {
		return 0
	}
	return s.NetSum / s.TotalWagered
}

// Validate checks internal consistency of the accumulated data.
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid round count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values length (%d) does not match round count (%d)",
			len(s.Values), s.Rounds)
	}
	if s.Hands < s.Rounds {
		return fmt.Errorf("hand count (%d) below round count (%d)", s.Hands, s.Rounds)
	}
	if outcomes := s.Wins + s.Losses + s.Pushes + s.Surrenders; outcomes != s.Hands {
		return fmt.Errorf("outcome tallies (%d) do not match hand count (%d)", outcomes, s.Hands)
	}
	if s.InsuranceWon > s.InsuranceTaken {
		return fmt.Errorf("insurance wins (%d) exceed insurance bets (%d)",
			s.InsuranceWon, s.InsuranceTaken)
	}
	var sum float64
	for _, v := range s.Values {
		sum += v
	}
	if math.Abs(sum-s.NetSum) > 1e-6 {
		return fmt.Errorf("net ledger mismatch: sum of values %.6f, NetSum %.6f", sum, s.NetSum)
	}
	return nil
}
