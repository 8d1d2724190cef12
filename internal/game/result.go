package game

import "github.com/lox/blackjacklab/internal/deck"

// Outcome is the terminal label for one player hand.
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeLoss
	OutcomePush
	OutcomeBlackjack
	OutcomeBust
	OutcomeSurrender
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomePush:
		return "push"
	case OutcomeBlackjack:
		return "blackjack"
	case OutcomeBust:
		return "bust"
	case OutcomeSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// IsWin reports whether the outcome pays the player.
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

// IsLoss reports whether the outcome costs the player their wager
// (or half of it, for a surrender).
func (o Outcome) IsLoss() bool {
	return o == OutcomeLoss || o == OutcomeBust || o == OutcomeSurrender
}

// SeatResult is the settled result for one player hand.
type SeatResult struct {
	Cards     []deck.Card `json:"cards"`
	Value     int         `json:"value"`
	Wager     int         `json:"wager"`
	Doubled   bool        `json:"doubled,omitempty"`
	FromSplit bool        `json:"from_split,omitempty"`
	Outcome   Outcome     `json:"outcome"`
	Net       float64     `json:"net"`
}

// DealerResult is the dealer's final hand.
type DealerResult struct {
	Cards     []deck.Card `json:"cards"`
	Value     int         `json:"value"`
	Blackjack bool        `json:"blackjack,omitempty"`
	Busted    bool        `json:"busted,omitempty"`
}

// InsuranceResult records the insurance side bet, if the table offered one.
type InsuranceResult struct {
	Offered bool    `json:"offered"`
	Taken   bool    `json:"taken,omitempty"`
	Wager   int     `json:"wager,omitempty"`
	Won     bool    `json:"won,omitempty"`
	Net     float64 `json:"net,omitempty"`
}

// Result is the immutable outcome of a settled round. Persistence and
// statistics collaborators consume this structure verbatim.
type Result struct {
	RoundID   string          `json:"round_id"`
	Wager     int             `json:"wager"`
	Dealer    DealerResult    `json:"dealer"`
	Seats     []SeatResult    `json:"seats"`
	Insurance InsuranceResult `json:"insurance"`
	Net       float64         `json:"net"`
}

// AnyBlackjack reports whether any seat was paid as a natural.
func (r *Result) AnyBlackjack() bool {
	for _, s := range r.Seats {
		if s.Outcome == OutcomeBlackjack {
			return true
		}
	}
	return false
}

// AnyPlayerBust reports whether any seat busted.
func (r *Result) AnyPlayerBust() bool {
	for _, s := range r.Seats {
		if s.Outcome == OutcomeBust {
			return true
		}
	}
	return false
}

// WasSplit reports whether the round contained a split.
func (r *Result) WasSplit() bool {
	return len(r.Seats) > 1
}

// TotalWagered sums the final wagers of all seats plus insurance.
func (r *Result) TotalWagered() int {
	total := 0
	for _, s := range r.Seats {
		total += s.Wager
	}
	return total + r.Insurance.Wager
}
