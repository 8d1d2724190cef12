package strategy

import (
	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
)

// HiLo plays the basic chart but keeps a Hi-Lo running count over every
// revealed card, scales its bet with the true count, and insures only when
// the count justifies it. The count resets when the shoe reshuffles.
type HiLo struct {
	shoe    *deck.Shoe
	running int
}

// NewHiLo creates a Hi-Lo counter bound to the given shoe.
func NewHiLo(shoe *deck.Shoe) *HiLo {
	s := &HiLo{shoe: shoe}
	if shoe != nil {
		shoe.OnReshuffle(s.Reset)
	}
	return s
}

func (s *HiLo) Name() string { return "hilo" }

func (s *HiLo) Decide(hand *game.Hand, up deck.Card, legal []game.Action, _ Context) game.Action {
	return basicDecide(hand, up, legal)
}

// TakesInsurance buys insurance only at a true count of +3 or better,
// where tens are dense enough for the side bet to be profitable.
func (s *HiLo) TakesInsurance(_ Context) bool {
	return s.TrueCount() >= 3
}

// ObserveCard updates the running count: +1 for 2 through 6, 0 for 7
// through 9, -1 for tens and aces.
func (s *HiLo) ObserveCard(c deck.Card) {
	s.running += c.HiLo()
}

// RunningCount returns the raw Hi-Lo count since the last shuffle.
func (s *HiLo) RunningCount() int { return s.running }

// TrueCount normalizes the running count by the estimated decks remaining.
func (s *HiLo) TrueCount() float64 {
	if s.shoe == nil {
		return float64(s.running)
	}
	decks := s.shoe.DecksRemaining()
	if decks <= 0 {
		return 0
	}
	return float64(s.running) / decks
}

// NextBet ramps the wager with the true count. The steps follow the
// common 1-2-4-6-8 spread.
func (s *HiLo) NextBet(ctx Context) int {
	tc := s.TrueCount()
	mult := 1
	switch {
	case tc >= 5:
		mult = 8
	case tc >= 4:
		mult = 6
	case tc >= 3:
		mult = 4
	case tc >= 2:
		mult = 2
	}
	return ctx.BaseBet * mult
}

// Reset clears the running count, as after a reshuffle.
func (s *HiLo) Reset() { s.running = 0 }
