package strategy

import (
	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
)

// martingaleMaxDoublings bounds the loss ladder so the bet multiplier
// cannot overflow; table limits clamp it far earlier in practice.
const martingaleMaxDoublings = 20

// Martingale plays the basic chart but doubles its bet after every losing
// round and resets to the base bet after a win. A push leaves the ladder
// unchanged.
type Martingale struct {
	losses int
}

// NewMartingale creates a martingale bettor.
func NewMartingale() *Martingale { return &Martingale{} }

func (s *Martingale) Name() string { return "martingale" }

func (s *Martingale) Decide(hand *game.Hand, up deck.Card, legal []game.Action, _ Context) game.Action {
	return basicDecide(hand, up, legal)
}

func (s *Martingale) TakesInsurance(_ Context) bool { return false }

// NextBet returns the base bet doubled once per consecutive loss.
func (s *Martingale) NextBet(ctx Context) int {
	n := s.losses
	if n > martingaleMaxDoublings {
		n = martingaleMaxDoublings
	}
	return ctx.BaseBet * (1 << n)
}

// ObserveResult advances or resets the loss ladder from the round's net.
func (s *Martingale) ObserveResult(res *game.Result) {
	switch {
	case res.Net < 0:
		s.losses++
	case res.Net > 0:
		s.losses = 0
	}
}
