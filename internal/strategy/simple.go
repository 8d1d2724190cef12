package strategy

import (
	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
)

// Conservative stands on any 12 or better, never doubles or splits, and
// always buys insurance. Low variance, high house edge.
type Conservative struct{}

// NewConservative creates a conservative player.
func NewConservative() *Conservative { return &Conservative{} }

func (s *Conservative) Name() string { return "conservative" }

func (s *Conservative) Decide(hand *game.Hand, _ deck.Card, _ []game.Action, _ Context) game.Action {
	if hand.Value() >= 12 {
		return game.Stand
	}
	return game.Hit
}

func (s *Conservative) TakesInsurance(_ Context) bool { return true }

// Aggressive splits every eligible pair, doubles any 9 through 12, and hits
// everything below 18. High variance.
type Aggressive struct{}

// NewAggressive creates an aggressive player.
func NewAggressive() *Aggressive { return &Aggressive{} }

func (s *Aggressive) Name() string { return "aggressive" }

func (s *Aggressive) Decide(hand *game.Hand, _ deck.Card, legal []game.Action, _ Context) game.Action {
	if hand.IsPair() && has(legal, game.Split) {
		return game.Split
	}
	if v := hand.Value(); v >= 9 && v <= 12 && has(legal, game.Double) {
		return game.Double
	}
	if hand.Value() < 18 {
		return game.Hit
	}
	return game.Stand
}

func (s *Aggressive) TakesInsurance(_ Context) bool { return false }
