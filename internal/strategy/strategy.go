// Package strategy provides the automated players: decision logic keyed to
// the dealer's up-card plus optional bet sizing and card counting.
package strategy

import (
	"fmt"
	"strings"

	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
)

// Context carries the session facts a strategy may consult when deciding
// or sizing a bet.
type Context struct {
	Bankroll  float64
	BaseBet   int
	Wager     int
	TrueCount float64
}

// Strategy decides the action for the active hand. Decide must return a
// member of legal; returning anything else is a defect that the round
// rejects rather than corrects.
type Strategy interface {
	Name() string
	Decide(hand *game.Hand, up deck.Card, legal []game.Action, ctx Context) game.Action
	TakesInsurance(ctx Context) bool
}

// BetSizer is implemented by strategies that vary their wager from round
// to round. The session clamps the returned bet to the table limits and
// the remaining bankroll.
type BetSizer interface {
	NextBet(ctx Context) int
}

// OutcomeObserver is implemented by strategies that react to settled
// rounds, such as Martingale's loss ladder.
type OutcomeObserver interface {
	ObserveResult(res *game.Result)
}

// New constructs the named strategy. The shoe is consulted by counting
// strategies for the decks-remaining estimate and the reshuffle reset.
func New(name string, shoe *deck.Shoe) (Strategy, error) {
	switch strings.ToLower(name) {
	case "basic":
		return NewBasic(), nil
	case "conservative":
		return NewConservative(), nil
	case "aggressive":
		return NewAggressive(), nil
	case "martingale":
		return NewMartingale(), nil
	case "hilo":
		return NewHiLo(shoe), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (available: %s)", name, strings.Join(Names(), ", "))
	}
}

// Names returns the registered strategy names.
func Names() []string {
	return []string{"basic", "conservative", "aggressive", "martingale", "hilo"}
}

func has(legal []game.Action, a game.Action) bool {
	for _, x := range legal {
		if x == a {
			return true
		}
	}
	return false
}
