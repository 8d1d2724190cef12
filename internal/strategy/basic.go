package strategy

import (
	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
)

// Basic plays the canonical multi-deck basic strategy chart and never takes
// insurance.
type Basic struct{}

// NewBasic creates a basic strategy player.
func NewBasic() *Basic { return &Basic{} }

func (s *Basic) Name() string { return "basic" }

func (s *Basic) Decide(hand *game.Hand, up deck.Card, legal []game.Action, _ Context) game.Action {
	return basicDecide(hand, up, legal)
}

func (s *Basic) TakesInsurance(_ Context) bool { return false }

// basicDecide is the chart lookup shared by every basic-derived strategy.
// Pairs are consulted first, then soft totals, then hard totals. Whenever
// the chart calls for a double that is not currently legal, the fallback
// is the chart's hit/stand play for the same total.
func basicDecide(hand *game.Hand, up deck.Card, legal []game.Action) game.Action {
	upv := up.Points()
	canDouble := has(legal, game.Double)

	if hand.IsPair() && has(legal, game.Split) {
		first := hand.Cards()[0]
		switch {
		case first.IsAce(), first.Points() == 8:
			return game.Split
		case first.Points() == 9:
			// Stand against 7, ten or ace; split the rest.
			if upv != 7 && upv != 10 && upv != 11 {
				return game.Split
			}
		case first.Points() == 2, first.Points() == 3, first.Points() == 7:
			if upv <= 7 {
				return game.Split
			}
		case first.Points() == 6:
			if upv <= 6 {
				return game.Split
			}
		case first.Points() == 4:
			if upv == 5 || upv == 6 {
				return game.Split
			}
		}
		// Tens and fives play as their totals.
	}

	v := hand.Value()

	if hand.IsSoft() {
		switch {
		case v >= 19:
			return game.Stand
		case v == 18:
			if canDouble && upv >= 3 && upv <= 6 {
				return game.Double
			}
			if upv <= 8 {
				return game.Stand
			}
			return game.Hit
		case v == 17:
			if canDouble && upv >= 3 && upv <= 6 {
				return game.Double
			}
			return game.Hit
		case v == 15, v == 16:
			if canDouble && upv >= 4 && upv <= 6 {
				return game.Double
			}
			return game.Hit
		case v == 13, v == 14:
			if canDouble && (upv == 5 || upv == 6) {
				return game.Double
			}
			return game.Hit
		default:
			return game.Hit
		}
	}

	switch {
	case v >= 17:
		return game.Stand
	case v >= 13:
		if upv <= 6 {
			return game.Stand
		}
		return game.Hit
	case v == 12:
		if upv >= 4 && upv <= 6 {
			return game.Stand
		}
		return game.Hit
	case v == 11:
		if canDouble {
			return game.Double
		}
		return game.Hit
	case v == 10:
		if canDouble && upv <= 9 {
			return game.Double
		}
		return game.Hit
	case v == 9:
		if canDouble && upv >= 3 && upv <= 6 {
			return game.Double
		}
		return game.Hit
	default:
		return game.Hit
	}
}
