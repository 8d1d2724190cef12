package game

import (
	"fmt"
	"strings"

	"github.com/lox/blackjacklab/internal/deck"
)

// Hand is an ordered set of cards for one seat (the player, a split hand,
// or the dealer) plus its wager. The hard total and ace count are maintained
// incrementally so Value is O(1).
type Hand struct {
	cards []deck.Card
	hard  int // total with every ace counted as 1
	aces  int

	wager       int
	fromSplit   bool
	splitAces   bool
	doubled     bool
	surrendered bool
	stood       bool
}

// NewHand creates an empty hand carrying the given wager.
func NewHand(wager int) *Hand {
	return &Hand{wager: wager}
}

// Add appends a card and updates the running totals.
func (h *Hand) Add(c deck.Card) {
	h.cards = append(h.cards, c)
	if c.IsAce() {
		h.hard++
		h.aces++
	} else {
		h.hard += c.Points()
	}
}

// Cards returns a copy of the cards in the hand.
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards in the hand.
func (h *Hand) Len() int {
	return len(h.cards)
}

// Value returns the best total: one ace is promoted to 11 whenever that
// does not bust the hand, otherwise all aces count as 1. Always returns an
// integer; a bust hand reports its minimal (all aces = 1) total.
func (h *Hand) Value() int {
	if h.aces > 0 && h.hard+10 <= 21 {
		return h.hard + 10
	}
	return h.hard
}

// IsSoft returns true if an ace is currently counted as 11.
func (h *Hand) IsSoft() bool {
	return h.aces > 0 && h.hard+10 <= 21
}

// IsBust returns true if even the minimal total exceeds 21.
func (h *Hand) IsBust() bool {
	return h.hard > 21
}

// IsBlackjack reports a natural: exactly two cards totalling 21 on a hand
// that was never split.
func (h *Hand) IsBlackjack() bool {
	return h.IsTwoCard21() && !h.fromSplit
}

// IsTwoCard21 reports a two-card 21 regardless of split history. Under the
// blackjack_after_split table rule such a hand is paid as a natural.
func (h *Hand) IsTwoCard21() bool {
	return len(h.cards) == 2 && h.Value() == 21
}

// IsPair returns true for exactly two cards of equal point value.
func (h *Hand) IsPair() bool {
	return len(h.cards) == 2 && h.cards[0].Points() == h.cards[1].Points()
}

// CanSplit reports whether the hand may be split under the given rules;
// splits is the number of splits already performed this round.
func (h *Hand) CanSplit(rules Rules, splits int) bool {
	if !h.IsPair() || splits >= rules.MaxSplits {
		return false
	}
	if h.splitAces && !rules.ResplitAces {
		return false
	}
	return true
}

// CanDouble reports whether the hand may double down under the given rules.
func (h *Hand) CanDouble(rules Rules) bool {
	if len(h.cards) != 2 || h.doubled {
		return false
	}
	if h.fromSplit && !rules.DoubleAfterSplit {
		return false
	}
	if h.splitAces && !rules.HitSplitAces {
		return false
	}
	return true
}

// CanHit reports whether the hand may take another card. Split aces receive
// exactly one card unless the table allows hitting them.
func (h *Hand) CanHit(rules Rules) bool {
	if h.stood || h.doubled || h.surrendered || h.IsBust() {
		return false
	}
	if h.splitAces && !rules.HitSplitAces {
		return false
	}
	return true
}

// CanSurrender reports a legal late surrender: original two-card hand only.
func (h *Hand) CanSurrender(rules Rules) bool {
	return rules.SurrenderAllowed && len(h.cards) == 2 && !h.fromSplit && !h.doubled
}

// Wager returns the hand's current wager.
func (h *Hand) Wager() int {
	return h.wager
}

// Doubled reports whether the hand doubled down.
func (h *Hand) Doubled() bool {
	return h.doubled
}

// FromSplit reports whether the hand was spawned by a split.
func (h *Hand) FromSplit() bool {
	return h.fromSplit
}

// Surrendered reports whether the hand was surrendered.
func (h *Hand) Surrendered() bool {
	return h.surrendered
}

// done returns true once the hand needs no further player decisions.
func (h *Hand) done() bool {
	return h.stood || h.doubled || h.surrendered || h.IsBust()
}

// split retires this pair into two one-card hands, each carrying the
// original wager. The caller deals one fresh card into each.
func (h *Hand) split() (*Hand, *Hand) {
	aces := h.cards[0].IsAce()
	a := &Hand{wager: h.wager, fromSplit: true, splitAces: aces || h.splitAces}
	b := &Hand{wager: h.wager, fromSplit: true, splitAces: aces || h.splitAces}
	a.Add(h.cards[0])
	b.Add(h.cards[1])
	return a, b
}

// String renders the hand like "T♠ 6♥ [16]".
func (h *Hand) String() string {
	var sb strings.Builder
	for i, c := range h.cards {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	fmt.Fprintf(&sb, " [%d]", h.Value())
	switch {
	case h.IsBlackjack():
		sb.WriteString(" blackjack")
	case h.IsBust():
		sb.WriteString(" bust")
	case h.IsSoft():
		sb.WriteString(" soft")
	}
	return sb.String()
}
