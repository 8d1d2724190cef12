package game

import (
	"testing"

	"github.com/lox/blackjacklab/internal/deck"
)

func handOf(cards ...string) *Hand {
	h := NewHand(10)
	for _, c := range deck.MustParseCards(cards...) {
		h.Add(c)
	}
	return h
}

func TestHandValue(t *testing.T) {
	cases := []struct {
		cards []string
		value int
		soft  bool
		bust  bool
	}{
		{[]string{"Ts", "6h"}, 16, false, false},
		{[]string{"As", "6h"}, 17, true, false},
		{[]string{"As", "Ah"}, 12, true, false},
		{[]string{"As", "6h", "9d"}, 16, false, false},
		{[]string{"As", "Kd"}, 21, true, false},
		{[]string{"As", "As", "9d"}, 21, true, false},
		{[]string{"Ts", "6h", "8c"}, 24, false, true},
		{[]string{"As", "Ts", "6h", "8c"}, 25, false, true},
	}
	for _, tc := range cases {
		h := handOf(tc.cards...)
		if got := h.Value(); got != tc.value {
			t.Errorf("%v: value %d, want %d", tc.cards, got, tc.value)
		}
		if got := h.IsSoft(); got != tc.soft {
			t.Errorf("%v: soft %v, want %v", tc.cards, got, tc.soft)
		}
		if got := h.IsBust(); got != tc.bust {
			t.Errorf("%v: bust %v, want %v", tc.cards, got, tc.bust)
		}
	}
}

func TestHandValueNeverDecreasesOnHit(t *testing.T) {
	// Adding a card can only hold or raise the best total while the hand
	// is live; promotion of an ace back to 1 absorbs at most the ace.
	h := NewHand(10)
	prev := 0
	for _, c := range deck.MustParseCards("As", "3h", "7d", "Kc", "5s") {
		h.Add(c)
		if h.IsBust() {
			break
		}
		if v := h.Value(); v < prev {
			t.Fatalf("value dropped from %d to %d after %s", prev, v, c)
		} else {
			prev = v
		}
	}
}

func TestHandBlackjack(t *testing.T) {
	if !handOf("As", "Kd").IsBlackjack() {
		t.Error("A+K should be blackjack")
	}
	if handOf("As", "Kd", "Qh").IsBlackjack() {
		t.Error("three cards cannot be blackjack")
	}
	if handOf("7s", "7h", "7d").IsBlackjack() {
		t.Error("21 on three cards is not blackjack")
	}

	// A two-card 21 on a split hand is a plain 21, not a natural.
	pair := handOf("As", "Ah")
	a, b := pair.split()
	a.Add(deck.MustParseCard("Kd"))
	if a.IsBlackjack() {
		t.Error("split ace plus ten must not count as blackjack")
	}
	if !a.IsTwoCard21() {
		t.Error("split ace plus ten is still a two-card 21")
	}
	_ = b
}

func TestHandPairAndSplitGates(t *testing.T) {
	rules := DefaultRules()

	if !handOf("8s", "8h").IsPair() {
		t.Error("8+8 is a pair")
	}
	if !handOf("Ts", "Kh").IsPair() {
		t.Error("ten-value cards pair by points")
	}
	if handOf("8s", "9h").IsPair() {
		t.Error("8+9 is not a pair")
	}

	h := handOf("8s", "8h")
	if !h.CanSplit(rules, 0) {
		t.Error("pair should split under default rules")
	}
	if h.CanSplit(rules, rules.MaxSplits) {
		t.Error("split limit must gate further splits")
	}

	aces := handOf("As", "Ah")
	a, _ := aces.split()
	a.Add(deck.MustParseCard("Ad"))
	if a.CanSplit(rules, 1) {
		t.Error("resplitting aces is off by default")
	}
	resplit := rules
	resplit.ResplitAces = true
	if !a.CanSplit(resplit, 1) {
		t.Error("resplit aces should be allowed when enabled")
	}
}

func TestHandDoubleGates(t *testing.T) {
	rules := DefaultRules()

	if !handOf("5s", "6h").CanDouble(rules) {
		t.Error("two-card hand should double")
	}
	if handOf("5s", "6h", "2d").CanDouble(rules) {
		t.Error("three-card hand must not double")
	}

	pair := handOf("8s", "8h")
	a, _ := pair.split()
	a.Add(deck.MustParseCard("3d"))
	if !a.CanDouble(rules) {
		t.Error("double after split allowed by default")
	}
	noDAS := rules
	noDAS.DoubleAfterSplit = false
	if a.CanDouble(noDAS) {
		t.Error("double after split must respect the table rule")
	}
}

func TestHandSurrenderGate(t *testing.T) {
	rules := DefaultRules()
	rules.SurrenderAllowed = true

	if !handOf("Ts", "6h").CanSurrender(rules) {
		t.Error("original two-card hand should surrender when allowed")
	}
	if handOf("Ts", "6h", "2d").CanSurrender(rules) {
		t.Error("surrender only on the first decision")
	}
	pair := handOf("8s", "8h")
	a, _ := pair.split()
	a.Add(deck.MustParseCard("8d"))
	if a.CanSurrender(rules) {
		t.Error("split hands cannot surrender")
	}
}

func TestHandString(t *testing.T) {
	if got := handOf("Ts", "6h").String(); got != "T♠ 6♥ [16]" {
		t.Errorf("unexpected render %q", got)
	}
	if got := handOf("As", "Kd").String(); got != "A♠ K♦ [21] blackjack" {
		t.Errorf("unexpected render %q", got)
	}
}
