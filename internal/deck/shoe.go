package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrShoeExhausted is returned by Draw when no cards remain and the shoe
// does not reshuffle itself (rigged shoes never do).
var ErrShoeExhausted = errors.New("shoe exhausted")

// DefaultPenetration is the fraction of the shoe remaining below which a
// reshuffle is due between rounds.
const DefaultPenetration = 0.25

// Shoe is the combined, shuffled set of decks that cards are drawn from.
// A drawn card is never seen again until Reshuffle rebuilds the shoe.
// The shoe has a single owner (the session orchestrator) and is not safe
// for concurrent use.
type Shoe struct {
	cards       []Card
	next        int
	numDecks    int
	penetration float64
	rng         *rand.Rand
	rigged      bool
	onReshuffle []func()
}

// ShoeOption configures a Shoe.
type ShoeOption func(*Shoe)

// WithPenetration sets the reshuffle threshold as a fraction of the full
// shoe remaining (e.g. 0.25 reshuffles once fewer than 25% of cards remain).
func WithPenetration(fraction float64) ShoeOption {
	return func(s *Shoe) {
		s.penetration = fraction
	}
}

// NewShoe creates a shoe of numDecks standard 52-card decks, shuffled with
// the provided RNG.
func NewShoe(rng *rand.Rand, numDecks int, opts ...ShoeOption) *Shoe {
	if numDecks < 1 {
		numDecks = 1
	}
	s := &Shoe{
		numDecks:    numDecks,
		penetration: DefaultPenetration,
		rng:         rng,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rebuild()
	s.shuffle()
	return s
}

// NewRigged creates a shoe that deals the given cards in order and never
// reshuffles. Used for deterministic round tests.
func NewRigged(cards ...Card) *Shoe {
	return &Shoe{
		cards:       cards,
		numDecks:    1,
		penetration: 0,
		rigged:      true,
	}
}

func (s *Shoe) rebuild() {
	s.cards = s.cards[:0]
	if cap(s.cards) == 0 {
		s.cards = make([]Card, 0, s.numDecks*52)
	}
	for d := 0; d < s.numDecks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
	s.next = 0
}

func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the next card from the shoe.
func (s *Shoe) Draw() (Card, error) {
	if s.next >= len(s.cards) {
		return Card{}, ErrShoeExhausted
	}
	c := s.cards[s.next]
	s.next++
	return c, nil
}

// Remaining returns the number of undrawn cards.
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.next
}

// Size returns the total number of cards in a full shoe.
func (s *Shoe) Size() int {
	if s.rigged {
		return len(s.cards)
	}
	return s.numDecks * 52
}

// DecksRemaining estimates how many decks are left, for true-count math.
func (s *Shoe) DecksRemaining() float64 {
	return float64(s.Remaining()) / 52.0
}

// NeedsReshuffle reports whether remaining cards have fallen below the
// penetration threshold. Rigged shoes never reshuffle.
func (s *Shoe) NeedsReshuffle() bool {
	if s.rigged {
		return false
	}
	return float64(s.Remaining()) < s.penetration*float64(s.Size())
}

// Reshuffle rebuilds the full shoe, shuffles it and notifies observers
// (card counters reset their running count here).
func (s *Shoe) Reshuffle() {
	if s.rigged {
		return
	}
	s.rebuild()
	s.shuffle()
	for _, fn := range s.onReshuffle {
		fn()
	}
}

// OnReshuffle registers a callback invoked after every reshuffle.
func (s *Shoe) OnReshuffle(fn func()) {
	s.onReshuffle = append(s.onReshuffle, fn)
}
