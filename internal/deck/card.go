package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Points returns the blackjack point value of the rank. Aces count as 11
// here; the soft/hard demotion to 1 is hand-level logic.
func (r Rank) Points() int {
	switch {
	case r >= Ten && r <= King:
		return 10
	case r == Ace:
		return 11
	default:
		return int(r)
	}
}

// IsTenValue returns true for Ten, Jack, Queen and King
func (r Rank) IsTenValue() bool {
	return r >= Ten && r <= King
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Points returns the blackjack point value of the card
func (c Card) Points() int {
	return c.Rank.Points()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsTenValue returns true if the card counts as ten
func (c Card) IsTenValue() bool {
	return c.Rank.IsTenValue()
}

// HiLo returns the Hi-Lo count tag for the card: +1 for 2-6, 0 for 7-9,
// -1 for tens, faces and aces.
func (c Card) HiLo() int {
	switch {
	case c.Rank >= Two && c.Rank <= Six:
		return 1
	case c.Rank >= Seven && c.Rank <= Nine:
		return 0
	default:
		return -1
	}
}

// ParseCard parses a two-character card like "Ah" or "Ts" (rank then suit).
// Suits accept both letters (s, h, d, c) and the unicode symbols.
func ParseCard(s string) (Card, error) {
	runes := []rune(s)
	if len(runes) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: want rank and suit", s)
	}

	var rank Rank
	switch runes[0] {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(runes[0] - '0')
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid card rank %q", string(runes[0]))
	}

	var suit Suit
	switch runes[1] {
	case 's', 'S', '♠':
		suit = Spades
	case 'h', 'H', '♥':
		suit = Hearts
	case 'd', 'D', '♦':
		suit = Diamonds
	case 'c', 'C', '♣':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid card suit %q", string(runes[1]))
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// MustParseCard is ParseCard that panics on error, for fixtures and tests.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MustParseCards parses a list of card strings, panicking on the first error.
func MustParseCards(strs ...string) []Card {
	cards := make([]Card, len(strs))
	for i, s := range strs {
		cards[i] = MustParseCard(s)
	}
	return cards
}
