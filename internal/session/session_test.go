package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
	"github.com/lox/blackjacklab/internal/randutil"
	"github.com/lox/blackjacklab/internal/strategy"
)

// standOnly always stands, so rigged four-card rounds settle predictably.
type standOnly struct {
	insure bool
}

func (standOnly) Name() string { return "stand-only" }

func (standOnly) Decide(_ *game.Hand, _ deck.Card, _ []game.Action, _ strategy.Context) game.Action {
	return game.Stand
}

func (s standOnly) TakesInsurance(_ strategy.Context) bool { return s.insure }

// splitAlways violates the decision contract on any non-pair hand.
type splitAlways struct{ standOnly }

func (splitAlways) Decide(_ *game.Hand, _ deck.Card, _ []game.Action, _ strategy.Context) game.Action {
	return game.Split
}

// hugeBettor sizes every bet absurdly so clamping is observable.
type hugeBettor struct{ standOnly }

func (hugeBettor) NextBet(_ strategy.Context) int { return 1 << 30 }

// losing deals player 16 vs dealer 17, a flat loss per round.
func losingCards(rounds int) []deck.Card {
	var cards []deck.Card
	for i := 0; i < rounds; i++ {
		cards = append(cards, deck.MustParseCards("Ts", "7d", "6h", "Th")...)
	}
	return cards
}

func TestSessionBankrollFollowsNets(t *testing.T) {
	// Round one loses (16 vs 17), round two wins (19 vs 17).
	cards := append(deck.MustParseCards("Ts", "7d", "6h", "Th"),
		deck.MustParseCards("Ts", "7d", "9h", "Th")...)
	s := New("test", game.DefaultRules(), deck.NewRigged(cards...), standOnly{},
		WithBankroll(100), WithBaseBet(10))

	require.NoError(t, s.Play(context.Background(), 2))
	require.Equal(t, 2, s.Rounds())
	assert.Equal(t, 100.0, s.Bankroll())

	var sum float64
	for _, res := range s.History() {
		sum += res.Net
	}
	assert.Equal(t, s.InitialBankroll()+sum, s.Bankroll())
	assert.Equal(t, -10.0, s.History()[0].Net)
	assert.Equal(t, 10.0, s.History()[1].Net)
}

func TestSessionStopsWhenBankrollExhausted(t *testing.T) {
	rules := game.DefaultRules()
	rules.MinBet = 10
	s := New("test", rules, deck.NewRigged(losingCards(3)...), standOnly{},
		WithBankroll(25), WithBaseBet(10))

	// Two losses leave 5, below the table minimum; Play ends cleanly.
	require.NoError(t, s.Play(context.Background(), 10))
	assert.Equal(t, 2, s.Rounds())
	assert.Equal(t, 5.0, s.Bankroll())

	_, err := s.PlayRound(context.Background())
	assert.ErrorIs(t, err, ErrBankrollExhausted)
}

func TestSessionClampsOversizedBets(t *testing.T) {
	rules := game.DefaultRules()
	rules.MaxBet = 50
	s := New("test", rules, deck.NewRigged(losingCards(1)...), hugeBettor{},
		WithBankroll(1000), WithBaseBet(10))

	res, err := s.PlayRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, res.Wager)
}

func TestSessionBetClampedToBankroll(t *testing.T) {
	s := New("test", game.DefaultRules(), deck.NewRigged(losingCards(1)...), standOnly{},
		WithBankroll(7), WithBaseBet(10))

	res, err := s.PlayRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, res.Wager)
}

func TestSessionRejectsContractViolation(t *testing.T) {
	s := New("test", game.DefaultRules(), deck.NewRigged(losingCards(1)...), splitAlways{},
		WithBankroll(100), WithBaseBet(10))

	_, err := s.PlayRound(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrInvalidAction)
}

func TestSessionMartingaleDoublesAfterLosses(t *testing.T) {
	// Each round rigs hard 13 against a dealer 2: the basic chart stands,
	// the dealer makes 17 and the round is a flat loss.
	var cards []deck.Card
	for i := 0; i < 3; i++ {
		cards = append(cards, deck.MustParseCards("Ts", "2d", "3h", "5c", "Tc")...)
	}
	s := New("test", game.DefaultRules(), deck.NewRigged(cards...), strategy.NewMartingale(),
		WithBankroll(1000), WithBaseBet(10))

	require.NoError(t, s.Play(context.Background(), 3))
	require.Len(t, s.History(), 3)
	assert.Equal(t, 10, s.History()[0].Wager)
	assert.Equal(t, 20, s.History()[1].Wager)
	assert.Equal(t, 40, s.History()[2].Wager)
	assert.Equal(t, 1000.0-70, s.Bankroll())
}

func TestSessionInsuranceWiring(t *testing.T) {
	// Dealer shows an ace over a king; an always-insuring strategy breaks
	// even while a decliner loses the full wager.
	cards := deck.MustParseCards("Ts", "Ah", "9h", "Kd")

	insured := New("a", game.DefaultRules(), deck.NewRigged(cards...), standOnly{insure: true},
		WithBankroll(100), WithBaseBet(10))
	res, err := insured.PlayRound(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Insurance.Taken)
	assert.Equal(t, 100.0, insured.Bankroll())

	declined := New("b", game.DefaultRules(), deck.NewRigged(cards...), standOnly{},
		WithBankroll(100), WithBaseBet(10))
	res, err = declined.PlayRound(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Insurance.Taken)
	assert.Equal(t, 90.0, declined.Bankroll())
}

func TestSessionSinkReceivesRounds(t *testing.T) {
	var got []float64
	sink := SinkFunc(func(_ context.Context, res *game.Result, bankroll float64) error {
		got = append(got, bankroll)
		return nil
	})
	s := New("test", game.DefaultRules(), deck.NewRigged(losingCards(2)...), standOnly{},
		WithBankroll(100), WithBaseBet(10), WithSink(sink))

	require.NoError(t, s.Play(context.Background(), 2))
	assert.Equal(t, []float64{90, 80}, got)
}

func TestSessionSinkErrorPropagates(t *testing.T) {
	sink := SinkFunc(func(_ context.Context, _ *game.Result, _ float64) error {
		return fmt.Errorf("disk full")
	})
	s := New("test", game.DefaultRules(), deck.NewRigged(losingCards(1)...), standOnly{},
		WithBankroll(100), WithBaseBet(10), WithSink(sink))

	_, err := s.PlayRound(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSessionPlayHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	shoe := deck.NewShoe(randutil.New(1), 6)
	s := New("test", game.DefaultRules(), shoe, standOnly{}, WithBankroll(100))
	err := s.Play(ctx, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.Rounds())
}
