// Package session runs rounds for one player against one shoe, tracking
// the bankroll and feeding settled results to any attached sinks.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
	"github.com/lox/blackjacklab/internal/roundid"
	"github.com/lox/blackjacklab/internal/strategy"
)

// ErrBankrollExhausted means the bankroll can no longer cover the table
// minimum. It ends the session, not the process.
var ErrBankrollExhausted = errors.New("bankroll exhausted")

// Sink receives each settled round along with the bankroll after it.
type Sink interface {
	RecordRound(ctx context.Context, res *game.Result, bankroll float64) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, res *game.Result, bankroll float64) error

func (f SinkFunc) RecordRound(ctx context.Context, res *game.Result, bankroll float64) error {
	return f(ctx, res, bankroll)
}

// Session owns the shoe and bankroll for a run of rounds played by a
// single strategy. The bankroll always equals the initial amount plus the
// sum of every settled round's net.
type Session struct {
	id       string
	rules    game.Rules
	shoe     *deck.Shoe
	strat    strategy.Strategy
	logger   *log.Logger
	sinks    []Sink
	newID    func() string
	bankroll float64
	initial  float64
	baseBet  int
	rounds   int
	history  []*game.Result
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithBankroll sets the starting bankroll.
func WithBankroll(amount float64) Option {
	return func(s *Session) { s.bankroll = amount; s.initial = amount }
}

// WithBaseBet sets the flat bet, also used as the unit for sizing
// strategies.
func WithBaseBet(amount int) Option {
	return func(s *Session) { s.baseBet = amount }
}

// WithSink attaches a round sink (persistence, statistics, history).
func WithSink(sink Sink) Option {
	return func(s *Session) {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
}

// WithRoundIDs overrides the round ID generator, for deterministic tests.
func WithRoundIDs(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// New creates a session. The shoe is owned by the session for its
// lifetime; the strategy is consulted for every decision and, when it
// sizes bets or counts cards, wired into those paths too.
func New(id string, rules game.Rules, shoe *deck.Shoe, strat strategy.Strategy, opts ...Option) *Session {
	s := &Session{
		id:       id,
		rules:    rules,
		shoe:     shoe,
		strat:    strat,
		newID:    roundid.New,
		bankroll: 1000,
		initial:  1000,
		baseBet:  10,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default().WithPrefix("session")
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Bankroll returns the current balance.
func (s *Session) Bankroll() float64 { return s.bankroll }

// InitialBankroll returns the starting balance.
func (s *Session) InitialBankroll() float64 { return s.initial }

// Rounds returns the number of settled rounds.
func (s *Session) Rounds() int { return s.rounds }

// StrategyName returns the name of the strategy in play.
func (s *Session) StrategyName() string { return s.strat.Name() }

// History returns the settled rounds in play order. The slice is shared;
// callers must not mutate it.
func (s *Session) History() []*game.Result { return s.history }

// nextBet sizes the wager for the coming round: the strategy's bet when
// it sizes its own, the base bet otherwise, clamped to the table limits
// and the remaining bankroll.
func (s *Session) nextBet() int {
	bet := s.baseBet
	if sizer, ok := s.strat.(strategy.BetSizer); ok {
		bet = sizer.NextBet(s.strategyContext(0))
	}
	if bet > s.rules.MaxBet {
		bet = s.rules.MaxBet
	}
	if max := int(s.bankroll); bet > max {
		bet = max
	}
	if bet < s.rules.MinBet {
		bet = s.rules.MinBet
	}
	return bet
}

func (s *Session) strategyContext(wager int) strategy.Context {
	ctx := strategy.Context{
		Bankroll: s.bankroll,
		BaseBet:  s.baseBet,
		Wager:    wager,
	}
	if counter, ok := s.strat.(interface{ TrueCount() float64 }); ok {
		ctx.TrueCount = counter.TrueCount()
	}
	return ctx
}

// PlayRound plays one complete round: size the bet, reshuffle if the shoe
// has passed its penetration threshold, drive the strategy through the
// round, then settle into the bankroll and notify sinks.
func (s *Session) PlayRound(ctx context.Context) (*game.Result, error) {
	if s.bankroll < float64(s.rules.MinBet) {
		return nil, fmt.Errorf("%w: bankroll %.2f below table minimum %d",
			ErrBankrollExhausted, s.bankroll, s.rules.MinBet)
	}
	if s.shoe.NeedsReshuffle() {
		s.shoe.Reshuffle()
		s.logger.Debug("reshuffled shoe", "remaining", s.shoe.Remaining())
	}

	opts := []game.RoundOption{
		game.WithID(s.newID()),
		game.WithLogger(s.logger),
	}
	if obs, ok := s.strat.(game.CardObserver); ok {
		opts = append(opts, game.WithObserver(obs))
	}
	round := game.NewRound(s.rules, s.shoe, opts...)

	bet := s.nextBet()
	if err := round.PlaceBet(bet, s.bankroll); err != nil {
		return nil, err
	}
	if err := round.Deal(); err != nil {
		return nil, err
	}

	if round.State() == game.StateInsurance {
		if err := s.resolveInsurance(round, bet); err != nil {
			return nil, err
		}
	}

	for round.State() == game.StatePlayerTurn {
		hand := round.ActiveHand()
		up, _ := round.UpCard()
		action := s.strat.Decide(hand, up, round.Legal(), s.strategyContext(bet))
		if err := round.Apply(action); err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s.strat.Name(), err)
		}
	}

	res, err := round.Result()
	if err != nil {
		return nil, err
	}

	s.bankroll += res.Net
	s.rounds++
	s.history = append(s.history, res)

	if obs, ok := s.strat.(strategy.OutcomeObserver); ok {
		obs.ObserveResult(res)
	}
	for _, sink := range s.sinks {
		if err := sink.RecordRound(ctx, res, s.bankroll); err != nil {
			return nil, fmt.Errorf("recording round %s: %w", res.RoundID, err)
		}
	}
	return res, nil
}

// resolveInsurance asks the strategy and places half the wager when it
// accepts. A one-unit bet cannot buy insurance, so it is declined.
func (s *Session) resolveInsurance(round *game.Round, bet int) error {
	amount := bet / 2
	if float64(bet+amount) > s.bankroll {
		amount = 0
	}
	if amount > 0 && s.strat.TakesInsurance(s.strategyContext(bet)) {
		return round.BuyInsurance(amount)
	}
	return round.DeclineInsurance()
}

// Play runs up to n rounds, stopping early on context cancellation or an
// exhausted bankroll. An exhausted bankroll ends the session cleanly.
func (s *Session) Play(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.PlayRound(ctx); err != nil {
			if errors.Is(err, ErrBankrollExhausted) {
				s.logger.Info("bankroll exhausted", "rounds", s.rounds, "bankroll", s.bankroll)
				return nil
			}
			return err
		}
	}
	return nil
}
