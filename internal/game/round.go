package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjacklab/internal/deck"
)

// State is the phase of a round.
type State int

const (
	StateBetting State = iota
	StateDealing
	StateInsurance
	StatePlayerTurn
	StateDealerTurn
	StateDone
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case StateBetting:
		return "betting"
	case StateDealing:
		return "dealing"
	case StateInsurance:
		return "insurance"
	case StatePlayerTurn:
		return "player_turn"
	case StateDealerTurn:
		return "dealer_turn"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// CardObserver is notified of every card as it becomes visible. The dealer's
// hole card is reported once, when it is revealed.
type CardObserver interface {
	ObserveCard(c deck.Card)
}

// Round sequences a single blackjack round: betting, dealing, the player
// turn over one or more seats, the dealer turn, and settlement. A Round owns
// its hands; the shoe is borrowed from the session and is the only shared
// state. Once settled, a Round is immutable and every mutating call returns
// ErrIllegalTransition.
type Round struct {
	id     string
	rules  Rules
	shoe   *deck.Shoe
	logger *log.Logger

	observers []CardObserver

	dealer       *Hand
	seats        []*Hand
	active       int
	splits       int
	state        State
	wager        int
	funds        float64
	insurance    int
	holeRevealed bool
	result       *Result
}

// RoundOption configures a Round.
type RoundOption func(*Round)

// WithLogger attaches a structured logger for per-action debug output.
func WithLogger(logger *log.Logger) RoundOption {
	return func(r *Round) { r.logger = logger }
}

// WithObserver registers a card observer (e.g. a running-count strategy).
func WithObserver(o CardObserver) RoundOption {
	return func(r *Round) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithID sets the round identifier carried into the result.
func WithID(id string) RoundOption {
	return func(r *Round) { r.id = id }
}

// NewRound creates a round in the betting state.
func NewRound(rules Rules, shoe *deck.Shoe, opts ...RoundOption) *Round {
	r := &Round{
		rules:  rules,
		shoe:   shoe,
		state:  StateBetting,
		active: -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// State returns the current phase.
func (r *Round) State() State { return r.state }

// ID returns the round identifier.
func (r *Round) ID() string { return r.id }

// Wager returns the confirmed base bet.
func (r *Round) Wager() int { return r.wager }

// Seats returns the player hands in creation order.
func (r *Round) Seats() []*Hand { return r.seats }

// ActiveHand returns the hand currently awaiting a decision, or nil.
func (r *Round) ActiveHand() *Hand {
	if r.state != StatePlayerTurn || r.active < 0 || r.active >= len(r.seats) {
		return nil
	}
	return r.seats[r.active]
}

// UpCard returns the dealer's face-up card once dealt.
func (r *Round) UpCard() (deck.Card, bool) {
	if r.dealer == nil || r.dealer.Len() == 0 {
		return deck.Card{}, false
	}
	return r.dealer.cards[0], true
}

// DealerVisible returns the dealer cards a player may see: just the up-card
// until the hole card has been revealed.
func (r *Round) DealerVisible() []deck.Card {
	if r.dealer == nil {
		return nil
	}
	if r.holeRevealed {
		return r.dealer.Cards()
	}
	if r.dealer.Len() == 0 {
		return nil
	}
	return []deck.Card{r.dealer.cards[0]}
}

// PlaceBet confirms the round wager against the given bankroll and table
// limits and moves the round to the dealing state.
func (r *Round) PlaceBet(amount int, bankroll float64) error {
	if r.state != StateBetting {
		return fmt.Errorf("%w: cannot bet in state %s", ErrIllegalTransition, r.state)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: bet must be positive, got %d", ErrInvalidBet, amount)
	}
	if amount < r.rules.MinBet {
		return fmt.Errorf("%w: bet %d is below the table minimum %d", ErrInvalidBet, amount, r.rules.MinBet)
	}
	if amount > r.rules.MaxBet {
		return fmt.Errorf("%w: bet %d exceeds the table maximum %d", ErrInvalidBet, amount, r.rules.MaxBet)
	}
	if float64(amount) > bankroll {
		return fmt.Errorf("%w: bet %d exceeds bankroll %.2f", ErrInvalidBet, amount, bankroll)
	}
	r.wager = amount
	r.funds = bankroll
	r.state = StateDealing
	return nil
}

// Deal draws the opening cards, alternating player, dealer up-card, player,
// dealer hole card. If fewer than four cards remain the shoe is reshuffled
// first. Moves to the insurance phase when the up-card is an ace, otherwise
// checks naturals and proceeds to the player turn.
func (r *Round) Deal() error {
	if r.state != StateDealing {
		return fmt.Errorf("%w: cannot deal in state %s", ErrIllegalTransition, r.state)
	}
	if r.shoe.Remaining() < 4 {
		r.shoe.Reshuffle()
	}

	player := NewHand(r.wager)
	r.dealer = NewHand(0)
	r.seats = []*Hand{player}
	r.active = 0

	// Hole card (the dealer's second) stays hidden from observers until
	// it is revealed.
	draws := []struct {
		hand   *Hand
		hidden bool
	}{
		{player, false},
		{r.dealer, false},
		{player, false},
		{r.dealer, true},
	}
	for _, d := range draws {
		c, err := r.shoe.Draw()
		if err != nil {
			return fmt.Errorf("dealing: %w", err)
		}
		d.hand.Add(c)
		if !d.hidden {
			r.observe(c)
		}
	}

	up, _ := r.UpCard()
	r.logger.Debug("dealt round", "round", r.id, "player", player.String(), "up", up.String())

	if up.IsAce() && r.rules.InsuranceOffered {
		r.state = StateInsurance
		return nil
	}
	r.resolveNaturals()
	return nil
}

// BuyInsurance places an insurance side bet of up to half the round wager,
// then resolves the dealer's hole-card check.
func (r *Round) BuyInsurance(amount int) error {
	if r.state != StateInsurance {
		return fmt.Errorf("%w: insurance not offered in state %s", ErrIllegalTransition, r.state)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: insurance must be positive, got %d", ErrInvalidBet, amount)
	}
	if amount*2 > r.wager {
		return fmt.Errorf("%w: insurance %d exceeds half the wager %d", ErrInvalidBet, amount, r.wager)
	}
	if float64(r.committed()+amount) > r.funds {
		return fmt.Errorf("%w: insurance %d exceeds remaining funds", ErrInvalidBet, amount)
	}
	r.insurance = amount
	r.resolveNaturals()
	return nil
}

// DeclineInsurance skips the side bet and resolves the hole-card check.
func (r *Round) DeclineInsurance() error {
	if r.state != StateInsurance {
		return fmt.Errorf("%w: insurance not offered in state %s", ErrIllegalTransition, r.state)
	}
	r.resolveNaturals()
	return nil
}

// resolveNaturals peeks for a dealer natural and short-circuits the round
// when either side was dealt a blackjack. Otherwise play proceeds.
func (r *Round) resolveNaturals() {
	if r.dealer.IsBlackjack() || r.seats[0].IsBlackjack() {
		r.revealHole()
		r.settle()
		return
	}
	r.state = StatePlayerTurn
}

// committed is the total currently wagered across seats and insurance.
func (r *Round) committed() int {
	total := r.insurance
	for _, h := range r.seats {
		total += h.wager
	}
	return total
}

// Legal returns the action set permitted for the active hand. Double and
// split are excluded when the bankroll recorded at bet time cannot cover
// the extra wager.
func (r *Round) Legal() []Action {
	h := r.ActiveHand()
	if h == nil {
		return nil
	}
	var actions []Action
	if h.CanHit(r.rules) {
		actions = append(actions, Hit)
	}
	actions = append(actions, Stand)
	affordable := float64(r.committed()+h.wager) <= r.funds
	if h.CanDouble(r.rules) && affordable {
		actions = append(actions, Double)
	}
	if h.CanSplit(r.rules, r.splits) && affordable {
		actions = append(actions, Split)
	}
	if h.CanSurrender(r.rules) {
		actions = append(actions, Surrender)
	}
	return actions
}

// Apply performs the given action for the active hand. An action outside
// Legal() is rejected with ErrInvalidAction naming the legal set; such a
// return from an automated strategy is a rule-table defect and the caller
// should abort rather than substitute a default.
func (r *Round) Apply(a Action) error {
	if r.state != StatePlayerTurn {
		return fmt.Errorf("%w: cannot act in state %s", ErrIllegalTransition, r.state)
	}
	h := r.ActiveHand()
	legal := r.Legal()
	if !containsAction(legal, a) {
		return fmt.Errorf("%w: %s not permitted for %s (legal: %v)", ErrInvalidAction, a, h, legal)
	}

	switch a {
	case Hit:
		c, err := r.shoe.Draw()
		if err != nil {
			return fmt.Errorf("hit: %w", err)
		}
		h.Add(c)
		r.observe(c)
		r.logger.Debug("hit", "round", r.id, "hand", h.String())
		if h.IsBust() {
			return r.advance()
		}

	case Stand:
		h.stood = true
		return r.advance()

	case Double:
		h.doubled = true
		h.wager *= 2
		c, err := r.shoe.Draw()
		if err != nil {
			return fmt.Errorf("double: %w", err)
		}
		h.Add(c)
		r.observe(c)
		r.logger.Debug("double", "round", r.id, "hand", h.String(), "wager", h.wager)
		return r.advance()

	case Split:
		return r.applySplit(h)

	case Surrender:
		h.surrendered = true
		return r.advance()
	}
	return nil
}

// applySplit retires the active pair into two hands, deals one card to
// each, and appends the second hand to the seat queue. Split aces stand
// automatically unless the table allows hitting them.
func (r *Round) applySplit(h *Hand) error {
	a, b := h.split()
	for _, nh := range []*Hand{a, b} {
		c, err := r.shoe.Draw()
		if err != nil {
			return fmt.Errorf("split: %w", err)
		}
		nh.Add(c)
		r.observe(c)
	}
	if a.splitAces && !r.rules.HitSplitAces {
		// One card each, then both stand, unless the new card re-pairs
		// and resplitting aces is allowed.
		if !a.CanSplit(r.rules, r.splits+1) {
			a.stood = true
		}
		if !b.CanSplit(r.rules, r.splits+1) {
			b.stood = true
		}
	}
	r.seats[r.active] = a
	r.seats = append(r.seats, b)
	r.splits++
	r.logger.Debug("split", "round", r.id, "first", a.String(), "second", b.String(), "seats", len(r.seats))
	if a.done() {
		return r.advance()
	}
	return nil
}

// advance moves to the next unresolved seat, or on to the dealer turn once
// every seat is resolved.
func (r *Round) advance() error {
	for i := r.active; i < len(r.seats); i++ {
		if !r.seats[i].done() {
			r.active = i
			return nil
		}
	}
	r.active = -1
	return r.playDealer()
}

// playDealer reveals the hole card and draws by the house rule: hit below
// 17, and on soft 17 only when the table says so. The dealer does not draw
// when every seat has already busted or surrendered. A draw failure leaves
// the round unsettled and is reported to the caller.
func (r *Round) playDealer() error {
	r.state = StateDealerTurn
	r.revealHole()

	if r.anyLiveSeat() {
		for r.dealerShouldHit() {
			c, err := r.shoe.Draw()
			if err != nil {
				return fmt.Errorf("dealer turn: %w", err)
			}
			r.dealer.Add(c)
			r.observe(c)
			r.logger.Debug("dealer hits", "round", r.id, "dealer", r.dealer.String())
		}
	}
	r.settle()
	return nil
}

func (r *Round) dealerShouldHit() bool {
	v := r.dealer.Value()
	if v < 17 {
		return true
	}
	return v == 17 && r.dealer.IsSoft() && r.rules.DealerHitsSoft17
}

func (r *Round) anyLiveSeat() bool {
	for _, h := range r.seats {
		if !h.IsBust() && !h.surrendered {
			return true
		}
	}
	return false
}

func (r *Round) revealHole() {
	if r.holeRevealed || r.dealer.Len() < 2 {
		return
	}
	r.holeRevealed = true
	r.observe(r.dealer.cards[1])
}

func (r *Round) observe(c deck.Card) {
	for _, o := range r.observers {
		o.ObserveCard(c)
	}
}

// settle computes every seat's outcome exactly once and freezes the round.
func (r *Round) settle() {
	dealerNatural := r.dealer.IsBlackjack()
	dealerBust := r.dealer.IsBust()
	dealerValue := r.dealer.Value()

	res := &Result{
		RoundID: r.id,
		Wager:   r.wager,
		Dealer: DealerResult{
			Cards:     r.dealer.Cards(),
			Value:     dealerValue,
			Blackjack: dealerNatural,
			Busted:    dealerBust,
		},
		Insurance: InsuranceResult{
			Offered: r.insuranceWasOffered(),
			Taken:   r.insurance > 0,
			Wager:   r.insurance,
		},
	}

	for _, h := range r.seats {
		sr := SeatResult{
			Cards:     h.Cards(),
			Value:     h.Value(),
			Wager:     h.wager,
			Doubled:   h.doubled,
			FromSplit: h.fromSplit,
		}
		natural := h.IsBlackjack() || (r.rules.BlackjackAfterSplit && h.IsTwoCard21())
		wager := float64(h.wager)

		switch {
		case h.surrendered:
			sr.Outcome = OutcomeSurrender
			sr.Net = -wager / 2
		case h.IsBust():
			sr.Outcome = OutcomeBust
			sr.Net = -wager
		case dealerNatural:
			if natural {
				sr.Outcome = OutcomePush
			} else {
				sr.Outcome = OutcomeLoss
				sr.Net = -wager
			}
		case natural:
			sr.Outcome = OutcomeBlackjack
			sr.Net = wager * r.rules.BlackjackPayout
		case dealerBust:
			sr.Outcome = OutcomeWin
			sr.Net = wager
		case sr.Value > dealerValue:
			sr.Outcome = OutcomeWin
			sr.Net = wager
		case sr.Value < dealerValue:
			sr.Outcome = OutcomeLoss
			sr.Net = -wager
		default:
			sr.Outcome = OutcomePush
		}
		res.Seats = append(res.Seats, sr)
		res.Net += sr.Net
	}

	if r.insurance > 0 {
		if dealerNatural {
			res.Insurance.Won = true
			res.Insurance.Net = float64(r.insurance * 2)
		} else {
			res.Insurance.Net = -float64(r.insurance)
		}
		res.Net += res.Insurance.Net
	}

	r.result = res
	r.state = StateDone
	r.logger.Debug("settled", "round", r.id, "dealer", r.dealer.String(), "net", res.Net)
}

func (r *Round) insuranceWasOffered() bool {
	if !r.rules.InsuranceOffered || r.dealer == nil || r.dealer.Len() == 0 {
		return false
	}
	return r.dealer.cards[0].IsAce()
}

// Result returns the settled outcome, or an error while the round is live.
func (r *Round) Result() (*Result, error) {
	if r.state != StateDone || r.result == nil {
		return nil, fmt.Errorf("%w: round not settled (state %s)", ErrIllegalTransition, r.state)
	}
	return r.result, nil
}

func containsAction(actions []Action, a Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}
