package game

import "errors"

// Contract violations surfaced by the round state machine. None of these is
// ever corrected silently; the caller decides whether to re-prompt (a human
// mistyping a bet) or abort (a strategy returning an illegal action is a
// rule-table bug).
var (
	// ErrInvalidBet means the wager was non-positive, above the table
	// maximum, below the minimum, or more than the bankroll can cover.
	ErrInvalidBet = errors.New("invalid bet")

	// ErrInvalidAction means an action was requested that the current hand
	// state does not permit.
	ErrInvalidAction = errors.New("invalid action")

	// ErrIllegalTransition means an operation was attempted while the round
	// is not in the state that operation expects (e.g. acting after
	// settlement).
	ErrIllegalTransition = errors.New("illegal state transition")
)
