package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPlayer means the acting player is not part of the hand.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrOutOfTurn means a player tried to act when it is not their turn.
	ErrOutOfTurn = errors.New("player cannot act out of turn")

	// ErrIllegalCheck means a check was attempted with an unmatched bet
	// outstanding, or preflop before the blinds were posted.
	ErrIllegalCheck = errors.New("player cannot check now")

	// ErrNoBetToCall means a call was attempted before any bet exists.
	ErrNoBetToCall = errors.New("no bet to call yet")

	// ErrRaiseTooSmall means a raise did not exceed the last bet or was
	// under the big blind.
	ErrRaiseTooSmall = errors.New("raise must exceed the last bet and be at least the big blind")

	// ErrNoChips means the acting player has no chips left to bet.
	ErrNoChips = errors.New("player has no chips left")

	// ErrInvalidRoundTransition means a betting-round trigger fired in a
	// state that does not permit it.
	ErrInvalidRoundTransition = errors.New("invalid betting round transition")

	// ErrNoActiveRound means no betting round is currently running.
	ErrNoActiveRound = errors.New("no active betting round")

	// ErrUnsupportedPlayerCount means position labels cannot be assigned
	// for the current number of active players.
	ErrUnsupportedPlayerCount = errors.New("unsupported active player count")

	// ErrTableFull means the table already seats the maximum of players.
	ErrTableFull = errors.New("table is full")

	// ErrSeatTaken means the requested seat is already occupied.
	ErrSeatTaken = errors.New("seat is already taken")
)

// PlayerActionError is the single error surface returned by the table's
// action entry point. It wraps whatever rule violation rejected the action.
type PlayerActionError struct {
	PlayerID string
	Err      error
}

func (e *PlayerActionError) Error() string {
	return fmt.Sprintf("player action rejected (player %s): %v", e.PlayerID, e.Err)
}

func (e *PlayerActionError) Unwrap() error {
	return e.Err
}
