package domain

import (
	"github.com/google/uuid"
	"github.com/greenfelt/holdem/cards"
	"github.com/greenfelt/holdem/hands"
)

// Position is a player's table position for the current hand.
type Position int

const (
	NoPosition Position = iota
	SB                  // small blind
	BB                  // big blind
	UTG                 // under the gun
	MP                  // middle position
	CO                  // cut-off
	BTN                 // button
)

func (p Position) String() string {
	switch p {
	case SB:
		return "SB"
	case BB:
		return "BB"
	case UTG:
		return "UTG"
	case MP:
		return "MP"
	case CO:
		return "CO"
	case BTN:
		return "BTN"
	default:
		return "none"
	}
}

// BettingState tracks what a player has done in the current betting round.
type BettingState int

const (
	NoState BettingState = iota
	Thinking
	SmallBlind
	BigBlind
	Checked
	Called
	Raised
	AllIn
	Folded
)

func (s BettingState) String() string {
	switch s {
	case Thinking:
		return "thinking"
	case SmallBlind:
		return "small blind"
	case BigBlind:
		return "big blind"
	case Checked:
		return "checked"
	case Called:
		return "called"
	case Raised:
		return "raised"
	case AllIn:
		return "all-in"
	case Folded:
		return "folded"
	default:
		return "none"
	}
}

// Action is a voluntary betting action a player may take.
type Action int

const (
	ActionCall Action = iota
	ActionRaise
	ActionAllIn
	ActionCheck
	ActionFold
)

func (a Action) String() string {
	switch a {
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionAllIn:
		return "all-in"
	case ActionCheck:
		return "check"
	case ActionFold:
		return "fold"
	default:
		return "unknown"
	}
}

// Player is a seated participant. A player persists across hands; only the
// bank survives a new deal, everything else is reset by the table.
type Player struct {
	ID               string
	Name             string
	Bank             int
	SeatNumber       int
	Position         Position
	Hand             cards.Stack
	BettingState     BettingState
	AvailableActions []Action
	Result           hands.Result
}

// NewPlayer creates a player with the given display name and starting bank.
func NewPlayer(name string, bank int) *Player {
	return &Player{
		ID:   uuid.NewString(),
		Name: name,
		Bank: bank,
	}
}

// ResetForHand clears all hand-scoped state. The bank is untouched.
func (p *Player) ResetForHand() {
	p.Position = NoPosition
	p.Hand = nil
	p.BettingState = NoState
	p.AvailableActions = nil
	p.Result = hands.Result{}
}

// HasFolded reports whether the player is out of the current hand.
func (p *Player) HasFolded() bool {
	return p.BettingState == Folded
}

func (p *Player) String() string {
	return p.Name
}
