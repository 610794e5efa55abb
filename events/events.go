package events

import (
	"github.com/greenfelt/holdem/cards"
)

// Event is the interface that all table events implement.
type Event interface {
	Name() string
}

// Handler is a callback invoked synchronously whenever the table emits an
// event.
type Handler func(event Event)

type PlayerJoined struct {
	TableID    string
	PlayerID   string
	PlayerName string
	SeatNumber int
}

func (e PlayerJoined) Name() string { return "PLAYER_JOINED" }

type PlayerLeft struct {
	TableID    string
	PlayerID   string
	SeatNumber int
}

func (e PlayerLeft) Name() string { return "PLAYER_LEFT" }

type StageChanged struct {
	TableID       string
	PreviousStage string
	NewStage      string
	Trigger       string
}

func (e StageChanged) Name() string { return "STAGE_CHANGED" }

type InvalidTransition struct {
	TableID string
	Stage   string
	Trigger string
}

func (e InvalidTransition) Name() string { return "INVALID_TRANSITION" }

type HoleCardsDealt struct {
	TableID string
	Players []string
}

func (e HoleCardsDealt) Name() string { return "HOLE_CARDS_DEALT" }

type CommunityCardsDealt struct {
	TableID string
	Stage   string
	Cards   cards.Stack
}

func (e CommunityCardsDealt) Name() string { return "COMMUNITY_CARDS_DEALT" }

type BlindPosted struct {
	TableID  string
	PlayerID string
	Position string
	Amount   int
}

func (e BlindPosted) Name() string { return "BLIND_POSTED" }

type PlayerActed struct {
	TableID  string
	PlayerID string
	Action   string
	Amount   int
}

func (e PlayerActed) Name() string { return "PLAYER_ACTED" }

type BetChanged struct {
	TableID string
	LastBet int
}

func (e BetChanged) Name() string { return "BET_CHANGED" }

type BettingRoundEnded struct {
	TableID string
	Stage   string
	Pot     int
}

func (e BettingRoundEnded) Name() string { return "BETTING_ROUND_ENDED" }

type WinnersDetermined struct {
	TableID string
	Winners []string
}

func (e WinnersDetermined) Name() string { return "WINNERS_DETERMINED" }

type PotAwarded struct {
	TableID string
	Winners []string
	Share   int
}

func (e PotAwarded) Name() string { return "POT_AWARDED" }

type HandEnded struct {
	TableID string
}

func (e HandEnded) Name() string { return "HAND_ENDED" }
