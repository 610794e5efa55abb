package domain

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/greenfelt/holdem/cards"
	"github.com/greenfelt/holdem/events"
	"github.com/greenfelt/holdem/hands"
	"go.uber.org/zap"
)

// MaxPlayers is the seat limit of a table.
const MaxPlayers = 6

// TableStatus distinguishes table tiers; it has no effect on game flow.
type TableStatus int

const (
	StatusNormal TableStatus = iota
	StatusVIP
)

// GameState is a stage of the table state machine.
type GameState int

const (
	StateWaitingForPlayers GameState = iota
	StateInitialized
	StateDealHands
	StatePreflopBetting
	StateDealFlop
	StateFlopBetting
	StateDealTurn
	StateTurnBetting
	StateDealRiver
	StateRiverBetting
	StateShowdown
	StateEvaluateHands
	StatePayout
	StateGameEnded
)

func (s GameState) String() string {
	switch s {
	case StateWaitingForPlayers:
		return "waiting_for_players"
	case StateInitialized:
		return "initialized"
	case StateDealHands:
		return "deal_hands"
	case StatePreflopBetting:
		return "preflop_betting"
	case StateDealFlop:
		return "deal_flop"
	case StateFlopBetting:
		return "flop_betting"
	case StateDealTurn:
		return "deal_turn"
	case StateTurnBetting:
		return "turn_betting"
	case StateDealRiver:
		return "deal_river"
	case StateRiverBetting:
		return "river_betting"
	case StateShowdown:
		return "showdown"
	case StateEvaluateHands:
		return "evaluate_hands"
	case StatePayout:
		return "payout"
	case StateGameEnded:
		return "game_ended"
	default:
		return "unknown"
	}
}

// GameTrigger advances the table state machine.
type GameTrigger int

const (
	TriggerInit GameTrigger = iota
	TriggerDealHands
	TriggerPreflopBetting
	TriggerDealFlop
	TriggerFlopBetting
	TriggerDealTurn
	TriggerTurnBetting
	TriggerDealRiver
	TriggerRiverBetting
	TriggerShowdown
	TriggerEvaluateHands
	TriggerPayout
	TriggerEndGame
	TriggerReset
)

func (t GameTrigger) String() string {
	switch t {
	case TriggerInit:
		return "init"
	case TriggerDealHands:
		return "deal_hands"
	case TriggerPreflopBetting:
		return "preflop_betting"
	case TriggerDealFlop:
		return "deal_flop"
	case TriggerFlopBetting:
		return "flop_betting"
	case TriggerDealTurn:
		return "deal_turn"
	case TriggerTurnBetting:
		return "turn_betting"
	case TriggerDealRiver:
		return "deal_river"
	case TriggerRiverBetting:
		return "river_betting"
	case TriggerShowdown:
		return "showdown"
	case TriggerEvaluateHands:
		return "evaluate_hands"
	case TriggerPayout:
		return "payout"
	case TriggerEndGame:
		return "end_game"
	case TriggerReset:
		return "reset"
	default:
		return "unknown"
	}
}

type stateKey struct {
	state   GameState
	trigger GameTrigger
}

type stateTransition struct {
	next  GameState
	apply func() error
}

// Table runs a single hold'em table: it owns the roster, sequences the
// fourteen stages of a hand, drives the betting mechanism street by street
// and settles the pot.
//
// The roster and the active-player list are guarded by one mutex; each
// betting round consumes a snapshot taken at Init, so action processing
// itself never holds the lock.
type Table struct {
	mu sync.Mutex

	id          string
	status      TableStatus
	state       GameState
	transitions map[stateKey]stateTransition

	croupier *Croupier
	betting  *Betting

	players       []*Player
	activePlayers []*Player
	community     cards.Stack
	pot           int
	lastBet       int
	winners       []*Player
	lastSBSeat    int
	blinds        Blinds

	logger        *zap.Logger
	eventLog      []events.Event
	eventHandlers []events.Handler
}

// NewTable creates a table with the given blind sizes.
func NewTable(blinds Blinds, status TableStatus, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &Table{
		id:          uuid.NewString(),
		status:      status,
		state:       StateWaitingForPlayers,
		transitions: make(map[stateKey]stateTransition),
		croupier:    NewCroupier("dealer"),
		betting:     NewBetting(logger),
		blinds:      blinds,
		logger:      logger,
	}

	t.betting.OnPotChanged(t.handlePotChanged)
	t.betting.OnBetChanged(t.handleBetChanged)
	t.betting.OnBlindPosted(t.handleBlindPosted)
	t.configureTransitions()
	return t
}

func (t *Table) permit(from GameState, trigger GameTrigger, to GameState, apply func() error) {
	t.transitions[stateKey{from, trigger}] = stateTransition{next: to, apply: apply}
}

func (t *Table) configureTransitions() {
	t.permit(StateWaitingForPlayers, TriggerInit, StateInitialized, t.init)
	t.permit(StateInitialized, TriggerDealHands, StateDealHands, t.dealHands)
	t.permit(StateDealHands, TriggerPreflopBetting, StatePreflopBetting, func() error {
		return t.betting.StartStreet(Preflop)
	})
	t.permit(StatePreflopBetting, TriggerDealFlop, StateDealFlop, t.dealFlop)
	t.permit(StateDealFlop, TriggerFlopBetting, StateFlopBetting, func() error {
		return t.betting.StartStreet(Flop)
	})
	t.permit(StateFlopBetting, TriggerDealTurn, StateDealTurn, t.dealTurn)
	t.permit(StateDealTurn, TriggerTurnBetting, StateTurnBetting, func() error {
		return t.betting.StartStreet(Turn)
	})
	t.permit(StateTurnBetting, TriggerDealRiver, StateDealRiver, t.dealRiver)
	t.permit(StateDealRiver, TriggerRiverBetting, StateRiverBetting, func() error {
		return t.betting.StartStreet(River)
	})
	t.permit(StateRiverBetting, TriggerShowdown, StateShowdown, t.showdown)
	t.permit(StateShowdown, TriggerEvaluateHands, StateEvaluateHands, t.evaluateHands)
	t.permit(StateEvaluateHands, TriggerPayout, StatePayout, t.payout)
	t.permit(StatePayout, TriggerEndGame, StateGameEnded, t.endGame)
	t.permit(StateGameEnded, TriggerReset, StateWaitingForPlayers, nil)
}

// Fire advances the table state machine one step. An unregistered
// (stage, trigger) pair is logged and ignored, never a crash; a failing
// stage side effect aborts the transition.
func (t *Table) Fire(trigger GameTrigger) {
	tr, ok := t.transitions[stateKey{t.state, trigger}]
	if !ok {
		t.logger.Warn("invalid table transition",
			zap.Stringer("stage", t.state),
			zap.Stringer("trigger", trigger),
		)
		t.emitEvent(events.InvalidTransition{
			TableID: t.id,
			Stage:   t.state.String(),
			Trigger: trigger.String(),
		})
		return
	}

	if tr.apply != nil {
		if err := tr.apply(); err != nil {
			t.logger.Error("stage side effect failed",
				zap.Stringer("stage", t.state),
				zap.Stringer("trigger", trigger),
				zap.Error(err),
			)
			return
		}
	}

	previous := t.state
	t.state = tr.next

	t.logger.Info("table transition",
		zap.Stringer("from", previous),
		zap.Stringer("to", t.state),
		zap.Stringer("trigger", trigger),
	)
	t.emitEvent(events.StageChanged{
		TableID:       t.id,
		PreviousStage: previous.String(),
		NewStage:      t.state.String(),
		Trigger:       trigger.String(),
	})
}

// AddPlayer seats a player. It rejects a full table and occupied seats.
func (t *Table) AddPlayer(player *Player, seatNumber int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.players) >= MaxPlayers {
		return ErrTableFull
	}
	for _, p := range t.players {
		if p.ID == player.ID || p.SeatNumber == seatNumber {
			return ErrSeatTaken
		}
	}

	player.SeatNumber = seatNumber
	t.players = append(t.players, player)

	t.emitEvent(events.PlayerJoined{
		TableID:    t.id,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		SeatNumber: seatNumber,
	})
	return nil
}

// RemovePlayer unseats whoever occupies the given seat.
func (t *Table) RemovePlayer(seatNumber int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	remove := func(list []*Player) ([]*Player, *Player) {
		for i, p := range list {
			if p.SeatNumber == seatNumber {
				return append(list[:i], list[i+1:]...), p
			}
		}
		return list, nil
	}

	t.activePlayers, _ = remove(t.activePlayers)

	var removed *Player
	t.players, removed = remove(t.players)
	if removed != nil {
		t.emitEvent(events.PlayerLeft{
			TableID:    t.id,
			PlayerID:   removed.ID,
			SeatNumber: seatNumber,
		})
	}
}

// init begins a new hand: it clears the previous hand's state, reshuffles,
// snapshots the roster into the active set and rotates positions.
func (t *Table) init() error {
	t.community = nil
	t.pot = 0
	t.lastBet = 0
	t.winners = nil
	t.croupier.Reset()

	t.mu.Lock()
	t.activePlayers = make([]*Player, len(t.players))
	copy(t.activePlayers, t.players)
	t.mu.Unlock()

	if err := t.resetPlayers(); err != nil {
		return err
	}

	t.betting.Configure(t.activePlayers, t.blinds)
	return nil
}

// resetPlayers rotates the small blind strictly past the previous hand's
// small-blind seat (wrapping at the seat-count boundary), reorders the
// active list from the new small blind and assigns position labels.
func (t *Table) resetPlayers() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.activePlayers) < 2 {
		for _, p := range t.activePlayers {
			p.ResetForHand()
		}
		return nil
	}

	seatOrder := make([]*Player, len(t.activePlayers))
	copy(seatOrder, t.activePlayers)
	sort.Slice(seatOrder, func(i, j int) bool {
		return seatOrder[i].SeatNumber < seatOrder[j].SeatNumber
	})

	first := 0
	for i, p := range seatOrder {
		if p.SeatNumber > t.lastSBSeat {
			first = i
			break
		}
	}
	t.lastSBSeat = seatOrder[first].SeatNumber

	order := make([]*Player, 0, len(seatOrder))
	order = append(order, seatOrder[first:]...)
	order = append(order, seatOrder[:first]...)

	positions, err := positionsFor(len(order))
	if err != nil {
		return err
	}

	for i, p := range order {
		p.ResetForHand()
		p.Position = positions[i]
	}

	t.activePlayers = order
	return nil
}

// positionsFor returns position labels in rotation order for the given
// active-player count. Counts outside 2..6 are unsupported.
func positionsFor(count int) ([]Position, error) {
	switch count {
	case 2:
		return []Position{SB, BB}, nil
	case 3:
		return []Position{SB, BB, BTN}, nil
	case 4:
		return []Position{SB, BB, CO, BTN}, nil
	case 5:
		return []Position{SB, BB, UTG, CO, BTN}, nil
	case 6:
		return []Position{SB, BB, UTG, MP, CO, BTN}, nil
	default:
		return nil, ErrUnsupportedPlayerCount
	}
}

func (t *Table) dealHands() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.croupier.DealHoleCards(t.activePlayers); err != nil {
		return err
	}

	playerIDs := make([]string, len(t.activePlayers))
	for i, p := range t.activePlayers {
		playerIDs[i] = p.ID
	}
	t.emitEvent(events.HoleCardsDealt{TableID: t.id, Players: playerIDs})
	return nil
}

func (t *Table) dealFlop() error {
	flop, err := t.croupier.DealFlop()
	if err != nil {
		return err
	}
	t.community = append(t.community, flop...)
	t.emitEvent(events.CommunityCardsDealt{TableID: t.id, Stage: "flop", Cards: flop})
	return nil
}

func (t *Table) dealTurn() error {
	card, err := t.croupier.DealTurn()
	if err != nil {
		return err
	}
	t.community = append(t.community, card)
	t.emitEvent(events.CommunityCardsDealt{TableID: t.id, Stage: "turn", Cards: cards.Stack{card}})
	return nil
}

func (t *Table) dealRiver() error {
	card, err := t.croupier.DealRiver()
	if err != nil {
		return err
	}
	t.community = append(t.community, card)
	t.emitEvent(events.CommunityCardsDealt{TableID: t.id, Stage: "river", Cards: cards.Stack{card}})
	return nil
}

// showdown evaluates the best combination for every player still in the
// hand.
func (t *Table) showdown() error {
	for _, p := range t.remainingPlayers() {
		result, err := hands.Evaluate(p.Hand, t.community)
		if err != nil {
			return err
		}
		p.Result = result
	}
	return nil
}

func (t *Table) evaluateHands() error {
	t.winners = t.croupier.PickWinners(t.remainingPlayers())

	winnerIDs := make([]string, len(t.winners))
	for i, p := range t.winners {
		winnerIDs[i] = p.ID
	}
	t.emitEvent(events.WinnersDetermined{TableID: t.id, Winners: winnerIDs})
	return nil
}

func (t *Table) payout() error {
	share := 0
	if len(t.winners) > 0 {
		share = t.betting.Pot() / len(t.winners)
	}

	t.betting.Payout(t.winners)
	t.pot = 0

	winnerIDs := make([]string, len(t.winners))
	for i, p := range t.winners {
		winnerIDs[i] = p.ID
	}
	t.emitEvent(events.PotAwarded{TableID: t.id, Winners: winnerIDs, Share: share})
	return nil
}

func (t *Table) endGame() error {
	t.emitEvent(events.HandEnded{TableID: t.id})
	return nil
}

func (t *Table) remainingPlayers() []*Player {
	remaining := make([]*Player, 0, len(t.activePlayers))
	for _, p := range t.activePlayers {
		if !p.HasFolded() {
			remaining = append(remaining, p)
		}
	}
	return remaining
}

// MakePlayerAction routes a betting action to the active round. Every
// underlying rule violation is wrapped into a single PlayerActionError so
// callers have one error surface to branch on.
func (t *Table) MakePlayerAction(playerID string, action Action, bet int) error {
	t.mu.Lock()
	var player *Player
	for _, p := range t.activePlayers {
		if p.ID == playerID {
			player = p
			break
		}
	}
	t.mu.Unlock()

	if player == nil {
		return &PlayerActionError{PlayerID: playerID, Err: ErrUnknownPlayer}
	}

	var err error
	switch action {
	case ActionCall:
		err = t.betting.Call(player)
	case ActionRaise:
		err = t.betting.Raise(player, bet)
	case ActionAllIn:
		err = t.betting.AllIn(player)
	case ActionCheck:
		err = t.betting.Check(player)
	case ActionFold:
		err = t.betting.Fold(player)
	default:
		err = ErrInvalidRoundTransition
	}

	if err != nil {
		t.logger.Warn("player action rejected",
			zap.String("player", player.Name),
			zap.Stringer("action", action),
			zap.Error(err),
		)
		return &PlayerActionError{PlayerID: playerID, Err: err}
	}

	t.emitEvent(events.PlayerActed{
		TableID:  t.id,
		PlayerID: playerID,
		Action:   action.String(),
		Amount:   bet,
	})
	return nil
}

func (t *Table) handlePotChanged(pot int) {
	t.pot = pot
	t.emitEvent(events.BettingRoundEnded{
		TableID: t.id,
		Stage:   t.state.String(),
		Pot:     pot,
	})
}

func (t *Table) handleBlindPosted(player *Player, amount int) {
	t.emitEvent(events.BlindPosted{
		TableID:  t.id,
		PlayerID: player.ID,
		Position: player.Position.String(),
		Amount:   amount,
	})
}

func (t *Table) handleBetChanged(lastBet int) {
	t.lastBet = lastBet
	t.emitEvent(events.BetChanged{TableID: t.id, LastBet: lastBet})
}

// ID returns the table identifier.
func (t *Table) ID() string { return t.id }

// Status returns the table tier.
func (t *Table) Status() TableStatus { return t.status }

// State returns the current stage of the table.
func (t *Table) State() GameState { return t.state }

// Blinds returns the table's blind sizes.
func (t *Table) Blinds() Blinds { return t.blinds }

// Pot returns the current pot total.
func (t *Table) Pot() int { return t.pot }

// LastBet returns the bet currently to match.
func (t *Table) LastBet() int { return t.lastBet }

// GetCurrentPlayer returns the player whose turn it is.
func (t *Table) GetCurrentPlayer() *Player {
	return t.betting.CurrentPlayer()
}

// CommunityCards returns a copy of the community cards.
func (t *Table) CommunityCards() cards.Stack {
	community := make(cards.Stack, len(t.community))
	copy(community, t.community)
	return community
}

// Players returns the seated players.
func (t *Table) Players() []*Player {
	t.mu.Lock()
	defer t.mu.Unlock()

	players := make([]*Player, len(t.players))
	copy(players, t.players)
	return players
}

// ActivePlayers returns the players in the current hand.
func (t *Table) ActivePlayers() []*Player {
	t.mu.Lock()
	defer t.mu.Unlock()

	active := make([]*Player, len(t.activePlayers))
	copy(active, t.activePlayers)
	return active
}

// Winners returns the winners of the last evaluated hand.
func (t *Table) Winners() []*Player {
	winners := make([]*Player, len(t.winners))
	copy(winners, t.winners)
	return winners
}

// RegisterEventHandler registers a callback invoked synchronously for every
// event the table emits.
func (t *Table) RegisterEventHandler(handler events.Handler) {
	t.eventHandlers = append(t.eventHandlers, handler)
}

// Events returns the events emitted since the table was created.
func (t *Table) Events() []events.Event {
	log := make([]events.Event, len(t.eventLog))
	copy(log, t.eventLog)
	return log
}

func (t *Table) emitEvent(event events.Event) {
	t.eventLog = append(t.eventLog, event)
	for _, handler := range t.eventHandlers {
		handler(event)
	}
}
