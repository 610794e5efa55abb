package domain

import (
	"fmt"

	"go.uber.org/zap"
)

// RoundState is the state of the betting round machine.
type RoundState int

const (
	WaitingForPlayer RoundState = iota // waiting for the current player to act
	PlayerActed                        // action taken, turn not yet advanced
	RoundComplete                      // terminal
)

func (s RoundState) String() string {
	switch s {
	case WaitingForPlayer:
		return "waiting_for_player"
	case PlayerActed:
		return "player_acted"
	case RoundComplete:
		return "round_complete"
	default:
		return "unknown"
	}
}

// RoundTrigger drives the betting round machine.
type RoundTrigger int

const (
	TriggerCall RoundTrigger = iota
	TriggerRaise
	TriggerCheck
	TriggerFold
	TriggerAllIn
	TriggerNextPlayer
	TriggerRoundEnd
)

func (t RoundTrigger) String() string {
	switch t {
	case TriggerCall:
		return "call"
	case TriggerRaise:
		return "raise"
	case TriggerCheck:
		return "check"
	case TriggerFold:
		return "fold"
	case TriggerAllIn:
		return "all-in"
	case TriggerNextPlayer:
		return "next_player"
	case TriggerRoundEnd:
		return "round_end"
	default:
		return "unknown"
	}
}

// Street is the betting stage a round belongs to.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	}
	return "unknown"
}

type roundKey struct {
	state   RoundState
	trigger RoundTrigger
}

type roundTransition struct {
	next   RoundState
	effect func() error
}

// Round runs one pass of betting among the active players of a street.
// A fresh Round is set up for every street and discarded when it ends.
//
// The round enforces action legality and bet matching; turn ownership is
// checked by the Betting mechanism that drives it.
type Round struct {
	players     []*Player
	current     int
	trigger     RoundTrigger
	pendingBet  int
	lastBet     int
	lastRaiser  *Player
	state       RoundState
	street      Street
	bets        map[string]int
	transitions map[roundKey]roundTransition
	logger      *zap.Logger

	// synchronous observers, set by the betting mechanism
	onLastBet  func(int)
	onComplete func()
}

// NewRound creates an empty round. Call Setup before use.
func NewRound(logger *zap.Logger) *Round {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Round{
		bets:        make(map[string]int),
		transitions: make(map[roundKey]roundTransition),
		logger:      logger,
	}
	r.configureTransitions()
	return r
}

func (r *Round) permit(from RoundState, trigger RoundTrigger, to RoundState, effect func() error) {
	r.transitions[roundKey{from, trigger}] = roundTransition{next: to, effect: effect}
}

func (r *Round) configureTransitions() {
	// A player action moves the machine to PlayerActed.
	r.permit(WaitingForPlayer, TriggerCall, PlayerActed, r.onPlayerAction)
	r.permit(WaitingForPlayer, TriggerRaise, PlayerActed, r.onPlayerAction)
	r.permit(WaitingForPlayer, TriggerCheck, PlayerActed, r.onPlayerAction)
	r.permit(WaitingForPlayer, TriggerFold, PlayerActed, r.onPlayerAction)
	r.permit(WaitingForPlayer, TriggerAllIn, PlayerActed, r.onPlayerAction)

	// After an action the turn advances.
	r.permit(PlayerActed, TriggerNextPlayer, WaitingForPlayer, r.moveToNextPlayer)

	// Or the round completes.
	r.permit(PlayerActed, TriggerRoundEnd, RoundComplete, nil)
}

// Setup prepares the round for the given street. Players are ordered by
// table position starting from the small blind and marked Thinking.
func (r *Round) Setup(players []*Player, street Street) {
	ordered := make([]*Player, len(players))
	copy(ordered, players)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j-1].Position > ordered[j].Position; j-- {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
		}
	}

	r.players = ordered
	r.street = street
	r.bets = make(map[string]int)
	r.lastRaiser = nil
	r.setLastBet(0)
	r.state = WaitingForPlayer
	r.current = 0

	for i, p := range r.players {
		p.BettingState = Thinking
		if p.Position == SB {
			r.current = i
		}
	}

	if cur := r.CurrentPlayer(); cur != nil {
		cur.AvailableActions = r.availableActions(cur)
	}
}

// CurrentPlayer returns the player whose turn it is, or nil if the round
// has no players.
func (r *Round) CurrentPlayer() *Player {
	if len(r.players) == 0 {
		return nil
	}
	return r.players[r.current]
}

// State returns the current round state.
func (r *Round) State() RoundState {
	return r.state
}

// LastBet returns the current bet to match.
func (r *Round) LastBet() int {
	return r.lastBet
}

// CommittedBy returns how many chips the player has committed this round.
func (r *Round) CommittedBy(playerID string) int {
	return r.bets[playerID]
}

// BankAmount sums all bets committed during this round.
func (r *Round) BankAmount() int {
	total := 0
	for _, bet := range r.bets {
		total += bet
	}
	return total
}

// Fire drives the round machine with the given trigger. The bet argument is
// only meaningful for raises. A rejected action returns an error and leaves
// the round state unchanged.
func (r *Round) Fire(trigger RoundTrigger, bet int) error {
	tr, ok := r.transitions[roundKey{r.state, trigger}]
	if !ok {
		return fmt.Errorf("%w: %s + %s", ErrInvalidRoundTransition, r.state, trigger)
	}

	if trigger == TriggerCheck && !r.canCheck(r.CurrentPlayer()) {
		return ErrIllegalCheck
	}

	r.logger.Debug("betting round transition",
		zap.Stringer("from", r.state),
		zap.Stringer("to", tr.next),
		zap.Stringer("trigger", trigger),
	)

	r.trigger = trigger
	r.pendingBet = bet

	before := r.state
	if tr.effect != nil {
		if err := tr.effect(); err != nil {
			return err
		}
	}

	// An effect may complete the round through a nested fire; never clobber
	// the terminal state it reached.
	if r.state == before {
		r.setState(tr.next)
	}
	return nil
}

func (r *Round) setState(state RoundState) {
	if r.state == state {
		return
	}
	r.state = state
	if state == RoundComplete && r.onComplete != nil {
		r.onComplete()
	}
}

func (r *Round) setLastBet(bet int) {
	if r.lastBet == bet {
		return
	}
	r.lastBet = bet
	if r.onLastBet != nil {
		r.onLastBet(bet)
	}
}

// Blind collects a forced bet from the small or big blind before voluntary
// action begins.
func (r *Round) Blind(player *Player, bet int) error {
	if player.Position != SB && player.Position != BB {
		return fmt.Errorf("only the SB and BB positions post blinds, not %s", player.Position)
	}

	r.bets[player.ID] = bet
	if player.Position == BB {
		player.BettingState = BigBlind
	} else {
		player.BettingState = SmallBlind
	}
	if bet > r.lastBet {
		r.setLastBet(bet)
	}
	player.Bank -= bet

	r.logger.Debug("blind posted",
		zap.String("player", player.Name),
		zap.Stringer("position", player.Position),
		zap.Int("amount", bet),
	)

	return r.moveToNextPlayer()
}

func (r *Round) onPlayerAction() error {
	switch r.trigger {
	case TriggerCall:
		return r.call()
	case TriggerRaise:
		return r.raise()
	case TriggerAllIn:
		return r.allIn()
	case TriggerCheck:
		return r.check()
	case TriggerFold:
		return r.fold()
	default:
		return fmt.Errorf("%w: %s is not a player action", ErrInvalidRoundTransition, r.trigger)
	}
}

func (r *Round) call() error {
	player := r.CurrentPlayer()

	if r.lastBet == 0 {
		return ErrNoBetToCall
	}
	if player.Bank == 0 {
		return ErrNoChips
	}

	toCall := r.lastBet - r.bets[player.ID]
	if toCall <= 0 {
		// Nothing left to match; the call degrades to a check.
		return r.check()
	}
	if toCall >= player.Bank {
		return r.allIn()
	}

	r.bets[player.ID] += toCall
	player.Bank -= toCall
	player.BettingState = Called

	r.logger.Debug("player called", zap.String("player", player.Name), zap.Int("amount", toCall))
	return nil
}

func (r *Round) raise() error {
	player := r.CurrentPlayer()
	bet := r.pendingBet

	if player.Bank == 0 {
		return ErrNoChips
	}
	if bet >= player.Bank {
		return r.allIn()
	}

	r.bets[player.ID] += bet
	player.Bank -= bet
	player.BettingState = Raised
	r.lastRaiser = player
	if bet > r.lastBet {
		r.setLastBet(bet)
	}

	r.logger.Debug("player raised", zap.String("player", player.Name), zap.Int("amount", bet))
	return nil
}

func (r *Round) allIn() error {
	player := r.CurrentPlayer()
	bet := player.Bank

	r.bets[player.ID] += bet
	player.Bank = 0
	player.BettingState = AllIn
	if bet > r.lastBet {
		r.setLastBet(bet)
	}

	r.logger.Debug("player went all-in", zap.String("player", player.Name), zap.Int("amount", bet))
	return nil
}

func (r *Round) check() error {
	player := r.CurrentPlayer()
	player.BettingState = Checked

	r.logger.Debug("player checked", zap.String("player", player.Name))
	return nil
}

func (r *Round) fold() error {
	player := r.CurrentPlayer()
	player.Hand = nil
	player.BettingState = Folded

	r.logger.Debug("player folded", zap.String("player", player.Name))
	return nil
}

// moveToNextPlayer advances the turn round-robin, skipping players who are
// out of the action, and completes the round once every obligation is met.
func (r *Round) moveToNextPlayer() error {
	if cur := r.CurrentPlayer(); cur != nil {
		cur.AvailableActions = nil
	}

	r.advance()

	if r.allPlayersActed() {
		return r.Fire(TriggerRoundEnd, 0)
	}

	cur := r.CurrentPlayer()
	cur.BettingState = Thinking
	cur.AvailableActions = r.availableActions(cur)

	r.logger.Debug("next player", zap.String("player", cur.Name))
	return nil
}

func (r *Round) advance() {
	for i := 0; i < len(r.players); i++ {
		r.current = (r.current + 1) % len(r.players)
		state := r.players[r.current].BettingState
		if state != Folded && state != AllIn {
			return
		}
	}
}

// allPlayersActed is the round-completion rule, checked after every turn
// advance:
//  1. no non-folded player is still Thinking;
//  2. the big blind has spoken (their BigBlind state is replaced once they
//     voluntarily act);
//  3. every non-folded, non-all-in player's bet matches the maximum;
//  4. if a raise occurred, action has returned to the raiser's seat.
func (r *Round) allPlayersActed() bool {
	for _, p := range r.players {
		if p.BettingState == Thinking {
			return false
		}
	}

	for _, p := range r.players {
		if p.BettingState == BigBlind {
			return false
		}
	}

	maxBet := 0
	for _, p := range r.players {
		if p.HasFolded() {
			continue
		}
		if bet := r.bets[p.ID]; bet > maxBet {
			maxBet = bet
		}
	}

	for _, p := range r.players {
		if p.HasFolded() || p.BettingState == AllIn {
			continue
		}
		if r.bets[p.ID] != maxBet {
			return false
		}
	}

	if r.lastRaiser != nil && r.CurrentPlayer() != r.lastRaiser {
		return false
	}

	return true
}

func (r *Round) availableActions(player *Player) []Action {
	actions := []Action{ActionCall, ActionRaise, ActionAllIn, ActionCheck, ActionFold}
	if !r.canCheck(player) {
		actions = append(actions[:3], ActionFold)
	}
	return actions
}

// canCheck reports whether a check is legal: the player's committed bet
// already matches the maximum, or no bets exist yet. Preflop a check is
// illegal until both blinds are in.
func (r *Round) canCheck(player *Player) bool {
	if player == nil {
		return false
	}
	if r.street == Preflop && len(r.bets) < 2 {
		return false
	}
	if len(r.bets) == 0 {
		return true
	}
	if _, ok := r.bets[player.ID]; !ok && len(r.bets) == 1 {
		return false
	}

	maxBet := 0
	for _, bet := range r.bets {
		if bet > maxBet {
			maxBet = bet
		}
	}
	return r.bets[player.ID] == maxBet || player.BettingState == AllIn
}
