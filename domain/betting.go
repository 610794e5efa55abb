package domain

import (
	"fmt"

	"go.uber.org/zap"
)

// Blinds holds the forced-bet sizes for a table.
type Blinds struct {
	Small int
	Big   int
}

func (b Blinds) String() string {
	return fmt.Sprintf("%d/%d", b.Small, b.Big)
}

// Betting drives one Round per street on behalf of the table. It owns turn
// ownership checks, raise sizing, blind collection and pot accumulation,
// and reports bet/pot changes back through synchronous callbacks.
type Betting struct {
	round      *Round
	players    []*Player
	blinds     Blinds
	totalBank  int
	roundEnded bool
	logger     *zap.Logger

	// table callbacks, invoked synchronously at transition points
	onPotChanged  func(int)
	onBetChanged  func(int)
	onBlindPosted func(*Player, int)
}

// NewBetting creates a betting mechanism.
func NewBetting(logger *zap.Logger) *Betting {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Betting{
		round:  NewRound(logger),
		logger: logger,
	}
	b.round.onComplete = b.handleRoundComplete
	b.round.onLastBet = b.handleLastBetChanged
	return b
}

// OnPotChanged registers a callback fired when a completed round adds its
// bets to the pot.
func (b *Betting) OnPotChanged(fn func(pot int)) {
	b.onPotChanged = fn
}

// OnBetChanged registers a callback fired whenever the bet to match moves.
func (b *Betting) OnBetChanged(fn func(lastBet int)) {
	b.onBetChanged = fn
}

// OnBlindPosted registers a callback fired when a forced bet is collected.
func (b *Betting) OnBlindPosted(fn func(player *Player, amount int)) {
	b.onBlindPosted = fn
}

// Configure scopes the mechanism to the active players of a new hand and
// resets the pot.
func (b *Betting) Configure(players []*Player, blinds Blinds) {
	b.players = make([]*Player, len(players))
	copy(b.players, players)
	b.blinds = blinds
	b.totalBank = 0
	b.roundEnded = false
	b.round.Setup(b.players, Preflop)
}

// StartStreet opens a fresh betting round for the street, scoped to the
// non-folded players. On the preflop street the blinds are collected before
// voluntary action begins.
func (b *Betting) StartStreet(street Street) error {
	remaining := make([]*Player, 0, len(b.players))
	for _, p := range b.players {
		if !p.HasFolded() {
			remaining = append(remaining, p)
		}
	}

	b.roundEnded = false
	b.round.Setup(remaining, street)

	if street == Preflop {
		return b.postBlinds()
	}
	return nil
}

func (b *Betting) postBlinds() error {
	var sb, bb *Player
	for _, p := range b.players {
		switch p.Position {
		case SB:
			sb = p
		case BB:
			bb = p
		}
	}
	if sb == nil || bb == nil {
		return fmt.Errorf("%w: no blind positions assigned", ErrUnsupportedPlayerCount)
	}
	if cur := b.round.CurrentPlayer(); cur == nil || cur.ID != sb.ID {
		return fmt.Errorf("small blind %s is not first to act", sb.Name)
	}

	if err := b.round.Blind(sb, b.blinds.Small); err != nil {
		return err
	}
	if b.onBlindPosted != nil {
		b.onBlindPosted(sb, b.blinds.Small)
	}

	if err := b.round.Blind(bb, b.blinds.Big); err != nil {
		return err
	}
	if b.onBlindPosted != nil {
		b.onBlindPosted(bb, b.blinds.Big)
	}
	return nil
}

func (b *Betting) ensureTurn(player *Player) error {
	if player == nil {
		return ErrUnknownPlayer
	}
	cur := b.round.CurrentPlayer()
	if cur == nil {
		return ErrNoActiveRound
	}
	if cur.ID != player.ID {
		return ErrOutOfTurn
	}
	return nil
}

func (b *Betting) act(player *Player, trigger RoundTrigger, bet int) error {
	if err := b.ensureTurn(player); err != nil {
		return err
	}
	if err := b.round.Fire(trigger, bet); err != nil {
		return err
	}
	return b.round.Fire(TriggerNextPlayer, 0)
}

// Check passes the action without betting.
func (b *Betting) Check(player *Player) error {
	return b.act(player, TriggerCheck, 0)
}

// Call matches the current bet.
func (b *Betting) Call(player *Player) error {
	return b.act(player, TriggerCall, 0)
}

// Raise puts in a bet that must exceed the last bet and be at least the
// big blind.
func (b *Betting) Raise(player *Player, bet int) error {
	if err := b.ensureTurn(player); err != nil {
		return err
	}
	if bet <= b.round.LastBet() || bet < b.blinds.Big {
		return fmt.Errorf("%w: got %d with last bet %d and big blind %d",
			ErrRaiseTooSmall, bet, b.round.LastBet(), b.blinds.Big)
	}
	return b.act(player, TriggerRaise, bet)
}

// AllIn commits the player's entire remaining bank.
func (b *Betting) AllIn(player *Player) error {
	return b.act(player, TriggerAllIn, 0)
}

// Fold throws the player's hand away.
func (b *Betting) Fold(player *Player) error {
	return b.act(player, TriggerFold, 0)
}

// CurrentPlayer returns the player expected to act next.
func (b *Betting) CurrentPlayer() *Player {
	return b.round.CurrentPlayer()
}

// Pot returns the chips collected from completed rounds this hand.
func (b *Betting) Pot() int {
	return b.totalBank
}

// LastBet returns the current bet to match.
func (b *Betting) LastBet() int {
	return b.round.LastBet()
}

// RoundEnded reports whether the current street's round has completed.
func (b *Betting) RoundEnded() bool {
	return b.roundEnded
}

// Payout splits the pot evenly among the winners. The integer remainder is
// truncated, not redistributed.
func (b *Betting) Payout(winners []*Player) {
	if len(winners) == 0 {
		return
	}
	share := b.totalBank / len(winners)
	for _, p := range winners {
		p.Bank += share
	}
	b.totalBank = 0
}

func (b *Betting) handleRoundComplete() {
	b.totalBank += b.round.BankAmount()
	b.roundEnded = true

	b.logger.Info("betting round complete",
		zap.Stringer("street", b.round.street),
		zap.Int("pot", b.totalBank),
	)

	if b.onPotChanged != nil {
		b.onPotChanged(b.totalBank)
	}
}

func (b *Betting) handleLastBetChanged(lastBet int) {
	if b.onBetChanged != nil {
		b.onBetChanged(lastBet)
	}
}
