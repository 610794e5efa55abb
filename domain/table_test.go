package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenfelt/holdem/events"
	"github.com/greenfelt/holdem/hands"
)

func newTestTable(t *testing.T, seats ...int) (*Table, []*Player) {
	t.Helper()

	tbl := NewTable(Blinds{Small: 10, Big: 20}, StatusNormal, nil)
	players := make([]*Player, 0, len(seats))
	for i, seat := range seats {
		p := NewPlayer(fmt.Sprintf("player-%d", i+1), 5000)
		require.NoError(t, tbl.AddPlayer(p, seat))
		players = append(players, p)
	}
	return tbl, players
}

// act performs the given action as whoever currently holds the turn.
func act(t *testing.T, tbl *Table, action Action, bet int) {
	t.Helper()

	cur := tbl.GetCurrentPlayer()
	require.NotNil(t, cur)
	require.NoError(t, tbl.MakePlayerAction(cur.ID, action, bet))
}

func TestAddPlayerRejectsFullTable(t *testing.T) {
	tbl, _ := newTestTable(t, 0, 1, 2, 3, 4, 5)

	err := tbl.AddPlayer(NewPlayer("late", 5000), 6)
	assert.ErrorIs(t, err, ErrTableFull)
	assert.Len(t, tbl.Players(), MaxPlayers)
}

func TestAddPlayerRejectsOccupiedSeat(t *testing.T) {
	tbl, players := newTestTable(t, 0, 1)

	err := tbl.AddPlayer(NewPlayer("squatter", 5000), 1)
	assert.ErrorIs(t, err, ErrSeatTaken)

	err = tbl.AddPlayer(players[0], 4)
	assert.ErrorIs(t, err, ErrSeatTaken, "a player cannot be seated twice")
}

func TestRemovePlayer(t *testing.T) {
	tbl, _ := newTestTable(t, 0, 1, 2)

	tbl.RemovePlayer(1)
	assert.Len(t, tbl.Players(), 2)
	for _, p := range tbl.Players() {
		assert.NotEqual(t, 1, p.SeatNumber)
	}

	// Removing an empty seat is a no-op.
	tbl.RemovePlayer(1)
	assert.Len(t, tbl.Players(), 2)
}

func TestInvalidTransitionIsIgnored(t *testing.T) {
	tbl, _ := newTestTable(t, 0, 1)

	tbl.Fire(TriggerPayout)
	assert.Equal(t, StateWaitingForPlayers, tbl.State(), "an unregistered trigger must not move the machine")

	log := tbl.Events()
	require.NotEmpty(t, log)
	last, ok := log[len(log)-1].(events.InvalidTransition)
	require.True(t, ok, "the rejected trigger must be recorded")
	assert.Equal(t, "payout", last.Trigger)
}

func TestFailingStageAbortsTransition(t *testing.T) {
	tbl, _ := newTestTable(t, 0) // one player: no blind positions can be assigned

	tbl.Fire(TriggerInit)
	require.Equal(t, StateInitialized, tbl.State())
	tbl.Fire(TriggerDealHands)
	require.Equal(t, StateDealHands, tbl.State())

	tbl.Fire(TriggerPreflopBetting)
	assert.Equal(t, StateDealHands, tbl.State(), "blinds cannot be posted, so the stage must not advance")
}

func TestMakePlayerActionWrapsEveryRejection(t *testing.T) {
	tbl, players := newTestTable(t, 0, 1)
	tbl.Fire(TriggerInit)
	tbl.Fire(TriggerDealHands)
	tbl.Fire(TriggerPreflopBetting)
	require.Equal(t, StatePreflopBetting, tbl.State())

	err := tbl.MakePlayerAction("no-such-player", ActionCall, 0)
	var actionErr *PlayerActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "no-such-player", actionErr.PlayerID)
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	// Heads-up preflop the small blind acts first; the big blind is out of turn.
	cur := tbl.GetCurrentPlayer()
	require.NotNil(t, cur)
	var outOfTurn *Player
	for _, p := range players {
		if p.ID != cur.ID {
			outOfTurn = p
		}
	}
	err = tbl.MakePlayerAction(outOfTurn.ID, ActionCall, 0)
	require.ErrorAs(t, err, &actionErr)
	assert.ErrorIs(t, err, ErrOutOfTurn)

	err = tbl.MakePlayerAction(cur.ID, ActionCheck, 0)
	require.ErrorAs(t, err, &actionErr)
	assert.ErrorIs(t, err, ErrIllegalCheck, "the small blind has not matched the big blind yet")
}

func TestPlayerActionDuringRosterChanges(t *testing.T) {
	tbl, players := newTestTable(t, 0, 1)
	tbl.Fire(TriggerInit)
	tbl.Fire(TriggerDealHands)
	tbl.Fire(TriggerPreflopBetting)
	require.Equal(t, StatePreflopBetting, tbl.State())

	// Heads-up preflop the small blind holds the turn, so the other player's
	// actions are always rejected and never mutate the round.
	cur := tbl.GetCurrentPlayer()
	require.NotNil(t, cur)
	var waiting *Player
	for _, p := range players {
		if p.ID != cur.ID {
			waiting = p
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			err := tbl.MakePlayerAction(waiting.ID, ActionCall, 0)
			assert.ErrorIs(t, err, ErrOutOfTurn)
		}
	}()

	// Churn the roster from this goroutine while actions stream in.
	guest := NewPlayer("drifter", 5000)
	for i := 0; i < 200; i++ {
		require.NoError(t, tbl.AddPlayer(guest, 5))
		tbl.RemovePlayer(5)
	}
	<-done

	assert.Equal(t, StatePreflopBetting, tbl.State())
	assert.Equal(t, cur.ID, tbl.GetCurrentPlayer().ID)
	assert.Len(t, tbl.Players(), 2)
}

func TestFullHandFlow(t *testing.T) {
	tbl, _ := newTestTable(t, 0, 1, 3, 4, 5)

	tbl.Fire(TriggerInit)
	require.Equal(t, StateInitialized, tbl.State())

	// The small blind lands on the first occupied seat past the previous
	// hand's small-blind seat, and the rotation runs from there.
	active := tbl.ActivePlayers()
	require.Len(t, active, 5)
	assert.Equal(t, 1, active[0].SeatNumber)
	assert.Equal(t,
		[]Position{SB, BB, UTG, CO, BTN},
		[]Position{active[0].Position, active[1].Position, active[2].Position, active[3].Position, active[4].Position},
	)
	sb, bb, utg, co, btn := active[0], active[1], active[2], active[3], active[4]

	tbl.Fire(TriggerDealHands)
	require.Equal(t, StateDealHands, tbl.State())
	for _, p := range tbl.ActivePlayers() {
		assert.Len(t, p.Hand, 2)
	}

	tbl.Fire(TriggerPreflopBetting)
	require.Equal(t, StatePreflopBetting, tbl.State())
	assert.Equal(t, 4990, sb.Bank)
	assert.Equal(t, 4980, bb.Bank)
	require.Equal(t, utg.ID, tbl.GetCurrentPlayer().ID, "under the gun opens the preflop action")

	act(t, tbl, ActionCall, 0)      // UTG calls 20
	act(t, tbl, ActionRaise, 40)    // CO raises to 40
	act(t, tbl, ActionCall, 0)      // BTN calls 40
	act(t, tbl, ActionCall, 0)      // SB completes to 40
	act(t, tbl, ActionFold, 0)      // BB folds
	act(t, tbl, ActionCall, 0)      // UTG matches the raise, action returns to CO
	assert.Equal(t, 180, tbl.Pot())
	assert.True(t, bb.HasFolded())
	assert.Nil(t, bb.Hand)

	tbl.Fire(TriggerDealFlop)
	require.Equal(t, StateDealFlop, tbl.State())
	assert.Len(t, tbl.CommunityCards(), 3)

	tbl.Fire(TriggerFlopBetting)
	require.Equal(t, sb.ID, tbl.GetCurrentPlayer().ID, "postflop action starts at the small blind")
	for i := 0; i < 4; i++ {
		act(t, tbl, ActionCheck, 0)
	}
	assert.Equal(t, 180, tbl.Pot())

	tbl.Fire(TriggerDealTurn)
	assert.Len(t, tbl.CommunityCards(), 4)

	tbl.Fire(TriggerTurnBetting)
	act(t, tbl, ActionRaise, 50) // SB bets out
	act(t, tbl, ActionFold, 0)   // UTG folds
	act(t, tbl, ActionCall, 0)   // CO calls
	act(t, tbl, ActionCall, 0)   // BTN calls, action returns to SB
	assert.Equal(t, 330, tbl.Pot())

	tbl.Fire(TriggerDealRiver)
	assert.Len(t, tbl.CommunityCards(), 5)

	tbl.Fire(TriggerRiverBetting)
	for i := 0; i < 3; i++ {
		act(t, tbl, ActionCheck, 0)
	}

	tbl.Fire(TriggerShowdown)
	require.Equal(t, StateShowdown, tbl.State())
	for _, p := range []*Player{sb, co, btn} {
		assert.GreaterOrEqual(t, p.Result.Combination, hands.Kicker)
		assert.Len(t, p.Result.Cards, 5)
	}

	tbl.Fire(TriggerEvaluateHands)
	winners := tbl.Winners()
	require.NotEmpty(t, winners)
	for _, w := range winners {
		assert.False(t, w.HasFolded())
		assert.NotEqual(t, bb.ID, w.ID)
		assert.NotEqual(t, utg.ID, w.ID)
	}

	banksBefore := map[string]int{}
	for _, p := range tbl.Players() {
		banksBefore[p.ID] = p.Bank
	}
	share := 330 / len(winners)

	tbl.Fire(TriggerPayout)
	assert.Equal(t, 0, tbl.Pot())
	for _, w := range winners {
		assert.Equal(t, banksBefore[w.ID]+share, w.Bank)
	}

	// The pot splits evenly for one, two or three winners, so no chip can
	// leave the table.
	total := 0
	for _, p := range tbl.Players() {
		total += p.Bank
	}
	assert.Equal(t, 25000, total)

	tbl.Fire(TriggerEndGame)
	assert.Equal(t, StateGameEnded, tbl.State())
	tbl.Fire(TriggerReset)
	assert.Equal(t, StateWaitingForPlayers, tbl.State())
}

func playHand(tbl *Table) {
	for _, trigger := range []GameTrigger{
		TriggerInit, TriggerDealHands, TriggerPreflopBetting, TriggerDealFlop,
		TriggerFlopBetting, TriggerDealTurn, TriggerTurnBetting, TriggerDealRiver,
		TriggerRiverBetting, TriggerShowdown, TriggerEvaluateHands, TriggerPayout,
		TriggerEndGame, TriggerReset,
	} {
		tbl.Fire(trigger)
	}
}

func TestSmallBlindRotatesAcrossHands(t *testing.T) {
	tbl, _ := newTestTable(t, 0, 1, 2, 3, 4, 5)

	var sbSeats []int
	for hand := 0; hand < 7; hand++ {
		playHand(tbl)
		sbSeats = append(sbSeats, tbl.ActivePlayers()[0].SeatNumber)
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5, 0, 1}, sbSeats,
		"the small blind advances strictly past the previous seat and wraps")
}

func TestSmallBlindSkipsEmptySeats(t *testing.T) {
	tbl, _ := newTestTable(t, 2, 4, 6)

	var sbSeats []int
	for hand := 0; hand < 4; hand++ {
		playHand(tbl)
		sbSeats = append(sbSeats, tbl.ActivePlayers()[0].SeatNumber)
	}

	assert.Equal(t, []int{2, 4, 6, 2}, sbSeats, "rotation follows occupied seats only")
}

func TestHandEventsAreEmittedInOrder(t *testing.T) {
	tbl, _ := newTestTable(t, 0, 1)
	playHand(tbl)

	var names []string
	for _, e := range tbl.Events() {
		names = append(names, e.Name())
	}

	assert.Contains(t, names, "PLAYER_JOINED")
	assert.Contains(t, names, "HOLE_CARDS_DEALT")
	assert.Contains(t, names, "BLIND_POSTED")
	assert.Contains(t, names, "WINNERS_DETERMINED")
	assert.Contains(t, names, "POT_AWARDED")
	assert.Contains(t, names, "HAND_ENDED")

	// Hole cards precede winners, winners precede the payout.
	index := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		return -1
	}
	assert.Less(t, index("HOLE_CARDS_DEALT"), index("WINNERS_DETERMINED"))
	assert.Less(t, index("WINNERS_DETERMINED"), index("POT_AWARDED"))
}

func TestRegisteredHandlerSeesEveryEvent(t *testing.T) {
	tbl, _ := newTestTable(t, 0, 1)

	var received []events.Event
	tbl.RegisterEventHandler(func(e events.Event) {
		received = append(received, e)
	})

	playHand(tbl)
	require.NotEmpty(t, received)
	assert.Equal(t, len(tbl.Events()), len(received)+2,
		"the handler sees everything after the two join events")
}
