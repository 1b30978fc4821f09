package session

import (
	"testing"
	"time"

	"github.com/DoyleJ11/kittens-server/internal/engine"
	"github.com/DoyleJ11/kittens-server/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttackNopeParity(t *testing.T) {
	cases := []struct {
		name        string
		nopers      []int
		wantCurrent int
		wantExtra   int
	}{
		{name: "no nope", nopers: nil, wantCurrent: 1, wantExtra: 1},
		{name: "one nope", nopers: []int{1}, wantCurrent: 0, wantExtra: 0},
		{name: "nope the nope", nopers: []int{1, 2}, wantCurrent: 1, wantExtra: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tb := newTable(t, 3, Options{})
			tb.start(t)
			tb.deal(t, 0, engine.KindAttack)
			tb.deal(t, 1, engine.KindNope)
			tb.deal(t, 2, engine.KindNope)

			tb.do(t, 0, PlayCard{PlayerID: tb.ids[0], Index: 0})
			state, _, _ := tb.game(t)
			require.Equal(t, engine.StateWaitingForNope, state)
			id := tb.actionID(t)
			assert.Contains(t, tb.conns[2].messages(), id)

			for _, i := range tc.nopers {
				tb.do(t, i, Nope{PlayerID: tb.ids[i], ActionID: id})
				require.Empty(t, tb.conns[i].errorCodes())
			}
			tb.fireNope(t)

			state, current, _ := tb.game(t)
			assert.Equal(t, engine.StatePlayerTurn, state)
			assert.Equal(t, tc.wantCurrent, current)
			var extra int
			tb.inspect(t, func(s *Session) {
				extra = s.game.Players[1].ExtraTurns
				assert.Nil(t, s.interrupt)
			})
			assert.Equal(t, tc.wantExtra, extra)
			if tc.wantCurrent == 0 {
				assert.True(t, tb.conns[0].has(protocol.CmdNeedToDraw))
			}
		})
	}
}

func TestNopeRejections(t *testing.T) {
	tb := newTable(t, 3, Options{})
	tb.start(t)
	tb.deal(t, 0, engine.KindAttack)
	tb.deal(t, 1, engine.KindNope, engine.KindNope)

	// nothing to Nope yet
	tb.do(t, 1, PlayCard{PlayerID: tb.ids[1], Index: 0})
	assert.Equal(t, []protocol.ErrorCode{protocol.CodeInvalidAction}, tb.conns[1].errorCodes())
	tb.clear()

	tb.do(t, 0, PlayCard{PlayerID: tb.ids[0], Index: 0})
	id := tb.actionID(t)

	tb.do(t, 1, Nope{PlayerID: tb.ids[1], ActionID: "not-it"})
	tb.do(t, 2, Nope{PlayerID: tb.ids[2], ActionID: id})
	assert.Equal(t, []protocol.ErrorCode{protocol.CodeInvalidAction}, tb.conns[1].errorCodes())
	assert.Equal(t, []protocol.ErrorCode{protocol.CodeNotEnoughCards}, tb.conns[2].errorCodes())

	tb.do(t, 1, PlayCard{PlayerID: tb.ids[1], Index: 0})
	tb.do(t, 1, Nope{PlayerID: tb.ids[1], ActionID: id})
	assert.Contains(t, tb.conns[1].messages(), "already played a Nope")

	_, _, hands := tb.game(t)
	assert.Equal(t, []engine.Kind{engine.KindNope}, hands[1])
}

func TestNopeWindowTiming(t *testing.T) {
	tb := newTable(t, 3, Options{NopeWindow: time.Hour, NopeHardExpiry: 90 * time.Minute})
	tb.start(t)
	tb.deal(t, 0, engine.KindAttack, engine.KindNope)
	tb.deal(t, 1, engine.KindNope)
	tb.deal(t, 2, engine.KindNope)

	tb.do(t, 0, PlayCard{PlayerID: tb.ids[0], Index: 1}) // hand is [Nope, Attack]
	id := tb.actionID(t)

	tb.clock.Advance(30 * time.Minute)
	tb.do(t, 1, Nope{PlayerID: tb.ids[1], ActionID: id})
	require.Empty(t, tb.conns[1].errorCodes())

	// past the first deadline but inside the re-armed one
	tb.clock.Advance(31 * time.Minute)
	tb.do(t, 0, Nope{PlayerID: tb.ids[0], ActionID: id})
	assert.Empty(t, tb.conns[0].errorCodes())

	tb.inspect(t, func(s *Session) {
		in := s.interrupt
		require.NotNil(t, in)
		assert.Equal(t, in.hardExpiry, in.deadline, "re-armed deadline never passes the hard expiry")
		assert.False(t, in.suppressed())
	})

	tb.clock.Advance(30 * time.Minute)
	tb.do(t, 2, Nope{PlayerID: tb.ids[2], ActionID: id})
	assert.Contains(t, tb.conns[2].messages(), "Nope window is closed")
}

func TestInitiatorNopeClosesWithTheWindow(t *testing.T) {
	tb := newTable(t, 2, Options{NopeWindow: time.Hour, NopeHardExpiry: 2 * time.Hour})
	tb.start(t)
	tb.deal(t, 0, engine.KindAttack, engine.KindNope)

	tb.do(t, 0, PlayCard{PlayerID: tb.ids[0], Index: 1})
	id := tb.actionID(t)

	tb.clock.Advance(61 * time.Minute)
	tb.do(t, 0, Nope{PlayerID: tb.ids[0], ActionID: id})
	assert.Contains(t, tb.conns[0].messages(), "Nope window is closed")
	tb.inspect(t, func(s *Session) {
		require.NotNil(t, s.interrupt)
		assert.Empty(t, s.interrupt.noped)
	})
}

func TestStaleNopeTimerIsIgnored(t *testing.T) {
	tb := newTable(t, 3, Options{})
	tb.start(t)
	tb.deal(t, 0, engine.KindAttack)
	tb.deal(t, 1, engine.KindNope)

	tb.do(t, 0, PlayCard{PlayerID: tb.ids[0], Index: 0})
	var oldGen uint64
	tb.inspect(t, func(s *Session) { oldGen = s.interrupt.gen })

	tb.do(t, 1, Nope{PlayerID: tb.ids[1], ActionID: tb.actionID(t)})

	tb.inspect(t, func(s *Session) {
		s.onTimer(timerFired{kind: timerNope, gen: oldGen})
		assert.NotNil(t, s.interrupt, "old generation must not resolve the window")
	})

	tb.fireNope(t)
	state, current, _ := tb.game(t)
	assert.Equal(t, engine.StatePlayerTurn, state)
	assert.Equal(t, 0, current)
}

func TestNopeWindowExpiresOnItsOwn(t *testing.T) {
	tb := newTable(t, 2, Options{NopeWindow: 20 * time.Millisecond, NopeHardExpiry: time.Second})
	tb.start(t)
	tb.deal(t, 0, engine.KindAttack)

	tb.do(t, 0, PlayCard{PlayerID: tb.ids[0], Index: 0})

	require.Eventually(t, func() bool {
		_, current, _ := tb.game(t)
		return current == 1
	}, time.Second, 10*time.Millisecond)
}

func TestComboPairSteal(t *testing.T) {
	tb := newTable(t, 2, Options{})
	tb.start(t)
	tb.deal(t, 0, engine.KindTacoCat, engine.KindTacoCat)
	tb.deal(t, 1, engine.KindAttack, engine.KindSkip)

	tb.do(t, 0, UseCombo{PlayerID: tb.ids[0], Size: 2, Indices: []int{0, 1}, Target: tb.ids[1]})
	require.Empty(t, tb.conns[0].errorCodes())
	var discard int
	tb.inspect(t, func(s *Session) { discard = s.game.Deck.DiscardCount() })
	assert.Equal(t, 2, discard, "combo cards are discarded when declared")

	tb.fireNope(t)
	state, _, _ := tb.game(t)
	require.Equal(t, engine.StateResolvingAction, state)

	tb.do(t, 0, Steal{PlayerID: tb.ids[0], Index: 5})
	assert.Equal(t, []protocol.ErrorCode{protocol.CodeCardNotFound}, tb.conns[0].errorCodes())

	tb.do(t, 0, Steal{PlayerID: tb.ids[0], Index: 1})
	state, current, hands := tb.game(t)
	assert.Equal(t, engine.StatePlayerTurn, state)
	assert.Equal(t, 0, current)
	assert.Equal(t, []engine.Kind{engine.KindSkip}, hands[0])
	assert.Equal(t, []engine.Kind{engine.KindAttack}, hands[1])
	assert.True(t, tb.conns[0].has(protocol.CmdNeedToDraw))
}

func TestComboNoped(t *testing.T) {
	tb := newTable(t, 2, Options{})
	tb.start(t)
	tb.deal(t, 0, engine.KindBeardCat, engine.KindBeardCat)
	tb.deal(t, 1, engine.KindNope, engine.KindSkip)

	tb.do(t, 0, UseCombo{PlayerID: tb.ids[0], Size: 2, Indices: []int{0, 1}, Target: tb.ids[1]})
	tb.do(t, 1, Nope{PlayerID: tb.ids[1], ActionID: tb.actionID(t)})
	tb.fireNope(t)

	state, current, hands := tb.game(t)
	assert.Equal(t, engine.StatePlayerTurn, state)
	assert.Equal(t, 0, current)
	assert.Empty(t, hands[0])
	assert.Equal(t, []engine.Kind{engine.KindSkip}, hands[1])
	assert.Contains(t, tb.conns[0].messages(), "was Noped")
}

func TestComboCardsAreSpentWhenNoped(t *testing.T) {
	tb := newTable(t, 2, Options{})
	tb.start(t)
	tb.deal(t, 0, engine.KindTacoCat, engine.KindTacoCat, engine.KindSkip)
	tb.deal(t, 1, engine.KindNope)

	discard := func() []engine.Kind {
		var ks []engine.Kind
		tb.inspect(t, func(s *Session) {
			for _, c := range s.game.Deck.DiscardPile() {
				ks = append(ks, c.Kind)
			}
		})
		return ks
	}
	before := len(discard())

	tb.do(t, 0, UseCombo{PlayerID: tb.ids[0], Size: 2, Indices: []int{1, 2}, Target: tb.ids[1]}) // hand is [Skip, Taco, Taco]
	require.Empty(t, tb.conns[0].errorCodes())
	_, _, hands := tb.game(t)
	assert.Equal(t, []engine.Kind{engine.KindSkip}, hands[0], "cats leave the hand on declaration")
	assert.Equal(t, []engine.Kind{engine.KindTacoCat, engine.KindTacoCat}, discard()[before:])

	tb.do(t, 1, Nope{PlayerID: tb.ids[1], ActionID: tb.actionID(t)})
	tb.fireNope(t)

	_, _, hands = tb.game(t)
	assert.Equal(t, []engine.Kind{engine.KindSkip}, hands[0], "a Noped combo does not return its cards")
	assert.Empty(t, hands[1])
	assert.Equal(t, []engine.Kind{engine.KindTacoCat, engine.KindTacoCat, engine.KindNope}, discard()[before:])
}

func TestComboThreeNamesACard(t *testing.T) {
	cases := []struct {
		name      string
		wanted    string
		wantHand0 []engine.Kind
		wantMsg   string
	}{
		{name: "present", wanted: "dEfUsE", wantHand0: []engine.Kind{engine.KindDefuse}, wantMsg: "took Defuse"},
		{name: "missing", wanted: "Nope", wantHand0: nil, wantMsg: "has no Nope"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tb := newTable(t, 2, Options{})
			tb.start(t)
			tb.deal(t, 0, engine.KindPotatoCat, engine.KindPotatoCat, engine.KindPotatoCat)
			tb.deal(t, 1, engine.KindDefuse, engine.KindSkip)

			tb.do(t, 0, UseCombo{PlayerID: tb.ids[0], Size: 3, Indices: []int{2, 0, 1}, Target: tb.ids[1] + "|" + tc.wanted})
			require.Empty(t, tb.conns[0].errorCodes())
			tb.fireNope(t)

			state, _, hands := tb.game(t)
			assert.Equal(t, engine.StatePlayerTurn, state)
			assert.Equal(t, tc.wantHand0, hands[0])
			assert.Contains(t, tb.conns[1].messages(), tc.wantMsg)
		})
	}
}

func TestComboFiveTakesFromOlderDiscard(t *testing.T) {
	tb := newTable(t, 2, Options{})
	tb.start(t)
	tb.inspect(t, func(s *Session) {
		s.game.Deck.Discard(engine.NewCard(engine.KindSkip), engine.NewCard(engine.KindAttack))
	})
	tb.deal(t, 0, engine.KindNope, engine.KindSkip, engine.KindFavor, engine.KindBeardCat, engine.KindTacoCat)

	tb.do(t, 0, UseCombo{PlayerID: tb.ids[0], Size: 5, Indices: []int{0, 1, 2, 3, 4}})
	require.Empty(t, tb.conns[0].errorCodes())
	tb.fireNope(t)

	tb.do(t, 0, TakeDiscard{PlayerID: tb.ids[0], Index: 3})
	assert.Equal(t, []protocol.ErrorCode{protocol.CodeCardNotFound}, tb.conns[0].errorCodes())

	tb.do(t, 0, TakeDiscard{PlayerID: tb.ids[0], Index: 1})
	state, _, hands := tb.game(t)
	assert.Equal(t, engine.StatePlayerTurn, state)
	assert.Equal(t, []engine.Kind{engine.KindAttack}, hands[0])
}

func TestComboValidation(t *testing.T) {
	tb := newTable(t, 2, Options{})
	tb.start(t)
	tb.deal(t, 0, engine.KindTacoCat, engine.KindBeardCat)

	tb.do(t, 0, UseCombo{PlayerID: tb.ids[0], Size: 2, Indices: []int{0, 1}, Target: tb.ids[1]})
	tb.do(t, 0, UseCombo{PlayerID: tb.ids[0], Size: 2, Indices: []int{0, 0}, Target: tb.ids[1]})
	assert.Equal(t, []protocol.ErrorCode{protocol.CodeInvalidAction, protocol.CodeInvalidAction}, tb.conns[0].errorCodes())

	_, _, hands := tb.game(t)
	assert.Len(t, hands[0], 2)
}
