package engine

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

// newStartedGame seats n players p0..pn-1 and starts the game with p0 to
// play.
func newStartedGame(t *testing.T, n int) *Game {
	t.Helper()
	g := NewGame("g1", n, testRand(), time.Unix(0, 0))
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%d", i)
		require.NoError(t, g.AddPlayer(NewPlayer(id, "Player "+id, "c"+id)))
	}
	_, err := g.Start()
	require.NoError(t, err)
	g.CurrentIndex = 0
	g.Turn.reset()
	return g
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "WaitingForNope", StateWaitingForNope.String())
	assert.Equal(t, "Unknown", State(42).String())
}

func TestAddPlayer(t *testing.T) {
	cases := []struct {
		name    string
		max     int
		seated  int
		started bool
		wantErr error
	}{
		{name: "room left", max: 3, seated: 1},
		{name: "full table", max: 2, seated: 2, wantErr: ErrGameFull},
		{name: "already started", max: 5, seated: 2, started: true, wantErr: ErrGameStarted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGame("g", tc.max, testRand(), time.Now())
			for i := 0; i < tc.seated; i++ {
				require.NoError(t, g.AddPlayer(NewPlayer(fmt.Sprint(i), "n", "c")))
			}
			if tc.started {
				_, err := g.Start()
				require.NoError(t, err)
			}
			err := g.AddPlayer(NewPlayer("new", "n", "c"))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClampMaxPlayers(t *testing.T) {
	assert.Equal(t, 5, ClampMaxPlayers(0))
	assert.Equal(t, 2, ClampMaxPlayers(1))
	assert.Equal(t, 3, ClampMaxPlayers(3))
	assert.Equal(t, 5, ClampMaxPlayers(9))
}

func TestStartNeedsTwoPlayers(t *testing.T) {
	g := NewGame("g", 4, testRand(), time.Now())
	require.NoError(t, g.AddPlayer(NewPlayer("a", "A", "c")))
	_, err := g.Start()
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
	assert.Equal(t, StateWaitingForPlayers, g.State)
}

func TestStartDealsHands(t *testing.T) {
	g := newStartedGame(t, 3)
	assert.Equal(t, StatePlayerTurn, g.State)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, HandSize+1)
		assert.True(t, p.HasKind(KindDefuse))
		assert.False(t, p.HasKind(KindExplodingKitten))
	}
	assert.Equal(t, TotalCards(3), g.Census().Size())
}

func TestRemovePlayerRenumbersSeats(t *testing.T) {
	g := NewGame("g", 5, testRand(), time.Now())
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, g.AddPlayer(NewPlayer(id, id, id)))
	}
	require.NoError(t, g.RemovePlayer("a"))
	assert.Equal(t, 0, g.Players[0].TurnOrder)
	assert.Equal(t, "b", g.Players[0].ID)
	assert.ErrorIs(t, g.RemovePlayer("zzz"), ErrPlayerNotFound)
}

func TestAdvanceSkipsEliminated(t *testing.T) {
	g := newStartedGame(t, 4)
	g.Players[1].Alive = false

	events := g.Advance()
	assert.True(t, HasEvent(events, EvtTurnAdvanced))
	assert.Equal(t, 2, g.CurrentIndex)
	assert.Equal(t, 1, g.TurnsPlayed)

	g.CurrentIndex = 3
	g.Advance()
	assert.Equal(t, 0, g.CurrentIndex, "wraps around")
}

func TestEliminateScattersHandAndEndsGame(t *testing.T) {
	g := newStartedGame(t, 2)
	loser := g.Players[0]
	loser.AddToHand(NewCard(KindExplodingKitten))
	before := g.Census().Size()
	drawBefore := g.Deck.CardsRemaining()

	events := g.Eliminate(loser)

	assert.True(t, HasEvent(events, EvtPlayerEliminated))
	assert.True(t, HasEvent(events, EvtGameOver))
	assert.Equal(t, StateGameOver, g.State)
	require.NotNil(t, g.Winner)
	assert.Equal(t, "p1", g.Winner.ID)
	assert.Empty(t, loser.Hand)
	assert.Equal(t, []Card{NewCard(KindExplodingKitten)}, g.Removed)
	assert.Equal(t, 1, g.Census().Removed[KindExplodingKitten])
	assert.Equal(t, drawBefore+HandSize+1, g.Deck.CardsRemaining())
	assert.Equal(t, before, g.Census().Size())
}

func TestEliminateCurrentPassesTurn(t *testing.T) {
	g := newStartedGame(t, 3)
	events := g.Eliminate(g.Players[0])
	assert.True(t, HasEvent(events, EvtTurnAdvanced))
	assert.False(t, HasEvent(events, EvtGameOver))
	assert.Equal(t, 1, g.CurrentIndex)
}

func TestOpponents(t *testing.T) {
	g := newStartedGame(t, 4)
	g.Players[2].Alive = false
	ops := g.Opponents("p1")
	require.Len(t, ops, 2)
	assert.Equal(t, "p0", ops[0].ID)
	assert.Equal(t, "p3", ops[1].ID)
}

func TestLogKeepsLastEntries(t *testing.T) {
	g := NewGame("g", 2, testRand(), time.Now())
	for i := 0; i < 150; i++ {
		g.Logf("entry %d", i)
	}
	require.Len(t, g.Log, 100)
	assert.Equal(t, "entry 50", g.Log[0])
	assert.Equal(t, "entry 149", g.Log[99])
}
