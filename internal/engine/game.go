package engine

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

const maxLogEntries = 100

// Game is the aggregate for one session. It is not safe for concurrent use;
// the owning session serializes every call.
type Game struct {
	ID           string
	Players      []*Player
	Deck         *Deck
	CurrentIndex int
	State        State
	Turn         *TurnManager

	MinPlayers int
	MaxPlayers int
	CreatedAt  time.Time

	// Removed holds cards taken out of play, such as the kitten that
	// eliminated a player.
	Removed []Card

	Winner      *Player
	TurnsPlayed int
	Log         []string

	rng *rand.Rand
}

func NewGame(id string, maxPlayers int, rng *rand.Rand, now time.Time) *Game {
	g := &Game{
		ID:         id,
		State:      StateWaitingForPlayers,
		MinPlayers: MinPlayers,
		MaxPlayers: ClampMaxPlayers(maxPlayers),
		CreatedAt:  now,
		Deck:       NewDeck(nil, rng),
		rng:        rng,
	}
	g.Turn = newTurnManager(g)
	return g
}

func (g *Game) Rand() *rand.Rand { return g.rng }

func (g *Game) Full() bool { return len(g.Players) >= g.MaxPlayers }

func (g *Game) AddPlayer(p *Player) error {
	if g.State != StateWaitingForPlayers {
		return ErrGameStarted
	}
	if g.Full() {
		return ErrGameFull
	}
	p.TurnOrder = len(g.Players)
	g.Players = append(g.Players, p)
	g.Logf("%s joined", p.Name)
	return nil
}

// RemovePlayer drops a player from a game that has not started yet.
func (g *Game) RemovePlayer(id string) error {
	if g.State != StateWaitingForPlayers {
		return ErrGameStarted
	}
	i := g.indexOf(id)
	if i < 0 {
		return ErrPlayerNotFound
	}
	name := g.Players[i].Name
	g.Players = slices.Delete(g.Players, i, i+1)
	for k, p := range g.Players {
		p.TurnOrder = k
	}
	g.Logf("%s left", name)
	return nil
}

func (g *Game) Player(id string) (*Player, bool) {
	i := g.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return g.Players[i], true
}

func (g *Game) PlayerByConn(connID string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ConnID == connID {
			return p, true
		}
	}
	return nil, false
}

func (g *Game) indexOf(id string) int {
	return slices.IndexFunc(g.Players, func(p *Player) bool { return p.ID == id })
}

// Current is the player whose turn it is, or nil before the game starts.
func (g *Game) Current() *Player {
	if g.State == StateWaitingForPlayers || g.CurrentIndex < 0 || g.CurrentIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentIndex]
}

func (g *Game) IsCurrent(id string) bool {
	c := g.Current()
	return c != nil && c.ID == id
}

func (g *Game) AlivePlayers() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// Start deals the cards and picks a random first player.
func (g *Game) Start() ([]Event, error) {
	if g.State != StateWaitingForPlayers {
		return nil, ErrGameStarted
	}
	if len(g.Players) < g.MinPlayers {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPlayers, len(g.Players), g.MinPlayers)
	}

	g.State = StateInitializing
	deck, hands, err := CreateGameSetup(len(g.Players), g.rng)
	if err != nil {
		g.State = StateWaitingForPlayers
		return nil, err
	}
	g.Deck = NewDeck(deck, g.rng)
	for i, p := range g.Players {
		p.Hand = nil
		p.AddToHand(hands[i]...)
		p.Alive = true
		p.ExtraTurns = 0
		p.TurnOrder = i
	}

	g.CurrentIndex = g.rng.IntN(len(g.Players))
	g.Turn.reset()
	g.State = StatePlayerTurn
	first := g.Players[g.CurrentIndex]
	g.Logf("game started, %s goes first", first.Name)
	return []Event{
		{Type: EvtGameStarted},
		{Type: EvtTurnAdvanced, PlayerID: first.ID},
	}, nil
}

// Advance moves the turn to the next alive player.
func (g *Game) Advance() []Event {
	if g.State == StateGameOver {
		return nil
	}
	if evts, over := g.checkGameOver(); over {
		return evts
	}
	next, ok := g.NextAliveAfter(g.CurrentIndex)
	if !ok {
		// only the current player is left alive
		return g.finish()
	}
	g.CurrentIndex = next
	g.TurnsPlayed++
	g.Turn.reset()
	if g.State != StatePaused {
		g.State = StatePlayerTurn
	}
	return []Event{{Type: EvtTurnAdvanced, PlayerID: g.Players[next].ID}}
}

// Eliminate knocks p out. Their cards go back into the draw pile at random
// positions, except Exploding Kittens, which stay face up in their hand so
// the card total never changes.
func (g *Game) Eliminate(p *Player) []Event {
	if !p.Alive {
		return nil
	}
	p.Alive = false
	p.ExtraTurns = 0

	for _, c := range p.Hand {
		if c.Kind == KindExplodingKitten {
			g.Removed = append(g.Removed, c)
			continue
		}
		g.Deck.ScatterCard(c)
	}
	p.Hand = nil
	g.Logf("%s exploded", p.Name)

	events := []Event{{Type: EvtPlayerEliminated, PlayerID: p.ID}}
	if evts, over := g.checkGameOver(); over {
		return append(events, evts...)
	}
	if g.Players[g.CurrentIndex] == p && g.State != StateWaitingForPlayers {
		events = append(events, g.Advance()...)
	}
	return events
}

func (g *Game) checkGameOver() ([]Event, bool) {
	if g.State == StateWaitingForPlayers {
		return nil, false
	}
	if len(g.AlivePlayers()) > 1 {
		return nil, false
	}
	return g.finish(), true
}

func (g *Game) finish() []Event {
	alive := g.AlivePlayers()
	g.Winner = nil
	if len(alive) == 1 {
		g.Winner = alive[0]
		g.Logf("%s wins", g.Winner.Name)
	} else {
		g.Logf("game over, no winner")
	}
	g.State = StateGameOver
	ev := Event{Type: EvtGameOver}
	if g.Winner != nil {
		ev.PlayerID = g.Winner.ID
	}
	return []Event{ev}
}

func (g *Game) Logf(format string, args ...any) {
	g.Log = append(g.Log, fmt.Sprintf(format, args...))
	if over := len(g.Log) - maxLogEntries; over > 0 {
		g.Log = slices.Delete(g.Log, 0, over)
	}
}
