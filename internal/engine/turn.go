package engine

// TurnManager tracks what the current player has done this turn.
type TurnManager struct {
	game *Game

	HasDrawn     bool
	SkipPlayed   bool
	AttackPlayed bool
	Ended        bool
	Played       []Card

	undo *attackUndo
}

// attackUndo is what PlayAttack changed, so a Noped attack can be reverted.
type attackUndo struct {
	attacker      *Player
	victim        *Player
	attackerExtra int
	victimExtra   int
	hasDrawn      bool
	skipPlayed    bool
	ended         bool
}

func newTurnManager(g *Game) *TurnManager {
	return &TurnManager{game: g}
}

func (t *TurnManager) CanPlayCard() bool {
	return !t.Ended && !t.HasDrawn && t.game.State == StatePlayerTurn
}

// CardPlayed records a card played by the current player. Skip ends the turn.
func (t *TurnManager) CardPlayed(c Card) {
	t.Played = append(t.Played, c)
	if c.Kind == KindSkip {
		t.SkipPlayed = true
		t.Ended = true
	}
}

// PlayAttack ends the attacker's turn and gives the next alive player one
// extra turn. A counter-attack drops the attacker's own pending turns.
func (t *TurnManager) PlayAttack() error {
	g := t.game
	attacker := g.Current()
	if attacker == nil {
		return ErrPlayerNotFound
	}
	next, ok := g.NextAliveAfter(g.CurrentIndex)
	if !ok {
		return ErrNotEnoughPlayers
	}
	victim := g.Players[next]

	t.undo = &attackUndo{
		attacker:      attacker,
		victim:        victim,
		attackerExtra: attacker.ExtraTurns,
		victimExtra:   victim.ExtraTurns,
		hasDrawn:      t.HasDrawn,
		skipPlayed:    t.SkipPlayed,
		ended:         t.Ended,
	}

	attacker.ExtraTurns = 0
	victim.ExtraTurns++
	t.Played = append(t.Played, NewCard(KindAttack))
	t.AttackPlayed = true
	t.Ended = true
	return nil
}

// CancelAttack reverts the last PlayAttack. It reports false when there is
// nothing to revert.
func (t *TurnManager) CancelAttack() bool {
	u := t.undo
	if u == nil {
		return false
	}
	u.attacker.ExtraTurns = u.attackerExtra
	u.victim.ExtraTurns = u.victimExtra
	t.HasDrawn = u.hasDrawn
	t.SkipPlayed = u.skipPlayed
	t.Ended = u.ended
	t.AttackPlayed = false
	t.undo = nil
	return true
}

// CardDrawn marks the draw. A player owing extra turns spends one and keeps
// playing; otherwise the turn is over and CompleteTurn should follow.
func (t *TurnManager) CardDrawn() (ended bool) {
	t.HasDrawn = true
	cur := t.game.Current()
	if cur != nil && cur.ExtraTurns > 0 {
		cur.ExtraTurns--
		t.reset()
		return false
	}
	t.Ended = true
	return true
}

func (t *TurnManager) EndTurn() ([]Event, error) {
	if !t.HasDrawn && !t.SkipPlayed && !t.AttackPlayed {
		return nil, ErrMustDraw
	}
	return t.CompleteTurn(), nil
}

// CompleteTurn hands the turn on, or keeps it in place while the current
// player still owes extra turns.
func (t *TurnManager) CompleteTurn() []Event {
	g := t.game
	cur := g.Current()
	switch {
	case t.AttackPlayed:
		if cur != nil {
			cur.ExtraTurns = 0
		}
		return g.Advance()
	case cur != nil && cur.ExtraTurns > 0:
		cur.ExtraTurns--
		t.reset()
		g.TurnsPlayed++
		return []Event{{Type: EvtTurnAdvanced, PlayerID: cur.ID}}
	default:
		return g.Advance()
	}
}

func (t *TurnManager) reset() {
	t.HasDrawn = false
	t.SkipPlayed = false
	t.AttackPlayed = false
	t.Ended = false
	t.Played = nil
	t.undo = nil
}
