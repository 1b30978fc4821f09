package session

import (
	"time"

	"github.com/DoyleJ11/kittens-server/internal/engine"
	"go.uber.org/zap"
)

type pendingKind int

const (
	pendingExplosion pendingKind = iota + 1
	pendingFavor
	pendingSteal
	pendingDiscard
)

func (k pendingKind) String() string {
	switch k {
	case pendingExplosion:
		return "explosion"
	case pendingFavor:
		return "favor"
	case pendingSteal:
		return "steal"
	case pendingDiscard:
		return "discard"
	}
	return "unknown"
}

// pending is an action waiting for one player's choice.
//
//	explosion: requester must place the kitten back (target unused)
//	favor:     target picks a card to give to requester
//	steal:     requester picks one of target's hidden cards
//	discard:   requester picks from the first limit cards of the discard pile
type pending struct {
	kind      pendingKind
	requester *engine.Player
	target    *engine.Player
	createdAt time.Time
	limit     int

	gen   uint64
	timer *time.Timer
}

func (p *pending) stop() {
	if p.timer != nil {
		p.timer.Stop()
	}
}

// involves reports whether id is waited on or waiting.
func (p *pending) involves(id string) bool {
	return p.requester.ID == id || (p.target != nil && p.target.ID == id)
}

func (s *Session) openPending(kind pendingKind, requester, target *engine.Player, limit int) *pending {
	pa := &pending{
		kind:      kind,
		requester: requester,
		target:    target,
		createdAt: s.opts.Now(),
		limit:     limit,
	}
	pa.timer, pa.gen = s.schedule(timerPending, s.opts.PendingTimeout)
	s.pending = pa
	s.game.State = engine.StateResolvingAction
	s.log.Debug("pending action opened", zap.Stringer("kind", kind), zap.String("player_id", requester.ID))
	return pa
}

// takePending claims the open slot if it is of kind and chooser is the one
// who has to answer it.
func (s *Session) takePending(kind pendingKind, chooser *engine.Player) (*pending, error) {
	pa := s.pending
	if pa == nil || pa.kind != kind {
		return nil, ErrNoPending
	}
	answerer := pa.requester
	if kind == pendingFavor {
		answerer = pa.target
	}
	if answerer.ID != chooser.ID {
		return nil, ErrNoPending
	}
	return pa, nil
}

func (s *Session) closePending() {
	if s.pending == nil {
		return
	}
	s.pending.stop()
	s.pending = nil
}

// timeoutPending applies the default choice for the open slot.
func (s *Session) timeoutPending() {
	pa := s.pending
	s.closePending()
	s.log.Info("pending action timed out", zap.Stringer("kind", pa.kind), zap.String("player_id", pa.requester.ID))

	switch pa.kind {
	case pendingExplosion:
		s.broadcastf("%s did not defuse in time (timeout: exploded)", pa.requester.Name)
		s.explode(pa.requester)

	case pendingFavor, pendingSteal:
		if len(pa.target.Hand) == 0 {
			s.broadcastf("%s has nothing to give (timeout: no card moved)", pa.target.Name)
			s.backToTurn(pa.requester)
			break
		}
		i := s.opts.Rand.IntN(len(pa.target.Hand))
		card := s.moveCard(pa.target, i, pa.requester)
		s.broadcastf("%s took a random card from %s (timeout: random card)", pa.requester.Name, pa.target.Name)
		s.tell(pa.requester, "You received %s", card.Name)
		s.tell(pa.target, "You gave away %s", card.Name)
		s.backToTurn(pa.requester)

	case pendingDiscard:
		if pa.limit == 0 || s.game.Deck.DiscardCount() == 0 {
			s.broadcastf("Nothing to take from the discard pile (timeout)")
			s.backToTurn(pa.requester)
			break
		}
		card, err := s.game.Deck.TakeFromDiscard(0)
		if err != nil {
			s.backToTurn(pa.requester)
			break
		}
		pa.requester.AddToHand(card)
		s.broadcastf("%s took %s from the discard pile (timeout: first card)", pa.requester.Name, card.Name)
		s.backToTurn(pa.requester)
	}
	s.broadcastState()
}

// moveCard hands from.Hand[index] to to and refreshes both hands.
func (s *Session) moveCard(from *engine.Player, index int, to *engine.Player) engine.Card {
	card, err := from.RemoveAt(index)
	if err != nil {
		panic(err) // callers check the index
	}
	to.AddToHand(card)
	s.sendHand(from, to)
	return card
}

// backToTurn ends an action: the player keeps the turn and still has to draw.
func (s *Session) backToTurn(p *engine.Player) {
	if s.game.State == engine.StateGameOver {
		return
	}
	s.game.State = engine.StatePlayerTurn
	s.sendHand(p)
	if s.game.IsCurrent(p.ID) && !s.game.Turn.HasDrawn {
		s.sendTo(p, needToDrawFrame())
	}
}

// clearActions drops any open window or pending choice.
func (s *Session) clearActions() {
	s.cancelInterrupt()
	s.closePending()
}
