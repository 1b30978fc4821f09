package session

import (
	"fmt"
	"strings"

	"github.com/DoyleJ11/kittens-server/internal/engine"
	"go.uber.org/zap"
)

const seeTheFutureDepth = 3

func (s *Session) playSkip(p *engine.Player, card engine.Card) {
	s.game.Turn.CardPlayed(card)
	s.broadcastf("%s skips their turn", p.Name)
	s.emit(s.game.Turn.CompleteTurn())
}

func (s *Session) playAttack(p *engine.Player) error {
	g := s.game
	next, ok := g.NextAliveAfter(g.CurrentIndex)
	if !ok {
		return engine.ErrNotEnoughPlayers
	}
	victim := g.Players[next]
	if err := g.Turn.PlayAttack(); err != nil {
		return err
	}

	s.openInterrupt(p, fmt.Sprintf("%s attacks %s", p.Name, victim.Name),
		func() {
			s.broadcastf("%s must take %d turn(s)", victim.Name, victim.ExtraTurns+1)
			s.emit(g.Turn.CompleteTurn())
		},
		func() {
			g.Turn.CancelAttack()
			if g.State != engine.StateGameOver {
				g.State = engine.StatePlayerTurn
			}
			s.tell(p, "Your Attack was Noped, your turn continues")
			s.sendTo(p, needToDrawFrame())
		})
	return nil
}

func (s *Session) playFavor(p *engine.Player, card engine.Card, target *engine.Player) {
	s.game.Turn.CardPlayed(card)
	s.openPending(pendingFavor, p, target, 0)
	s.broadcastf("%s asks %s for a Favor", p.Name, target.Name)
	s.tell(target, "%s asked you for a Favor. Choose a card to give with PlayFavor (index 0-%d) within %s.",
		p.Name, len(target.Hand)-1, s.opts.PendingTimeout)
	s.sendHand(target)
}

func (s *Session) playShuffle(p *engine.Player, card engine.Card) {
	s.game.Turn.CardPlayed(card)
	s.game.Deck.Shuffle()
	s.broadcastf("%s shuffled the draw pile", p.Name)
	s.sendTo(p, needToDrawFrame())
}

func (s *Session) playSeeTheFuture(p *engine.Player, card engine.Card) {
	s.game.Turn.CardPlayed(card)
	top := s.game.Deck.PeekTop(seeTheFutureDepth)
	names := make([]string, len(top))
	for i, c := range top {
		names[i] = fmt.Sprintf("%d. %s", i+1, c.Name)
	}
	if len(top) == 0 {
		s.tell(p, "The draw pile is empty")
	} else {
		s.tell(p, "Top %d card(s) of the draw pile: %s", len(top), strings.Join(names, ", "))
	}
	s.broadcastf("%s looked at the future", p.Name)
	s.sendTo(p, needToDrawFrame())
}

// playCombo opens the Nope window for a combo whose cards are already in
// the discard pile. limit is the discard pile size before they went in.
func (s *Session) playCombo(p *engine.Player, size int, target *engine.Player, wanted string, limit int) {
	var desc string
	switch size {
	case 2:
		desc = fmt.Sprintf("%s plays a pair to steal from %s", p.Name, target.Name)
	case 3:
		desc = fmt.Sprintf("%s plays three of a kind to ask %s for %s", p.Name, target.Name, wanted)
	default:
		desc = fmt.Sprintf("%s plays five different cards to take from the discard pile", p.Name)
	}

	s.openInterrupt(p, desc,
		func() { s.comboEffect(p, size, target, wanted, limit) },
		func() { s.backToTurn(p) })
}

func (s *Session) comboEffect(p *engine.Player, size int, target *engine.Player, wanted string, limit int) {
	if !p.Alive {
		return
	}
	switch size {
	case 2:
		if !target.Alive || len(target.Hand) == 0 {
			s.broadcastf("%s has nothing to steal", target.Name)
			s.backToTurn(p)
			return
		}
		s.openPending(pendingSteal, p, target, 0)
		s.tell(p, "Pick one of %s's %d hidden cards with StealCard (index 0-%d) within %s.",
			target.Name, len(target.Hand), len(target.Hand)-1, s.opts.PendingTimeout)

	case 3:
		i := -1
		if target.Alive {
			i = target.IndexOfName(wanted)
		}
		if i < 0 {
			s.broadcastf("%s has no %s", target.Name, wanted)
			s.backToTurn(p)
			return
		}
		card := s.moveCard(target, i, p)
		s.broadcastf("%s took %s from %s", p.Name, card.Name, target.Name)
		s.backToTurn(p)

	case 5:
		if limit == 0 {
			s.broadcastf("The discard pile had nothing to take")
			s.backToTurn(p)
			return
		}
		s.openPending(pendingDiscard, p, nil, limit)
		pile := s.game.Deck.DiscardPile()[:limit]
		names := make([]string, len(pile))
		for i, c := range pile {
			names[i] = fmt.Sprintf("%d: %s", i, c.Name)
		}
		s.tell(p, "Choose a card with TakeFromDiscard within %s: %s", s.opts.PendingTimeout, strings.Join(names, ", "))
	}
}

// drewKitten handles an Exploding Kitten that is already in p's hand.
func (s *Session) drewKitten(p *engine.Player) {
	s.broadcastf("%s drew an Exploding Kitten!", p.Name)
	s.log.Info("kitten drawn", zap.String("player_id", p.ID), zap.Bool("has_defuse", p.HasKind(engine.KindDefuse)))
	if !p.HasKind(engine.KindDefuse) {
		s.explode(p)
		return
	}
	s.openPending(pendingExplosion, p, nil, 0)
	s.sendHand(p)
	s.tell(p, "Defuse it with PlayDefuse: choose where the kitten goes (0 = top, %d = bottom) within %s.",
		s.game.Deck.CardsRemaining(), s.opts.PendingTimeout)
}

func (s *Session) explode(p *engine.Player) {
	s.broadcastf("%s exploded!", p.Name)
	events := s.game.Eliminate(p)
	s.emit(events)
	if !engine.HasEvent(events, engine.EvtGameOver) {
		s.publish()
	}
}

// placeKitten spends p's Defuse and hides the kitten at position.
func (s *Session) placeKitten(p *engine.Player, position int) {
	kitten, ok := p.RemoveKind(engine.KindExplodingKitten)
	if !ok {
		return
	}
	defuse, ok := p.RemoveKind(engine.KindDefuse)
	if !ok {
		p.AddToHand(kitten)
		s.explode(p)
		return
	}
	s.game.Deck.Discard(defuse)
	s.game.Deck.InsertCard(kitten, position)
	s.game.State = engine.StatePlayerTurn

	s.broadcast(cardPlayedFrame(p, defuse))
	s.broadcastf("%s defused the kitten and put it back in the deck", p.Name)
	s.sendHand(p)
	if s.game.Turn.CardDrawn() {
		s.emit(s.game.Turn.CompleteTurn())
	}
}
