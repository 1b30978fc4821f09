package session

import (
	"time"

	"github.com/DoyleJ11/kittens-server/internal/engine"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// interrupt is an action that can still be Noped. An odd number of Nopes
// suppresses it.
type interrupt struct {
	id           string
	description  string
	registeredAt time.Time
	initiator    *engine.Player

	noped []string
	// deadline closes the window; a Nope pushes it out, never past hardExpiry.
	deadline   time.Time
	hardExpiry time.Time

	gen   uint64
	timer *time.Timer

	// exactly one of these runs when the window closes
	onPass  func()
	onBlock func()
}

func (in *interrupt) suppressed() bool { return len(in.noped)%2 == 1 }

func (in *interrupt) hasNoped(playerID string) bool {
	for _, id := range in.noped {
		if id == playerID {
			return true
		}
	}
	return false
}

func (in *interrupt) stop() {
	if in.timer != nil {
		in.timer.Stop()
	}
}

// openInterrupt registers a Nope-able action and arms its window.
func (s *Session) openInterrupt(initiator *engine.Player, description string, onPass, onBlock func()) *interrupt {
	now := s.opts.Now()
	in := &interrupt{
		id:           uuid.NewString(),
		description:  description,
		registeredAt: now,
		initiator:    initiator,
		deadline:     now.Add(s.opts.NopeWindow),
		hardExpiry:   now.Add(s.opts.NopeHardExpiry),
		onPass:       onPass,
		onBlock:      onBlock,
	}
	in.timer, in.gen = s.schedule(timerNope, s.opts.NopeWindow)
	s.interrupt = in
	s.game.State = engine.StateWaitingForNope

	s.broadcastf("%s. Anyone may answer with a Nope within %s (action %s).",
		description, s.opts.NopeWindow, in.id)
	s.log.Info("nope window opened", zap.String("action_id", in.id), zap.String("player_id", initiator.ID))
	return in
}

// playNope applies a Nope from p against action actionID. consume takes the
// Nope card out of p's hand.
func (s *Session) playNope(p *engine.Player, actionID string, consume func() (engine.Card, error)) error {
	in := s.interrupt
	if in == nil || (actionID != "" && in.id != actionID) {
		return ErrNoAction
	}
	if !p.Alive {
		return engine.ErrPlayerNotAlive
	}
	if in.hasNoped(p.ID) {
		return ErrAlreadyNoped
	}

	now := s.opts.Now()
	if now.After(in.deadline) {
		return ErrNopeClosed
	}

	card, err := consume()
	if err != nil {
		return err
	}
	s.game.Deck.Discard(card)

	in.noped = append(in.noped, p.ID)
	in.deadline = now.Add(s.opts.NopeWindow)
	if in.deadline.After(in.hardExpiry) {
		in.deadline = in.hardExpiry
	}
	in.stop()
	in.timer, in.gen = s.schedule(timerNope, in.deadline.Sub(now))

	s.broadcast(cardPlayedFrame(p, card))
	if in.suppressed() {
		s.broadcastf("%s played Nope. %s is cancelled for now.", p.Name, in.description)
	} else {
		s.broadcastf("%s played Nope on the Nope. %s is back on.", p.Name, in.description)
	}
	s.sendHand(p)
	s.broadcastState()
	return nil
}

// resolveInterrupt closes the window and runs the outcome.
func (s *Session) resolveInterrupt() {
	in := s.interrupt
	if in == nil {
		return
	}
	in.stop()
	s.interrupt = nil
	if s.game.State == engine.StateWaitingForNope {
		s.game.State = engine.StateResolvingAction
	}

	if in.suppressed() {
		s.log.Info("action noped", zap.String("action_id", in.id), zap.Int("nopes", len(in.noped)))
		s.broadcastf("%s was Noped.", in.description)
		in.onBlock()
	} else {
		s.log.Info("action resolved", zap.String("action_id", in.id), zap.Int("nopes", len(in.noped)))
		in.onPass()
	}
	s.broadcastState()
}

// cancelInterrupt drops the open window without running either outcome.
func (s *Session) cancelInterrupt() {
	if s.interrupt == nil {
		return
	}
	s.interrupt.stop()
	s.interrupt = nil
}

func (s *Session) schedule(kind timerKind, d time.Duration) (*time.Timer, uint64) {
	s.gen++
	gen := s.gen
	t := time.AfterFunc(d, func() { s.post(timerFired{kind: kind, gen: gen}) })
	return t, gen
}

func (s *Session) onTimer(m timerFired) {
	switch m.kind {
	case timerNope:
		if s.interrupt == nil || s.interrupt.gen != m.gen {
			return // stale
		}
		s.resolveInterrupt()

	case timerPending:
		if s.pending == nil || s.pending.gen != m.gen {
			return // stale
		}
		s.timeoutPending()
	}
}
