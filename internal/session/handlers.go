package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DoyleJ11/kittens-server/internal/engine"
	"github.com/DoyleJ11/kittens-server/internal/protocol"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Session) apply(c Conn, cmd Command) error {
	switch cmd := cmd.(type) {
	case Join:
		return s.join(c, cmd)
	case Leave:
		return s.leave(c, cmd)
	case Start:
		return s.start(c)
	case PlayCard:
		return s.playCard(c, cmd)
	case UseCombo:
		return s.useCombo(c, cmd)
	case Draw:
		return s.draw(c, cmd)
	case EndTurn:
		return s.endTurn(c, cmd)
	case Defuse:
		return s.defuse(c, cmd)
	case GiveFavor:
		return s.giveFavor(c, cmd)
	case Steal:
		return s.steal(c, cmd)
	case TakeDiscard:
		return s.takeDiscard(c, cmd)
	case Nope:
		return s.nope(c, cmd)
	case GetState:
		c.Send(s.stateFrame())
		return nil
	case GetHand:
		p, err := s.seated(c, cmd.PlayerID)
		if err != nil {
			return err
		}
		c.Send(s.handFrame(p))
		return nil
	case GetPlayers:
		c.Send(messageFrame(s.playersText()))
		return nil
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

// seated finds playerID and checks it belongs to c.
func (s *Session) seated(c Conn, playerID string) (*engine.Player, error) {
	p, ok := s.game.Player(playerID)
	if !ok {
		return nil, engine.ErrPlayerNotFound
	}
	if p.ConnID != c.ID() {
		return nil, ErrUnauthorized
	}
	return p, nil
}

// inGame is seated plus a running game and a live player.
func (s *Session) inGame(c Conn, playerID string) (*engine.Player, error) {
	p, err := s.seated(c, playerID)
	if err != nil {
		return nil, err
	}
	switch s.game.State {
	case engine.StateWaitingForPlayers, engine.StateInitializing:
		return nil, ErrNotStarted
	case engine.StateGameOver:
		return nil, ErrGameOver
	}
	if !p.Alive {
		return nil, engine.ErrPlayerNotAlive
	}
	return p, nil
}

// onTurn is inGame plus it being p's turn.
func (s *Session) onTurn(c Conn, playerID string) (*engine.Player, error) {
	p, err := s.inGame(c, playerID)
	if err != nil {
		return nil, err
	}
	if !s.game.IsCurrent(p.ID) {
		return nil, engine.ErrWrongTurn
	}
	return p, nil
}

func (s *Session) join(c Conn, cmd Join) error {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return ErrBadName
	}
	if _, ok := s.game.PlayerByConn(c.ID()); ok {
		return ErrAlreadyJoined
	}

	p := engine.NewPlayer(uuid.NewString(), name, c.ID())
	if err := s.game.AddPlayer(p); err != nil {
		return err
	}
	s.conns[p.ID] = c
	if s.creator == "" {
		s.creator = name
	}

	ids := s.id + ":" + p.ID
	c.Send(protocol.TextFrame(protocol.CmdGameCreated, ids))
	if cmd.Creator {
		s.tell(p, "Game created! ID: %s", s.id)
		s.tell(p, "Waiting for players (%d-%d). Share the ID so others can join.", s.game.MinPlayers, s.game.MaxPlayers)
	} else {
		s.tell(p, "You joined the game as %s", name)
		s.broadcast(protocol.TextFrame(protocol.CmdPlayerJoined, ids))
	}
	s.broadcastf("%s joined the game (%d/%d)", name, len(s.game.Players), s.game.MaxPlayers)
	if s.game.Full() {
		s.broadcastf("The game is full. Ready to start?")
	}
	s.broadcastState()
	s.log.Info("player joined", zap.String("player_id", p.ID), zap.String("conn_id", c.ID()))
	s.publish()
	return nil
}

func (s *Session) leave(c Conn, cmd Leave) error {
	p, err := s.seated(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	s.removePlayer(p, "left")
	c.Send(messageFrame("You left the game"))
	return nil
}

func (s *Session) disconnect(connID string) {
	for _, p := range append([]*engine.Player(nil), s.game.Players...) {
		if p.ConnID == connID {
			s.removePlayer(p, "disconnected")
		}
	}
}

// removePlayer unseats p before the game starts, or knocks them out of a
// running one.
func (s *Session) removePlayer(p *engine.Player, why string) {
	delete(s.conns, p.ID)
	g := s.game
	s.log.Info("player "+why, zap.String("player_id", p.ID))

	if g.State == engine.StateWaitingForPlayers {
		_ = g.RemovePlayer(p.ID)
		s.broadcastf("%s %s", p.Name, why)
		s.broadcastState()
		s.publish()
		return
	}
	if g.State == engine.StateGameOver || !p.Alive {
		return
	}

	if in := s.interrupt; in != nil && in.initiator.ID == p.ID {
		s.cancelInterrupt()
		g.Turn.CancelAttack()
	}
	if pa := s.pending; pa != nil && pa.involves(p.ID) {
		s.closePending()
		if pa.requester.ID != p.ID {
			s.broadcastf("%s %s, the %s is cancelled", p.Name, why, pa.kind)
			s.backToTurn(pa.requester)
		}
	}

	s.broadcastf("%s %s and is out of the game", p.Name, why)
	events := g.Eliminate(p)
	s.emit(events)
	over := engine.HasEvent(events, engine.EvtGameOver) // emit already published
	if !over && s.interrupt == nil && s.pending == nil {
		g.State = engine.StatePlayerTurn
	}
	s.broadcastState()
	if !over {
		s.publish()
	}
}

func (s *Session) start(c Conn) error {
	p, ok := s.game.PlayerByConn(c.ID())
	if !ok {
		return ErrUnauthorized
	}
	// The first seat belongs to the creator; it passes on if they leave.
	if p != s.game.Players[0] {
		return ErrNotCreator
	}
	events, err := s.game.Start()
	if err != nil {
		return err
	}
	s.log.Info("game started", zap.Int("players", len(s.game.Players)))
	s.emit(events[:1])
	s.sendAllHands()
	s.emit(events[1:])
	s.broadcastState()
	s.publish()
	return nil
}

func (s *Session) playCard(c Conn, cmd PlayCard) error {
	p, err := s.inGame(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	if cmd.Index < 0 || cmd.Index >= len(p.Hand) {
		return fmt.Errorf("%w: index %d", engine.ErrCardNotFound, cmd.Index)
	}
	card := p.Hand[cmd.Index]

	// Nope is the one card played out of turn.
	if card.Kind == engine.KindNope {
		return s.playNope(p, "", func() (engine.Card, error) { return p.RemoveAt(cmd.Index) })
	}

	if !s.game.IsCurrent(p.ID) {
		return engine.ErrWrongTurn
	}
	if s.interrupt != nil || s.pending != nil {
		return ErrBusy
	}
	if !s.game.Turn.CanPlayCard() {
		return ErrCannotPlay
	}

	switch {
	case card.Kind == engine.KindExplodingKitten:
		return engine.ErrKittenNotPlayable
	case card.Kind == engine.KindDefuse:
		return ErrDefuseAlone
	case card.IsCat():
		return fmt.Errorf("%w: play %s with UseCombo", engine.ErrCatNeedsCombo, card.Name)
	}

	var target *engine.Player
	if card.Kind == engine.KindFavor {
		if target, err = s.resolveTarget(p, cmd.Target); err != nil {
			return err
		}
		if len(target.Hand) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyHand, target.Name)
		}
	}

	if _, err := p.RemoveAt(cmd.Index); err != nil {
		return err
	}
	s.game.Deck.Discard(card)
	s.broadcast(cardPlayedFrame(p, card))
	s.log.Info("card played", zap.String("player_id", p.ID), zap.String("card", card.Name))

	switch card.Kind {
	case engine.KindSkip:
		s.playSkip(p, card)
	case engine.KindAttack:
		if err := s.playAttack(p); err != nil {
			return err
		}
	case engine.KindFavor:
		s.playFavor(p, card, target)
	case engine.KindShuffle:
		s.playShuffle(p, card)
	case engine.KindSeeTheFuture:
		s.playSeeTheFuture(p, card)
	}
	s.sendHand(p)
	s.broadcastState()
	return nil
}

// resolveTarget accepts a player id or an index into the alive opponents.
func (s *Session) resolveTarget(p *engine.Player, target string) (*engine.Player, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrNeedTarget
	}
	if t, ok := s.game.Player(target); ok {
		if t.ID == p.ID {
			return nil, ErrTargetSelf
		}
		if !t.Alive {
			return nil, engine.ErrPlayerNotAlive
		}
		return t, nil
	}
	if i, err := strconv.Atoi(target); err == nil {
		ops := s.game.Opponents(p.ID)
		if i >= 0 && i < len(ops) {
			return ops[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", engine.ErrInvalidTarget, target)
}

func (s *Session) useCombo(c Conn, cmd UseCombo) error {
	p, err := s.onTurn(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	if s.interrupt != nil || s.pending != nil {
		return ErrBusy
	}
	if !s.game.Turn.CanPlayCard() {
		return ErrCannotPlay
	}
	cards, err := engine.ComboCards(p.Hand, cmd.Size, cmd.Indices)
	if err != nil {
		return err
	}

	var target *engine.Player
	var wanted string
	switch cmd.Size {
	case 2:
		if target, err = s.resolveTarget(p, cmd.Target); err != nil {
			return err
		}
		if len(target.Hand) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyHand, target.Name)
		}
	case 3:
		id, name, ok := strings.Cut(cmd.Target, "|")
		wanted = strings.TrimSpace(name)
		if !ok || wanted == "" {
			return fmt.Errorf("%w: expected player|card name", ErrNeedTarget)
		}
		if target, err = s.resolveTarget(p, id); err != nil {
			return err
		}
	}

	if _, err := p.RemoveIndices(cmd.Indices); err != nil {
		return err
	}
	limit := s.game.Deck.DiscardCount()
	s.game.Deck.Discard(cards...)
	for _, card := range cards {
		s.game.Turn.Played = append(s.game.Turn.Played, card)
		s.broadcast(cardPlayedFrame(p, card))
	}
	s.log.Info("combo played", zap.String("player_id", p.ID), zap.Int("size", cmd.Size))

	s.playCombo(p, cmd.Size, target, wanted, limit)
	s.sendHand(p)
	s.broadcastState()
	return nil
}

func (s *Session) draw(c Conn, cmd Draw) error {
	p, err := s.onTurn(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	if s.interrupt != nil || s.pending != nil {
		return ErrBusy
	}
	if s.game.Turn.HasDrawn || s.game.Turn.Ended {
		return ErrAlreadyDrawn
	}

	card, err := s.game.Deck.Draw()
	if err != nil {
		return err
	}
	s.broadcast(protocol.TextFrame(protocol.CmdCardDrawn, p.ID))
	p.AddToHand(card)

	if card.Kind == engine.KindExplodingKitten {
		s.drewKitten(p)
	} else {
		s.tell(p, "You drew %s", card.Name)
		s.sendHand(p)
		if s.game.Turn.CardDrawn() {
			s.emit(s.game.Turn.CompleteTurn())
		} else {
			s.tell(p, "You still owe %d more turn(s)", p.ExtraTurns+1)
		}
	}
	s.broadcastState()
	return nil
}

func (s *Session) endTurn(c Conn, cmd EndTurn) error {
	_, err := s.onTurn(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	if s.interrupt != nil || s.pending != nil {
		return ErrBusy
	}
	events, err := s.game.Turn.EndTurn()
	if err != nil {
		return err
	}
	s.emit(events)
	s.broadcastState()
	return nil
}

func (s *Session) defuse(c Conn, cmd Defuse) error {
	p, err := s.inGame(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	if _, err := s.takePending(pendingExplosion, p); err != nil {
		return err
	}
	s.closePending()
	s.placeKitten(p, cmd.Position)
	s.broadcastState()
	return nil
}

func (s *Session) giveFavor(c Conn, cmd GiveFavor) error {
	p, err := s.inGame(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	pa, err := s.takePending(pendingFavor, p)
	if err != nil {
		return err
	}
	if cmd.Index < 0 || cmd.Index >= len(p.Hand) {
		return fmt.Errorf("%w: index %d", engine.ErrCardNotFound, cmd.Index)
	}
	s.closePending()
	card := s.moveCard(p, cmd.Index, pa.requester)
	s.broadcastf("%s gave a card to %s", p.Name, pa.requester.Name)
	s.tell(pa.requester, "You received %s", card.Name)
	s.backToTurn(pa.requester)
	s.broadcastState()
	return nil
}

func (s *Session) steal(c Conn, cmd Steal) error {
	p, err := s.inGame(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	pa, err := s.takePending(pendingSteal, p)
	if err != nil {
		return err
	}
	if cmd.Index < 0 || cmd.Index >= len(pa.target.Hand) {
		return fmt.Errorf("%w: %s has %d cards", engine.ErrCardNotFound, pa.target.Name, len(pa.target.Hand))
	}
	s.closePending()
	card := s.moveCard(pa.target, cmd.Index, p)
	s.broadcastf("%s stole a card from %s", p.Name, pa.target.Name)
	s.tell(p, "You stole %s", card.Name)
	s.tell(pa.target, "%s stole your %s", p.Name, card.Name)
	s.backToTurn(p)
	s.broadcastState()
	return nil
}

func (s *Session) takeDiscard(c Conn, cmd TakeDiscard) error {
	p, err := s.inGame(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	pa, err := s.takePending(pendingDiscard, p)
	if err != nil {
		return err
	}
	if cmd.Index < 0 || cmd.Index >= pa.limit {
		return fmt.Errorf("%w: choose 0-%d", engine.ErrCardNotFound, pa.limit-1)
	}
	card, err := s.game.Deck.TakeFromDiscard(cmd.Index)
	if err != nil {
		return err
	}
	s.closePending()
	p.AddToHand(card)
	s.broadcastf("%s took %s from the discard pile", p.Name, card.Name)
	s.backToTurn(p)
	s.broadcastState()
	return nil
}

func (s *Session) nope(c Conn, cmd Nope) error {
	p, err := s.inGame(c, cmd.PlayerID)
	if err != nil {
		return err
	}
	if s.interrupt == nil || s.interrupt.id != cmd.ActionID {
		return ErrNoAction
	}
	return s.playNope(p, cmd.ActionID, func() (engine.Card, error) {
		card, ok := p.RemoveKind(engine.KindNope)
		if !ok {
			return engine.Card{}, ErrNoNopeCard
		}
		return card, nil
	})
}

func (s *Session) playersText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Players in %s (%s):", s.name, s.game.State)
	for _, pi := range s.playerInfos() {
		fmt.Fprintf(&b, "\n%d. %s [%s] %d cards", pi.TurnOrder, pi.Name, pi.ID, pi.CardCount)
		if !pi.IsAlive {
			b.WriteString(", out")
		}
		if pi.IsCurrentPlayer {
			b.WriteString(", playing")
		}
	}
	return b.String()
}
