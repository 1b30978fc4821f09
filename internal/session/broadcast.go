package session

import (
	"encoding/json"
	"fmt"

	"github.com/DoyleJ11/kittens-server/internal/engine"
	"github.com/DoyleJ11/kittens-server/internal/protocol"
	"github.com/DoyleJ11/kittens-server/internal/types"
	"go.uber.org/zap"
)

func messageFrame(text string) []byte { return protocol.MessageFrame(text) }

func needToDrawFrame() []byte { return protocol.MustEncode(protocol.CmdNeedToDraw, nil) }

// broadcast sends frame to every seated connection. A connection that
// refuses the frame is dropped from the session's address book.
func (s *Session) broadcast(frame []byte) {
	for pid, c := range s.conns {
		if !c.Send(frame) {
			s.log.Info("dropping slow connection", zap.String("player_id", pid), zap.String("conn_id", c.ID()))
			delete(s.conns, pid)
		}
	}
}

func (s *Session) broadcastf(format string, args ...any) {
	s.broadcast(messageFrame(fmt.Sprintf(format, args...)))
}

func (s *Session) sendTo(p *engine.Player, frame []byte) {
	if p == nil {
		return
	}
	c, ok := s.conns[p.ID]
	if !ok {
		return
	}
	if !c.Send(frame) {
		delete(s.conns, p.ID)
	}
}

func (s *Session) tell(p *engine.Player, format string, args ...any) {
	s.sendTo(p, messageFrame(fmt.Sprintf(format, args...)))
}

func cardPlayedFrame(p *engine.Player, c engine.Card) []byte {
	return protocol.TextFrame(protocol.CmdCardPlayed, fmt.Sprintf("%s:%d:%s", p.ID, byte(c.Kind), c.Name))
}

func toCards(cards []engine.Card) []types.Card {
	out := make([]types.Card, len(cards))
	for i, c := range cards {
		out[i] = types.Card{Kind: byte(c.Kind), Name: c.Name, IconID: c.IconID}
	}
	return out
}

func (s *Session) handFrame(p *engine.Player) []byte {
	data, err := json.Marshal(toCards(p.Hand))
	if err != nil {
		s.log.Error("encode hand", zap.Error(err))
		return nil
	}
	return protocol.MustEncode(protocol.CmdPlayerHandUpdate, data)
}

func (s *Session) sendHand(players ...*engine.Player) {
	for _, p := range players {
		if f := s.handFrame(p); f != nil {
			s.sendTo(p, f)
		}
	}
}

func (s *Session) sendAllHands() {
	for _, p := range s.game.Players {
		s.sendHand(p)
	}
}

func (s *Session) playerInfos() []types.PlayerInfo {
	g := s.game
	cur := g.Current()
	out := make([]types.PlayerInfo, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, types.PlayerInfo{
			ID:              p.ID,
			Name:            p.Name,
			CardCount:       len(p.Hand),
			IsAlive:         p.Alive,
			TurnOrder:       p.TurnOrder,
			ExtraTurns:      p.ExtraTurns,
			IsCurrentPlayer: cur != nil && cur.ID == p.ID,
		})
	}
	return out
}

// Snapshot is the public view of the game. Hands are only counted.
func (s *Session) Snapshot() types.GameState {
	g := s.game
	st := types.GameState{
		SessionID:    s.id,
		State:        g.State.String(),
		AlivePlayers: len(g.AlivePlayers()),
		CardsInDeck:  g.Deck.CardsRemaining(),
		DiscardPile:  toCards(g.Deck.DiscardPile()),
		TurnsPlayed:  g.TurnsPlayed,
		Players:      s.playerInfos(),
	}
	if cur := g.Current(); cur != nil && g.State != engine.StateGameOver {
		st.CurrentPlayerID = cur.ID
		st.CurrentPlayerName = cur.Name
	}
	if g.Winner != nil {
		st.WinnerName = g.Winner.Name
	}
	if in := s.interrupt; in != nil {
		st.ActiveAction = &types.ActiveAction{
			ID:          in.id,
			Description: in.description,
			Nopes:       len(in.noped),
			Cancelled:   in.suppressed(),
		}
	}
	if g.State != engine.StateWaitingForPlayers {
		st.Remaining = g.Census().ByName()
	}
	return st
}

func (s *Session) stateFrame() []byte {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		s.log.Error("encode game state", zap.Error(err))
		return nil
	}
	f, err := protocol.Encode(protocol.CmdGameStateUpdate, data)
	if err != nil {
		// large discard piles can outgrow a frame; drop the pile rather than the update
		st := s.Snapshot()
		st.DiscardPile = st.DiscardPile[max(0, len(st.DiscardPile)-10):]
		data, _ = json.Marshal(st)
		f = protocol.MustEncode(protocol.CmdGameStateUpdate, data)
	}
	return f
}

func (s *Session) broadcastState() {
	if f := s.stateFrame(); f != nil {
		s.broadcast(f)
	}
}

// emit turns engine events into frames.
func (s *Session) emit(events []engine.Event) {
	for _, ev := range events {
		switch ev.Type {
		case engine.EvtGameStarted:
			s.broadcast(protocol.MustEncode(protocol.CmdGameStarted, nil))

		case engine.EvtTurnAdvanced:
			p, ok := s.game.Player(ev.PlayerID)
			if !ok {
				continue
			}
			s.broadcastf("It is %s's turn", p.Name)
			if p.ExtraTurns > 0 {
				s.tell(p, "Your turn! You owe %d more turn(s) after this one.", p.ExtraTurns)
			} else {
				s.tell(p, "Your turn!")
			}

		case engine.EvtPlayerEliminated:
			p, ok := s.game.Player(ev.PlayerID)
			if !ok {
				continue
			}
			s.broadcast(protocol.TextFrame(protocol.CmdPlayerEliminated, p.ID+":"+p.Name))

		case engine.EvtGameOver:
			payload := ""
			if w := s.game.Winner; w != nil {
				payload = w.ID + ":" + w.Name
			}
			s.clearActions()
			s.broadcast(protocol.TextFrame(protocol.CmdGameOver, payload))
			s.log.Info("game over", zap.String("winner", payload))
			s.publish()
		}
	}
}
