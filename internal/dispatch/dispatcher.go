package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/DoyleJ11/kittens-server/internal/hub"
	"github.com/DoyleJ11/kittens-server/internal/protocol"
	"github.com/DoyleJ11/kittens-server/internal/session"
	"go.uber.org/zap"
)

// Client is one connected transport endpoint.
type Client interface {
	session.Conn
	Track(sessionID string)
	Untrack(sessionID string)
	Sessions() []string
}

type handlerFunc func(ctx context.Context, c Client, payload string) error

// Dispatcher routes decoded frames to the hub and to session actors.
type Dispatcher struct {
	hub      *hub.Hub
	log      *zap.Logger
	handlers map[protocol.Command]handlerFunc
}

func New(h *hub.Hub, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{hub: h, log: log.Named("dispatch")}
	d.handlers = map[protocol.Command]handlerFunc{
		protocol.CmdCreateGame:      d.createGame,
		protocol.CmdJoinGame:        d.joinGame,
		protocol.CmdLeaveGame:       d.leaveGame,
		protocol.CmdStartGame:       d.startGame,
		protocol.CmdEndTurn:         d.endTurn,
		protocol.CmdPlayCard:        d.playCard,
		protocol.CmdDrawCard:        d.drawCard,
		protocol.CmdUseCombo:        d.useCombo,
		protocol.CmdTargetPlayer:    d.giveFavor,
		protocol.CmdPlayNope:        d.playNope,
		protocol.CmdPlayDefuse:      d.playDefuse,
		protocol.CmdPlayFavor:       d.giveFavor,
		protocol.CmdStealCard:       d.stealCard,
		protocol.CmdTakeFromDiscard: d.takeFromDiscard,
		protocol.CmdGetGameState:    d.getGameState,
		protocol.CmdGetPlayerHand:   d.getPlayerHand,
		protocol.CmdGetPlayers:      d.getPlayers,
		protocol.CmdGetGamesList:    d.getGamesList,
	}
	return d
}

// Handle runs one frame for c. It returns once the owning session has
// processed the command, so a connection's frames are handled in order.
func (d *Dispatcher) Handle(ctx context.Context, c Client, f protocol.Frame) {
	log := d.log.With(zap.String("conn_id", c.ID()), zap.Stringer("command", f.Command))
	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			c.Send(protocol.MessageFrame(fmt.Sprintf("internal error: %v", r)))
		}
	}()

	h, ok := d.handlers[f.Command]
	if !ok {
		log.Debug("no handler")
		c.Send(protocol.ErrorFrame(protocol.CodeInvalidAction))
		return
	}
	if err := h(ctx, c, f.Text()); err != nil {
		log.Debug("rejected", zap.Error(err))
		c.Send(protocol.ErrorFrame(codeFor(err)))
	}
}

// Disconnect removes c from every session it joined and from the lobby
// subscribers.
func (d *Dispatcher) Disconnect(ctx context.Context, c Client) {
	d.hub.Unsubscribe(c.ID())
	for _, id := range c.Sessions() {
		s, err := d.hub.Get(ctx, id)
		if err != nil || s == nil {
			continue
		}
		if err := s.Disconnect(ctx, c.ID()); err != nil && !errors.Is(err, session.ErrSessionClosed) {
			d.log.Warn("disconnect", zap.String("session_id", id), zap.String("conn_id", c.ID()), zap.Error(err))
		}
		c.Untrack(id)
	}
}

func codeFor(err error) protocol.ErrorCode {
	switch {
	case errors.Is(err, errGameNotFound):
		return protocol.CodeGameNotFound
	case errors.Is(err, session.ErrSessionClosed), errors.Is(err, hub.ErrHubClosed):
		return protocol.CodeSessionNotFound
	default:
		return protocol.CodeInvalidAction
	}
}

// lookup finds the session for a game id.
func (d *Dispatcher) lookup(ctx context.Context, gameID string) (*session.Session, error) {
	if err := validID(gameID); err != nil {
		return nil, err
	}
	s, err := d.hub.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s", errGameNotFound, gameID)
	}
	return s, nil
}

// forward resolves gameID and runs cmd on it for c.
func (d *Dispatcher) forward(ctx context.Context, c Client, gameID string, cmd session.Command) error {
	s, err := d.lookup(ctx, gameID)
	if err != nil {
		return err
	}
	return s.Do(ctx, c, cmd)
}
