package session

import (
	"errors"

	"github.com/DoyleJ11/kittens-server/internal/engine"
	"github.com/DoyleJ11/kittens-server/internal/protocol"
	"go.uber.org/zap"
)

var ErrUnauthorized = errors.New("that player belongs to another connection")
var ErrAlreadyJoined = errors.New("this connection already has a seat in the game")
var ErrBadName = errors.New("player name must not be empty")
var ErrNotStarted = errors.New("game has not started")
var ErrGameOver = errors.New("game is over")
var ErrBusy = errors.New("wait for the current action to resolve")
var ErrCannotPlay = errors.New("you cannot play a card right now")
var ErrAlreadyDrawn = errors.New("you already drew this turn")
var ErrDefuseAlone = errors.New("a Defuse is only played after drawing an Exploding Kitten")
var ErrNeedTarget = errors.New("this card needs a target player")
var ErrTargetSelf = errors.New("you cannot target yourself")
var ErrEmptyHand = errors.New("target has no cards")
var ErrNoAction = errors.New("no action to Nope")
var ErrAlreadyNoped = errors.New("you already played a Nope on this action")
var ErrNopeClosed = errors.New("the Nope window is closed")
var ErrNoNopeCard = errors.New("you have no Nope card")
var ErrNoPending = errors.New("nothing is waiting for your choice")
var ErrNotCreator = errors.New("only the game creator can start the game")

// codeFor maps an error onto the wire error code.
func codeFor(err error) protocol.ErrorCode {
	switch {
	case err == nil:
		return protocol.CodeOk
	case errors.Is(err, engine.ErrGameFull):
		return protocol.CodeGameFull
	case errors.Is(err, engine.ErrGameStarted):
		return protocol.CodeGameAlreadyStarted
	case errors.Is(err, engine.ErrPlayerNotFound), errors.Is(err, engine.ErrInvalidTarget):
		return protocol.CodePlayerNotFound
	case errors.Is(err, engine.ErrWrongTurn):
		return protocol.CodeNotYourTurn
	case errors.Is(err, engine.ErrCardNotFound):
		return protocol.CodeCardNotFound
	case errors.Is(err, engine.ErrPlayerNotAlive):
		return protocol.CodePlayerNotAlive
	case errors.Is(err, ErrEmptyHand), errors.Is(err, ErrNoNopeCard):
		return protocol.CodeNotEnoughCards
	case errors.Is(err, ErrUnauthorized):
		return protocol.CodeUnauthorized
	case errors.Is(err, ErrSessionClosed):
		return protocol.CodeSessionNotFound
	default:
		return protocol.CodeInvalidAction
	}
}

// reject answers a failed command. Invalid actions also get the reason as
// a Message; a missing draw also gets NeedToDraw.
func (s *Session) reject(c Conn, err error) {
	code := codeFor(err)
	c.Send(protocol.ErrorFrame(code))
	if code == protocol.CodeInvalidAction || code == protocol.CodeNotEnoughCards {
		c.Send(messageFrame(err.Error()))
	}
	if errors.Is(err, engine.ErrMustDraw) {
		c.Send(needToDrawFrame())
	}
	s.log.Debug("command rejected", zap.String("conn_id", c.ID()), zap.Stringer("code", code), zap.Error(err))
}
