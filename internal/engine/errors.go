package engine

import "errors"

var ErrDeckEmpty = errors.New("draw and discard piles are both empty")
var ErrPlayerCount = errors.New("unsupported player count")
var ErrGameFull = errors.New("game is full")
var ErrGameStarted = errors.New("game already started")
var ErrNotEnoughPlayers = errors.New("not enough players")
var ErrPlayerNotFound = errors.New("player not found")
var ErrPlayerNotAlive = errors.New("player is not alive")
var ErrWrongTurn = errors.New("not your turn")
var ErrCardNotFound = errors.New("card not found")
var ErrMustDraw = errors.New("you must draw a card before ending your turn")
var ErrKittenNotPlayable = errors.New("an Exploding Kitten cannot be played from hand")
var ErrCatNeedsCombo = errors.New("cat cards can only be played as a combo")
var ErrInvalidCombo = errors.New("invalid combo")
var ErrInvalidTarget = errors.New("invalid target player")
