package engine

type State int

const (
	StateWaitingForPlayers State = iota
	StateInitializing
	StatePlayerTurn
	StateWaitingForNope
	StateResolvingAction
	StateGameOver
	StatePaused
)

var stateNames = [...]string{
	StateWaitingForPlayers: "WaitingForPlayers",
	StateInitializing:      "Initializing",
	StatePlayerTurn:        "PlayerTurn",
	StateWaitingForNope:    "WaitingForNope",
	StateResolvingAction:   "ResolvingAction",
	StateGameOver:          "GameOver",
	StatePaused:            "Paused",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

/*
	Start        -> EvtGameStarted -> EvtTurnAdvanced
	Advance      -> EvtTurnAdvanced, or EvtGameOver when nobody is left to play
	Eliminate    -> EvtPlayerEliminated -> EvtTurnAdvanced or EvtGameOver
	CompleteTurn -> EvtTurnAdvanced (same player when extra turns are owed)

	The session turns these into frames; the engine never talks to connections.
*/

type EventType string

const (
	EvtGameStarted      EventType = "GameStarted"
	EvtTurnAdvanced     EventType = "TurnAdvanced"
	EvtPlayerEliminated EventType = "PlayerEliminated"
	EvtGameOver         EventType = "GameOver"
)

type Event struct {
	Type     EventType
	PlayerID string
}
