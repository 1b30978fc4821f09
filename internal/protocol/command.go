package protocol

import "fmt"

type Command byte

const (
	// Game management
	CmdCreateGame Command = 0x10
	CmdJoinGame   Command = 0x11
	CmdLeaveGame  Command = 0x12
	CmdStartGame  Command = 0x13
	CmdEndTurn    Command = 0x14

	// Game actions
	CmdPlayCard        Command = 0x20
	CmdDrawCard        Command = 0x21
	CmdUseCombo        Command = 0x22
	CmdTargetPlayer    Command = 0x23
	CmdPlayNope        Command = 0x24
	CmdPlayDefuse      Command = 0x25
	CmdPlayFavor       Command = 0x26
	CmdStealCard       Command = 0x27
	CmdTakeFromDiscard Command = 0x28

	// Queries
	CmdGetGameState  Command = 0x30
	CmdGetPlayerHand Command = 0x31
	CmdGetPlayers    Command = 0x32
	CmdGetGamesList  Command = 0x33

	// Server -> client
	CmdGameCreated      Command = 0x40
	CmdPlayerJoined     Command = 0x41
	CmdGameStarted      Command = 0x42
	CmdGameStateUpdate  Command = 0x43
	CmdPlayerHandUpdate Command = 0x44
	CmdCardPlayed       Command = 0x45
	CmdCardDrawn        Command = 0x46
	CmdPlayerEliminated Command = 0x47
	CmdGameOver         Command = 0x48
	CmdError            Command = 0x49
	CmdMessage          Command = 0x4A
	CmdNeedToDraw       Command = 0x4B
	CmdGamesListUpdated Command = 0x4C
)

var commandNames = map[Command]string{
	CmdCreateGame:       "CreateGame",
	CmdJoinGame:         "JoinGame",
	CmdLeaveGame:        "LeaveGame",
	CmdStartGame:        "StartGame",
	CmdEndTurn:          "EndTurn",
	CmdPlayCard:         "PlayCard",
	CmdDrawCard:         "DrawCard",
	CmdUseCombo:         "UseCombo",
	CmdTargetPlayer:     "TargetPlayer",
	CmdPlayNope:         "PlayNope",
	CmdPlayDefuse:       "PlayDefuse",
	CmdPlayFavor:        "PlayFavor",
	CmdStealCard:        "StealCard",
	CmdTakeFromDiscard:  "TakeFromDiscard",
	CmdGetGameState:     "GetGameState",
	CmdGetPlayerHand:    "GetPlayerHand",
	CmdGetPlayers:       "GetPlayers",
	CmdGetGamesList:     "GetGamesList",
	CmdGameCreated:      "GameCreated",
	CmdPlayerJoined:     "PlayerJoined",
	CmdGameStarted:      "GameStarted",
	CmdGameStateUpdate:  "GameStateUpdate",
	CmdPlayerHandUpdate: "PlayerHandUpdate",
	CmdCardPlayed:       "CardPlayed",
	CmdCardDrawn:        "CardDrawn",
	CmdPlayerEliminated: "PlayerEliminated",
	CmdGameOver:         "GameOver",
	CmdError:            "Error",
	CmdMessage:          "Message",
	CmdNeedToDraw:       "NeedToDraw",
	CmdGamesListUpdated: "GamesListUpdated",
}

// Known reports whether c is part of the command set.
func (c Command) Known() bool {
	_, ok := commandNames[c]
	return ok
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(0x%02X)", byte(c))
}
