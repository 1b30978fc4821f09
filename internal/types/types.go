package types

import "time"

// Card is one entry of a PlayerHandUpdate payload.
type Card struct {
	Kind   byte   `json:"kind"`
	Name   string `json:"name"`
	IconID byte   `json:"icon_id"`
}

type PlayerInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CardCount       int    `json:"card_count"`
	IsAlive         bool   `json:"is_alive"`
	TurnOrder       int    `json:"turn_order"`
	ExtraTurns      int    `json:"extra_turns"`
	IsCurrentPlayer bool   `json:"is_current_player"`
}

// ActiveAction describes an open Nope window so clients can answer it.
type ActiveAction struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Nopes       int    `json:"nopes"`
	Cancelled   bool   `json:"cancelled"`
}

// GameState is the GameStateUpdate payload.
type GameState struct {
	SessionID         string         `json:"session_id"`
	State             string         `json:"state"`
	CurrentPlayerID   string         `json:"current_player_id,omitempty"`
	CurrentPlayerName string         `json:"current_player_name,omitempty"`
	AlivePlayers      int            `json:"alive_players"`
	CardsInDeck       int            `json:"cards_in_deck"`
	DiscardPile       []Card         `json:"discard_pile"`
	TurnsPlayed       int            `json:"turns_played"`
	WinnerName        string         `json:"winner_name,omitempty"`
	Players           []PlayerInfo   `json:"players"`
	ActiveAction      *ActiveAction  `json:"active_action,omitempty"`
	Remaining         map[string]int `json:"remaining,omitempty"`
}

// GameInfo is one entry of a GamesListUpdated payload.
type GameInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PlayersCount int       `json:"players_count"`
	MaxPlayers   int       `json:"max_players"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	CreatorName  string    `json:"creator_name"`
}
