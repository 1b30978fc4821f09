package types

// GameState:
//   session_id: string
//   state: "WaitingForPlayers" | "Initializing" | "PlayerTurn" | "WaitingForNope" |
//          "ResolvingAction" | "GameOver" | "Paused"
//   current_player_id, current_player_name: string
//   alive_players: number
//   cards_in_deck: number
//   discard_pile: Card[]              // oldest first
//   turns_played: number
//   winner_name: string               // optional
//   players: { id, name, card_count, is_alive, turn_order, extra_turns, is_current_player }[]
//   active_action: { id, description, nopes, cancelled }   // present while a Nope window is open
//   remaining: { [card name]: number } // cards of each kind still in play

// Card:
//   kind: number     // byte value of the card kind
//   name: string
//   icon_id: number  // 0..12, used for combo matching

// GameInfo:
//   id, name, players_count, max_players, status, created_at, creator_name
