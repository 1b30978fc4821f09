package types

// Client -> Server (payloads are colon separated UTF-8)
// CreateGame (0x10):       name[:max_players]
// JoinGame (0x11):         game_id:name
// LeaveGame (0x12):        game_id:player_id
// StartGame (0x13):        game_id
// EndTurn (0x14):          game_id:player_id
// PlayCard (0x20):         game_id:player_id:card_index[:target]
//   target is a player id or an index among the other alive players
// DrawCard (0x21):         game_id:player_id
// UseCombo (0x22):         game_id:player_id:size:i1,i2,...[:target_data]
//   size 2:  target_data = player_id
//   size 3:  target_data = player_id|card name
//   size 5:  no target_data
// PlayNope (0x24):         game_id:player_id:action_id
// PlayDefuse (0x25):       game_id:player_id:position
// PlayFavor (0x26):        game_id:player_id:card_index   (also TargetPlayer 0x23)
// StealCard (0x27):        game_id:player_id:card_index
// TakeFromDiscard (0x28):  game_id:player_id:card_index
// GetGameState (0x30):     game_id
// GetPlayerHand (0x31):    game_id:player_id
// GetPlayers (0x32):       game_id
// GetGamesList (0x33):     (empty) - also subscribes to lobby updates

// Server -> Client
// GameCreated (0x40):      game_id:player_id
// PlayerJoined (0x41):     game_id:player_id
// GameStarted (0x42):      (empty)
// GameStateUpdate (0x43):  GameState JSON
// PlayerHandUpdate (0x44): []Card JSON
// CardPlayed (0x45):       player_id:kind:name
// CardDrawn (0x46):        player_id
// PlayerEliminated (0x47): player_id:name
// GameOver (0x48):         winner_id:winner_name (empty when nobody survived)
// Error (0x49):            1 byte error code
// Message (0x4A):          UTF-8 text
// NeedToDraw (0x4B):       (empty)
// GamesListUpdated (0x4C): []GameInfo JSON
