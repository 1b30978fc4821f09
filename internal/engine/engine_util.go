package engine

import "slices"

// HasEvent reports whether any of events has type t.
func HasEvent(events []Event, t EventType) bool {
	return slices.ContainsFunc(events, func(e Event) bool { return e.Type == t })
}

// ClampMaxPlayers maps a requested table size into the supported range.
// Zero means "not given" and picks the largest table.
func ClampMaxPlayers(n int) int {
	if n == 0 {
		return MaxPlayers
	}
	return min(max(n, MinPlayers), MaxPlayers)
}
