package engine

// NextAliveAfter walks the seating order from index (exclusive), wrapping,
// and returns the first alive player that is not at index.
func (g *Game) NextAliveAfter(index int) (int, bool) {
	n := len(g.Players)
	for step := 1; step < n; step++ {
		i := (index + step) % n
		if g.Players[i].Alive {
			return i, true
		}
	}
	return -1, false
}

// Opponents lists the alive players other than id in seating order. Favor
// targets given as a number index into this list.
func (g *Game) Opponents(id string) []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.Alive && p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
