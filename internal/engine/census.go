package engine

// Census counts every card of a game by kind and location.
type Census struct {
	Draw    map[Kind]int
	Discard map[Kind]int
	Hands   map[Kind]int
	Removed map[Kind]int
}

func (g *Game) Census() Census {
	c := Census{
		Draw:    map[Kind]int{},
		Discard: map[Kind]int{},
		Hands:   map[Kind]int{},
		Removed: map[Kind]int{},
	}
	for _, card := range g.Deck.draw {
		c.Draw[card.Kind]++
	}
	for _, card := range g.Deck.discard {
		c.Discard[card.Kind]++
	}
	for _, p := range g.Players {
		for _, card := range p.Hand {
			c.Hands[card.Kind]++
		}
	}
	for _, card := range g.Removed {
		c.Removed[card.Kind]++
	}
	return c
}

func (c Census) Total(kind Kind) int {
	return c.Draw[kind] + c.Discard[kind] + c.Hands[kind] + c.Removed[kind]
}

func (c Census) Size() int {
	n := 0
	for _, k := range Kinds {
		n += c.Total(k)
	}
	return n
}

// ByName maps display names to their total count, skipping absent kinds.
func (c Census) ByName() map[string]int {
	out := make(map[string]int)
	for _, k := range Kinds {
		if n := c.Total(k); n > 0 {
			out[NewCard(k).Name] = n
		}
	}
	return out
}
