package engine

import (
	"fmt"
	"math/rand/v2"
)

const (
	MinPlayers = 2
	MaxPlayers = 5

	// HandSize is the number of cards dealt before the Defuse is added.
	HandSize = 4
)

// basePool is the per-kind count of every card except kittens and defuses.
var basePool = []struct {
	Kind  Kind
	Count int
}{
	{KindNope, 5},
	{KindAttack, 4},
	{KindSkip, 4},
	{KindFavor, 4},
	{KindShuffle, 4},
	{KindSeeTheFuture, 5},
	{KindRainbowCat, 4},
	{KindBeardCat, 4},
	{KindPotatoCat, 4},
	{KindWatermelonCat, 4},
	{KindTacoCat, 4},
}

// BasePoolSize is the number of non-kitten, non-defuse cards in a game.
func BasePoolSize() int {
	n := 0
	for _, e := range basePool {
		n += e.Count
	}
	return n
}

// ExtraDefuses is how many Defuse cards go into the draw pile.
func ExtraDefuses(playerCount int) int {
	if playerCount == 2 {
		return 2
	}
	return max(0, 6-playerCount)
}

// TotalCards is the number of cards in play for a game of playerCount.
func TotalCards(playerCount int) int {
	return BasePoolSize() + playerCount + (playerCount - 1) + ExtraDefuses(playerCount)
}

// CreateGameSetup deals the starting hands and builds the shuffled draw
// deck. The deck is returned top first.
func CreateGameSetup(playerCount int, rng *rand.Rand) ([]Card, [][]Card, error) {
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return nil, nil, fmt.Errorf("%w: %d players, need %d-%d", ErrPlayerCount, playerCount, MinPlayers, MaxPlayers)
	}

	pool := make([]Card, 0, BasePoolSize())
	for _, e := range basePool {
		pool = appendCards(pool, e.Kind, e.Count)
	}
	Shuffle(pool, rng)

	hands := make([][]Card, playerCount)
	for i := range hands {
		hand := make([]Card, 0, HandSize+1)
		hand = append(hand, pool[:HandSize]...)
		pool = pool[HandSize:]
		hands[i] = append(hand, NewCard(KindDefuse))
	}

	deck := append([]Card(nil), pool...)
	deck = appendCards(deck, KindExplodingKitten, playerCount-1)
	deck = appendCards(deck, KindDefuse, ExtraDefuses(playerCount))
	Shuffle(deck, rng)

	return deck, hands, nil
}

func appendCards(cards []Card, kind Kind, count int) []Card {
	c := NewCard(kind)
	for i := 0; i < count; i++ {
		cards = append(cards, c)
	}
	return cards
}
