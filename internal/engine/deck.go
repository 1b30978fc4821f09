package engine

import "math/rand/v2"

// Deck holds the draw and discard piles of one game. The top of the draw
// pile is the last element of draw.
type Deck struct {
	draw    []Card
	discard []Card
	rng     *rand.Rand
}

// NewDeck builds a deck whose draw pile is cards, with cards[0] on top.
func NewDeck(cards []Card, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.draw = make([]Card, len(cards))
	for i, c := range cards {
		d.draw[len(cards)-1-i] = c
	}
	return d
}

// CardsRemaining is the size of the draw pile.
func (d *Deck) CardsRemaining() int { return len(d.draw) }

// DiscardPile returns a copy of the discard pile, oldest first.
func (d *Deck) DiscardPile() []Card { return append([]Card(nil), d.discard...) }

func (d *Deck) DiscardCount() int { return len(d.discard) }

// Draw pops the top card. An empty draw pile is refilled from the shuffled
// discard pile first.
func (d *Deck) Draw() (Card, error) {
	if len(d.draw) == 0 {
		d.reshuffleDiscard()
		if len(d.draw) == 0 {
			return Card{}, ErrDeckEmpty
		}
	}
	top := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return top, nil
}

func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

// PeekTop returns up to n cards from the top without removing them, top
// first. len(result) tells how many were actually available.
func (d *Deck) PeekTop(n int) []Card {
	if n > len(d.draw) {
		n = len(d.draw)
	}
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.draw[len(d.draw)-1-i])
	}
	return out
}

// InsertCard puts card at positionFromTop (0 = next card drawn). The position
// is clamped to the pile size.
func (d *Deck) InsertCard(card Card, positionFromTop int) int {
	if positionFromTop < 0 {
		positionFromTop = 0
	}
	if positionFromTop > len(d.draw) {
		positionFromTop = len(d.draw)
	}
	idx := len(d.draw) - positionFromTop
	d.draw = append(d.draw, Card{})
	copy(d.draw[idx+1:], d.draw[idx:])
	d.draw[idx] = card
	return positionFromTop
}

// ScatterCard inserts card at a uniformly random position of the draw pile.
func (d *Deck) ScatterCard(card Card) {
	d.InsertCard(card, d.rng.IntN(len(d.draw)+1))
}

// TakeFromDiscard removes and returns the discard pile card at index.
func (d *Deck) TakeFromDiscard(index int) (Card, error) {
	if index < 0 || index >= len(d.discard) {
		return Card{}, ErrCardNotFound
	}
	c := d.discard[index]
	d.discard = append(d.discard[:index], d.discard[index+1:]...)
	return c, nil
}

// Shuffle reorders the draw pile.
func (d *Deck) Shuffle() {
	Shuffle(d.draw, d.rng)
}

func (d *Deck) reshuffleDiscard() {
	if len(d.discard) == 0 {
		return
	}
	d.draw = append(d.draw[:0], d.discard...)
	Shuffle(d.draw, d.rng)
	d.discard = d.discard[:0]
}

// Shuffle is an in-place Fisher-Yates shuffle.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
