package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(cards []Card) []Kind {
	out := make([]Kind, len(cards))
	for i, c := range cards {
		out[i] = c.Kind
	}
	return out
}

func TestDeckDrawOrder(t *testing.T) {
	d := NewDeck([]Card{NewCard(KindSkip), NewCard(KindNope), NewCard(KindFavor)}, testRand())
	c, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, KindSkip, c.Kind)
	assert.Equal(t, 2, d.CardsRemaining())
}

func TestDeckDrawReshufflesDiscard(t *testing.T) {
	d := NewDeck(nil, testRand())
	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrDeckEmpty)

	d.Discard(NewCard(KindSkip), NewCard(KindAttack))
	_, err = d.Draw()
	require.NoError(t, err)
	assert.Equal(t, 1, d.CardsRemaining())
	assert.Equal(t, 0, d.DiscardCount())
}

func TestDeckInsertCard(t *testing.T) {
	cases := []struct {
		name    string
		pos     int
		wantPos int
		want    []Kind
	}{
		{name: "top", pos: 0, wantPos: 0, want: []Kind{KindExplodingKitten, KindSkip, KindNope, KindFavor}},
		{name: "third", pos: 2, wantPos: 2, want: []Kind{KindSkip, KindNope, KindExplodingKitten, KindFavor}},
		{name: "bottom", pos: 3, wantPos: 3, want: []Kind{KindSkip, KindNope, KindFavor, KindExplodingKitten}},
		{name: "clamped high", pos: 99, wantPos: 3, want: []Kind{KindSkip, KindNope, KindFavor, KindExplodingKitten}},
		{name: "clamped low", pos: -4, wantPos: 0, want: []Kind{KindExplodingKitten, KindSkip, KindNope, KindFavor}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDeck([]Card{NewCard(KindSkip), NewCard(KindNope), NewCard(KindFavor)}, testRand())
			got := d.InsertCard(NewCard(KindExplodingKitten), tc.pos)
			assert.Equal(t, tc.wantPos, got)
			assert.Equal(t, tc.want, kinds(d.PeekTop(10)))
		})
	}
}

func TestDeckPeekTopShortPile(t *testing.T) {
	d := NewDeck([]Card{NewCard(KindSkip), NewCard(KindNope)}, testRand())
	top := d.PeekTop(3)
	assert.Equal(t, []Kind{KindSkip, KindNope}, kinds(top))
	assert.Equal(t, 2, d.CardsRemaining(), "peek does not remove")
}

func TestDeckTakeFromDiscard(t *testing.T) {
	d := NewDeck(nil, testRand())
	d.Discard(NewCard(KindSkip), NewCard(KindNope), NewCard(KindFavor))

	c, err := d.TakeFromDiscard(1)
	require.NoError(t, err)
	assert.Equal(t, KindNope, c.Kind)
	assert.Equal(t, []Kind{KindSkip, KindFavor}, kinds(d.DiscardPile()))

	_, err = d.TakeFromDiscard(5)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestShuffleKeepsCards(t *testing.T) {
	cards := []Card{NewCard(KindSkip), NewCard(KindNope), NewCard(KindFavor), NewCard(KindAttack)}
	d := NewDeck(cards, testRand())
	d.Shuffle()
	assert.ElementsMatch(t, kinds(cards), kinds(d.PeekTop(4)))
}
