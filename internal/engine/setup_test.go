package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGameSetupCounts(t *testing.T) {
	cases := []struct {
		players      int
		extraDefuses int
	}{
		{players: 2, extraDefuses: 2},
		{players: 3, extraDefuses: 3},
		{players: 4, extraDefuses: 2},
		{players: 5, extraDefuses: 1},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d players", tc.players), func(t *testing.T) {
			deck, hands, err := CreateGameSetup(tc.players, testRand())
			require.NoError(t, err)
			require.Len(t, hands, tc.players)

			counts := map[Kind]int{}
			for _, c := range deck {
				counts[c.Kind]++
			}
			for _, h := range hands {
				require.Len(t, h, HandSize+1)
				defuses := 0
				for _, c := range h {
					counts[c.Kind]++
					if c.Kind == KindDefuse {
						defuses++
					}
					assert.NotEqual(t, KindExplodingKitten, c.Kind)
				}
				assert.GreaterOrEqual(t, defuses, 1)
			}

			assert.Equal(t, 46, BasePoolSize())
			assert.Equal(t, tc.players-1, counts[KindExplodingKitten])
			assert.Equal(t, tc.players+tc.extraDefuses, counts[KindDefuse])
			assert.Equal(t, 5, counts[KindNope])
			assert.Equal(t, 4, counts[KindTacoCat])
			assert.Equal(t, 46-HandSize*tc.players+tc.players-1+tc.extraDefuses, len(deck))
			assert.Equal(t, TotalCards(tc.players), len(deck)+tc.players*(HandSize+1))
		})
	}
}

func TestCreateGameSetupRejectsPlayerCount(t *testing.T) {
	for _, n := range []int{0, 1, 6} {
		_, _, err := CreateGameSetup(n, testRand())
		assert.ErrorIs(t, err, ErrPlayerCount)
	}
}

func TestValidCombo(t *testing.T) {
	cat := NewCard(KindTacoCat)
	beard := NewCard(KindBeardCat)
	iconTwin := Card{Kind: KindSkip, Name: "odd skip", IconID: cat.IconID}

	cases := []struct {
		name  string
		cards []Card
		want  bool
	}{
		{name: "pair same kind", cards: []Card{cat, cat}, want: true},
		{name: "pair same icon", cards: []Card{cat, iconTwin}, want: true},
		{name: "pair mismatch", cards: []Card{cat, beard}, want: false},
		{name: "triple same kind", cards: []Card{cat, cat, cat}, want: true},
		{name: "triple mixed", cards: []Card{cat, cat, beard}, want: false},
		{name: "five distinct", cards: []Card{
			NewCard(KindTacoCat), NewCard(KindBeardCat), NewCard(KindSkip), NewCard(KindNope), NewCard(KindFavor),
		}, want: true},
		{name: "five with repeat", cards: []Card{
			NewCard(KindTacoCat), NewCard(KindTacoCat), NewCard(KindSkip), NewCard(KindNope), NewCard(KindFavor),
		}, want: false},
		{name: "four cards", cards: []Card{cat, cat, cat, cat}, want: false},
		{name: "one card", cards: []Card{cat}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidCombo(tc.cards))
		})
	}
}

func TestComboCardsValidatesIndices(t *testing.T) {
	hand := []Card{NewCard(KindTacoCat), NewCard(KindTacoCat), NewCard(KindBeardCat)}

	_, err := ComboCards(hand, 2, []int{0, 0})
	assert.ErrorIs(t, err, ErrInvalidCombo)

	_, err = ComboCards(hand, 2, []int{0, 7})
	assert.ErrorIs(t, err, ErrCardNotFound)

	_, err = ComboCards(hand, 3, []int{0, 1})
	assert.ErrorIs(t, err, ErrInvalidCombo)

	cards, err := ComboCards(hand, 2, []int{1, 0})
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestPlayerHandSortedAndSearchable(t *testing.T) {
	p := NewPlayer("p", "P", "c")
	p.AddToHand(NewCard(KindTacoCat), NewCard(KindDefuse), NewCard(KindSkip))
	assert.Equal(t, []Kind{KindDefuse, KindSkip, KindTacoCat}, kinds(p.Hand))

	assert.Equal(t, 2, p.IndexOfName("TACOCAT"))
	assert.Equal(t, -1, p.IndexOfName("nope"))

	removed, err := p.RemoveIndices([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindTacoCat, KindDefuse}, kinds(removed))
	assert.Equal(t, []Kind{KindSkip}, kinds(p.Hand))

	_, ok := p.RemoveKind(KindNope)
	assert.False(t, ok)
}
