package engine

import "fmt"

type Kind byte

const (
	KindExplodingKitten Kind = 0x10
	KindDefuse          Kind = 0x11
	KindNope            Kind = 0x12

	KindAttack       Kind = 0x20
	KindSkip         Kind = 0x21
	KindFavor        Kind = 0x22
	KindShuffle      Kind = 0x23
	KindSeeTheFuture Kind = 0x24

	KindRainbowCat    Kind = 0x30
	KindBeardCat      Kind = 0x31
	KindPotatoCat     Kind = 0x32
	KindWatermelonCat Kind = 0x33
	KindTacoCat       Kind = 0x34
)

// Card is an immutable card value. Two cards of the same kind are
// interchangeable.
type Card struct {
	Kind        Kind
	Name        string
	Description string
	IconID      byte
}

// IsCat reports whether the card only has an effect inside a combo.
func (c Card) IsCat() bool {
	return c.Kind >= KindRainbowCat && c.Kind <= KindTacoCat
}

func (c Card) String() string { return c.Name }

var catalog = map[Kind]Card{
	KindExplodingKitten: {Kind: KindExplodingKitten, Name: "Exploding Kitten", Description: "Unless you have a Defuse, you explode and are out of the game.", IconID: 0},
	KindDefuse:          {Kind: KindDefuse, Name: "Defuse", Description: "Put an Exploding Kitten back into the deck anywhere you like.", IconID: 1},
	KindNope:            {Kind: KindNope, Name: "Nope", Description: "Stop an Attack or a combo. Nope a Nope to undo it.", IconID: 2},
	KindAttack:          {Kind: KindAttack, Name: "Attack", Description: "End your turn without drawing. The next player takes two turns.", IconID: 3},
	KindSkip:            {Kind: KindSkip, Name: "Skip", Description: "End your turn without drawing.", IconID: 4},
	KindFavor:           {Kind: KindFavor, Name: "Favor", Description: "Another player gives you a card of their choice.", IconID: 5},
	KindShuffle:         {Kind: KindShuffle, Name: "Shuffle", Description: "Shuffle the draw pile.", IconID: 6},
	KindSeeTheFuture:    {Kind: KindSeeTheFuture, Name: "See the Future", Description: "Privately look at the top three cards of the draw pile.", IconID: 7},
	KindRainbowCat:      {Kind: KindRainbowCat, Name: "Rainbow-Ralphing Cat", Description: "Cat card, only playable in a combo.", IconID: 8},
	KindBeardCat:        {Kind: KindBeardCat, Name: "Beard Cat", Description: "Cat card, only playable in a combo.", IconID: 9},
	KindPotatoCat:       {Kind: KindPotatoCat, Name: "Hairy Potato Cat", Description: "Cat card, only playable in a combo.", IconID: 10},
	KindWatermelonCat:   {Kind: KindWatermelonCat, Name: "Cattermelon", Description: "Cat card, only playable in a combo.", IconID: 11},
	KindTacoCat:         {Kind: KindTacoCat, Name: "Tacocat", Description: "Cat card, only playable in a combo.", IconID: 12},
}

// Kinds lists every card kind in catalog order.
var Kinds = []Kind{
	KindExplodingKitten, KindDefuse, KindNope,
	KindAttack, KindSkip, KindFavor, KindShuffle, KindSeeTheFuture,
	KindRainbowCat, KindBeardCat, KindPotatoCat, KindWatermelonCat, KindTacoCat,
}

// NewCard returns the catalog card for kind. It panics on an unknown kind
// since kinds only ever come from this package's constants.
func NewCard(kind Kind) Card {
	c, ok := catalog[kind]
	if !ok {
		panic(fmt.Sprintf("engine: unknown card kind 0x%02X", byte(kind)))
	}
	return c
}
