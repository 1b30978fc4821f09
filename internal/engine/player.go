package engine

import (
	"fmt"
	"slices"
	"sort"

	"golang.org/x/text/cases"
)

type Player struct {
	ID     string
	Name   string
	ConnID string

	// Hand is kept sorted by kind. Sorting is stable so equal kinds keep
	// the order they arrived in.
	Hand []Card

	Alive      bool
	TurnOrder  int
	ExtraTurns int
}

func NewPlayer(id, name, connID string) *Player {
	return &Player{ID: id, Name: name, ConnID: connID, Alive: true}
}

func (p *Player) AddToHand(cards ...Card) {
	p.Hand = append(p.Hand, cards...)
	sort.SliceStable(p.Hand, func(i, j int) bool { return p.Hand[i].Kind < p.Hand[j].Kind })
}

func (p *Player) RemoveAt(index int) (Card, error) {
	if index < 0 || index >= len(p.Hand) {
		return Card{}, fmt.Errorf("%w: index %d of %d", ErrCardNotFound, index, len(p.Hand))
	}
	c := p.Hand[index]
	p.Hand = slices.Delete(p.Hand, index, index+1)
	return c, nil
}

// RemoveIndices removes every listed index at once, so earlier removals do
// not shift later ones. Cards come back in the order of indices.
func (p *Player) RemoveIndices(indices []int) ([]Card, error) {
	out := make([]Card, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(p.Hand) {
			return nil, fmt.Errorf("%w: index %d of %d", ErrCardNotFound, i, len(p.Hand))
		}
		out = append(out, p.Hand[i])
	}
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	if len(sorted) != len(indices) {
		return nil, fmt.Errorf("%w: duplicate index", ErrInvalidCombo)
	}
	for k := len(sorted) - 1; k >= 0; k-- {
		p.Hand = slices.Delete(p.Hand, sorted[k], sorted[k]+1)
	}
	return out, nil
}

// RemoveKind takes the first card of kind out of the hand.
func (p *Player) RemoveKind(kind Kind) (Card, bool) {
	i := p.IndexOfKind(kind)
	if i < 0 {
		return Card{}, false
	}
	c, _ := p.RemoveAt(i)
	return c, true
}

func (p *Player) IndexOfKind(kind Kind) int {
	return slices.IndexFunc(p.Hand, func(c Card) bool { return c.Kind == kind })
}

func (p *Player) HasKind(kind Kind) bool { return p.IndexOfKind(kind) >= 0 }

// IndexOfName finds a card by display name, ignoring case.
func (p *Player) IndexOfName(name string) int {
	fold := cases.Fold()
	want := fold.String(name)
	return slices.IndexFunc(p.Hand, func(c Card) bool { return fold.String(c.Name) == want })
}
