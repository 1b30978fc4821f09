package engine

import "fmt"

// ValidCombo reports whether cards form a legal combo of len(cards):
// 2 share a kind or icon, 3 all share a kind or all share an icon,
// 5 have pairwise distinct icons.
func ValidCombo(cards []Card) bool {
	switch len(cards) {
	case 2:
		return cards[0].Kind == cards[1].Kind || cards[0].IconID == cards[1].IconID
	case 3:
		sameKind := cards[0].Kind == cards[1].Kind && cards[1].Kind == cards[2].Kind
		sameIcon := cards[0].IconID == cards[1].IconID && cards[1].IconID == cards[2].IconID
		return sameKind || sameIcon
	case 5:
		seen := make(map[byte]bool, 5)
		for _, c := range cards {
			if seen[c.IconID] {
				return false
			}
			seen[c.IconID] = true
		}
		return true
	default:
		return false
	}
}

// ComboCards resolves hand indices into cards, rejecting duplicates and out of
// range indices, and checks the result is a legal combo of size.
func ComboCards(hand []Card, size int, indices []int) ([]Card, error) {
	if len(indices) != size {
		return nil, fmt.Errorf("%w: %d indices for a %d-card combo", ErrInvalidCombo, len(indices), size)
	}
	seen := make(map[int]bool, len(indices))
	cards := make([]Card, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(hand) {
			return nil, fmt.Errorf("%w: index %d", ErrCardNotFound, i)
		}
		if seen[i] {
			return nil, fmt.Errorf("%w: index %d used twice", ErrInvalidCombo, i)
		}
		seen[i] = true
		cards = append(cards, hand[i])
	}
	if !ValidCombo(cards) {
		return nil, ErrInvalidCombo
	}
	return cards, nil
}
