package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	errBadPayload   = errors.New("malformed payload")
	errGameNotFound = errors.New("game not found")
)

// split breaks payload into at least lo and at most hi colon separated fields.
// The last field keeps any further colons.
func split(payload string, lo, hi int) ([]string, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty", errBadPayload)
	}
	f := strings.SplitN(payload, ":", hi)
	if len(f) < lo {
		return nil, fmt.Errorf("%w: want %d fields, got %d", errBadPayload, lo, len(f))
	}
	return f, nil
}

// gamePlayer splits a payload whose first two fields are the game and
// player ids. With one bound the field count is exact.
func gamePlayer(payload string, bounds ...int) ([]string, error) {
	lo, hi := bounds[0], bounds[0]
	if len(bounds) > 1 {
		hi = bounds[1]
	}
	f, err := split(payload, lo, hi)
	if err != nil {
		return nil, err
	}
	if err := validID(f[1]); err != nil {
		return nil, err
	}
	return f, nil
}

// game_id:player_id:index
func gamePlayerIndex(payload string) ([]string, int, error) {
	f, err := gamePlayer(payload, 3)
	if err != nil {
		return nil, 0, err
	}
	n, err := parseInt(f[2])
	if err != nil {
		return nil, 0, err
	}
	return f, n, nil
}

func validID(s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("%w: bad id %q", errBadPayload, s)
	}
	return nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return n, nil
}

// parseList reads comma separated card indices.
func parseList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := parseInt(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
