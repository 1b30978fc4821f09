package dispatch

import (
	"context"
	"strings"

	"github.com/DoyleJ11/kittens-server/internal/session"
	"go.uber.org/zap"
)

// name[:max_players]
func (d *Dispatcher) createGame(ctx context.Context, c Client, payload string) error {
	name, rest, _ := strings.Cut(payload, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return errBadPayload
	}
	maxPlayers := 0
	if rest != "" {
		n, err := parseInt(rest)
		if err != nil {
			return err
		}
		maxPlayers = n
	}

	s, err := d.hub.Create(ctx, name, maxPlayers)
	if err != nil {
		return err
	}
	d.log.Info("game created", zap.String("session_id", s.ID()), zap.String("conn_id", c.ID()))
	ok, err := d.seat(ctx, c, s, session.Join{Name: name, Creator: true})
	if !ok {
		// nobody else knows the id yet
		d.hub.Remove(s.ID())
	}
	return err
}

// game_id:name
func (d *Dispatcher) joinGame(ctx context.Context, c Client, payload string) error {
	f, err := split(payload, 2, 2)
	if err != nil {
		return err
	}
	s, err := d.lookup(ctx, f[0])
	if err != nil {
		return err
	}
	_, err = d.seat(ctx, c, s, session.Join{Name: f[1]})
	return err
}

// seat joins c to s. Only a seated client is tracked and gets lobby updates.
func (d *Dispatcher) seat(ctx context.Context, c Client, s *session.Session, cmd session.Join) (bool, error) {
	ok, err := s.Join(ctx, c, cmd)
	if err != nil || !ok {
		return false, err
	}
	c.Track(s.ID())
	d.hub.Subscribe(c)
	return true, nil
}

// game_id:player_id
func (d *Dispatcher) leaveGame(ctx context.Context, c Client, payload string) error {
	f, err := gamePlayer(payload, 2)
	if err != nil {
		return err
	}
	if err := d.forward(ctx, c, f[0], session.Leave{PlayerID: f[1]}); err != nil {
		return err
	}
	c.Untrack(f[0])
	return nil
}

// game_id
func (d *Dispatcher) startGame(ctx context.Context, c Client, payload string) error {
	f, err := split(payload, 1, 1)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.Start{})
}

func (d *Dispatcher) endTurn(ctx context.Context, c Client, payload string) error {
	f, err := gamePlayer(payload, 2)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.EndTurn{PlayerID: f[1]})
}

// game_id:player_id:card_index[:target]
func (d *Dispatcher) playCard(ctx context.Context, c Client, payload string) error {
	f, err := gamePlayer(payload, 3, 4)
	if err != nil {
		return err
	}
	idx, err := parseInt(f[2])
	if err != nil {
		return err
	}
	cmd := session.PlayCard{PlayerID: f[1], Index: idx}
	if len(f) == 4 {
		cmd.Target = f[3]
	}
	return d.forward(ctx, c, f[0], cmd)
}

func (d *Dispatcher) drawCard(ctx context.Context, c Client, payload string) error {
	f, err := gamePlayer(payload, 2)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.Draw{PlayerID: f[1]})
}

// game_id:player_id:size:i1,i2,...[:target_data]
func (d *Dispatcher) useCombo(ctx context.Context, c Client, payload string) error {
	f, err := gamePlayer(payload, 4, 5)
	if err != nil {
		return err
	}
	size, err := parseInt(f[2])
	if err != nil {
		return err
	}
	indices, err := parseList(f[3])
	if err != nil {
		return err
	}
	cmd := session.UseCombo{PlayerID: f[1], Size: size, Indices: indices}
	if len(f) == 5 {
		cmd.Target = f[4]
	}
	return d.forward(ctx, c, f[0], cmd)
}

// game_id:player_id:action_id
func (d *Dispatcher) playNope(ctx context.Context, c Client, payload string) error {
	f, err := gamePlayer(payload, 3)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.Nope{PlayerID: f[1], ActionID: f[2]})
}

// game_id:player_id:position
func (d *Dispatcher) playDefuse(ctx context.Context, c Client, payload string) error {
	f, idx, err := gamePlayerIndex(payload)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.Defuse{PlayerID: f[1], Position: idx})
}

func (d *Dispatcher) giveFavor(ctx context.Context, c Client, payload string) error {
	f, idx, err := gamePlayerIndex(payload)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.GiveFavor{PlayerID: f[1], Index: idx})
}

func (d *Dispatcher) stealCard(ctx context.Context, c Client, payload string) error {
	f, idx, err := gamePlayerIndex(payload)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.Steal{PlayerID: f[1], Index: idx})
}

func (d *Dispatcher) takeFromDiscard(ctx context.Context, c Client, payload string) error {
	f, idx, err := gamePlayerIndex(payload)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.TakeDiscard{PlayerID: f[1], Index: idx})
}

// game_id[:player_id]
func (d *Dispatcher) getGameState(ctx context.Context, c Client, payload string) error {
	f, err := split(payload, 1, 2)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.GetState{})
}

func (d *Dispatcher) getPlayerHand(ctx context.Context, c Client, payload string) error {
	f, err := gamePlayer(payload, 2)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.GetHand{PlayerID: f[1]})
}

func (d *Dispatcher) getPlayers(ctx context.Context, c Client, payload string) error {
	f, err := split(payload, 1, 2)
	if err != nil {
		return err
	}
	return d.forward(ctx, c, f[0], session.GetPlayers{})
}

// Subscribes c to lobby updates; the hub answers with the current list.
func (d *Dispatcher) getGamesList(_ context.Context, c Client, _ string) error {
	d.hub.Subscribe(c)
	return nil
}
