package hub

import (
	"context"
	"errors"

	"github.com/DoyleJ11/kittens-server/internal/session"
	"github.com/DoyleJ11/kittens-server/internal/types"
)

var ErrHubClosed = errors.New("hub closed")

// ask posts m and waits for the reply on ch.
func ask[T any](ctx context.Context, h *Hub, m HubMsg, ch chan T) (T, error) {
	var zero T
	select {
	case h.inbox <- m:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-h.done:
		return zero, ErrHubClosed
	}
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-h.done:
		return zero, ErrHubClosed
	}
}

func (h *Hub) Create(ctx context.Context, name string, maxPlayers int) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	return ask(ctx, h, CreateSession{Name: name, MaxPlayers: maxPlayers, Reply: reply}, reply)
}

// Get returns the session with id, or nil.
func (h *Hub) Get(ctx context.Context, id string) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	return ask(ctx, h, GetSession{ID: id, Reply: reply}, reply)
}

func (h *Hub) Games(ctx context.Context) ([]types.GameInfo, error) {
	reply := make(chan []types.GameInfo, 1)
	return ask(ctx, h, ListGames{Reply: reply}, reply)
}

func (h *Hub) Subscribe(c session.Conn) { h.post(Subscribe{Conn: c}) }

func (h *Hub) Unsubscribe(connID string) { h.post(Unsubscribe{ConnID: connID}) }

func (h *Hub) Remove(id string) { h.post(RemoveSession{ID: id}) }

// Sweep runs the janitor now and waits for it.
func (h *Hub) Sweep(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case h.inbox <- sweep{Done: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubClosed
	}
}
