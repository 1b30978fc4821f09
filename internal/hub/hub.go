package hub

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/DoyleJ11/kittens-server/internal/engine"
	"github.com/DoyleJ11/kittens-server/internal/protocol"
	"github.com/DoyleJ11/kittens-server/internal/session"
	"github.com/DoyleJ11/kittens-server/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// emptyGrace keeps a freshly created session alive until its creator joins.
const emptyGrace = time.Minute

type HubMsg interface{ isHubMsg() }

type CreateSession struct {
	Name       string
	MaxPlayers int
	Reply      chan *session.Session
}

type GetSession struct {
	ID    string
	Reply chan *session.Session // nil when unknown
}

type RemoveSession struct {
	ID string
}

// ListGames replies with the joinable games, newest first.
type ListGames struct {
	Reply chan []types.GameInfo
}

// Subscribe sends Conn the games list now and on every change.
type Subscribe struct {
	Conn session.Conn
}

type Unsubscribe struct {
	ConnID string
}

type ShutdownHub struct{}

type sessionChanged struct {
	info session.Info
}

type sweep struct {
	Done chan struct{}
}

func (CreateSession) isHubMsg()  {}
func (GetSession) isHubMsg()     {}
func (RemoveSession) isHubMsg()  {}
func (ListGames) isHubMsg()      {}
func (Subscribe) isHubMsg()      {}
func (Unsubscribe) isHubMsg()    {}
func (ShutdownHub) isHubMsg()    {}
func (sessionChanged) isHubMsg() {}
func (sweep) isHubMsg()          {}

type Options struct {
	Retention       time.Duration
	JanitorInterval time.Duration
	Session         session.Options
	Logger          *zap.Logger
	Now             func() time.Time
}

type Hub struct {
	inbox       chan HubMsg
	sessions    map[string]*session.Session
	infos       map[string]session.Info
	subscribers map[string]session.Conn
	opts        Options
	log         *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

func NewHub(parent context.Context, opts Options) *Hub {
	if opts.Retention <= 0 {
		opts.Retention = time.Hour
	}
	if opts.JanitorInterval <= 0 {
		opts.JanitorInterval = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Session.Logger == nil {
		opts.Session.Logger = opts.Logger
	}
	if opts.Session.Now == nil {
		opts.Session.Now = opts.Now
	}

	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:       make(chan HubMsg, 64),
		sessions:    make(map[string]*session.Session),
		infos:       make(map[string]session.Info),
		subscribers: make(map[string]session.Conn),
		opts:        opts,
		log:         opts.Logger.Named("hub"),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub goroutine has exited.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) Shutdown() { h.post(ShutdownHub{}) }

func (h *Hub) post(m HubMsg) {
	select {
	case h.inbox <- m:
	case <-h.ctx.Done():
	}
}

func (h *Hub) loop() {
	defer close(h.done)
	ticker := time.NewTicker(h.opts.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case <-ticker.C:
			h.evict()

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				msg.Reply <- h.create(msg)

			case GetSession:
				msg.Reply <- h.sessions[msg.ID] // May be nil

			case RemoveSession:
				if h.remove(msg.ID, "removed") {
					h.publishGames()
				}

			case ListGames:
				msg.Reply <- h.games()

			case Subscribe:
				h.subscribers[msg.Conn.ID()] = msg.Conn
				if f := h.gamesFrame(); f != nil && !msg.Conn.Send(f) {
					delete(h.subscribers, msg.Conn.ID())
				}

			case Unsubscribe:
				delete(h.subscribers, msg.ConnID)

			case sessionChanged:
				if _, ok := h.sessions[msg.info.ID]; !ok {
					break // already evicted
				}
				h.infos[msg.info.ID] = msg.info
				h.publishGames()

			case sweep:
				h.evict()
				close(msg.Done)

			case ShutdownHub:
				h.shutdown()
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) create(msg CreateSession) *session.Session {
	id := uuid.NewString()
	opts := h.opts.Session
	opts.OnChange = func(info session.Info) { h.post(sessionChanged{info: info}) }

	s := session.New(h.ctx, id, msg.Name, msg.MaxPlayers, opts)
	h.sessions[id] = s
	h.infos[id] = session.Info{
		ID:         id,
		Name:       msg.Name,
		MaxPlayers: engine.ClampMaxPlayers(msg.MaxPlayers),
		State:      engine.StateWaitingForPlayers,
		CreatedAt:  h.opts.Now(),
	}
	h.log.Info("session created", zap.String("session_id", id), zap.String("name", msg.Name))
	return s
}

func (h *Hub) remove(id, why string) bool {
	s, ok := h.sessions[id]
	if !ok {
		return false
	}
	s.Stop()
	delete(h.sessions, id)
	delete(h.infos, id)
	h.log.Info("session "+why, zap.String("session_id", id))
	return true
}

// evict drops finished, abandoned and expired sessions.
func (h *Hub) evict() {
	now := h.opts.Now()
	removed := false
	for id, info := range h.infos {
		age := now.Sub(info.CreatedAt)
		switch {
		case info.State == engine.StateGameOver:
			removed = h.remove(id, "finished") || removed
		case info.Players == 0 && age >= emptyGrace:
			removed = h.remove(id, "abandoned") || removed
		case age >= h.opts.Retention:
			removed = h.remove(id, "expired") || removed
		}
	}
	if removed {
		h.publishGames()
	}
}

func (h *Hub) games() []types.GameInfo {
	out := make([]types.GameInfo, 0, len(h.infos))
	for _, info := range h.infos {
		if !info.Joinable() {
			continue
		}
		out = append(out, types.GameInfo{
			ID:           info.ID,
			Name:         info.Name,
			PlayersCount: info.Players,
			MaxPlayers:   info.MaxPlayers,
			Status:       info.State.String(),
			CreatedAt:    info.CreatedAt,
			CreatorName:  info.CreatorName,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (h *Hub) gamesFrame() []byte {
	games := h.games()
	for {
		data, err := json.Marshal(games)
		if err != nil {
			h.log.Error("encode games list", zap.Error(err))
			return nil
		}
		if f, err := protocol.Encode(protocol.CmdGamesListUpdated, data); err == nil {
			return f
		}
		// keep the newest games that fit in one frame
		games = games[:len(games)/2]
	}
}

func (h *Hub) publishGames() {
	if len(h.subscribers) == 0 {
		return
	}
	f := h.gamesFrame()
	if f == nil {
		return
	}
	for id, c := range h.subscribers {
		if !c.Send(f) {
			delete(h.subscribers, id)
		}
	}
}

func (h *Hub) shutdown() {
	for id := range h.sessions {
		h.remove(id, "stopped")
	}
	clear(h.subscribers)
}
