package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/DoyleJ11/kittens-server/internal/engine"
	"go.uber.org/zap"
)

// Conn is the outbound side of a client connection.
type Conn interface {
	ID() string
	// Send queues one encoded frame. It must not block; false means the
	// connection is gone or too slow and has been dropped.
	Send(frame []byte) bool
}

type Options struct {
	NopeWindow     time.Duration
	NopeHardExpiry time.Duration
	PendingTimeout time.Duration

	Logger *zap.Logger
	Now    func() time.Time
	Rand   *rand.Rand

	// OnChange receives the session summary after every change that the
	// lobby list cares about. It runs on the session goroutine.
	OnChange func(Info)
}

func DefaultOptions() Options {
	return Options{
		NopeWindow:     5 * time.Second,
		NopeHardExpiry: 30 * time.Second,
		PendingTimeout: 30 * time.Second,
	}
}

func (o *Options) fill() {
	d := DefaultOptions()
	if o.NopeWindow <= 0 {
		o.NopeWindow = d.NopeWindow
	}
	if o.NopeHardExpiry <= 0 {
		o.NopeHardExpiry = d.NopeHardExpiry
	}
	if o.PendingTimeout <= 0 {
		o.PendingTimeout = d.PendingTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.OnChange == nil {
		o.OnChange = func(Info) {}
	}
}

// Info is the summary a session publishes for the lobby list.
type Info struct {
	ID          string
	Name        string
	Players     int
	MaxPlayers  int
	State       engine.State
	CreatedAt   time.Time
	CreatorName string
}

func (i Info) Joinable() bool {
	return i.State == engine.StateWaitingForPlayers && i.Players < i.MaxPlayers
}

var ErrSessionClosed = errors.New("session closed")

// Session owns one game. Every mutation runs on its own goroutine, fed by
// the inbox.
type Session struct {
	id   string
	name string

	inbox chan Msg
	game  *engine.Game
	conns map[string]Conn // player id -> connection

	interrupt *interrupt
	pending   *pending
	gen       uint64

	creator string
	opts    Options
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(parent context.Context, id, name string, maxPlayers int, opts Options) *Session {
	opts.fill()
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		id:     id,
		name:   name,
		inbox:  make(chan Msg, 64),
		game:   engine.NewGame(id, maxPlayers, opts.Rand, opts.Now()),
		conns:  make(map[string]Conn),
		opts:   opts,
		log:    opts.Logger.Named("session").With(zap.String("session_id", id)),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *Session) ID() string { return s.id }

// Inbox exposes the inbox so callers can post messages directly.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the session goroutine has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Stop() { s.cancel() }

// Do runs cmd for conn and waits until the session has handled it. A
// rejected command is answered on conn, so Do only reports delivery errors.
func (s *Session) Do(ctx context.Context, conn Conn, cmd Command) error {
	_, err := s.call(ctx, conn, cmd)
	return err
}

// Join seats conn and reports whether it got a seat. A refused join has
// already been answered on conn.
func (s *Session) Join(ctx context.Context, conn Conn, cmd Join) (bool, error) {
	rejected, err := s.call(ctx, conn, cmd)
	if err != nil {
		return false, err
	}
	return rejected == nil, nil
}

// call returns the command's rejection separately from delivery failures.
func (s *Session) call(ctx context.Context, conn Conn, cmd Command) (rejected, err error) {
	done := make(chan error, 1)
	select {
	case s.inbox <- Request{Conn: conn, Cmd: cmd, Done: done}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrSessionClosed
	}
	select {
	case rejected = <-done:
		return rejected, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrSessionClosed
	}
}

// Disconnect eliminates or unseats every player bound to connID.
func (s *Session) Disconnect(ctx context.Context, connID string) error {
	done := make(chan struct{})
	select {
	case s.inbox <- Disconnect{ConnID: connID, Done: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrSessionClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrSessionClosed
	}
}

func (s *Session) loop() {
	defer close(s.done)
	defer s.stopTimers()
	s.publish()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Debug("session stopped")
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Request:
				s.handleRequest(msg)

			case Disconnect:
				s.safely(func() { s.disconnect(msg.ConnID) })
				close(msg.Done)

			case timerFired:
				s.safely(func() { s.onTimer(msg) })

			case Inspect:
				// test-only: read game state without data races
				msg.Fn(s)
				close(msg.Done)

			case Shutdown:
				s.cancel()
				return
			}
		}
	}
}

func (s *Session) handleRequest(req Request) {
	var rejected error
	defer func() { req.Done <- rejected }()
	defer func() {
		if r := recover(); r != nil {
			rejected = fmt.Errorf("panic: %v", r)
			s.log.Error("panic handling command",
				zap.String("conn_id", req.Conn.ID()),
				zap.String("command", fmt.Sprintf("%T", req.Cmd)),
				zap.Any("panic", r),
				zap.Stack("stack"))
			req.Conn.Send(messageFrame(fmt.Sprintf("internal error: %v", r)))
		}
	}()

	if rejected = s.apply(req.Conn, req.Cmd); rejected != nil {
		s.reject(req.Conn, rejected)
	}
}

func (s *Session) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in session", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	fn()
}

func (s *Session) post(m Msg) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

func (s *Session) info() Info {
	creator := s.creator
	if len(s.game.Players) > 0 {
		creator = s.game.Players[0].Name
	}
	return Info{
		ID:          s.id,
		Name:        s.name,
		Players:     len(s.game.Players),
		MaxPlayers:  s.game.MaxPlayers,
		State:       s.game.State,
		CreatedAt:   s.game.CreatedAt,
		CreatorName: creator,
	}
}

func (s *Session) publish() { s.opts.OnChange(s.info()) }

func (s *Session) stopTimers() {
	if s.interrupt != nil {
		s.interrupt.stop()
	}
	if s.pending != nil {
		s.pending.stop()
	}
}
