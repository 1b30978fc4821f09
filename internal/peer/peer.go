package peer

import (
	"sync"

	"github.com/google/uuid"
)

// Peer is the outbound half of one client connection. Frames queue in a
// bounded outbox drained by the transport's writer goroutine.
type Peer struct {
	id     string
	outbox chan []byte
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	joined map[string]struct{} // session ids
}

func New(outboxSize int) *Peer {
	if outboxSize <= 0 {
		outboxSize = 64
	}
	return &Peer{
		id:     uuid.NewString(),
		outbox: make(chan []byte, outboxSize),
		done:   make(chan struct{}),
		joined: make(map[string]struct{}),
	}
}

func (p *Peer) ID() string { return p.id }

// Send queues frame without blocking. A full outbox means the client is
// not keeping up; the peer is closed and Send reports false.
func (p *Peer) Send(frame []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.outbox <- frame:
		return true
	default:
		p.Close()
		return false
	}
}

// Outbox is read by the writer goroutine.
func (p *Peer) Outbox() <-chan []byte { return p.outbox }

// Done is closed when the peer is closed.
func (p *Peer) Done() <-chan struct{} { return p.done }

func (p *Peer) Close() { p.once.Do(func() { close(p.done) }) }

func (p *Peer) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Track remembers that this connection joined sessionID.
func (p *Peer) Track(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.joined[sessionID] = struct{}{}
}

func (p *Peer) Untrack(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.joined, sessionID)
}

// Sessions lists the sessions this connection has joined.
func (p *Peer) Sessions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.joined))
	for id := range p.joined {
		out = append(out, id)
	}
	return out
}
