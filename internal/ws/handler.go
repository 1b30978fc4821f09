package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/DoyleJ11/kittens-server/internal/dispatch"
	"github.com/DoyleJ11/kittens-server/internal/peer"
	"github.com/DoyleJ11/kittens-server/internal/protocol"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

type Options struct {
	OutboxSize   int
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// OriginPatterns loosens the same-origin check, e.g. "localhost:*".
	OriginPatterns []string
	Logger         *zap.Logger
}

// Handler upgrades to a WebSocket. Every binary message carries exactly one
// frame of the TCP wire format.
func Handler(d *dispatch.Dispatcher, opts Options) http.HandlerFunc {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 3 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	baseLog := opts.Logger.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			baseLog.Debug("accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		conn.SetReadLimit(protocol.MaxFrameSize)

		p := peer.New(opts.OutboxSize)
		log := baseLog.With(zap.String("conn_id", p.ID()))
		log.Info("connected")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.Done():
					return
				case b := <-p.Outbox():
					wctx, wcancel := context.WithTimeout(ctx, opts.WriteTimeout)
					err := conn.Write(wctx, websocket.MessageBinary, b)
					wcancel()
					if err != nil {
						log.Debug("write failed", zap.Error(err))
						return
					}
				}
			}
		}()

		p.Send(protocol.MessageFrame("Welcome to Exploding Kittens!"))

		// Reader loop
		for {
			rctx, rcancel := ctx, context.CancelFunc(func() {})
			if opts.IdleTimeout > 0 {
				rctx, rcancel = context.WithTimeout(ctx, opts.IdleTimeout)
			}
			typ, data, err := conn.Read(rctx)
			rcancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, context.Canceled) {
						log.Debug("read failed", zap.Error(err))
					}
				}
				break
			}
			if typ != websocket.MessageBinary {
				p.Send(protocol.ErrorFrame(protocol.CodeInvalidAction))
				continue
			}

			f, n, err := protocol.Decode(data)
			if err != nil || n != len(data) {
				log.Debug("bad frame", zap.Error(err), zap.Int("bytes", len(data)))
				p.Send(protocol.ErrorFrame(protocol.CodeInvalidAction))
				continue
			}
			d.Handle(ctx, p, f)
		}

		p.Close()
		cancel()
		<-writerDone

		dctx, dcancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
		defer dcancel()
		d.Disconnect(dctx, p)
		log.Info("disconnected")
	}
}
