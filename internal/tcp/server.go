package tcp

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/DoyleJ11/kittens-server/internal/dispatch"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Addr         string
	OutboxSize   int
	WriteTimeout time.Duration
	// IdleTimeout closes connections that send nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration
	Logger      *zap.Logger
}

type Server struct {
	d    *dispatch.Dispatcher
	opts Options
	log  *zap.Logger

	mu sync.Mutex
	ln net.Listener
}

func NewServer(d *dispatch.Dispatcher, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":7777"
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 3 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{d: d, opts: opts, log: opts.Logger.Named("tcp")}
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Addr is the bound listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections on ln until ctx is cancelled. It closes ln and
// waits for every connection goroutine before returning.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.log.Info("listening", zap.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return ln.Close()
	})
	g.Go(func() error {
		for {
			nc, err := ln.Accept()
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				var ne net.Error
				if errors.As(err, &ne) && ne.Timeout() {
					continue
				}
				return err
			}
			g.Go(func() error {
				s.serveConn(gctx, nc)
				return nil
			})
		}
	})

	err := g.Wait()
	s.log.Info("stopped", zap.Error(err))
	return err
}
