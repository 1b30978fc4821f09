package tcp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/DoyleJ11/kittens-server/internal/peer"
	"github.com/DoyleJ11/kittens-server/internal/protocol"
	"go.uber.org/zap"
)

const (
	readChunk = 4096
	// disconnectTimeout bounds the cleanup after a connection drops.
	disconnectTimeout = 5 * time.Second
)

const welcome = "Welcome to Exploding Kittens!\n" +
	"Create a game, or ask for the games list to find one to join."

func (s *Server) serveConn(ctx context.Context, nc net.Conn) {
	if tc, ok := nc.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
		_ = tc.SetKeepAlive(true)
	}

	p := peer.New(s.opts.OutboxSize)
	log := s.log.With(zap.String("conn_id", p.ID()), zap.String("remote", nc.RemoteAddr().String()))
	log.Info("connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Closing the socket unblocks the reader on shutdown or slow consumer.
	go func() {
		select {
		case <-ctx.Done():
		case <-p.Done():
		}
		_ = nc.Close()
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(nc, p, log)
	}()

	p.Send(protocol.MessageFrame(welcome))
	err := s.readLoop(ctx, nc, p, log)
	p.Close()
	<-writerDone

	dctx, dcancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
	defer dcancel()
	s.d.Disconnect(dctx, p)

	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
		log.Info("disconnected", zap.Error(err))
		return
	}
	log.Info("disconnected")
}

func (s *Server) writeLoop(nc net.Conn, p *peer.Peer, log *zap.Logger) {
	for {
		select {
		case <-p.Done():
			return
		case b := <-p.Outbox():
			_ = nc.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if _, err := nc.Write(b); err != nil {
				log.Debug("write failed", zap.Error(err))
				p.Close()
				return
			}
		}
	}
}

func (s *Server) readLoop(ctx context.Context, nc net.Conn, p *peer.Peer, log *zap.Logger) error {
	var buf []byte
	chunk := make([]byte, readChunk)
	for {
		if s.opts.IdleTimeout > 0 {
			_ = nc.SetReadDeadline(time.Now().Add(s.opts.IdleTimeout))
		}
		n, err := nc.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			buf = s.drain(ctx, p, buf, log)
		}
		if err != nil {
			return err
		}
		if p.Closed() {
			return nil
		}
	}
}

// drain dispatches every complete frame in buf and returns the unconsumed
// tail. Bytes before a start byte are skipped; a malformed frame is skipped
// one byte at a time until the next start byte.
func (s *Server) drain(ctx context.Context, p *peer.Peer, buf []byte, log *zap.Logger) []byte {
	for len(buf) > 0 {
		i := bytes.IndexByte(buf, protocol.StartByte)
		if i < 0 {
			log.Debug("dropped garbage", zap.Int("bytes", len(buf)))
			return buf[:0]
		}
		if i > 0 {
			log.Debug("dropped garbage", zap.Int("bytes", i))
			buf = buf[i:]
		}

		f, n, err := protocol.Decode(buf)
		switch {
		case err == nil:
			buf = buf[n:]
			log.Debug("frame", zap.Stringer("command", f.Command), zap.Int("bytes", len(f.Payload)))
			s.d.Handle(ctx, p, f)
		case errors.Is(err, protocol.ErrShortFrame):
			return compact(buf)
		case errors.Is(err, protocol.ErrUnknownCommand), errors.Is(err, protocol.ErrPayloadTooLarge):
			log.Debug("rejected frame", zap.Error(err))
			p.Send(protocol.ErrorFrame(protocol.CodeInvalidAction))
			if n > 0 {
				buf = buf[n:]
			} else {
				buf = buf[1:]
			}
		default:
			log.Debug("resync", zap.Error(err))
			buf = buf[1:]
		}
	}
	return buf[:0]
}

// compact copies the pending bytes so the consumed prefix can be collected.
func compact(b []byte) []byte {
	return append(b[:0:0], b...)
}
