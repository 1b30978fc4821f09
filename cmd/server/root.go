package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/kittens-server/internal/config"
	"github.com/DoyleJ11/kittens-server/internal/dispatch"
	"github.com/DoyleJ11/kittens-server/internal/httpapi"
	"github.com/DoyleJ11/kittens-server/internal/hub"
	"github.com/DoyleJ11/kittens-server/internal/session"
	"github.com/DoyleJ11/kittens-server/internal/tcp"
	"github.com/DoyleJ11/kittens-server/internal/ws"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kittens-server",
		Short:         "Exploding Kittens game server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, log)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	h := hub.NewHub(ctx, hub.Options{
		Retention:       cfg.Retention,
		JanitorInterval: cfg.JanitorInterval,
		Logger:          log,
		Session: session.Options{
			NopeWindow:     cfg.NopeWindow,
			NopeHardExpiry: cfg.NopeHardExpiry,
			PendingTimeout: cfg.PendingTimeout,
		},
	})
	d := dispatch.New(h, log)

	tcpSrv := tcp.NewServer(d, tcp.Options{
		Addr:         cfg.TCPAddr,
		OutboxSize:   cfg.OutboxSize,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		Logger:       log,
	})
	g, gctx := errgroup.WithContext(ctx)
	httpSrv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.SetupRoutes(h, d, ws.Options{
			OutboxSize:     cfg.OutboxSize,
			WriteTimeout:   cfg.WriteTimeout,
			IdleTimeout:    cfg.IdleTimeout,
			OriginPatterns: cfg.WSOrigins,
			Logger:         log,
		}, log),
		ReadHeaderTimeout: 10 * time.Second,
		// WebSocket handlers stop with the process.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error { return tcpSrv.ListenAndServe(gctx) })
	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()

		h.Shutdown()
		var errs error
		errs = multierr.Append(errs, httpSrv.Shutdown(sctx))
		select {
		case <-h.Done():
		case <-sctx.Done():
			errs = multierr.Append(errs, errors.New("hub did not stop in time"))
		}
		return errs
	})

	err := g.Wait()
	log.Info("stopped", zap.Error(err))
	return err
}
