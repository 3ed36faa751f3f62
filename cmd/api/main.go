package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pefman/spell-duel/internal/config"
	"github.com/pefman/spell-duel/internal/engine"
	"github.com/pefman/spell-duel/internal/game"
	"github.com/pefman/spell-duel/internal/logging"
	"github.com/pefman/spell-duel/internal/server"
	"github.com/pefman/spell-duel/internal/stats"
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "spell-duel:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	session := game.NewSession(engine.NewRNG(cfg.Seed), game.WithLogger(log.Named("session")))
	srv := server.New(session, stats.NewTracker(), log, server.Options{
		AllowedOrigin: cfg.AllowedOrigin,
		StaticDir:     cfg.StaticDir,
		Version:       buildVersion,
		BuildTime:     buildTime,
	})
	hs := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("spell duel listening", zap.String("addr", hs.Addr), zap.String("version", buildVersion), zap.Int64("seed", cfg.Seed))
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
