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

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"forum/internal/config"
	"forum/internal/controller"
	"forum/internal/db"
	"forum/internal/logger"
	"forum/internal/router"
	"forum/internal/server"
	"forum/internal/session"
	"forum/internal/vote"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool `help:"Enable debug mode." env:"FORUM_DEBUG"`
		Version kong.VersionFlag

		config.Config `embed:""`
	}
)

func main() {
	envFile := os.Getenv("FORUM_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmd := kong.Parse(&cli,
		kong.Name("forum"),
		kong.Description("Forum server: HTML pages and a JSON API under /api."),
		kong.Vars{"version": version},
	)
	cmd.FatalIfErrorf(run(&cli.Config, cli.Debug))
}

func run(cfg *config.Config, debug bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Setup(debug)
	zerolog.DefaultContextLogger = &log
	log.Info().Str("version", version).Bool("debug", debug).Msg("Starting server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	sessions := session.NewStore(
		session.WithTTL(cfg.SessionTTL),
		session.WithSweepInterval(cfg.SessionSweep),
		session.WithLogger(log),
	)
	sessions.Start()
	defer func() {
		sessions.Stop()
		sessions.Clear()
	}()

	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return err
	}

	r := router.New(controller.Deps{DB: database, Votes: vote.NewService(database), Sessions: sessions})
	srv, err := server.New(r, sessions, log, server.Options{
		CookieSecure:   cfg.CookieSecure,
		CORSOrigins:    cfg.CORSOrigins,
		LoginRate:      rate.Limit(cfg.LoginRate),
		LoginBurst:     cfg.LoginBurst,
		TrustedProxies: proxies,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Listen).Str("db", cfg.DBPath).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info().Msg("Server stopped cleanly")
	return nil
}
