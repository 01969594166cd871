package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/rogerio-castellano/abc-console/internal/config"
	"github.com/rogerio-castellano/abc-console/internal/console"
	api "github.com/rogerio-castellano/abc-console/internal/http"
	"github.com/rogerio-castellano/abc-console/internal/http/handlers"
	rl "github.com/rogerio-castellano/abc-console/internal/http/rate_limiter"
	"github.com/rogerio-castellano/abc-console/internal/logging"
	"github.com/rogerio-castellano/abc-console/internal/repo"
	"github.com/rogerio-castellano/abc-console/internal/terminal"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	products := repo.NewRESTProductRepository(cfg.Backend.URL, repo.WithTimeout(cfg.Backend.Timeout))
	term := terminal.New(os.Stdin, os.Stdout)
	c := console.New(products, term, log)

	log.Info("starting abc console", "backend", cfg.Backend.URL, "web_addr", cfg.Web.Addr)

	var srv *http.Server
	if cfg.Web.Addr != "" {
		srv, err = startWebMirror(ctx, cfg.Web, c, log)
		if err != nil {
			log.Error("could not start web mirror", "error", err)
			os.Exit(1)
		}
	}

	c.Start(ctx)
	if err := terminal.NewLoop(c, term).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("console stopped", "error", err)
	}

	// The mirror posts flows; stop it before joining them.
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("web mirror shutdown failed", "error", err)
		}
	}
	c.Wait()
}

func startWebMirror(ctx context.Context, cfg config.WebConfig, c *console.Console, log *slog.Logger) (*http.Server, error) {
	s, err := handlers.NewServer(ctx, c, log)
	if err != nil {
		return nil, err
	}

	visitors := rl.NewVisitors(cfg.Rate, cfg.Burst)
	go visitors.StartCleanupLoop(ctx, time.Minute, 5*time.Minute)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(s, api.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			Visitors:       visitors,
			Logger:         log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("✅ web mirror running", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("web mirror failed", "error", err)
		}
	}()
	return srv, nil
}
