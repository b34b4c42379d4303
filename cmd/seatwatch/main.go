package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/seatwatch/internal/config"
	"github.com/claude/seatwatch/internal/extract"
	"github.com/claude/seatwatch/internal/fetch"
	"github.com/claude/seatwatch/internal/notify"
	"github.com/claude/seatwatch/internal/scan"
	"github.com/claude/seatwatch/internal/schedule"
	"github.com/claude/seatwatch/internal/server"
	"github.com/claude/seatwatch/internal/state"
	"github.com/joho/godotenv"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	// Secrets live in .env during local development; missing file is fine.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	log.Info("SeatWatch starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.State.Backend == "postgres" {
		if err := state.RunMigrations(cfg.State.Postgres.DSN(), "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
	}
	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	policy, err := schedule.ParseRetentionPolicy(cfg.State.Retention)
	if err != nil {
		log.Error("invalid retention policy", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open state store", "backend", cfg.State.Backend, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	scanner := scan.New(scan.Config{
		Fetcher: fetch.NewReaderFetcher(cfg.Source.URL, cfg.Source.ReaderPrefix,
			time.Duration(cfg.Source.TimeoutSeconds)*time.Second, log),
		Extractor: newExtractor(cfg, log),
		Store:     store,
		Notifier:  newNotifier(cfg, log),
		Filter:    schedule.NewWatchFilter(cfg.Watch.Classes),
		Retention: policy,
		Log:       log,
	})

	if cfg.Server.Enabled {
		go serveStatus(ctx, cfg, scanner, log)
	}

	if _, err := scanner.Run(ctx); err != nil {
		log.Error("scan failed", "error", err)
		if cfg.Scan.IntervalMinutes == 0 && !cfg.Server.Enabled {
			os.Exit(1)
		}
	}

	if cfg.Scan.IntervalMinutes == 0 {
		if !cfg.Server.Enabled {
			return
		}
		// Single scan, but the status API stays up until a signal.
		<-ctx.Done()
		log.Info("shutting down")
		return
	}

	interval := time.Duration(cfg.Scan.IntervalMinutes) * time.Minute
	log.Info("watch loop starting", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return
		case <-ticker.C:
			if _, err := scanner.Run(ctx); err != nil {
				log.Error("scan failed", "error", err)
			}
		}
	}
}

func newStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (state.Store, error) {
	switch cfg.State.Backend {
	case "postgres":
		return state.NewPostgres(ctx, cfg.State.Postgres.DSN(), log)
	case "sqlite":
		return state.OpenSQLite(cfg.State.Path, log)
	default:
		return state.NewFileStore(cfg.State.Path, log), nil
	}
}

func newExtractor(cfg *config.Config, log *slog.Logger) extract.Extractor {
	if cfg.Extract.Strategy == "html" {
		return extract.NewHTML(log)
	}
	return extract.NewMarkdown(log)
}

func newNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	var channels []notify.Notifier
	if cfg.Notify.WhatsApp.APIURL != "" {
		channels = append(channels, notify.NewWhatsApp(cfg.Notify.WhatsApp.APIURL, cfg.Notify.WhatsApp.ChatID, cfg.Source.URL))
	}
	if cfg.Notify.Email.Sender != "" {
		channels = append(channels, notify.NewEmail(cfg.Notify.Email.Host, cfg.Notify.Email.Port,
			cfg.Notify.Email.Sender, cfg.Notify.Email.Password, cfg.Notify.Email.Receivers, cfg.Source.URL))
	}
	if len(channels) == 0 {
		log.Warn("no notification channel configured, alerts will only be logged")
		return nil
	}
	return notify.NewMulti(log, channels...)
}

// serveStatus runs the status API on a plain TCP listener, or inside the
// tailnet when Tailscale is enabled. Exits the process on listen failure.
func serveStatus(ctx context.Context, cfg *config.Config, scanner *scan.Scanner, log *slog.Logger) {
	srv := server.New(scanner, log)

	var listener net.Listener
	var err error

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("status API starting on tailnet", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("status API starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
		log.Error("status API error", "error", err)
		os.Exit(1)
	}
}
