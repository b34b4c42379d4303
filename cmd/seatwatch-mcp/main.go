// Command seatwatch-mcp serves the watcher's schedule data over the Model
// Context Protocol on stdio.
//
// Remote mode (-url) reads from a running watcher's REST API, typically over
// Tailscale. Local mode (-config) wires up a scanner in-process and also
// exposes the run_scan tool.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/claude/seatwatch/internal/config"
	"github.com/claude/seatwatch/internal/extract"
	"github.com/claude/seatwatch/internal/fetch"
	"github.com/claude/seatwatch/internal/mcp"
	"github.com/claude/seatwatch/internal/notify"
	"github.com/claude/seatwatch/internal/scan"
	"github.com/claude/seatwatch/internal/schedule"
	"github.com/claude/seatwatch/internal/state"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	url := flag.String("url", "", "base URL of a running watcher's status API (remote mode)")
	configPath := flag.String("config", "", "path to config file (local mode)")
	flag.Parse()

	_ = godotenv.Load()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	switch {
	case *url != "":
		ds = mcp.NewHTTPClient(*url)
		log.Info("MCP server starting", "mode", "remote", "url", *url)
	case *configPath != "":
		source, closeStore, err := localSource(*configPath, log)
		if err != nil {
			log.Error("local setup failed", "error", err)
			os.Exit(1)
		}
		defer closeStore()
		ds = source
		log.Info("MCP server starting", "mode", "local", "config", *configPath)
	default:
		log.Error("either -url or -config is required")
		os.Exit(1)
	}

	s := mcp.New(ds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// localSource builds an in-process scanner from the config file. No scan
// runs until the client calls run_scan.
func localSource(path string, log *slog.Logger) (mcp.Local, func(), error) {
	cfg, err := config.Load(path)
	if err != nil {
		return mcp.Local{}, nil, err
	}

	policy, err := schedule.ParseRetentionPolicy(cfg.State.Retention)
	if err != nil {
		return mcp.Local{}, nil, err
	}

	store, err := newStore(cfg, log)
	if err != nil {
		return mcp.Local{}, nil, err
	}

	var extractor extract.Extractor = extract.NewMarkdown(log)
	if cfg.Extract.Strategy == "html" {
		extractor = extract.NewHTML(log)
	}

	var notifier notify.Notifier
	if cfg.Notify.WhatsApp.APIURL != "" {
		notifier = notify.NewMulti(log,
			notify.NewWhatsApp(cfg.Notify.WhatsApp.APIURL, cfg.Notify.WhatsApp.ChatID, cfg.Source.URL))
	}

	scanner := scan.New(scan.Config{
		Fetcher: fetch.NewReaderFetcher(cfg.Source.URL, cfg.Source.ReaderPrefix,
			time.Duration(cfg.Source.TimeoutSeconds)*time.Second, log),
		Extractor: extractor,
		Store:     store,
		Notifier:  notifier,
		Filter:    schedule.NewWatchFilter(cfg.Watch.Classes),
		Retention: policy,
		Log:       log,
	})

	return mcp.Local{Scanner: scanner}, func() { _ = store.Close() }, nil
}

func newStore(cfg *config.Config, log *slog.Logger) (state.Store, error) {
	switch cfg.State.Backend {
	case "postgres":
		return state.NewPostgres(context.Background(), cfg.State.Postgres.DSN(), log)
	case "sqlite":
		return state.OpenSQLite(cfg.State.Path, log)
	default:
		return state.NewFileStore(cfg.State.Path, log), nil
	}
}
