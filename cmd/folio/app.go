package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/devto"
	mdParser "github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/services"
	"github.com/Kush-Singh-26/folio/builder/sources"
	"github.com/Kush-Singh-26/folio/builder/store"
)

// app holds the wired pipeline shared by the subcommands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Manager
	feed   services.FeedService
}

// newFlagSet returns a flag set for a subcommand. Errors are returned, not
// printed, except for -h.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("folio "+name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if os.Getenv("FOLIO_DEBUG") != "" {
		opts.Level = slog.LevelDebug
	}
	if cfg.JSONLogs {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func openStore(cfg *config.Config) (*store.Manager, error) {
	if cfg.AdminDB == "" {
		return nil, nil
	}
	m, err := store.Open(cfg.AdminDB, cfg.Tune.StoreTimeout, cfg.Tune.InlineBodyThreshold)
	if err != nil {
		return nil, fmt.Errorf("open admin store: %w", err)
	}
	return m, nil
}

// newApp wires the sources, normalizer and feed service for cfg.
func newApp(cfg *config.Config) (*app, error) {
	logger := newLogger(cfg)

	m, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	static := sources.NewStaticReader(afero.NewOsFs(), cfg.ContentDir, cfg.Tune.StaticWorkers, logger)
	var admin services.AdminSource
	if m != nil {
		admin = sources.NewAdminReader(m)
	}
	external := devto.NewClient(cfg.DevtoBaseURL, cfg.DevtoAPIKey, cfg.Tune.ExternalTimeout, logger)
	if !cfg.HasDevto() {
		logger.Debug("DEVTO_API_KEY not set, external posts disabled")
	}

	norm := services.NewNormalizer(mdParser.New(), cfg.Tune.ReadingSpeed, cfg.Buckets)
	feed := services.NewFeedService(static, admin, external, norm, cfg.Tune, time.Now, logger)

	return &app{cfg: cfg, logger: logger, store: m, feed: feed}, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close admin store", "error", err)
		}
	}
}
