package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"chronotune/src/features/config"
	"chronotune/src/features/identify"
	"chronotune/src/features/logging"
	"chronotune/src/features/metrics"
	"chronotune/src/features/notify"
	"chronotune/src/features/organize"
	"chronotune/src/infra/cache"
	"chronotune/src/infra/database"
	"chronotune/src/infra/spotify"
	"chronotune/src/infra/tag"
)

// appOptions carries the command-line overrides applied on top of the
// configuration file.
type appOptions struct {
	root        string
	years       string
	noBackup    bool
	noSearch    bool
	withMetrics bool
}

// app holds the wired services for a run. Optional collaborators that
// failed to initialize are nil; the organize service skips them.
type app struct {
	config    *config.Manager
	cache     *cache.FileCache
	placer    *organize.Placer
	history   *database.SqliteHistory
	recorder  *metrics.Recorder
	organizer *organize.Service
}

// loadApp loads the configuration, applies the overrides and wires every
// service an organize run needs. Failures of optional collaborators
// (search, history, notifications) degrade with a warning; a missing
// library root or invalid years are fatal.
func loadApp(ctx context.Context, configPath string, opts appOptions) (*app, error) {
	cfgManager, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	cfg := cfgManager.Get()
	if opts.root != "" {
		cfg.LibraryPath = opts.root
	}
	if opts.years != "" {
		years, err := config.ParseYears(opts.years)
		if err != nil {
			return nil, err
		}
		cfg.Years = years
	}
	if opts.noBackup {
		cfg.Backup.Enabled = false
	}
	if opts.noSearch {
		cfg.Spotify.Enabled = false
	}

	if cfg.LibraryPath == "" {
		return nil, fmt.Errorf("no library path given: pass it as an argument or set libraryPath in the config")
	}
	info, err := os.Stat(cfg.LibraryPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("library path is not a directory: %s", cfg.LibraryPath)
	}

	fileCache := cache.New(cfg.Cache.Path)

	var engine *identify.Engine
	if cfg.Spotify.Enabled {
		client, err := spotify.NewClient(ctx, cfgManager)
		if err != nil {
			slog.Warn("Spotify unavailable, continuing without search", "error", err)
		} else {
			engine = identify.NewEngine(client)
		}
	}
	resolver := identify.NewService(fileCache, tag.NewReader(), engine)

	placer := organize.NewPlacer(
		cfg.LibraryPath,
		config.YearSet(cfg.Years),
		cfg.Buckets.OtherYears,
		cfg.Buckets.Unidentified,
		cfg.Backup.Dir,
		cfg.Backup.Enabled,
	)

	var history organize.HistoryStore
	store, err := database.NewSqliteHistory(cfg.Database.Path)
	if err != nil {
		slog.Warn("Run history unavailable", "error", err)
		store = nil
	} else {
		history = store
	}

	var notifier organize.Notifier
	if cfg.Telegram.Enabled {
		telegramNotifier, err := notify.NewTelegramNotifier(cfgManager)
		if err != nil {
			slog.Warn("Telegram notifications unavailable", "error", err)
		} else {
			notifier = telegramNotifier
		}
	}

	var tagWriter organize.TagWriter
	if cfg.Tagging.WriteYear {
		tagWriter = tag.NewYearWriter()
	}

	var recorder *metrics.Recorder
	var monitoring organize.Recorder
	if opts.withMetrics {
		recorder = metrics.NewRecorder()
		monitoring = recorder
	}

	organizer := organize.NewService(cfgManager, resolver, placer, tagWriter, history, notifier, monitoring)

	return &app{
		config:    cfgManager,
		cache:     fileCache,
		placer:    placer,
		history:   store,
		recorder:  recorder,
		organizer: organizer,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.history != nil {
		a.history.Close()
	}
}
