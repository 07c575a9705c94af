package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"chronotune/src/features/config"
	"chronotune/src/features/hosting"
	"chronotune/src/features/logging"
	"chronotune/src/features/organize"
	"chronotune/src/infra/cache"
	"chronotune/src/infra/database"
	"chronotune/src/infra/watcher"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "chronotune",
		Short:         "Sort music files into folders by release year",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "config.yaml", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(&configFlag))
	rootCmd.AddCommand(newWatchCommand(&configFlag))
	rootCmd.AddCommand(newHistoryCommand(&configFlag))
	rootCmd.AddCommand(newCacheCommand(&configFlag))

	return rootCmd
}

func newRunCommand(configFlag *string) *cobra.Command {
	var yearsFlag string
	var noBackup, noSearch, clearCache bool

	cmd := &cobra.Command{
		Use:   "run [root]",
		Short: "Organize a music folder once",
		Long: `Scan the library root, resolve the release year of every supported audio
file and move each one into a per-year folder, other_years or unidentified.

Examples:
  chronotune run /music --years 2024,2025
  chronotune run /music --years 2020-2025 --no-backup
  chronotune run --no-search       # offline: tags and filenames only`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := appOptions{years: yearsFlag, noBackup: noBackup, noSearch: noSearch}
			if len(args) > 0 {
				opts.root = args[0]
			}

			application, err := loadApp(ctx, *configFlag, opts)
			if err != nil {
				return err
			}
			defer application.Close()

			if clearCache {
				if err := application.cache.Clear(); err != nil {
					return err
				}
				slog.Info("Identification cache cleared")
			}

			stats, err := application.organizer.Run(ctx)
			if err != nil {
				return err
			}

			organize.RenderSummary(os.Stdout, application.config.Get().Years, stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&yearsFlag, "years", "y", "", "Target years, e.g. 2024,2025 or 2020-2025")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the pre-move backup copies")
	cmd.Flags().BoolVar(&noSearch, "no-search", false, "Disable the remote track search")
	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Clear the identification cache before running")

	return cmd
}

func newWatchCommand(configFlag *string) *cobra.Command {
	var yearsFlag string
	var noBackup, noSearch bool

	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Watch a music folder and organize new files as they arrive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := appOptions{years: yearsFlag, noBackup: noBackup, noSearch: noSearch, withMetrics: true}
			if len(args) > 0 {
				opts.root = args[0]
			}

			application, err := loadApp(ctx, *configFlag, opts)
			if err != nil {
				return err
			}
			defer application.Close()

			cfg := application.config.Get()

			// Initial pass over what is already there.
			stats, err := application.organizer.Run(ctx)
			if err != nil {
				return err
			}
			organize.RenderSummary(os.Stdout, cfg.Years, stats)

			events := make(chan watcher.FileEvent, 1)
			fileWatcher, err := watcher.NewWatcher(events, application.placer.ExcludedDirNames(), cfg.Watch.DebounceSeconds)
			if err != nil {
				return fmt.Errorf("failed to create file watcher: %w", err)
			}
			if err := fileWatcher.Start(ctx, cfg.LibraryPath); err != nil {
				return fmt.Errorf("failed to start file watcher: %w", err)
			}
			defer fileWatcher.Stop()

			var server *hosting.Server
			if cfg.Server.Enabled {
				server = hosting.NewServer(application.config, application.organizer, application.recorder)
				go func() {
					if err := server.Start(); err != nil {
						slog.Error("Status server stopped", "error", err)
					}
				}()
				slog.Info("Status server started", "port", cfg.Server.Port)
				defer server.Shutdown()
			}

			slog.Info("Watching for new files. Press Ctrl+C to stop.", "path", cfg.LibraryPath)
			for {
				select {
				case <-ctx.Done():
					slog.Info("Shutting down watcher")
					return nil
				case event := <-events:
					slog.Info("Organizing after new files", "path", event.Path)
					stats, err := application.organizer.Run(ctx)
					if err != nil {
						slog.Error("Organize run failed", "error", err)
						continue
					}
					organize.RenderSummary(os.Stdout, cfg.Years, stats)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&yearsFlag, "years", "y", "", "Target years, e.g. 2024,2025 or 2020-2025")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the pre-move backup copies")
	cmd.Flags().BoolVar(&noSearch, "no-search", false, "Disable the remote track search")

	return cmd
}

func newHistoryCommand(configFlag *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past organize runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgManager, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			slog.SetDefault(logging.SetupLogger(cfgManager))

			store, err := database.NewSqliteHistory(cfgManager.Get().Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			renderHistory(runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func renderHistory(runs []organize.RunRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Started", "Root", "Duration", "Processed", "Identified", "Errors"})

	for _, run := range runs {
		t.AppendRow(table.Row{
			run.Started.Format("2006-01-02 15:04"),
			run.Root,
			run.Finished.Sub(run.Started).Round(time.Second),
			run.Stats.Processed,
			fmt.Sprintf("%d (%.0f%%)", run.Stats.Identified(), run.Stats.IdentificationRate()*100),
			run.Stats.Errors,
		})
	}

	t.Render()
}

func newCacheCommand(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the identification cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached identification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgManager, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			slog.SetDefault(logging.SetupLogger(cfgManager))

			fileCache := cache.New(cfgManager.Get().Cache.Path)
			entries := fileCache.Len()
			if err := fileCache.Clear(); err != nil {
				return err
			}
			fmt.Printf("Cleared %d cached identifications.\n", entries)
			return nil
		},
	})

	return cmd
}
