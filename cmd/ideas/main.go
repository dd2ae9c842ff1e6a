package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/glabrego/ideas-cli/internal/app"
	"github.com/glabrego/ideas-cli/internal/config"
	"github.com/glabrego/ideas-cli/internal/ideas"
	"github.com/glabrego/ideas-cli/internal/images"
	"github.com/glabrego/ideas-cli/internal/liststate"
	"github.com/glabrego/ideas-cli/internal/location"
	"github.com/glabrego/ideas-cli/internal/logging"
	"github.com/glabrego/ideas-cli/internal/metrics"
	"github.com/glabrego/ideas-cli/internal/storage"
	"github.com/glabrego/ideas-cli/internal/tui"
	tuiview "github.com/glabrego/ideas-cli/internal/tui/view"
)

// lastLocationKey remembers where the previous session left the list.
const lastLocationKey = "ideas.location"

// lazyImageMargin is how many lines beyond the viewport still count as near.
const lazyImageMargin = 6

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		startLocation string
		debug         bool
	)

	cmd := &cobra.Command{
		Use:          "ideas",
		Short:        "Browse the ideas list in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), startLocation, debug)
		},
	}

	cmd.Flags().StringVar(&startLocation, "location", "", "initial list location, e.g. /?page=2&size=20&sort=published_at")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, startLocation string, debug bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger, closeLog, err := logging.Setup(logging.Config{Level: level, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	repo, err := storage.NewRepository(cfg.DBPath, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("storage init error: %w", err)
	}
	defer repo.Close()

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := repo.Init(initCtx); err != nil {
		return fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(initCtx); err != nil {
		return fmt.Errorf("storage write check failed (%v). Verify IDEAS_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	if startLocation == "" {
		if saved, ok, err := repo.Get(initCtx, lastLocationKey); err != nil {
			logger.Warn().Err(err).Msg("could not read last location")
		} else if ok {
			startLocation = saved
		}
	}
	if startLocation == "" {
		startLocation = "/"
	}

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		serveCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			if err := m.Serve(serveCtx, cfg.MetricsAddr); err != nil {
				logger.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server stopped")
			}
		}()
	}

	bar := location.New(startLocation)
	resolver := images.NewResolver(cfg.BlockedImageHost, cfg.AltImageHost)
	surface := tuiview.NewSurface()
	state := liststate.NewController(bar, repo, logging.NewLogger("liststate"))
	coord := app.NewCoordinator(
		ideas.NewClient(cfg.APIBaseURL, &http.Client{Timeout: 20 * time.Second}),
		state,
		surface,
		surface,
		app.Options{Resolver: resolver, Metrics: m, Logger: logging.NewLogger("coordinator")},
	)

	var observer images.ObserverFactory
	if cfg.LazyImages {
		observer = images.NewViewportObserver(lazyImageMargin)
	}

	model := tui.NewModel(tui.Options{
		Coordinator: coord,
		Surface:     surface,
		Resolver:    resolver,
		Loader:      images.NewLoader(nil),
		Observer:    observer,
		Metrics:     m,
		Logger:      logging.NewLogger("tui"),
	})

	logger.Info().Str("location", startLocation).Str("api", cfg.APIBaseURL).Msg("starting")
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	saveLocation(repo, coord.ShareableURL(), logger)
	if runErr != nil {
		return fmt.Errorf("tui error: %w", runErr)
	}
	return nil
}

func saveLocation(repo *storage.Repository, loc string, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repo.Set(ctx, lastLocationKey, loc); err != nil {
		logger.Warn().Err(err).Msg("could not save last location")
	}
}
