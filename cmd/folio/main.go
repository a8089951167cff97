package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/foliotracker/folio/internal/config"
	"github.com/foliotracker/folio/internal/log"
	"github.com/foliotracker/folio/internal/source/jsonfile"
	"github.com/foliotracker/folio/internal/stats"
	"github.com/foliotracker/folio/internal/store"
	"github.com/foliotracker/folio/internal/tracker"
	"github.com/foliotracker/folio/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		sourcePath  string
		syncOnly    bool
		watch       bool
		resetData   bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&sourcePath, "source", "", "observations JSON file (overrides config)")
	flag.BoolVar(&syncOnly, "sync", false, "run one sync cycle and print a summary")
	flag.BoolVar(&watch, "watch", false, "sync on the configured interval without the dashboard")
	flag.BoolVar(&resetData, "reset", false, "clear all tracked reading history")
	flag.Parse()

	if showVersion {
		fmt.Printf("folio %s\n", Version)
		return
	}

	if err := run(sourcePath, syncOnly, watch, resetData); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(sourcePath string, syncOnly, watch, resetData bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting folio", "version", Version)

	trackerStore, err := store.NewTrackerStore(cfg.Storage.Dir, logger,
		store.WithActivityCap(cfg.Tracking.ActivityCap))
	if err != nil {
		return fmt.Errorf("failed to open tracker store: %w", err)
	}
	defer trackerStore.Close()

	if resetData {
		if err := trackerStore.Reset(); err != nil {
			return fmt.Errorf("failed to reset tracker data: %w", err)
		}
		fmt.Println("Reading history cleared.")
		return nil
	}

	if sourcePath == "" {
		sourcePath = cfg.Sync.Source
	}
	if sourcePath == "" {
		return fmt.Errorf("no observation source configured: set sync.source or pass -source")
	}
	source := jsonfile.New(sourcePath)

	aggregator := stats.NewAggregator(trackerStore, cfg.Tracking.DefaultPageCount, logger)
	service := tracker.NewService(source, trackerStore, nil, logger)

	switch {
	case syncOnly:
		return runSyncOnce(service, aggregator)
	case watch:
		interval := time.Duration(cfg.Sync.IntervalMinutes) * time.Minute
		logger.Info("watching for changes", "interval", interval)
		return service.Run(context.Background(), interval)
	}

	// Without a terminal there is nothing to render; behave like -sync.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runSyncOnce(service, aggregator)
	}

	model := tui.NewModel(service, aggregator, trackerStore, source,
		cfg.Tracking.DefaultPageCount, cfg.Tracking.FeedSize)

	p := tea.NewProgram(model, tea.WithAltScreen())
	logger.Info("starting dashboard")
	if _, err := p.Run(); err != nil {
		logger.Error("dashboard error", "error", err)
		return fmt.Errorf("dashboard error: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runSyncOnce(service *tracker.Service, aggregator *stats.Aggregator) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := service.Sync(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d books, %d new activities", result.Books, result.Activities)
	if result.Failed > 0 {
		fmt.Printf(" (%d skipped)", result.Failed)
	}
	fmt.Println()
	fmt.Println(aggregator.StatusLine(time.Now()))

	for _, line := range aggregator.Feed(5) {
		fmt.Println("  " + line)
	}
	return nil
}
