package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/finlane/tutordock/internal/adapter"
	"github.com/finlane/tutordock/internal/catalog"
	"github.com/finlane/tutordock/internal/session"
	"github.com/finlane/tutordock/internal/store"
	"github.com/finlane/tutordock/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("tutordock %s\n", Version)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "tutordock requires an interactive terminal")
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting tutordock", "version", Version)

	positions, err := store.NewPositionStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open position store: %w", err)
	}
	defer positions.Close()

	registry := session.NewRegistry(logger)
	sessions := session.NewStore(positions, registry, session.Config{
		SettleDelay:  cfg.Playback.SettleDelay(),
		SaveInterval: cfg.Playback.SaveIntervalSec,
	}, logger)

	// Reconciliation subscribes first so the engine converges before the UI
	// re-renders each committed intent.
	sessions.Subscribe(session.NewReconciler(registry, logger))

	observer := tui.NewChannelObserver()
	sessions.Subscribe(observer)

	cat := catalog.Default()
	homeRoutes := append(cat.HomeRoutes(), cfg.Routes.TutorialHomes...)
	watcher := session.NewNavigationWatcher(sessions, homeRoutes, logger)

	model := tui.NewModel(cfg, sessions, registry, watcher, cat, observer, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	// Flush and release whatever is still live; a no-op after a clean quit.
	sessions.Close()

	logger.Info("shutting down")
	return nil
}
