package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rpggio/timetrack/internal/app"
	"github.com/rpggio/timetrack/internal/config"
	"github.com/rpggio/timetrack/internal/logging"
	"github.com/rpggio/timetrack/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "timetracker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "env error: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// The terminal belongs to the UI, so logs only go to a file if one is configured.
	logger, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.Path, io.Discard)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer closeLog()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	a, err := app.Open(context.Background(), app.Options{
		DBPath:   cfg.DB.Path,
		Location: loc,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.DB.Path, err)
	}
	defer a.Close()

	model := tui.New(tui.Options{
		Timer:     a.Timer,
		Projects:  a.Projects,
		Reports:   a.Reports,
		ExportDir: cfg.Report.ExportDir,
		Logger:    logger,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
