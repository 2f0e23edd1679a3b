package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/lsatprep/internal/config"
	"github.com/conorfennell/lsatprep/internal/storage"
	"github.com/conorfennell/lsatprep/internal/study"
)

// app bundles what every subcommand needs.
type app struct {
	cfg   *config.Config
	db    *storage.DB
	study *study.Study
}

// openApp loads config, installs the logger, opens the database and loads
// the configured deck.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(cfg.Log))

	db, err := storage.Open(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Database opened", "path", cfg.DB.Path)

	return &app{
		cfg:   cfg,
		db:    db,
		study: study.New(db, cfg.Deck.Key),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func printReport(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
