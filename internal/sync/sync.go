// Package sync pulls cards from configured sources into the deck. A source is
// a local directory or a git repository; every Markdown file under it is
// parsed and cards not already in the deck are added as new.
package sync

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/lsatprep/internal/domain"
	"github.com/conorfennell/lsatprep/internal/gitsource"
	"github.com/conorfennell/lsatprep/internal/parser"
)

// Merger receives parsed cards. *study.Study implements it.
type Merger interface {
	Merge(drafts []domain.Card) (added int, errs []error)
}

// Report summarises a sync run.
type Report struct {
	Sources int
	Parsed  int
	Added   int
	Errors  []error
}

// Options controls where git sources are checked out.
type Options struct {
	ReposDir string
	Progress io.Writer
}

// Run reconciles every source into m. Failures are collected per source
// rather than aborting the run.
func Run(m Merger, sources []string, opts Options) Report {
	slog.Info("Starting sync", "sources", len(sources))
	var report Report

	if len(sources) == 0 {
		slog.Info("No sources configured. Add one with --source <path/or/url.git>")
		return report
	}

	for _, source := range sources {
		report.Sources++
		slog.Info("Syncing source", "source", source)

		dir, err := checkout(source, opts)
		if err != nil {
			slog.Error("Error syncing source", "source", source, "error", err)
			report.Errors = append(report.Errors, err)
			continue
		}

		drafts, parseErrs := collect(dir)
		report.Parsed += len(drafts)
		report.Errors = append(report.Errors, parseErrs...)

		added, mergeErrs := m.Merge(drafts)
		report.Added += added
		report.Errors = append(report.Errors, mergeErrs...)

		slog.Info("Source reconciled",
			"source", source,
			"parsed_cards", len(drafts),
			"added", added,
			"errors", len(parseErrs)+len(mergeErrs),
		)
	}

	slog.Info("Sync complete", "parsed", report.Parsed, "added", report.Added, "errors", len(report.Errors))
	return report
}

func checkout(source string, opts Options) (string, error) {
	if !gitsource.IsRemote(source) {
		return source, nil
	}
	if err := os.MkdirAll(opts.ReposDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create repos directory: %w", err)
	}
	dir, err := gitsource.LocalPath(opts.ReposDir, source)
	if err != nil {
		if strings.Contains(source, "://") || strings.Contains(source, "@") {
			return "", err
		}
		// Local bare repositories such as /srv/cards.git have no host.
		dir = filepath.Join(opts.ReposDir, "local", strings.TrimSuffix(filepath.Base(source), ".git"))
	}
	if err := gitsource.Sync(source, dir, opts.Progress); err != nil {
		return "", err
	}
	return dir, nil
}

// collect parses every Markdown file under dir.
func collect(dir string) ([]domain.Card, []error) {
	var cards []domain.Card
	var errs []error

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		fileCards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			errs = append(errs, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		cards = append(cards, fileCards...)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, fmt.Errorf("walking %s: %w", dir, walkErr))
	}
	return cards, errs
}
