package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/lsatprep/internal/parser"
	"github.com/conorfennell/lsatprep/internal/sync"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show due, total and average level for the deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			tag, _ := cmd.Flags().GetString("tag")
			a.study.SetFilter(tag)
			s := a.study.Stats()
			reviews, err := a.db.CountReviews(a.cfg.Deck.Key)
			if err != nil {
				return err
			}

			printReport(cmd, "Filter:      %s\n", a.study.Filter())
			printReport(cmd, "Due now:     %d\n", s.Due)
			printReport(cmd, "Total cards: %d\n", s.Total)
			printReport(cmd, "Avg level:   %.1f\n", s.AvgLevel)
			printReport(cmd, "Reviews:     %d\n", reviews)
			printReport(cmd, "Tags:        %s\n", strings.Join(a.study.Tags()[1:], ", "))
			return nil
		},
	}
	cmd.Flags().StringP("tag", "t", "", "Restrict the due count to a tag")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the deck with a JSON export, or add cards from a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			path := args[0]
			if strings.EqualFold(filepath.Ext(path), ".md") {
				drafts, err := parser.ParseFile(path)
				if err != nil {
					return fmt.Errorf("error parsing %s: %w", path, err)
				}
				added, errs := a.study.Merge(drafts)
				printReport(cmd, "Found %d cards, added %d, %d errors.\n", len(drafts), added, len(errs))
				for _, e := range errs {
					printReport(cmd, "- %s\n", e)
				}
				return nil
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := a.study.Import(f); err != nil {
				return err
			}
			printReport(cmd, "Imported %d cards.\n", len(a.study.Cards()))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the deck as JSON to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return a.study.Export(w)
		},
	}
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull cards from the configured sources into the deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report := sync.Run(a.study, a.cfg.Sources, sync.Options{
				ReposDir: a.cfg.Repos.Dir,
				Progress: cmd.ErrOrStderr(),
			})
			printReport(cmd, "Synced %d sources: %d parsed, %d added, %d errors.\n",
				report.Sources, report.Parsed, report.Added, len(report.Errors))
			for _, e := range report.Errors {
				printReport(cmd, "- %s\n", e)
			}
			return nil
		},
	}
}

func sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Replace the deck with the built-in sample deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.study.LoadSample(); err != nil {
				return err
			}
			printReport(cmd, "Loaded %d sample cards.\n", len(a.study.Cards()))
			return nil
		},
	}
}
