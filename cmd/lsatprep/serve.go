package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/lsatprep/internal/sync"
	"github.com/conorfennell/lsatprep/internal/web"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the flashcard web app",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.cfg.Deck.Seed {
				seeded, err := a.study.SeedSample()
				if err != nil {
					return err
				}
				if seeded {
					slog.Info("Deck was empty, loaded sample deck", "deck", a.cfg.Deck.Key)
				}
			}

			srv, err := web.NewServer(a.study, web.SyncConfig{
				Sources: a.cfg.Sources,
				Options: sync.Options{ReposDir: a.cfg.Repos.Dir},
			})
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:              a.cfg.HTTP.Addr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Starting server", "addr", a.cfg.HTTP.Addr)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			slog.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
}
