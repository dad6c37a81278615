package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/uww-referees/internal/history"
	"github.com/pfrederiksen/uww-referees/internal/server"
	"github.com/pfrederiksen/uww-referees/internal/storage"
)

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendered site for preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			if _, err := storage.New(cfg.DataDir); err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			dbPath, err := cfg.HistoryPath()
			if err != nil {
				return err
			}
			versions, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer versions.Close()

			dir, err := cfg.SitePath()
			if err != nil {
				return err
			}

			srv := server.New(server.Config{Listen: cfg.Listen, SiteDir: dir}, versions)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at http://%s\n", dir, cfg.Listen)
			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides listen)")

	return cmd
}
