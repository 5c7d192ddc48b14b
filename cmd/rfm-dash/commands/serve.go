package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rfm-dash/internal/analytics"
	"rfm-dash/internal/dashboard"
	"rfm-dash/internal/ingest"
	"rfm-dash/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [transactions.csv]",
	Short: "Serve the dashboard view-model over localhost HTTP",
	Long: `Starts a local HTTP server exposing the processed dataset as JSON.
If a CSV file is given it is processed first; otherwise a persisted snapshot
is adopted when present. The default browser is opened unless OPEN_BROWSER=false.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.New(cfg.ReferenceNow)
		st.SetTimeRange(cfg.TimeRange)

		if len(args) == 1 {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			records := ingest.Parse(string(raw), cfg.ReferenceNow)
			if len(records) == 0 {
				return fmt.Errorf("%s: %w", args[0], ingest.ErrNoUsableData)
			}
			cleaned := ingest.Clean(records, cfg.ReferenceNow)
			st.SetData(analytics.Process(cleaned.Records, cfg.ReferenceNow))
			if err := st.SaveSnapshot(cfg.SnapshotDir); err != nil {
				log.Warn().Err(err).Msg("Failed to persist snapshot")
			}
		} else if err := st.LoadSnapshot(cfg.SnapshotDir); err != nil {
			log.Warn().Err(err).Msg("Could not adopt persisted snapshot, starting empty")
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.ServeAddr
		}

		server := &http.Server{
			Addr:    addr,
			Handler: dashboard.NewServer(st, cfg.SnapshotDir).Handler(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info().Str("addr", addr).Bool("loaded", st.HasData()).Msg("Dashboard listening")
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		if cfg.OpenBrowser {
			url := "http://" + addr + "/"
			if err := browser.OpenURL(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("Could not open browser")
			}
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides SERVE_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
