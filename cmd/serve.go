package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/logger"
	"github.com/pable/go-nhl-metrics/internal/metrics"
	"github.com/pable/go-nhl-metrics/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored seasons as a JSON API with Prometheus metrics",
	Long: `Routes:
  GET /api/analysis?season=&k=&seed=   style analysis (PCA + K-Means)
  GET /api/shooting?season=            shooting efficiency quadrants
  GET /healthz
  GET /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := appLog.Named("serve")

	addr := serveAddr
	if addr == "" {
		addr = cfg.ServeAddr
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	srv := server.New(db, analysisOptions(), metrics.NewManager(), appLog)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", logger.String("addr", addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
