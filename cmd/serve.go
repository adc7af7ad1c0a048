package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gstledger/internal/config"
	"gstledger/internal/httpapi"
	"gstledger/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports, ledger and exports over HTTP",
	Long: `Start the HTTP API. Every request loads a fresh snapshot and recomputes the
results, so the API always reflects the current data.

Endpoints:
  GET /healthz
  GET /api/v1/reports/gstr1 | gstr3b | hsn
  GET /api/v1/ledger | summary | parties | buyers
  GET /api/v1/exports/{tally|sales|purchases|ledger|hsn}.csv
  GET /api/v1/settings
  PUT /api/v1/settings`,
	Example: `  gstledger serve --addr :9090`,
	RunE:    runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.HTTPAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots := openStore(cmd, cfg)
	defer snapshots.Close()

	sources, err := legacySources(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(snapshots, sources...)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
