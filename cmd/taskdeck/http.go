package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/dispatch"
	httpadapter "github.com/taskdeck/taskdeck/pkg/adapters/http"
)

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Start the plain HTTP API server",
	Long: `Starts Taskdeck as a stateless HTTP server: tool discovery on GET /tools,
tool calls on POST /tools/{name}, plus /health and /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		registry := prometheus.NewRegistry()
		metrics := dispatch.NewMetrics(registry)

		mgr, dispatcher := mustBootstrap(ctx, cfg, logger, metrics)
		defer func() { _ = mgr.Disconnect() }()

		srv := &http.Server{
			Addr:    addr,
			Handler: httpadapter.NewHandler(dispatcher, mgr, registry, logger),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting Taskdeck HTTP server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			logger.Error("server error", "err", err)
			os.Exit(1)
		case <-ctx.Done():
			logger.Info("shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("Taskdeck HTTP server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(httpCmd)
	httpCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}
