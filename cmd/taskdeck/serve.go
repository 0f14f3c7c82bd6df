package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/dispatch"
	"github.com/taskdeck/taskdeck/internal/services"
	"github.com/taskdeck/taskdeck/internal/store"
	mcpadapter "github.com/taskdeck/taskdeck/pkg/adapters/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Model Context Protocol (MCP) tool server",
	Long: `Starts Taskdeck as an MCP server so AI agents can call its project,
task and team tools.

Supported transports:
- stdio (default): Standard Input/Output. Ideal for local process integration.
- sse: Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mgr, dispatcher := mustBootstrap(ctx, cfg, logger, nil)
		defer func() { _ = mgr.Disconnect() }()

		srv := mcpadapter.NewServer(dispatcher, version, logger)

		switch transport {
		case "stdio":
			// Logs must never corrupt JSON-RPC on stdout.
			log.SetOutput(os.Stderr)
			logger.Info("starting Taskdeck MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			logger.Info("starting Taskdeck MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					logger.Error("MCP server execution failed", "err", err)
					os.Exit(1)
				}
			}
			logger.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	serveCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}

// mustBootstrap connects the store and wires the dispatcher. A store that
// cannot be reached at startup is fatal; later outages are handled by the
// health monitor and the dispatch gate instead.
func mustBootstrap(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *dispatch.Metrics) (*store.Manager, *dispatch.Dispatcher) {
	mgr, err := store.New(cfg.Redis, logger)
	if err != nil {
		logger.Error("invalid store configuration", "err", err)
		os.Exit(1)
	}
	if err := mgr.Connect(ctx); err != nil {
		logger.Error("could not connect to redis", "err", err)
		os.Exit(1)
	}
	go mgr.Monitor(ctx, cfg.Dispatch.HealthInterval)

	opts := []dispatch.Option{
		dispatch.WithTimeout(cfg.Dispatch.CallTimeout.Duration()),
		dispatch.WithLogger(logger),
	}
	if metrics != nil {
		opts = append(opts, dispatch.WithMetrics(metrics))
	}
	dispatcher := dispatch.New(services.NewRegistry(mgr.Client()), mgr, opts...)
	return mgr, dispatcher
}
