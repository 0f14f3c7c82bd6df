// Package mcp exposes the dispatch pipeline over the Model Context
// Protocol, on stdio or SSE. Every tool result is the response envelope
// rendered as JSON text; protocol-level errors are reserved for transport
// failures.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/taskdeck/taskdeck/internal/dispatch"
)

// Server wraps the dispatcher and exposes it as an MCP server.
type Server struct {
	dispatcher *dispatch.Dispatcher
	mcpServer  *server.MCPServer
	log        *slog.Logger
}

// NewServer registers every catalog tool on a fresh MCP server.
func NewServer(d *dispatch.Dispatcher, version string, log *slog.Logger) *Server {
	s := &Server{
		dispatcher: d,
		mcpServer:  server.NewMCPServer("taskdeck", version),
		log:        log,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	for _, def := range s.dispatcher.Tools() {
		raw, err := json.Marshal(def.InputSchema())
		if err != nil {
			// Schemas are static maps of JSON-safe values; this cannot
			// happen outside a programming error.
			panic(fmt.Sprintf("marshal input schema for %s: %v", def.Name, err))
		}
		tool := mcp.NewToolWithRawSchema(def.Name, def.Description, raw)
		s.mcpServer.AddTool(tool, s.handler(def.Name))
	}
}

// handler binds one tool name to the dispatcher. The envelope is always
// delivered as the tool's text content, success and error alike, so
// callers parse a single shape.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := s.dispatcher.Dispatch(ctx, name, request.GetArguments())
		raw, err := resp.JSON()
		if err != nil {
			s.log.Error("encode envelope", "tool", name, "err", err)
			return mcp.NewToolResultError("internal encoding failure"), nil
		}
		return mcp.NewToolResultText(string(raw)), nil
	}
}

// ServeStdio serves on stdin/stdout. Logging must already be pointed at
// stderr; stdout belongs to the protocol.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on the given port until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.log.Info("shutdown signal received, stopping SSE server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
