package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Taskdeck is a project-management tool server",
	Long: `Taskdeck exposes project, task and team operations as tools over the
Model Context Protocol or plain HTTP, backed by Redis.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (environment overrides it)")
}

// loadConfig resolves configuration and builds the process logger. Logs go
// to stderr so stdio transports keep stdout for the protocol.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	var log *slog.Logger
	if cfg.Log.Format == "json" {
		log = logging.NewJSON(cfg.Log.SlogLevel())
	} else {
		log = logging.New(cfg.Log.SlogLevel())
	}
	return cfg, log, nil
}
