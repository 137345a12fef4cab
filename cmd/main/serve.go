package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"youtrack-mcp/internal/config"
	"youtrack-mcp/internal/logging"
	"youtrack-mcp/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server. By default tools are served over stdio, the
transport MCP clients spawn subprocesses with. Use --transport http to serve
streamable HTTP instead.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("transport", "stdio", "MCP transport: stdio or http")
	serveCmd.Flags().Int("port", 8347, "Port for the http transport")
	viper.BindPFlag("transport", serveCmd.Flags().Lookup("transport"))
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logging.Initialize(cfg.Debug)
	logging.Info("starting %s for %s", cfg.ServerName, cfg.BaseURL)

	srv := tools.NewServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		transport := viper.GetString("transport")
		switch transport {
		case "stdio", "":
			errCh <- srv.ServeStdio(ctx)
		case "http":
			errCh <- srv.ServeHTTP(ctx, viper.GetInt("port"))
		default:
			errCh <- fmt.Errorf("unknown transport %q (expected stdio or http)", transport)
		}
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logging.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
