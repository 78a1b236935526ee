package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jguan/ollama-model-manager/pkg/gateway"
	"github.com/jguan/ollama-model-manager/pkg/infra/logger"
)

func NewServeCommand(root *RootCommand) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the OMM HTTP API server.

The server exposes model listing, background downloads with status
polling, and generation over a REST API.`,
		Example: `  # Start with settings from the config file
  omm serve

  # Start on a different address
  omm serve --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}

func runServe(ctx context.Context, root *RootCommand, addr string) error {
	cfg := root.Config()

	serverCfg := gateway.DefaultServerConfig()
	serverCfg.Addr = cfg.API.ListenAddr
	if addr != "" {
		serverCfg.Addr = addr
	}
	serverCfg.ReadTimeout = cfg.API.ReadTimeoutD
	serverCfg.WriteTimeout = cfg.API.WriteTimeoutD
	serverCfg.IdleTimeout = cfg.API.IdleTimeoutD
	serverCfg.ShutdownTimeout = cfg.API.ShutdownTimeoutD
	serverCfg.EnableCORS = cfg.API.EnableCORS
	serverCfg.Logger = logger.Default()

	server := gateway.NewServer(root.Service(), serverCfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
		if err := server.Stop(ctx); err != nil {
			return fmt.Errorf("stop server: %w", err)
		}
		return nil
	}
}
