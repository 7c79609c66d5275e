package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leengari/geojoin/internal/network"
	"github.com/leengari/geojoin/internal/storage/manager"
)

func newServeCmd() *cobra.Command {
	var addr, dataDir string
	var preload bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve spatial joins over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			var datasets network.Datasets
			if dataDir != "" {
				reg := manager.NewRegistry(dataDir, slog.Default())
				if preload {
					if err := reg.Preload(); err != nil {
						return err
					}
				}
				datasets = reg
			}

			srv := network.NewServer(cfg, datasets)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			slog.Info("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (config server.addr when empty)")
	cmd.Flags().StringVar(&dataDir, "datasets", "", "directory of datasets joinable by name")
	cmd.Flags().BoolVar(&preload, "preload", false, "load every dataset at startup")
	return cmd
}
