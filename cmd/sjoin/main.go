package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/geojoin/internal/config"
	"github.com/leengari/geojoin/internal/logging"
)

// globals shared by the subcommands
var (
	configPath string
	logLevel   string

	cfg      config.Config
	closeLog = func() {}
)

func main() {
	root := &cobra.Command{
		Use:           "sjoin",
		Short:         "Join geometry datasets on a spatial predicate",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			var logger *slog.Logger
			logger, closeLog = logging.SetupLogger(cfg.Log)
			slog.SetDefault(logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(newJoinCmd(), newServeCmd())

	err := root.Execute()
	closeLog()
	if err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
