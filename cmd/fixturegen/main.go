package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/leengari/geojoin/internal/config"
	"github.com/leengari/geojoin/internal/domain/errs"
	"github.com/leengari/geojoin/internal/fixture"
	"github.com/leengari/geojoin/internal/logging"
)

type flags struct {
	configPath  string
	logLevel    string
	engine      string
	dsn         string
	dataDir     string
	expectedDir string
	only        []string
}

func main() {
	f := &flags{}

	root := &cobra.Command{
		Use:           "fixturegen",
		Short:         "Generate expected outputs for the ST_ function test data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	fl := root.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fl.StringVar(&f.engine, "engine", "postgis", "postgis or local")
	fl.StringVar(&f.dsn, "dsn", "", "PostgreSQL connection string (config fixture.dsn when empty)")
	fl.StringVar(&f.dataDir, "data", "", "directory holding the input csv files")
	fl.StringVar(&f.expectedDir, "expected", "", "directory receiving the st_*.out files")
	fl.StringSliceVar(&f.only, "only", nil, "generate only these functions")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("fixture generation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, f *flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	logger, closeFn := logging.SetupLogger(cfg.Log)
	defer closeFn()
	slog.SetDefault(logger)

	fc := cfg.Fixture
	if f.dsn != "" {
		fc.DSN = f.dsn
	}
	if f.dataDir != "" {
		fc.DataDir = f.dataDir
	}
	if f.expectedDir != "" {
		fc.ExpectedDir = f.expectedDir
	}
	if len(f.only) > 0 {
		fc.Only = f.only
	}

	fns, err := fixture.Select(fc.Only)
	if err != nil {
		return err
	}

	var eval fixture.Evaluator
	switch f.engine {
	case "postgis":
		pg, err := fixture.OpenPostGIS(ctx, fc.DSN, fc.Table)
		if err != nil {
			return err
		}
		eval = pg
	case "local":
		eval = fixture.Local{}
	default:
		return errs.NewInvalidChoice("engine", f.engine, "postgis", "local")
	}
	defer eval.Close(context.Background())

	gen := &fixture.Generator{Eval: eval, DataDir: fc.DataDir, ExpectedDir: fc.ExpectedDir}
	sum, err := gen.Run(ctx, fns)
	if err != nil {
		return err
	}

	logger.Info("fixtures ready",
		slog.String("engine", f.engine),
		slog.String("expected_dir", fc.ExpectedDir),
		slog.Int("written", len(sum.Written)),
	)
	return nil
}
