package fixture

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/run"
)

// Generator writes one expected file per function
type Generator struct {
	Eval        Evaluator
	DataDir     string
	ExpectedDir string
}

// Summary reports what a Run produced
type Summary struct {
	Written []string
	Skipped []string
}

// Run generates the expected outputs for fns. It stops at the first
// function that fails; functions the evaluator does not support are
// skipped.
func (g *Generator) Run(ctx context.Context, fns []Function) (Summary, error) {
	r := run.New()
	logger := slog.With(slog.String("run_id", r.ID))

	var sum Summary
	if err := os.MkdirAll(g.ExpectedDir, 0755); err != nil {
		return sum, errors.Wrap(err, "create expected directory")
	}

	for _, fn := range fns {
		n, err := g.generate(ctx, fn)
		if errors.Is(err, ErrUnsupported) {
			logger.Warn("fixture skipped", slog.String("function", fn.SQLName()))
			sum.Skipped = append(sum.Skipped, fn.Name)
			continue
		}
		if err != nil {
			return sum, errors.Wrapf(err, "generate %s", fn.SQLName())
		}

		logger.Info("fixture written",
			slog.String("function", fn.SQLName()),
			slog.String("file", fn.ExpectedFile()),
			slog.Int("rows", n),
		)
		sum.Written = append(sum.Written, fn.Name)
	}

	logger.Info("fixture generation completed",
		slog.Int("written", len(sum.Written)),
		slog.Int("skipped", len(sum.Skipped)),
		slog.Duration("elapsed", r.Elapsed()),
	)
	return sum, nil
}

func (g *Generator) generate(ctx context.Context, fn Function) (int, error) {
	fh, err := os.Open(filepath.Join(g.DataDir, fn.Input))
	if err != nil {
		return 0, errors.Wrap(err, "open input")
	}
	pairs, err := ReadPairs(fh)
	fh.Close()
	if err != nil {
		return 0, err
	}

	results, err := g.Eval.Evaluate(ctx, fn, pairs)
	if err != nil {
		return 0, err
	}
	if len(results) != len(pairs) {
		return 0, errors.Newf("got %d results for %d input rows", len(results), len(pairs))
	}

	var buf bytes.Buffer
	for _, v := range results {
		buf.WriteString(FormatValue(v))
		buf.WriteByte('\n')
	}

	path := filepath.Join(g.ExpectedDir, fn.ExpectedFile())
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return 0, errors.Wrapf(err, "write %s", path)
	}
	return len(results), nil
}
