package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/leengari/geojoin/internal/config"
	"github.com/leengari/geojoin/internal/display"
	"github.com/leengari/geojoin/internal/domain/errs"
	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/sjoin"
	"github.com/leengari/geojoin/internal/storage"
	"github.com/leengari/geojoin/internal/storage/export"
	"github.com/leengari/geojoin/internal/storage/writer"
)

type joinFlags struct {
	left, right       string
	lcol, rcol        string
	how, op           string
	lsuffix, rsuffix  string
	leftIdx, rightIdx []string
	leftCRS, rightCRS string
	keepIndexColumn   bool
	format, out       string
	maxRows           int
}

var outputFormats = []string{"table", "geojson", "csv", "json", "arrow", "parquet"}

func newJoinCmd() *cobra.Command {
	f := &joinFlags{}

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Run one spatial join and write the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.left, "left", "", "left input: dataset directory, .csv or .geojson")
	fl.StringVar(&f.right, "right", "", "right input: dataset directory, .csv or .geojson")
	fl.StringVar(&f.lcol, "lcol", storage.DefaultGeometryColumn, "left geometry column")
	fl.StringVar(&f.rcol, "rcol", storage.DefaultGeometryColumn, "right geometry column")
	fl.StringVar(&f.how, "how", "", "inner, left or right (config default when empty)")
	fl.StringVar(&f.op, "op", "", "intersects, contains or within (config default when empty)")
	fl.StringVar(&f.lsuffix, "lsuffix", "", "suffix for overlapping left columns")
	fl.StringVar(&f.rsuffix, "rsuffix", "", "suffix for overlapping right columns")
	fl.StringSliceVar(&f.leftIdx, "left-index", nil, "left columns to use as the row index")
	fl.StringSliceVar(&f.rightIdx, "right-index", nil, "right columns to use as the row index")
	fl.StringVar(&f.leftCRS, "left-crs", "", "CRS of a left file input")
	fl.StringVar(&f.rightCRS, "right-crs", "", "CRS of a right file input")
	fl.BoolVar(&f.keepIndexColumn, "keep-index-column", false, "keep the other side's index_<suffix> column")
	fl.StringVar(&f.format, "format", "table", strings.Join(outputFormats, ", "))
	fl.StringVar(&f.out, "out", "", "output file, or catalog directory for --format json (stdout when empty)")
	fl.IntVar(&f.maxRows, "max-rows", display.DefaultConfig().MaxRows, "rows shown by --format table")

	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("right")
	return cmd
}

func runJoin(cmd *cobra.Command, f *joinFlags) error {
	if !validFormat(f.format) {
		return errs.NewInvalidChoice("format", f.format, outputFormats...)
	}
	logger := slog.Default()

	left, err := storage.Load(f.left, storage.LoadOptions{Geometry: f.lcol, CRS: f.leftCRS}, logger)
	if err != nil {
		return errors.Wrap(err, "load left input")
	}
	right, err := storage.Load(f.right, storage.LoadOptions{Geometry: f.rcol, CRS: f.rightCRS}, logger)
	if err != nil {
		return errors.Wrap(err, "load right input")
	}

	if len(f.leftIdx) > 0 {
		if left, err = left.SetIndex(f.leftIdx...); err != nil {
			return err
		}
	}
	if len(f.rightIdx) > 0 {
		if right, err = right.SetIndex(f.rightIdx...); err != nil {
			return err
		}
	}

	joiner := sjoin.New()
	joiner.AddObserver(sjoin.NewLoggingObserver())

	result, err := joiner.Join(left, right, f.lcol, f.rcol, joinOptions(f, cfg.Join))
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), result, f)
}

func validFormat(format string) bool {
	for _, f := range outputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// joinOptions layers the flags over the configured join defaults
func joinOptions(f *joinFlags, d config.JoinConfig) sjoin.Options {
	pick := func(v, d string) string {
		if v != "" {
			return v
		}
		return d
	}
	return sjoin.Options{
		How:             sjoin.How(pick(f.how, d.How)),
		Op:              sjoin.Op(pick(f.op, d.Op)),
		LSuffix:         pick(f.lsuffix, d.LSuffix),
		RSuffix:         pick(f.rsuffix, d.RSuffix),
		KeepIndexColumn: f.keepIndexColumn || d.KeepIndexColumn,
	}
}

func writeResult(stdout io.Writer, result *frame.GeoFrame, f *joinFlags) error {
	if f.format == "json" {
		if f.out == "" {
			return &errs.ValueError{Param: "out", Reason: "--format json needs a catalog directory"}
		}
		return writer.SaveFrame(result, f.out, "result")
	}

	if f.out == "" {
		return encodeResult(stdout, result, f)
	}

	fh, err := createOutput(f.out)
	if err != nil {
		return errors.Wrapf(err, "create %s", f.out)
	}
	if err := encodeResult(fh, result, f); err != nil {
		fh.Close()
		return err
	}
	// buffered writers may only report a failed flush here
	return errors.Wrapf(fh.Close(), "close %s", f.out)
}

// createOutput opens the --out file; tests replace it
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func encodeResult(w io.Writer, result *frame.GeoFrame, f *joinFlags) error {
	switch f.format {
	case "table":
		dc := display.DefaultConfig()
		dc.MaxRows = f.maxRows
		display.Render(w, result, dc)
		return nil
	case "geojson":
		return storage.WriteGeoJSON(w, result)
	case "csv":
		return storage.WriteCSV(w, result, ',')
	case "arrow":
		return export.WriteArrow(w, result)
	case "parquet":
		return export.WriteParquet(w, result)
	}
	return errs.NewInvalidChoice("format", f.format, outputFormats...)
}
