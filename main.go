package main

import (
	"os"

	"github.com/leengari/geojoin/internal/config"
	"github.com/leengari/geojoin/internal/display"
	"github.com/leengari/geojoin/internal/domain/data"
	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/logging"
	"github.com/leengari/geojoin/internal/sjoin"
)

func main() {
	logger, closeFn := logging.SetupLogger(config.Default().Log)
	defer closeFn()

	logger.Info("Starting spatial join demo...")

	// 1. Build the two line sets
	left, err := lineFrame("A", "geometry", "LINESTRING(0 0,2 2)", "LINESTRING(1 0,1 3)")
	if err != nil {
		logger.Error("failed to build left frame", "error", err)
		closeFn()
		os.Exit(1)
	}
	right, err := lineFrame("C", "location", "LINESTRING(1 0,3 4)", "LINESTRING(0 0,6 7)")
	if err != nil {
		logger.Error("failed to build right frame", "error", err)
		closeFn()
		os.Exit(1)
	}

	// 2. Join with lifecycle tracing
	joiner := sjoin.New()
	joiner.AddObserver(sjoin.NewLoggingObserver())

	for _, how := range []sjoin.How{sjoin.HowInner, sjoin.HowLeft, sjoin.HowRight} {
		result, err := joiner.Join(left, right, "geometry", "location", sjoin.Options{How: how})
		if err != nil {
			logger.Error("join failed", "how", how, "error", err)
			closeFn()
			os.Exit(1)
		}

		// 3. Show the result
		logger.Info("join result", "how", how, "rows", result.Len())
		display.Render(os.Stdout, result, display.DefaultConfig())
	}
}

func lineFrame(valueCol, geomCol string, wkts ...string) (*frame.GeoFrame, error) {
	rows := make([]data.Row, len(wkts))
	for i, w := range wkts {
		rows[i] = data.Row{valueCol: int64(i), geomCol: w}
	}
	f, err := frame.New([]string{valueCol, geomCol}, rows)
	if err != nil {
		return nil, err
	}
	return frame.NewGeoFrame(f, frame.GeoColumnSpec{Name: geomCol, CRS: "EPSG:4326"})
}
