// Package network serves the spatial join over HTTP
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/paulmach/orb/geojson"

	"github.com/leengari/geojoin/internal/config"
	"github.com/leengari/geojoin/internal/domain/errs"
	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/sjoin"
	"github.com/leengari/geojoin/internal/storage"
	"github.com/leengari/geojoin/internal/storage/manager"
)

// JoinRequest is the body of POST /api/sjoin. Each side is either an
// inline FeatureCollection or the name of a registered dataset.
type JoinRequest struct {
	Left         json.RawMessage `json:"left,omitempty"`
	Right        json.RawMessage `json:"right,omitempty"`
	LeftDataset  string          `json:"left_dataset,omitempty"`
	RightDataset string          `json:"right_dataset,omitempty"`

	LCol     string   `json:"lcol"`
	RCol     string   `json:"rcol"`
	LeftCRS  string   `json:"left_crs,omitempty"`
	RightCRS string   `json:"right_crs,omitempty"`
	LeftIdx  []string `json:"left_index,omitempty"`
	RightIdx []string `json:"right_index,omitempty"`

	How             string `json:"how,omitempty"`
	Op              string `json:"op,omitempty"`
	LSuffix         string `json:"lsuffix,omitempty"`
	RSuffix         string `json:"rsuffix,omitempty"`
	KeepIndexColumn bool   `json:"keep_index_column,omitempty"`
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Error string `json:"error"`
}

// Datasets resolves the names accepted by left_dataset and right_dataset
// and stores uploaded collections
type Datasets interface {
	Get(name string) (*frame.GeoFrame, error)
	List() ([]string, error)
	Put(name string, gf *frame.GeoFrame)
	Save(name string) error
	Drop(name string)
}

// DatasetResponse acknowledges an uploaded dataset
type DatasetResponse struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// Server wraps the echo instance and the datasets it can join by name
type Server struct {
	echo     *echo.Echo
	datasets Datasets
	join     config.JoinConfig
}

// NewServer builds the router. datasets may be nil.
func NewServer(cfg config.Config, datasets Datasets) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	if cfg.Server.MaxBodyBytes != "" {
		e.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	}
	e.Use(requestLogger())

	s := &Server{echo: e, datasets: datasets, join: cfg.Join}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.health)

	api := s.echo.Group("/api")
	api.GET("/datasets", s.listDatasets)
	api.PUT("/datasets/:name", s.putDataset)
	api.DELETE("/datasets/:name", s.dropDataset)
	api.POST("/sjoin", s.spatialJoin)
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown
func (s *Server) Start(addr string) error {
	slog.Info("http server listening", slog.String("addr", addr))
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight joins
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listDatasets(c echo.Context) error {
	names := []string{}
	if s.datasets != nil {
		var err error
		if names, err = s.datasets.List(); err != nil {
			return s.fail(c, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"datasets": names})
}

// putDataset stores a FeatureCollection body under :name. The geometry,
// crs and index query parameters mirror the join request fields.
func (s *Server) putDataset(c echo.Context) error {
	if s.datasets == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no dataset directory configured"})
	}
	name := c.Param("name")
	if err := manager.ValidateName(name); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
	}
	opts := storage.GeoJSONOptions{
		GeometryColumn: c.QueryParam("geometry"),
		CRS:            c.QueryParam("crs"),
	}
	if idx := c.QueryParam("index"); idx != "" {
		opts.Index = strings.Split(idx, ",")
	}
	gf, err := s.collection(raw, opts, "body")
	if err != nil {
		return s.fail(c, err)
	}

	s.datasets.Put(name, gf)
	if err := s.datasets.Save(name); err != nil {
		s.datasets.Drop(name)
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, DatasetResponse{Name: name, Rows: gf.Len()})
}

// dropDataset evicts :name from the cache; the next use reloads it
func (s *Server) dropDataset(c echo.Context) error {
	if s.datasets != nil {
		s.datasets.Drop(c.Param("name"))
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) spatialJoin(c echo.Context) error {
	var req JoinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + bindMessage(err)})
	}

	if req.LCol == "" {
		req.LCol = storage.DefaultGeometryColumn
	}
	if req.RCol == "" {
		req.RCol = storage.DefaultGeometryColumn
	}

	// Anything wrong while decoding an input is the client's fault
	left, err := s.side(req.Left, req.LeftDataset, req.LCol, req.LeftCRS, req.LeftIdx, "left")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	right, err := s.side(req.Right, req.RightDataset, req.RCol, req.RightCRS, req.RightIdx, "right")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	joiner := sjoin.New()

	// Register logging observer for lifecycle tracing
	joiner.AddObserver(sjoin.NewLoggingObserver())

	result, err := joiner.Join(left, right, req.LCol, req.RCol, s.options(req))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, storage.ToFeatureCollection(result))
}

// side resolves one input. Inline collections put their geometry under
// the join column name.
func (s *Server) side(raw json.RawMessage, dataset, col, crs string, index []string, which string) (*frame.GeoFrame, error) {
	if dataset != "" {
		if s.datasets == nil {
			return nil, &errs.ValueError{Param: which + "_dataset", Value: dataset, Reason: "unknown dataset"}
		}
		gf, err := s.datasets.Get(dataset)
		if err != nil {
			return nil, &errs.ValueError{Param: which + "_dataset", Value: dataset, Reason: "unknown dataset: " + err.Error()}
		}
		return gf, nil
	}

	return s.collection(raw, storage.GeoJSONOptions{GeometryColumn: col, CRS: crs, Index: index}, which)
}

func (s *Server) collection(raw []byte, opts storage.GeoJSONOptions, which string) (*frame.GeoFrame, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &errs.ValueError{Param: which, Reason: "missing feature collection"}
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, &errs.ValueError{Param: which, Reason: "invalid feature collection: " + err.Error()}
	}
	return storage.FromFeatureCollection(fc, opts)
}

// bindMessage unwraps the echo error so clients see the decoder message
func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			return he.Internal.Error()
		}
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

// options layers the request over the configured join defaults
func (s *Server) options(req JoinRequest) sjoin.Options {
	pick := func(v, d string) string {
		if v != "" {
			return v
		}
		return d
	}
	return sjoin.Options{
		How:             sjoin.How(pick(req.How, s.join.How)),
		Op:              sjoin.Op(pick(req.Op, s.join.Op)),
		LSuffix:         pick(req.LSuffix, s.join.LSuffix),
		RSuffix:         pick(req.RSuffix, s.join.RSuffix),
		KeepIndexColumn: req.KeepIndexColumn || s.join.KeepIndexColumn,
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		slog.Error("spatial join failed", slog.Any("error", err))
	} else {
		slog.Debug("spatial join rejected", slog.Any("error", err))
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	var te *errs.TypeError
	var ve *errs.ValueError
	var ce *errs.ColumnNotFoundError
	var ge *errs.GeometryError
	switch {
	case errors.As(err, &te), errors.As(err, &ve), errors.As(err, &ce), errors.As(err, &ge):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			slog.Debug("http request",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Int("status", c.Response().Status),
			)
			return err
		}
	}
}
