package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/frame"
)

// Catalog is a named set of datasets loaded from one directory
type Catalog struct {
	Name     string
	Path     string
	Datasets map[string]*frame.GeoFrame
}

// LoadCatalog loads every subdirectory of dir that carries a meta.json.
// A catalog meta.json in dir itself is optional and only supplies the name.
func LoadCatalog(dir string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cat := &Catalog{
		Name:     filepath.Base(dir),
		Path:     dir,
		Datasets: make(map[string]*frame.GeoFrame),
	}

	if b, err := os.ReadFile(filepath.Join(dir, "meta.json")); err == nil {
		var meta CatalogMeta
		if err := json.Unmarshal(b, &meta); err != nil {
			return nil, errors.Wrap(err, "failed to parse catalog meta")
		}
		if meta.Name != "" {
			cat.Name = meta.Name
		}
	}

	// Read all entries in the catalog directory
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read catalog directory")
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		path := filepath.Join(dir, name)
		if _, err := os.Stat(filepath.Join(path, "meta.json")); err != nil {
			continue
		}

		gf, err := LoadFrame(path, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load dataset %s", name)
		}

		cat.Datasets[name] = gf
	}

	logger.Info("catalog loaded",
		slog.String("name", cat.Name),
		slog.String("path", dir),
		slog.Int("dataset_count", len(cat.Datasets)),
	)

	return cat, nil
}

// Get returns a dataset by name
func (c *Catalog) Get(name string) (*frame.GeoFrame, bool) {
	gf, ok := c.Datasets[name]
	return gf, ok
}
