package manager

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/storage"
	"github.com/leengari/geojoin/internal/storage/writer"
)

// Registry manages loaded datasets in a thread-safe way. Datasets load
// on first use and stay cached, so a spatial index built by one join is
// reused by the next.
type Registry struct {
	mu       sync.RWMutex
	loaded   map[string]*frame.GeoFrame
	basePath string
	logger   *slog.Logger
}

// NewRegistry creates a registry over the dataset directories in basePath
func NewRegistry(basePath string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		loaded:   make(map[string]*frame.GeoFrame),
		basePath: basePath,
		logger:   logger,
	}
}

// Get returns a dataset, loading it from disk when not cached
func (r *Registry) Get(name string) (*frame.GeoFrame, error) {
	r.mu.RLock()
	gf, ok := r.loaded[name]
	r.mu.RUnlock()
	if ok {
		return gf, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check cache again, another caller may have loaded it
	if gf, ok := r.loaded[name]; ok {
		return gf, nil
	}

	if err := ValidateName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(r.basePath, name)
	if _, err := os.Stat(filepath.Join(path, "meta.json")); err != nil {
		return nil, errors.Newf("dataset '%s' not found", name)
	}

	gf, err := storage.LoadFrame(path, r.logger)
	if err != nil {
		return nil, err
	}

	r.loaded[name] = gf
	return gf, nil
}

// ValidateName rejects names that are not a single path element
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return errors.Newf("invalid dataset name %q", name)
	}
	return nil
}

// Put caches gf under name without writing it
func (r *Registry) Put(name string, gf *frame.GeoFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded[name] = gf
}

// Preload loads every dataset under basePath into the cache
func (r *Registry) Preload() error {
	cat, err := storage.LoadCatalog(r.basePath, r.logger)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, gf := range cat.Datasets {
		if _, ok := r.loaded[name]; !ok {
			r.loaded[name] = gf
		}
	}
	return nil
}

// Save writes one cached dataset back to disk
func (r *Registry) Save(name string) error {
	r.mu.RLock()
	gf, ok := r.loaded[name]
	r.mu.RUnlock()
	if !ok {
		return errors.Newf("dataset '%s' is not loaded", name)
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := writer.SaveFrame(gf, r.basePath, name); err != nil {
		return err
	}
	r.logger.Info("dataset saved", slog.String("name", name), slog.Int("rows", gf.Len()))
	return nil
}

// Drop unloads a dataset so the next Get reads it from disk again. The
// files on disk are left alone.
func (r *Registry) Drop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loaded, name)
}

// List returns the names of all available datasets, loaded or on disk
func (r *Registry) List() ([]string, error) {
	seen := make(map[string]bool)

	r.mu.RLock()
	for name := range r.loaded {
		seen[name] = true
	}
	r.mu.RUnlock()

	entries, err := os.ReadDir(r.basePath)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "list datasets")
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(r.basePath, e.Name(), "meta.json")); err == nil {
			seen[e.Name()] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
