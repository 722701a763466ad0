package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/wricardo/grid-puzzle/game/engine"
	"github.com/wricardo/grid-puzzle/game/service"
)

var (
	ErrCatalogNotFound = service.ErrCatalogNotFound
	ErrInvalidCatalog  = errors.New("invalid catalog")
)

const (
	extJSON = ".json"
	extTOML = ".toml"

	// BuiltinCatalog names the catalog compiled into the engine
	BuiltinCatalog = "classic"
)

// Manager handles level catalog loading and caching. Catalog files live in a
// single directory as <name>.json or <name>.toml; the built-in catalog is
// always available under BuiltinCatalog unless a file overrides it.
type Manager struct {
	catalogDir     string
	defaultCatalog *engine.Catalog
	catalogs       map[string]*engine.Catalog
	mu             sync.RWMutex
}

// NewManager creates a new catalog manager. An empty catalogDir serves only
// the built-in catalog.
func NewManager(catalogDir string) (*Manager, error) {
	if catalogDir != "" {
		info, err := os.Stat(catalogDir)
		if err != nil {
			return nil, fmt.Errorf("catalog directory does not exist: %s", catalogDir)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("catalog path is not a directory: %s", catalogDir)
		}
	}

	m := &Manager{
		catalogDir: catalogDir,
		catalogs:   make(map[string]*engine.Catalog),
	}

	if err := m.loadDefaultCatalog(); err != nil {
		return nil, fmt.Errorf("failed to load default catalog: %w", err)
	}

	return m, nil
}

// Dir returns the catalog directory, empty when only the built-in catalog is
// served
func (m *Manager) Dir() string {
	return m.catalogDir
}

// LoadCatalog loads a catalog by name, with or without its file extension
func (m *Manager) LoadCatalog(name string) (*engine.Catalog, error) {
	key, err := catalogKey(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	// Check cache first
	if catalog, exists := m.catalogs[key]; exists {
		m.mu.RUnlock()
		return catalog, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(key, filepath.Ext(name))
}

// loadLocked reads a catalog from disk into the cache. Callers hold m.mu.
func (m *Manager) loadLocked(key, ext string) (*engine.Catalog, error) {
	// Double-check after acquiring write lock
	if catalog, exists := m.catalogs[key]; exists {
		return catalog, nil
	}

	path, err := m.findFile(key, ext)
	if errors.Is(err, ErrCatalogNotFound) && key == BuiltinCatalog {
		catalog := engine.DefaultCatalog()
		m.catalogs[key] = catalog
		return catalog, nil
	}
	if err != nil {
		return nil, err
	}

	catalog, err := ReadCatalogFile(path)
	if err != nil {
		return nil, err
	}

	m.catalogs[key] = catalog
	return catalog, nil
}

// ReadCatalogFile parses and validates a single catalog file. The format is
// chosen by extension.
func ReadCatalogFile(path string) (*engine.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var spec engine.CatalogSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case extTOML:
		if err := toml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, filepath.Base(path), err)
		}
	default:
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, filepath.Base(path), err)
		}
	}

	catalog, err := engine.ParseCatalog(&spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, filepath.Base(path), err)
	}
	return catalog, nil
}

// ListCatalogs returns information about all available catalogs. Files that
// fail validation are skipped.
func (m *Manager) ListCatalogs() ([]*service.CatalogInfo, error) {
	var infos []*service.CatalogInfo
	seen := make(map[string]bool)

	if m.catalogDir != "" {
		entries, err := os.ReadDir(m.catalogDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !IsCatalogFile(entry.Name()) {
				continue
			}

			id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			if seen[id] {
				continue
			}

			catalog, err := m.LoadCatalog(entry.Name())
			if err != nil {
				// Skip invalid catalogs
				continue
			}
			seen[id] = true
			infos = append(infos, catalogInfo(entry.Name(), id, catalog))
		}
	}

	if !seen[BuiltinCatalog] {
		catalog, err := m.LoadCatalog(BuiltinCatalog)
		if err == nil {
			infos = append(infos, catalogInfo("", BuiltinCatalog, catalog))
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].CatalogID < infos[j].CatalogID })
	return infos, nil
}

// GetDefault returns the default catalog
func (m *Manager) GetDefault() *engine.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultCatalog
}

// SetDefault sets the default catalog by name
func (m *Manager) SetDefault(name string) error {
	catalog, err := m.LoadCatalog(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultCatalog = catalog
	return nil
}

// Invalidate drops a catalog from the cache so the next load rereads it
func (m *Manager) Invalidate(name string) {
	key, err := catalogKey(name)
	if err != nil {
		return
	}
	m.mu.Lock()
	delete(m.catalogs, key)
	m.mu.Unlock()
}

// RefreshCache drops every cached catalog and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.catalogs = make(map[string]*engine.Catalog)
	m.mu.Unlock()

	return m.loadDefaultCatalog()
}

// SaveCatalog validates a catalog and writes it to the catalog directory.
// A name ending in .toml is written as TOML, anything else as JSON.
func (m *Manager) SaveCatalog(name string, catalog *engine.Catalog) error {
	if m.catalogDir == "" {
		return errors.New("no catalog directory configured")
	}
	if catalog == nil {
		return fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}

	key, err := catalogKey(name)
	if err != nil {
		return err
	}

	// Round-trip through the file format so a saved catalog always reloads
	spec := catalog.Spec()
	validated, err := engine.ParseCatalog(spec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	ext := strings.ToLower(filepath.Ext(name))
	var data []byte
	switch ext {
	case extTOML:
		data, err = toml.Marshal(spec)
	default:
		ext = extJSON
		data, err = json.MarshalIndent(spec, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	path := filepath.Join(m.catalogDir, key+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.catalogs[key] = validated
	m.mu.Unlock()

	return nil
}

// IsCatalogFile reports whether name has a catalog file extension
func IsCatalogFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case extJSON, extTOML:
		return true
	}
	return false
}

// loadDefaultCatalog loads classic from disk or the built-in catalog
func (m *Manager) loadDefaultCatalog() error {
	catalog, err := m.LoadCatalog(BuiltinCatalog)
	if err != nil {
		// A broken classic file must not take the server down
		catalog = engine.DefaultCatalog()
	}

	m.mu.Lock()
	m.defaultCatalog = catalog
	m.mu.Unlock()
	return nil
}

// findFile resolves key to an existing catalog file, preferring ext when set
func (m *Manager) findFile(key, ext string) (string, error) {
	if m.catalogDir == "" {
		return "", ErrCatalogNotFound
	}

	candidates := []string{extJSON, extTOML}
	if IsCatalogFile(ext) {
		candidates = []string{strings.ToLower(ext)}
	}
	for _, candidate := range candidates {
		path := filepath.Join(m.catalogDir, key+candidate)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrCatalogNotFound
}

// catalogKey strips a catalog file extension and rejects path components
func catalogKey(name string) (string, error) {
	key := name
	if IsCatalogFile(name) {
		key = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: bad catalog name %q", ErrInvalidCatalog, name)
	}
	return key, nil
}

func catalogInfo(filename, id string, catalog *engine.Catalog) *service.CatalogInfo {
	info := &service.CatalogInfo{
		Filename:       filename,
		CatalogID:      id,
		Name:           catalog.Name,
		Description:    catalog.Description,
		RotationPolicy: string(catalog.RotationPolicy),
		Levels:         catalog.Len(),
	}
	for _, level := range catalog.Levels {
		info.Pieces += len(level.Pieces)
	}
	return info
}
