package sources

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jackzampolin/bookmark/internal/fetch"
)

// Registry holds sources by name and hands them out in a requested order.
// It is safe for concurrent use so the server can swap sources on config reload.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds or replaces a source under its Name.
func (r *Registry) Register(src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[src.Name()] = src
	if r.logger != nil {
		r.logger.Debug("registered source", "name", src.Name())
	}
}

// Unregister removes a source by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, name)
}

// Get returns a source by name.
func (r *Registry) Get(name string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("source not found: %s", name)
	}
	return src, nil
}

// Has reports whether a source is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sources[name]
	return ok
}

// List returns all registered source names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ordered returns the registered sources named in order, skipping unknown names.
func (r *Registry) Ordered(order []string) []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, 0, len(order))
	for _, name := range order {
		if src, ok := r.sources[name]; ok {
			out = append(out, src)
		} else if r.logger != nil {
			r.logger.Warn("unknown source in order", "name", name)
		}
	}
	return out
}

// Reload replaces all sources with those built from cfg.
func (r *Registry) Reload(cfg RegistryConfig, f fetch.Fetcher) {
	built := Build(cfg, f)

	r.mu.Lock()
	r.sources = make(map[string]Source, len(built))
	for _, src := range built {
		r.sources[src.Name()] = src
	}
	logger := r.logger
	r.mu.Unlock()

	if logger != nil {
		logger.Info("source registry reloaded", "count", len(built))
	}
}

// SourceConfig configures one adapter.
type SourceConfig struct {
	Enabled bool
	BaseURL string
}

// RegistryConfig configures every adapter.
type RegistryConfig struct {
	Litres            LitresConfig
	Labirint          SourceConfig
	OpenLibrary       SourceConfig
	GoogleBooks       SourceConfig
	MaxScrapedEntries int
}

// Build constructs the enabled adapters.
func Build(cfg RegistryConfig, f fetch.Fetcher) []Source {
	var out []Source
	if cfg.Litres.Enabled {
		out = append(out, NewLitres(f, cfg.Litres))
	}
	if cfg.Labirint.Enabled {
		out = append(out, NewLabirint(f, cfg.Labirint.BaseURL, cfg.MaxScrapedEntries))
	}
	if cfg.OpenLibrary.Enabled {
		out = append(out, NewOpenLibrary(f, cfg.OpenLibrary.BaseURL))
	}
	if cfg.GoogleBooks.Enabled {
		out = append(out, NewGoogleBooks(f, cfg.GoogleBooks.BaseURL))
	}
	return out
}

// NewDefaultRegistry builds a registry with every adapter on its public endpoint.
func NewDefaultRegistry(f fetch.Fetcher) *Registry {
	r := NewRegistry()
	for _, src := range Build(DefaultRegistryConfig(), f) {
		r.Register(src)
	}
	return r
}

// DefaultRegistryConfig enables every adapter with its public endpoint.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		Litres:            LitresConfig{Enabled: true},
		Labirint:          SourceConfig{Enabled: true},
		OpenLibrary:       SourceConfig{Enabled: true},
		GoogleBooks:       SourceConfig{Enabled: true},
		MaxScrapedEntries: DefaultMaxScrapedEntries,
	}
}
