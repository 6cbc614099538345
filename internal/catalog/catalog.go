// Package catalog provides discovery and metadata for the bundled algorithms.
//
// Metadata ships as embedded YAML files, one per algorithm. The catalog never
// touches the producer registry: it only reads metadata, so listing
// algorithms stays cheap and side-effect free.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
)

//go:embed metas/*.yaml
var metaFiles embed.FS

// Meta is the full metadata of one algorithm as declared in its YAML file.
type Meta struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Difficulty  string `yaml:"difficulty"`
	Complexity  struct {
		Time  string `yaml:"time"`
		Space string `yaml:"space"`
	} `yaml:"complexity"`
	DefaultInputs map[string]any `yaml:"default_inputs"`
}

// Config is the configuration for the catalog.
type Config struct {
	// FS is the filesystem holding the *.yaml metadata files. Defaults to the
	// embedded metadata bundle.
	FS fs.FS

	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.FS == nil {
		sub, err := fs.Sub(metaFiles, "metas")
		if err != nil {
			return fmt.Errorf("could not open embedded metadata: %w", err)
		}
		c.FS = sub
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "catalog.Catalog"})
	return nil
}

// Catalog holds the loaded algorithm metadata.
type Catalog struct {
	infos  []model.AlgorithmInfo
	metas  map[string]Meta
	logger log.Logger
}

// New loads and validates all algorithm metadata. Unlike listing, loading is
// eager: a malformed metadata file is a packaging bug and should surface at
// startup, not on first use.
func New(cfg Config) (*Catalog, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	entries, err := fs.Glob(cfg.FS, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("could not list metadata files: %w", err)
	}

	c := &Catalog{
		metas:  make(map[string]Meta, len(entries)),
		logger: cfg.Logger,
	}

	for _, name := range entries {
		data, err := fs.ReadFile(cfg.FS, name)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", name, err)
		}

		var meta Meta
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", name, err)
		}

		info := model.AlgorithmInfo{
			ID:              meta.ID,
			Name:            meta.Name,
			Category:        model.AlgorithmCategory(meta.Category),
			Description:     meta.Description,
			Difficulty:      meta.Difficulty,
			TimeComplexity:  meta.Complexity.Time,
			SpaceComplexity: meta.Complexity.Space,
		}
		if err := info.Validate(); err != nil {
			return nil, fmt.Errorf("invalid metadata in %s: %w", name, err)
		}
		if _, ok := c.metas[meta.ID]; ok {
			return nil, fmt.Errorf("algorithm %q declared twice: %w", meta.ID, model.ErrAlreadyExists)
		}

		c.metas[meta.ID] = meta
		c.infos = append(c.infos, info)
	}

	sort.Slice(c.infos, func(i, j int) bool {
		if c.infos[i].Category != c.infos[j].Category {
			return c.infos[i].Category < c.infos[j].Category
		}
		return c.infos[i].Name < c.infos[j].Name
	})

	cfg.Logger.Debugf("Loaded %d algorithm metadata files", len(c.infos))

	return c, nil
}

// List returns all algorithms sorted by category, then name. If category is
// not empty only algorithms of that category are returned.
func (c *Catalog) List(category model.AlgorithmCategory) []model.AlgorithmInfo {
	if category == "" {
		return append([]model.AlgorithmInfo(nil), c.infos...)
	}

	var infos []model.AlgorithmInfo
	for _, info := range c.infos {
		if info.Category == category {
			infos = append(infos, info)
		}
	}
	return infos
}

// Get returns the summary metadata of a single algorithm.
func (c *Catalog) Get(id string) (*model.AlgorithmInfo, error) {
	for _, info := range c.infos {
		if info.ID == id {
			infoCopy := info
			return &infoCopy, nil
		}
	}
	return nil, fmt.Errorf("algorithm %q: %w", id, model.ErrNotFound)
}

// DefaultInputs returns a copy of the algorithm's default input parameters.
func (c *Catalog) DefaultInputs(id string) (model.Inputs, error) {
	meta, ok := c.metas[id]
	if !ok {
		return nil, fmt.Errorf("algorithm %q: %w", id, model.ErrNotFound)
	}
	if meta.DefaultInputs == nil {
		return model.Inputs{}, nil
	}
	return maps.Clone(meta.DefaultInputs), nil
}
