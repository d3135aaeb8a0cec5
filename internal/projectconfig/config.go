// Package projectconfig provides the ProjectConfig struct and loader for
// .surveylens.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultDataFile      = "data.csv"
	DefaultQuestionsFile = "questions.yaml"

	DefaultSortOrder = "desc"

	DefaultCacheCapacity = 64

	DefaultServerPort = 3000
)

// PathsConfig holds file paths for the dataset and question config.
type PathsConfig struct {
	Data      string `yaml:"data,omitempty"`
	Questions string `yaml:"questions,omitempty"`
}

// DefaultsConfig holds default analysis parameters.
type DefaultsConfig struct {
	SortOrder        string   `yaml:"sort_order,omitempty"`
	RespondentColumn string   `yaml:"respondent_column,omitempty"`
	RowLevel         *bool    `yaml:"row_level,omitempty"`
	Controls         []string `yaml:"controls,omitempty"`
}

// CacheConfig holds memoization settings.
type CacheConfig struct {
	Enabled  *bool `yaml:"enabled,omitempty"`
	Capacity int   `yaml:"capacity,omitempty"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .surveylens.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Data:      DefaultDataFile,
			Questions: DefaultQuestionsFile,
		},
		Defaults: DefaultsConfig{
			SortOrder: DefaultSortOrder,
			RowLevel:  boolPtr(false),
		},
		Cache: CacheConfig{
			Enabled:  boolPtr(true),
			Capacity: DefaultCacheCapacity,
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
	}
}

// Load finds .surveylens.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .surveylens.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .surveylens.yaml: %w", err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .surveylens.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".surveylens.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Paths.Data != "" {
		dst.Paths.Data = src.Paths.Data
	}
	if src.Paths.Questions != "" {
		dst.Paths.Questions = src.Paths.Questions
	}

	if src.Defaults.SortOrder != "" {
		dst.Defaults.SortOrder = src.Defaults.SortOrder
	}
	if src.Defaults.RespondentColumn != "" {
		dst.Defaults.RespondentColumn = src.Defaults.RespondentColumn
	}
	if src.Defaults.RowLevel != nil {
		dst.Defaults.RowLevel = src.Defaults.RowLevel
	}
	if len(src.Defaults.Controls) > 0 {
		dst.Defaults.Controls = src.Defaults.Controls
	}

	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Capacity != 0 {
		dst.Cache.Capacity = src.Cache.Capacity
	}

	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
}

func boolPtr(b bool) *bool {
	return &b
}
