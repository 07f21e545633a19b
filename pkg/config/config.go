// Package config loads driftline configuration from TOML, YAML, or JSON.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for driftline.
type Config struct {
	Storage StorageConfig `koanf:"storage"`
	History HistoryConfig `koanf:"history"`
	Trend   TrendConfig   `koanf:"trend"`
	Ingest  IngestConfig  `koanf:"ingest"`
	Output  OutputConfig  `koanf:"output"`
}

// StorageConfig controls where the build database lives.
type StorageConfig struct {
	Dir string `koanf:"dir"`
}

// HistoryConfig bounds backward build walks.
type HistoryConfig struct {
	// MaxWalk caps the number of builds visited per walk; a store
	// returning a cyclic previous-build chain fails fast at this bound.
	MaxWalk int `koanf:"max_walk"`
}

// TrendConfig controls trend chart construction.
type TrendConfig struct {
	MaxBuilds         int    `koanf:"max_builds"`
	ChartType         string `koanf:"chart_type"` // tools_only, severity, none
	SeverityBreakdown bool   `koanf:"severity_breakdown"`
}

// IngestConfig controls report ingestion.
type IngestConfig struct {
	Validate bool `koanf:"validate"`
	Blame    bool `koanf:"blame"`
	Workers  int  `koanf:"workers"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: ".driftline",
		},
		History: HistoryConfig{
			MaxWalk: 10000,
		},
		Trend: TrendConfig{
			MaxBuilds: 50,
			ChartType: "tools_only",
		},
		Ingest: IngestConfig{
			Validate: true,
			Workers:  0, // auto
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries standard config locations and falls back to defaults.
func LoadOrDefault() *Config {
	names := []string{
		"driftline.toml",
		"driftline.yaml",
		"driftline.yml",
		"driftline.json",
		".driftline.toml",
		".driftline.yaml",
		".driftline.yml",
		".driftline.json",
	}

	for _, dir := range []string{".", ".driftline"} {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				if cfg, err := Load(path); err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}
