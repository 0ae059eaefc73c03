// Package config loads qanun settings from files and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	// DataDir holds one directory per source with a JSON file per book.
	DataDir string `yaml:"dataDir" json:"dataDir"`
	// SourcesFile optionally replaces the built-in source catalog.
	SourcesFile string `yaml:"sourcesFile" json:"sourcesFile"`
	// SnapshotDir persists the built index. Empty disables persistence.
	SnapshotDir string `yaml:"snapshotDir" json:"snapshotDir"`

	Search struct {
		Threshold        float64 `yaml:"threshold" json:"threshold"`
		Limit            int     `yaml:"limit" json:"limit"`
		IgnoreDiacritics bool    `yaml:"ignoreDiacritics" json:"ignoreDiacritics"`
		Extended         bool    `yaml:"extended" json:"extended"`
	} `yaml:"search" json:"search"`

	Cache struct {
		Books int `yaml:"books" json:"books"`
	} `yaml:"cache" json:"cache"`

	Server struct {
		Addr    string `yaml:"addr" json:"addr"`
		Metrics bool   `yaml:"metrics" json:"metrics"`
	} `yaml:"server" json:"server"`

	Log struct {
		Level  string `yaml:"level" json:"level"`
		Pretty bool   `yaml:"pretty" json:"pretty"`
	} `yaml:"log" json:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.DataDir = "data"
	c.Search.Threshold = 0.3
	c.Search.Limit = 20
	c.Cache.Books = 32
	c.Server.Addr = ":8080"
	c.Server.Metrics = true
	c.Log.Level = "info"
	return c
}

// LoadFile overlays the YAML or JSON file at path onto Default. The format
// follows the extension; unknown extensions try YAML and then JSON.
func LoadFile(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse json: %w", err)
		}
	default:
		if yerr := yaml.Unmarshal(b, &c); yerr != nil {
			c = Default()
			if jerr := json.Unmarshal(b, &c); jerr != nil {
				return c, errors.New("unsupported config format; use .yaml, .yml, or .json")
			}
		}
	}
	return c, c.Validate()
}

// ApplyEnv overlays QANUN_* environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("QANUN_DATA_DIR", &c.DataDir)
	str("QANUN_SOURCES_FILE", &c.SourcesFile)
	str("QANUN_SNAPSHOT_DIR", &c.SnapshotDir)
	str("QANUN_ADDR", &c.Server.Addr)
	str("QANUN_LOG_LEVEL", &c.Log.Level)
	if v, ok := lookup("PORT"); ok && v != "" {
		c.Server.Addr = ":" + v
	}

	if v, ok := lookup("QANUN_SEARCH_THRESHOLD"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("QANUN_SEARCH_THRESHOLD: %w", err)
		}
		c.Search.Threshold = f
	}
	if v, ok := lookup("QANUN_SEARCH_LIMIT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QANUN_SEARCH_LIMIT: %w", err)
		}
		c.Search.Limit = n
	}
	for key, dst := range map[string]*bool{
		"QANUN_LOG_PRETTY":        &c.Log.Pretty,
		"QANUN_IGNORE_DIACRITICS": &c.Search.IgnoreDiacritics,
		"QANUN_EXTENDED_SEARCH":   &c.Search.Extended,
		"QANUN_METRICS":           &c.Server.Metrics,
	} {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}
	return c.Validate()
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("dataDir must be set")
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("search threshold %v out of [0,1]", c.Search.Threshold)
	}
	if c.Cache.Books < 0 {
		return fmt.Errorf("cache size %d is negative", c.Cache.Books)
	}
	return nil
}
