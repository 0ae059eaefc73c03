// Package app wires configuration into a ready-to-use library for the
// binaries.
package app

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"harshagw/qanun/internal/config"
	"harshagw/qanun/internal/index"
	"harshagw/qanun/internal/library"
	"harshagw/qanun/internal/loader"
	"harshagw/qanun/internal/logger"
	"harshagw/qanun/internal/metrics"
	"harshagw/qanun/internal/source"
)

// LoadConfig reads .env files, then the optional config file, then the
// QANUN_* environment.
func LoadConfig(path string) (config.Config, error) {
	// Try current directory first, then the project root.
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Logger builds the root logger from cfg.
func Logger(cfg config.Config) zerolog.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})
}

// Registry returns the configured source catalog.
func Registry(cfg config.Config) (*source.Registry, error) {
	if cfg.SourcesFile == "" {
		return source.Default(), nil
	}
	return source.LoadFile(cfg.SourcesFile)
}

// IndexConfig maps the search settings onto the index configuration.
func IndexConfig(cfg config.Config) index.Config {
	ic := index.DefaultConfig()
	ic.Fuzzy.Threshold = cfg.Search.Threshold
	ic.Fuzzy.IgnoreDiacritics = cfg.Search.IgnoreDiacritics
	return ic
}

// Library assembles the registry, loader and library. m may be nil.
func Library(cfg config.Config, log zerolog.Logger, m *metrics.Metrics) (*library.Library, error) {
	registry, err := Registry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	books, err := loader.New(cfg.DataDir, registry, loader.Options{
		CacheSize: cfg.Cache.Books,
		Logger:    logger.Component(log, "loader"),
	})
	if err != nil {
		return nil, err
	}

	opts := library.Options{
		SnapshotDir: cfg.SnapshotDir,
		Index:       IndexConfig(cfg),
		Extended:    cfg.Search.Extended,
		Logger:      logger.Component(log, "library"),
	}
	if m != nil {
		opts.SearchObserver = m
		opts.IndexObserver = m
	}
	return library.New(registry, books, opts), nil
}
