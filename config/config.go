// Package config loads the rewriter's TOML configuration: where the
// filter cache lives on disk, how large its in-memory layer is allowed to
// grow, and what level the structured logger runs at.
package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// MemCache configures the bounded in-memory layer (backed by ristretto) that
// sits in front of the persistent goleveldb filter cache.
type MemCache struct {
	NumCounters int64 `toml:"num_counters"`
	MaxCost     int64 `toml:"max_cost"`
	BufferItems int64 `toml:"buffer_items"`
}

// Config is the top-level shape of a josh TOML config file.
type Config struct {
	// CacheDir is where the persistent goleveldb filter cache is opened.
	CacheDir string `toml:"cache_dir"`
	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level,omitempty"`
	// MemCache sizes the in-memory cache layer.
	MemCache MemCache `toml:"mem_cache,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		CacheDir: ".josh/cache",
		LogLevel: "info",
		MemCache: MemCache{
			NumCounters: 1_000_000,
			MaxCost:     1 << 27,
			BufferItems: 64,
		},
	}
}

// Load reads and decodes the TOML config file at path, overlaying it onto
// Default(). A missing file is not an error: Default() is returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := decode(f, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	_, err := toml.NewDecoder(r).Decode(cfg)
	return err
}

// Level parses LogLevel, defaulting to logrus.InfoLevel on an empty or
// unrecognized value.
func (c *Config) Level() logrus.Level {
	if c.LogLevel == "" {
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
