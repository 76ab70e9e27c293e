// Package config loads dashboard configuration from TOML files.
//
// Configuration is optional: every field has a working default, so the
// CLI and server run without a config file at all. A file only needs to
// name the fields it overrides:
//
//	listen = ":9000"
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/unicornviz/unicornviz/pkg/layout"
	"github.com/unicornviz/unicornviz/pkg/pipeline"
	"github.com/unicornviz/unicornviz/pkg/source"
)

// Cache backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Duration wraps time.Duration so it can be written as "30s" in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration for the dashboard.
type Config struct {
	// Listen is the server bind address.
	Listen string `toml:"listen"`

	Cache    CacheConfig    `toml:"cache"`
	Corpus   CorpusConfig   `toml:"corpus"`
	Defaults DefaultsConfig `toml:"defaults"`
	Refresh  RefreshConfig  `toml:"refresh"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "none", "file", or "redis".
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty means a directory under
	// the user cache dir.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CorpusConfig configures the MongoDB corpus store.
type CorpusConfig struct {
	// Enabled turns the corpus source on. Off by default so the
	// dashboard runs without a database.
	Enabled    bool   `toml:"enabled"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DefaultsConfig sets the initial pipeline options for the server and
// dashboard.
type DefaultsConfig struct {
	Source  string  `toml:"source"`
	Engine  string  `toml:"engine"`
	Count   int     `toml:"count"`
	Opacity float64 `toml:"opacity"`
}

// RefreshConfig configures periodic data refresh.
type RefreshConfig struct {
	Interval Duration `toml:"interval"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Listen: ":8080",
		Cache: CacheConfig{
			Backend: BackendFile,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Corpus: CorpusConfig{
			URI:        source.DefaultMongoURI,
			Database:   source.DefaultCorpusDB,
			Collection: source.DefaultCorpusColl,
		},
		Defaults: DefaultsConfig{
			Source:  pipeline.DefaultSource,
			Engine:  string(pipeline.DefaultEngine),
			Count:   pipeline.DefaultCount,
			Opacity: pipeline.DefaultOpacity,
		},
		Refresh: RefreshConfig{
			Interval: Duration(pipeline.DefaultRefreshInterval),
		},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("invalid cache backend: %q (must be one of: none, file, redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for the redis backend")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.Defaults.Engine != "" && !layout.Engine(c.Defaults.Engine).Valid() {
		return fmt.Errorf("invalid default engine: %q", c.Defaults.Engine)
	}
	if c.Defaults.Count < 0 || c.Defaults.Count > pipeline.MaxCount {
		return fmt.Errorf("default count must be in [0, %d], got %d", pipeline.MaxCount, c.Defaults.Count)
	}
	if c.Refresh.Interval.Std() < 0 {
		return fmt.Errorf("refresh interval must not be negative")
	}
	return nil
}

// PipelineOptions builds pipeline options from the configured defaults.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Source:  c.Defaults.Source,
		Count:   c.Defaults.Count,
		Engine:  c.Defaults.Engine,
		Opacity: c.Defaults.Opacity,
	}
}
