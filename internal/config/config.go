// Package config loads the crdb configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/crdb/config.toml (or
// ~/.config/crdb/config.toml). A missing file yields [Default]. Command-line
// flags override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/crdb/pkg/cache"
	"github.com/matzehuels/crdb/pkg/crdb"
	crdberrors "github.com/matzehuels/crdb/pkg/errors"
	"github.com/matzehuels/crdb/pkg/integrations"
)

const appName = "crdb"

// Config is the effective configuration.
type Config struct {
	ServerURL string   `toml:"server_url"`
	Timeout   Duration `toml:"timeout"`
	Parallel  int      `toml:"parallel"`
	Cache     Cache    `toml:"cache"`
	Metrics   Metrics  `toml:"metrics"`
	Server    Server   `toml:"server"`
}

// Cache selects and configures the response cache.
type Cache struct {
	Backend       string   `toml:"backend"`
	TTL           Duration `toml:"ttl"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// Metrics configures OTLP export. An empty endpoint disables metrics.
type Metrics struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
	Insecure     bool   `toml:"insecure"`
}

// Server configures "crdb serve".
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("120s", "720h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL: crdb.DefaultServerURL,
		Timeout:   Duration{integrations.DefaultTimeout},
		Parallel:  crdb.DefaultParallel,
		Cache: Cache{
			Backend:   cache.BackendFile,
			TTL:       Duration{cache.TTLHTTP},
			RedisAddr: "localhost:6379",
		},
		Metrics: Metrics{Insecure: true},
		Server:  Server{Addr: ":8080"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the default cache directory using the XDG standard
// (~/.cache/crdb).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the file at path on top of [Default]. An empty path means
// [Path]. A missing file is not an error unless path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendMemory, cache.BackendRedis, cache.BackendNone:
	default:
		return fmt.Errorf("cache.backend: %w: %q", cache.ErrUnknownBackend, c.Cache.Backend)
	}
	if c.ServerURL != "" {
		if err := crdberrors.ValidateURL(c.ServerURL); err != nil {
			return fmt.Errorf("server_url: %s", crdberrors.UserMessage(err))
		}
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Parallel < 0 {
		return fmt.Errorf("parallel must not be negative")
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open]. An empty Dir
// resolves to [CacheDir].
func (c Config) CacheOptions() (cache.Options, error) {
	dir := c.Cache.Dir
	if dir == "" && c.Cache.Backend == cache.BackendFile {
		d, err := CacheDir()
		if err != nil {
			return cache.Options{}, fmt.Errorf("get cache dir: %w", err)
		}
		dir = d
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
	}, nil
}

// Encode renders c as TOML. The Redis password is masked.
func (c Config) Encode() (string, error) {
	if c.Cache.RedisPassword != "" {
		c.Cache.RedisPassword = "********"
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}
