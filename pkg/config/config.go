// Package config loads citecheck settings from a TOML file and the
// environment.
//
// The file lives at $XDG_CONFIG_HOME/citecheck/config.toml (or
// ~/.config/citecheck/config.toml) unless a path is given explicitly. Every
// field is optional:
//
//	log_level = "info"
//
//	[trace]
//	policy = "stop"    # stop | skip
//	locale = "zh-TW"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//	max_body_bytes = 10485760
//
//	[cache]
//	backend = "file"   # none | memory | file | redis
//	dir = ""           # defaults to $XDG_CACHE_HOME/citecheck
//	ttl = "168h"
//	redis_addr = "localhost:6379"
//
// CITECHECK_REDIS_ADDR and CITECHECK_CACHE_BACKEND override the file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/outsider987/Patlytics-hotfix/pkg/cache"
	"github.com/outsider987/Patlytics-hotfix/pkg/cycle"
	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "citecheck"

// Environment overrides.
const (
	EnvRedisAddr    = "CITECHECK_REDIS_ADDR"
	EnvCacheBackend = "CITECHECK_CACHE_BACKEND"
)

// Config is the full settings tree.
type Config struct {
	LogLevel string `toml:"log_level"`
	Trace    Trace  `toml:"trace"`
	Server   Server `toml:"server"`
	Cache    Cache  `toml:"cache"`
}

// Trace holds defaults for instrumented runs.
type Trace struct {
	Policy string `toml:"policy"`
	Locale string `toml:"locale"`
}

// Server configures the HTTP service.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Cache configures trace and result storage.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct{ time.Duration }

// UnmarshalText parses strings such as "10s" or "168h".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Trace: Trace{
			Policy: string(cycle.PolicyStop),
			Locale: "zh-TW",
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			MaxBodyBytes: 10 << 20,
		},
		Cache: Cache{
			Backend:   cache.BackendFile,
			TTL:       Duration{cache.TTLTrace},
			RedisAddr: cache.DefaultRedisAddr,
		},
	}
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. An empty path means [DefaultPath]; a missing default
// file is not an error, a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "locate config")
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg.applyEnv()
	if cfg.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
}

// Validate checks every enumerated and numeric field.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "log_level %q (must be debug, info, warn or error)", c.LogLevel)
	}
	if _, err := cycle.ParsePolicy(c.Trace.Policy); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "trace.policy")
	}
	if _, err := cycle.ParseLocale(c.Trace.Locale); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "trace.locale")
	}
	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server timeouts must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendMemory, cache.BackendFile, cache.BackendRedis:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend %q (must be none, memory, file or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Cache.RedisAddr,
		RedisDB:   c.Cache.RedisDB,
	}
}

// Keyer returns the cache keyer for the configured prefix, or nil for the
// default keyer.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// DefaultPath is $XDG_CONFIG_HOME/citecheck/config.toml, falling back to
// ~/.config/citecheck/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir is $XDG_CACHE_HOME/citecheck, falling back to ~/.cache/citecheck.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
