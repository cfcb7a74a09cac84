// Package config loads program settings from a TOML file and DIJKSTRAVIZ_*
// environment variables.
//
// Precedence, lowest to highest: built-in defaults, the config file, the
// environment, then command-line flags (applied by the CLI).
package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	verr "github.com/matzehuels/dijkstraviz/pkg/errors"
)

// Fallbacks substituted for unparseable generation input.
const (
	FallbackNodes       = 1000
	FallbackProbability = 0.004
)

// Defaults.
const (
	DefaultNodes         = 2000
	DefaultProbability   = 0.004
	DefaultSeed          = 42
	DefaultRate          = 30.0
	DefaultFPS           = 60
	DefaultCancelTimeout = 50 * time.Millisecond
	DefaultCacheTTL      = 7 * 24 * time.Hour
	DefaultAddr          = "127.0.0.1:8080"

	MaxFPS = 240
)

// AppName names the config and cache directories.
const AppName = "dijkstraviz"

// Config is the full settings tree.
type Config struct {
	Generate GenerateConfig `toml:"generate"`
	Playback PlaybackConfig `toml:"playback"`
	Search   SearchConfig   `toml:"search"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

type GenerateConfig struct {
	Nodes       int     `toml:"nodes"`       // DIJKSTRAVIZ_NODES
	Probability float64 `toml:"probability"` // DIJKSTRAVIZ_PROBABILITY
	Seed        int64   `toml:"seed"`        // DIJKSTRAVIZ_SEED
}

type PlaybackConfig struct {
	Rate float64 `toml:"rate"` // DIJKSTRAVIZ_RATE, steps per second
	FPS  int     `toml:"fps"`  // DIJKSTRAVIZ_FPS, frame ticks per second
}

type SearchConfig struct {
	// CancelTimeout bounds the wait for a cancelled run to exit.
	CancelTimeout time.Duration `toml:"cancel_timeout"` // DIJKSTRAVIZ_CANCEL_TIMEOUT
}

type CacheConfig struct {
	Dir      string        `toml:"dir"`       // DIJKSTRAVIZ_CACHE_DIR
	RedisURL string        `toml:"redis_url"` // DIJKSTRAVIZ_REDIS_URL, enables Redis when set
	TTL      time.Duration `toml:"ttl"`       // DIJKSTRAVIZ_CACHE_TTL
}

type ServerConfig struct {
	Addr string `toml:"addr"` // DIJKSTRAVIZ_ADDR
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Generate: GenerateConfig{Nodes: DefaultNodes, Probability: DefaultProbability, Seed: DefaultSeed},
		Playback: PlaybackConfig{Rate: DefaultRate, FPS: DefaultFPS},
		Search:   SearchConfig{CancelTimeout: DefaultCancelTimeout},
		Cache:    CacheConfig{TTL: DefaultCacheTTL},
		Server:   ServerConfig{Addr: DefaultAddr},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/dijkstraviz/config.toml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// DefaultCacheDir returns the platform user cache directory for this program.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads settings. An empty path means DefaultPath, which may be absent;
// an explicit path must exist. Environment overrides are applied on top and
// the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, verr.Wrap(verr.ErrCodeInvalidInput, err, "read config %s", path)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.Cache.Dir == "" {
		if dir, err := DefaultCacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error
	c.Generate.Nodes, err = envInt("DIJKSTRAVIZ_NODES", c.Generate.Nodes)
	if err != nil {
		return err
	}
	c.Generate.Probability, err = envFloat("DIJKSTRAVIZ_PROBABILITY", c.Generate.Probability)
	if err != nil {
		return err
	}
	if v := os.Getenv("DIJKSTRAVIZ_SEED"); v != "" {
		seed, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return verr.Wrap(verr.ErrCodeInvalidInput, perr, "DIJKSTRAVIZ_SEED")
		}
		c.Generate.Seed = seed
	}
	c.Playback.Rate, err = envFloat("DIJKSTRAVIZ_RATE", c.Playback.Rate)
	if err != nil {
		return err
	}
	c.Playback.FPS, err = envInt("DIJKSTRAVIZ_FPS", c.Playback.FPS)
	if err != nil {
		return err
	}
	c.Search.CancelTimeout, err = envDuration("DIJKSTRAVIZ_CANCEL_TIMEOUT", c.Search.CancelTimeout)
	if err != nil {
		return err
	}
	c.Cache.TTL, err = envDuration("DIJKSTRAVIZ_CACHE_TTL", c.Cache.TTL)
	if err != nil {
		return err
	}
	c.Cache.Dir = envOrDefault("DIJKSTRAVIZ_CACHE_DIR", c.Cache.Dir)
	c.Cache.RedisURL = envOrDefault("DIJKSTRAVIZ_REDIS_URL", c.Cache.RedisURL)
	c.Server.Addr = envOrDefault("DIJKSTRAVIZ_ADDR", c.Server.Addr)
	return nil
}

// Validate checks every field and returns the first coded error.
func (c *Config) Validate() error {
	if err := verr.ValidateNodeCount(c.Generate.Nodes); err != nil {
		return err
	}
	if err := verr.ValidateProbability(c.Generate.Probability); err != nil {
		return err
	}
	if err := verr.ValidateRate(c.Playback.Rate); err != nil {
		return err
	}
	if c.Playback.FPS < 1 || c.Playback.FPS > MaxFPS {
		return verr.New(verr.ErrCodeInvalidInput, "fps must be in [1,%d], got %d", MaxFPS, c.Playback.FPS)
	}
	if c.Search.CancelTimeout < 0 {
		return verr.New(verr.ErrCodeInvalidInput, "cancel_timeout must not be negative")
	}
	if c.Cache.TTL < 0 {
		return verr.New(verr.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}

// FrameInterval is the tick period implied by FPS.
func (p PlaybackConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(max(p.FPS, 1))
}

// ParseNodeCount parses a node count typed by a user. Text that is not an
// integer yields def; range checks are left to validation.
func ParseNodeCount(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// ParseProbability parses an edge probability typed by a user. Text that is
// not a finite number yields def.
func ParseProbability(s string, def float64) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return def
	}
	return p
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, verr.Wrap(verr.ErrCodeInvalidInput, err, "%s", key)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, verr.Wrap(verr.ErrCodeInvalidInput, err, "%s", key)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, verr.Wrap(verr.ErrCodeInvalidInput, err, "%s", key)
	}
	return d, nil
}
