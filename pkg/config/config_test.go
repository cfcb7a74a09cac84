package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	verr "github.com/matzehuels/dijkstraviz/pkg/errors"
)

var envVars = []string{
	"DIJKSTRAVIZ_NODES", "DIJKSTRAVIZ_PROBABILITY", "DIJKSTRAVIZ_SEED",
	"DIJKSTRAVIZ_RATE", "DIJKSTRAVIZ_FPS", "DIJKSTRAVIZ_CANCEL_TIMEOUT",
	"DIJKSTRAVIZ_CACHE_DIR", "DIJKSTRAVIZ_REDIS_URL", "DIJKSTRAVIZ_CACHE_TTL",
	"DIJKSTRAVIZ_ADDR",
}

// isolate clears overrides and points the default config path at an empty
// directory.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Generate.Nodes != DefaultNodes {
		t.Errorf("Nodes = %d, want %d", cfg.Generate.Nodes, DefaultNodes)
	}
	if cfg.Generate.Probability != DefaultProbability {
		t.Errorf("Probability = %v, want %v", cfg.Generate.Probability, DefaultProbability)
	}
	if cfg.Generate.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", cfg.Generate.Seed, DefaultSeed)
	}
	if cfg.Playback.Rate != DefaultRate {
		t.Errorf("Rate = %v, want %v", cfg.Playback.Rate, DefaultRate)
	}
	if cfg.Search.CancelTimeout != DefaultCancelTimeout {
		t.Errorf("CancelTimeout = %v, want %v", cfg.Search.CancelTimeout, DefaultCancelTimeout)
	}
	if cfg.Cache.Dir == "" {
		t.Error("Cache.Dir is empty")
	}
	if cfg.Cache.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.Cache.RedisURL)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
[generate]
nodes = 500
probability = 0.01
seed = 7

[playback]
rate = 60
fps = 30

[search]
cancel_timeout = "200ms"

[cache]
dir = "/tmp/dv"
redis_url = "redis://localhost:6379/0"
ttl = "1h"

[server]
addr = ":9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := Config{
		Generate: GenerateConfig{Nodes: 500, Probability: 0.01, Seed: 7},
		Playback: PlaybackConfig{Rate: 60, FPS: 30},
		Search:   SearchConfig{CancelTimeout: 200 * time.Millisecond},
		Cache:    CacheConfig{Dir: "/tmp/dv", RedisURL: "redis://localhost:6379/0", TTL: time.Hour},
		Server:   ServerConfig{Addr: ":9000"},
	}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "[playback]\nrate = 10\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Playback.Rate != 10 {
		t.Errorf("Rate = %v, want 10", cfg.Playback.Rate)
	}
	if cfg.Generate.Nodes != DefaultNodes || cfg.Playback.FPS != DefaultFPS {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !verr.Is(err, verr.ErrCodeInvalidInput) {
		t.Errorf("Load() error = %v, want INVALID_INPUT", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "[generate\nnodes = ")
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "[generate]\nnodes = 500\n")
	t.Setenv("DIJKSTRAVIZ_NODES", "800")
	t.Setenv("DIJKSTRAVIZ_PROBABILITY", "0.5")
	t.Setenv("DIJKSTRAVIZ_SEED", "99")
	t.Setenv("DIJKSTRAVIZ_RATE", "5")
	t.Setenv("DIJKSTRAVIZ_CANCEL_TIMEOUT", "1s")
	t.Setenv("DIJKSTRAVIZ_REDIS_URL", "redis://cache:6379")
	t.Setenv("DIJKSTRAVIZ_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generate.Nodes != 800 {
		t.Errorf("Nodes = %d, want 800 (env beats file)", cfg.Generate.Nodes)
	}
	if cfg.Generate.Probability != 0.5 || cfg.Generate.Seed != 99 {
		t.Errorf("Generate = %+v", cfg.Generate)
	}
	if cfg.Playback.Rate != 5 {
		t.Errorf("Rate = %v, want 5", cfg.Playback.Rate)
	}
	if cfg.Search.CancelTimeout != time.Second {
		t.Errorf("CancelTimeout = %v, want 1s", cfg.Search.CancelTimeout)
	}
	if cfg.Cache.RedisURL != "redis://cache:6379" || cfg.Server.Addr != ":7070" {
		t.Errorf("Cache/Server = %+v %+v", cfg.Cache, cfg.Server)
	}
}

func TestEnvInvalid(t *testing.T) {
	for _, tc := range []struct {
		key, value string
	}{
		{"DIJKSTRAVIZ_NODES", "many"},
		{"DIJKSTRAVIZ_PROBABILITY", "half"},
		{"DIJKSTRAVIZ_SEED", "0x"},
		{"DIJKSTRAVIZ_FPS", "fast"},
		{"DIJKSTRAVIZ_CACHE_TTL", "forever"},
	} {
		t.Run(tc.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(tc.key, tc.value)
			_, err := Load("")
			if !verr.Is(err, verr.ErrCodeInvalidInput) {
				t.Errorf("Load() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		code   verr.Code
	}{
		{"ok", func(*Config) {}, ""},
		{"zero nodes", func(c *Config) { c.Generate.Nodes = 0 }, verr.ErrCodeInvalidNodeCount},
		{"probability above one", func(c *Config) { c.Generate.Probability = 1.5 }, verr.ErrCodeInvalidProbability},
		{"rate too high", func(c *Config) { c.Playback.Rate = 500 }, verr.ErrCodeInvalidRate},
		{"fps zero", func(c *Config) { c.Playback.FPS = 0 }, verr.ErrCodeInvalidInput},
		{"negative timeout", func(c *Config) { c.Search.CancelTimeout = -time.Second }, verr.ErrCodeInvalidInput},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, verr.ErrCodeInvalidInput},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if got := verr.GetCode(err); got != tc.code {
				t.Errorf("Validate() code = %q, want %q", got, tc.code)
			}
		})
	}
}

func TestParseNodeCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2000", 2000},
		{" 150 ", 150},
		{"", FallbackNodes},
		{"abc", FallbackNodes},
		{"12.5", FallbackNodes},
		{"-3", -3},
	}
	for _, tt := range tests {
		if got := ParseNodeCount(tt.in, FallbackNodes); got != tt.want {
			t.Errorf("ParseNodeCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseProbability(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0.01", 0.01},
		{"1", 1},
		{" 0.5", 0.5},
		{"", FallbackProbability},
		{"often", FallbackProbability},
		{"NaN", FallbackProbability},
		{"inf", FallbackProbability},
	}
	for _, tt := range tests {
		if got := ParseProbability(tt.in, FallbackProbability); got != tt.want {
			t.Errorf("ParseProbability(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFrameInterval(t *testing.T) {
	if got := (PlaybackConfig{FPS: 50}).FrameInterval(); got != 20*time.Millisecond {
		t.Errorf("FrameInterval() = %v, want 20ms", got)
	}
}
