// Package config loads service settings from defaults, an optional YAML
// file and PLUMBWEB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides, e.g. PLUMBWEB_SERVER_ADDR.
const EnvPrefix = "PLUMBWEB_"

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "plumbweb.yaml"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config is the top-level service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Site    SiteConfig    `yaml:"site" koanf:"site"`
	Session SessionConfig `yaml:"session" koanf:"session"`
	Menu    MenuConfig    `yaml:"menu" koanf:"menu"`
	Metrics MetricsConfig `yaml:"metrics" koanf:"metrics"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" koanf:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" koanf:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	// Dev re-parses templates on every request.
	Dev bool `yaml:"dev" koanf:"dev"`
}

type SiteConfig struct {
	// ContentFile overrides the bundled page copy when set.
	ContentFile string `yaml:"content_file" koanf:"content_file"`
	BaseURL     string `yaml:"base_url" koanf:"base_url"`
}

type SessionConfig struct {
	// HashKey signs page tokens. An empty key is replaced by a random one
	// at startup, which invalidates tokens on every restart.
	HashKey       string        `yaml:"hash_key" koanf:"hash_key"`
	TokenLifetime time.Duration `yaml:"token_lifetime" koanf:"token_lifetime"`
}

type MenuConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" koanf:"idle_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval" koanf:"sweep_interval"`
	MaxInstances  int           `yaml:"max_instances" koanf:"max_instances"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
}

// Default returns a Config with production defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Site: SiteConfig{
			BaseURL: "https://www.texasqualityplumbing.com",
		},
		Session: SessionConfig{
			TokenLifetime: 12 * time.Hour,
		},
		Menu: MenuConfig{
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
			MaxInstances:  10000,
		},
		Metrics: MetricsConfig{Enabled: true},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment overrides. A missing file is not an error. Cloud Run's PORT
// variable sets the listen address unless PLUMBWEB_SERVER_ADDR is present.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && os.Getenv(EnvPrefix+"SERVER_ADDR") == "" {
		cfg.Server.Addr = ":" + port
	}
	return cfg, nil
}

// envKey maps PLUMBWEB_SERVER_READ_TIMEOUT to server.read_timeout. Only the
// first underscore separates the section from the key.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Validate checks that durations and limits are usable.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Server.Addr) == "" {
		problems = append(problems, "server.addr is required")
	}
	positive := map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"server.request_timeout":  c.Server.RequestTimeout,
		"session.token_lifetime":  c.Session.TokenLifetime,
		"menu.idle_ttl":           c.Menu.IdleTTL,
		"menu.sweep_interval":     c.Menu.SweepInterval,
	}
	for _, key := range sortedKeys(positive) {
		if positive[key] <= 0 {
			problems = append(problems, key+" must be positive")
		}
	}
	if c.Menu.MaxInstances <= 0 {
		problems = append(problems, "menu.max_instances must be positive")
	}
	if k := c.Session.HashKey; k != "" && len(k) < 32 {
		problems = append(problems, "session.hash_key must be at least 32 bytes")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func sortedKeys(m map[string]time.Duration) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
