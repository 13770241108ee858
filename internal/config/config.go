// Package config loads application configuration from defaults, an optional
// YAML file and environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

// defaultPaths are searched in order when no path is given.
var defaultPaths = []string{"config.yaml", "config.yml"}

// Config is the complete application configuration.
type Config struct {
	Spotify SpotifyConfig `koanf:"spotify"`
	Server  ServerConfig  `koanf:"server"`
	Model   ModelConfig   `koanf:"model"`
	Logging LoggingConfig `koanf:"logging"`
}

// SpotifyConfig holds catalog credentials and request limits.
type SpotifyConfig struct {
	ClientID     string        `koanf:"client_id" validate:"required"`
	ClientSecret string        `koanf:"client_secret" validate:"required"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`

	// Consecutive failures before lookups are short-circuited, and how long
	// the breaker stays open.
	BreakerFailures uint32        `koanf:"breaker_failures" validate:"gte=1"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"gt=0"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required,hostname_port"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"` // 0 disables
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// ModelConfig points at the model artifact. An empty path uses the bundled one.
type ModelConfig struct {
	Path string `koanf:"path"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			Timeout:         10 * time.Second,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			RateLimitRequests: 30,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envKeys maps environment variables onto config paths.
var envKeys = map[string]string{
	"CLIENT_ID":                "spotify.client_id",
	"SPOTIFY_CLIENT_ID":        "spotify.client_id",
	"CLIENT_SECRET":            "spotify.client_secret",
	"SPOTIFY_CLIENT_SECRET":    "spotify.client_secret",
	"CATALOG_TIMEOUT":          "spotify.timeout",
	"CATALOG_BREAKER_FAILURES": "spotify.breaker_failures",
	"CATALOG_BREAKER_COOLDOWN": "spotify.breaker_cooldown",
	"HTTP_ADDR":                "server.addr",
	"RATE_LIMIT_REQUESTS":      "server.rate_limit_requests",
	"RATE_LIMIT_WINDOW":        "server.rate_limit_window",
	"MODEL_PATH":               "model.path",
	"LOG_LEVEL":                "logging.level",
	"LOG_FORMAT":               "logging.format",
}

// Load builds the configuration. If path is empty, CONFIG_PATH and then the
// default locations are tried; a missing default file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and ranges.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// envAliases maps a fallback variable to the variable that takes precedence
// over it.
var envAliases = map[string]string{
	"SPOTIFY_CLIENT_ID":     "CLIENT_ID",
	"SPOTIFY_CLIENT_SECRET": "CLIENT_SECRET",
}

// envKey maps an environment variable to a config path. Unknown variables
// map to "" and are ignored.
func envKey(name string) string {
	return envKeys[strings.ToUpper(name)]
}

// envValue maps a variable to its config path. Empty values are ignored, as
// is an alias whose primary variable is set.
func envValue(name, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	if primary, ok := envAliases[strings.ToUpper(name)]; ok && os.Getenv(primary) != "" {
		return "", nil
	}
	return envKey(name), value
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
