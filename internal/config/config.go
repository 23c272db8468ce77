// Package config loads service settings from built-in defaults, an optional
// YAML file and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Development-only signing key used when SESSION_SECRET is unset.
const DevSessionSecret = "dev-session-secret-change-me"

// Environment variable naming an explicit YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Port int `koanf:"port"`

	// Relative file paths below are resolved against DataDir.
	DataDir       string `koanf:"data_dir"`
	UsersFile     string `koanf:"users_file"`
	LocationsFile string `koanf:"locations_file"`
	ScoresFile    string `koanf:"scores_file"`
	UploadDir     string `koanf:"upload_dir"`
	StaticDir     string `koanf:"static_dir"`
	GameDir       string `koanf:"game_dir"`

	// file, sqlite or postgres.
	StoreBackend  string `koanf:"store_backend"`
	DatabaseURL   string `koanf:"database_url"`
	StoreHardened bool   `koanf:"store_hardened"`

	SessionSecret          string        `koanf:"session_secret"`
	SessionTTL             time.Duration `koanf:"session_ttl"`
	CookieSecure           bool          `koanf:"cookie_secure"`
	RequireSessionForAdmin bool          `koanf:"require_session_for_admin"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	MaxUploadMB int64 `koanf:"max_upload_mb"`
	GameRounds  int   `koanf:"game_rounds"`
}

func defaultConfig() *Config {
	return &Config{
		Port:          5000,
		DataDir:       ".",
		UsersFile:     "users.json",
		LocationsFile: filepath.Join("gra", "locations.json"),
		ScoresFile:    "scores.json",
		UploadDir:     "images",
		StaticDir:     "logowanie",
		GameDir:       "gra",
		StoreBackend:  "file",
		SessionTTL:    24 * time.Hour,
		LogLevel:      "info",
		LogFormat:     "json",
		MaxUploadMB:   32,
		GameRounds:    5,
	}
}

// Load reads the configuration and validates it for running the server.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Read reads defaults, then the config file (if any), then environment
// variables, without validating the result. Environment names are the
// upper-case koanf keys (DATA_DIR, SESSION_TTL, ...). The caller loads
// .env beforehand.
func Read() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config: defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config: file %q: %w", path, err)
		}
	}

	// Only variables naming a known key are picked up.
	known := k.Exists
	envKey := func(name string) string {
		key := strings.ToLower(name)
		if !known(key) {
			return ""
		}
		return key
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load config: environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}

	switch strings.ToLower(c.StoreBackend) {
	case "file":
	case "sqlite", "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, fmt.Errorf("database_url is required for store_backend %q", c.StoreBackend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store_backend %q", c.StoreBackend))
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session_ttl must be positive"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("max_upload_mb must be positive"))
	}
	if c.GameRounds < 1 {
		errs = append(errs, errors.New("game_rounds must be at least 1"))
	}

	return errors.Join(errs...)
}

// Resolve p against DataDir unless it is absolute.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// True when the session signing key was left at its development default.
func (c *Config) UsingDevSecret() bool {
	return c.SessionSecret == "" || c.SessionSecret == DevSessionSecret
}

func (c *Config) SessionKey() []byte {
	if c.SessionSecret == "" {
		return []byte(DevSessionSecret)
	}
	return []byte(c.SessionSecret)
}

// Get returns the environment variable key, or fallback when it is unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
