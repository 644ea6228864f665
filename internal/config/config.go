// ABOUTME: Uplifting configuration management with backend selection.
// ABOUTME: Reads a JSON config file, applies UPLIFTING_* environment overrides and opens storage.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexng353/uplifting/internal/charm"
	"github.com/alexng353/uplifting/internal/storage"
	"github.com/caarlos0/env/v6"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
)

// Config stores uplifting configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger" or "charm".
	Backend string `json:"backend,omitempty" env:"UPLIFTING_BACKEND"`

	// DataDir is the root directory for data storage.
	// SQLite puts uplifting.db here. Badger puts a badger/ folder here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/uplifting.
	DataDir string `json:"data_dir,omitempty" env:"UPLIFTING_DATA_DIR"`

	// Server is the base URL of the remote API.
	Server string `json:"server,omitempty" env:"UPLIFTING_SERVER"`

	// Token is the bearer token sent to Server.
	Token string `json:"token,omitempty" env:"UPLIFTING_TOKEN"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" env:"UPLIFTING_LOG_LEVEL"`

	// LogFile, when set, receives logs instead of stderr.
	LogFile string `json:"log_file,omitempty" env:"UPLIFTING_LOG_FILE"`

	// SerializeMutations orders concurrent sync mutations of the same entity.
	SerializeMutations bool `json:"serialize_mutations,omitempty" env:"UPLIFTING_SERIALIZE_MUTATIONS"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogFile returns the log file path with ~ expanded.
func (c *Config) GetLogFile() string {
	return ExpandPath(c.LogFile)
}

// IsAuthenticated reports whether both a server and a token are configured.
func (c *Config) IsAuthenticated() bool {
	return c.Server != "" && c.Token != ""
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a KV implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.KV, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "uplifting.db"))
	case BackendBadger:
		return storage.OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		client, err := charm.InitClient()
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "uplifting", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads config from disk without environment overrides.
func LoadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from UPLIFTING_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
