// ABOUTME: Import tool configuration with file, environment, and flag layering.
// ABOUTME: JSON config under XDG config dir; HKIMPORT_* env vars override it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/harperreed/hkimport/internal/importer"
	"github.com/harperreed/hkimport/internal/storage"
)

// Config stores import tool configuration. Zero values mean "use the default";
// Load fills in nothing, the getters resolve defaults at read time.
type Config struct {
	// DBPath is the SQLite database file. Supports ~ expansion.
	// Defaults to <XDG data dir>/hkimport/health.db.
	DBPath string `json:"db_path,omitempty"`

	// BatchSize is the number of rows buffered per kind before a flush.
	BatchSize int `json:"batch_size,omitempty"`

	// CommitEvery forces a flush after this many parsed elements, bounding
	// how much work a crash can lose.
	CommitEvery int `json:"commit_every,omitempty"`

	// Timezone names the IANA zone export timestamps are reprojected into
	// at parse time and stored in. Identity keys normalize to UTC, so
	// changing the zone between runs does not defeat deduplication.
	Timezone string `json:"timezone,omitempty"`

	// NoSeed skips loading existing identity keys at startup. Only safe
	// when importing into a fresh database.
	NoSeed bool `json:"no_seed,omitempty"`
}

// GetDBPath returns the configured database path with ~ expanded.
func (c *Config) GetDBPath() string {
	if c.DBPath == "" {
		return storage.DefaultDBPath()
	}
	return ExpandPath(c.DBPath)
}

// GetBatchSize returns the configured batch size, defaulting when unset.
func (c *Config) GetBatchSize() int {
	if c.BatchSize <= 0 {
		return importer.DefaultBatchSize
	}
	return c.BatchSize
}

// GetCommitEvery returns the configured commit frequency, defaulting when unset.
func (c *Config) GetCommitEvery() int {
	if c.CommitEvery <= 0 {
		return importer.DefaultCommitEvery
	}
	return c.CommitEvery
}

// GetTimezone returns the configured timezone name, defaulting when unset.
func (c *Config) GetTimezone() string {
	if c.Timezone == "" {
		return importer.DefaultTimezone
	}
	return c.Timezone
}

// OpenStorage opens the configured SQLite database.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(c.GetDBPath())
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

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "hkimport", "config.json")
}

// Load reads config from disk, then applies environment overrides.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv overrides file settings with HKIMPORT_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("HKIMPORT_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("HKIMPORT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchSize = n
		}
	}
	if v := os.Getenv("HKIMPORT_COMMIT_EVERY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CommitEvery = n
		}
	}
	if v := os.Getenv("HKIMPORT_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("HKIMPORT_NO_SEED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.NoSeed = b
		}
	}
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
