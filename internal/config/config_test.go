// ABOUTME: Tests for import tool configuration.
// ABOUTME: Covers load, save, defaults, env overrides, and path expansion.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/hkimport/internal/importer"
)

func TestGetDBPathDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDBPath(); got == "" {
		t.Error("GetDBPath() returned empty string")
	}
}

func TestGetDBPathExplicit(t *testing.T) {
	cfg := &Config{DBPath: "/tmp/hkimport-test/health.db"}
	if got := cfg.GetDBPath(); got != "/tmp/hkimport-test/health.db" {
		t.Errorf("GetDBPath() = %q, want %q", got, "/tmp/hkimport-test/health.db")
	}
}

func TestGetDBPathExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DBPath: "~/health.db"}
	got := cfg.GetDBPath()
	want := filepath.Join(home, "health.db")
	if got != want {
		t.Errorf("GetDBPath() = %q, want %q", got, want)
	}
}

func TestGetBatchSizeDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBatchSize(); got != importer.DefaultBatchSize {
		t.Errorf("GetBatchSize() = %d, want %d", got, importer.DefaultBatchSize)
	}
}

func TestGetBatchSizeExplicit(t *testing.T) {
	cfg := &Config{BatchSize: 500}
	if got := cfg.GetBatchSize(); got != 500 {
		t.Errorf("GetBatchSize() = %d, want 500", got)
	}
}

func TestGetCommitEveryDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetCommitEvery(); got != importer.DefaultCommitEvery {
		t.Errorf("GetCommitEvery() = %d, want %d", got, importer.DefaultCommitEvery)
	}
}

func TestGetTimezoneDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetTimezone(); got != importer.DefaultTimezone {
		t.Errorf("GetTimezone() = %q, want %q", got, importer.DefaultTimezone)
	}
}

func TestExpandPathEmpty(t *testing.T) {
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want %q", got, "")
	}
}

func TestExpandPathAbsolute(t *testing.T) {
	if got := ExpandPath("/tmp/foo"); got != "/tmp/foo" {
		t.Errorf("ExpandPath(\"/tmp/foo\") = %q, want %q", got, "/tmp/foo")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~")
	if got != home {
		t.Errorf("ExpandPath(\"~\") = %q, want %q", got, home)
	}
}

func TestExpandPathTildeSlash(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~/data/health.db")
	want := filepath.Join(home, "data/health.db")
	if got != want {
		t.Errorf("ExpandPath(\"~/data/health.db\") = %q, want %q", got, want)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.DBPath != "" {
		t.Errorf("Expected empty DBPath, got %q", cfg.DBPath)
	}
	if cfg.BatchSize != 0 {
		t.Errorf("Expected zero BatchSize, got %d", cfg.BatchSize)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &Config{
		DBPath:      "/tmp/hkimport-data/health.db",
		BatchSize:   2000,
		CommitEvery: 10000,
		Timezone:    "America/Chicago",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.DBPath != cfg.DBPath {
		t.Errorf("DBPath mismatch: got %q, want %q", loaded.DBPath, cfg.DBPath)
	}
	if loaded.BatchSize != cfg.BatchSize {
		t.Errorf("BatchSize mismatch: got %d, want %d", loaded.BatchSize, cfg.BatchSize)
	}
	if loaded.Timezone != cfg.Timezone {
		t.Errorf("Timezone mismatch: got %q, want %q", loaded.Timezone, cfg.Timezone)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{BatchSize: 100}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "hkimport")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "hkimport")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "hkimport", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &Config{DBPath: "/from/file.db", BatchSize: 100}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("HKIMPORT_DB_PATH", "/from/env.db")
	t.Setenv("HKIMPORT_BATCH_SIZE", "250")
	t.Setenv("HKIMPORT_TIMEZONE", "UTC")
	t.Setenv("HKIMPORT_NO_SEED", "true")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.DBPath != "/from/env.db" {
		t.Errorf("DBPath = %q, want env override", loaded.DBPath)
	}
	if loaded.BatchSize != 250 {
		t.Errorf("BatchSize = %d, want 250", loaded.BatchSize)
	}
	if loaded.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want %q", loaded.Timezone, "UTC")
	}
	if !loaded.NoSeed {
		t.Error("NoSeed = false, want env override true")
	}
}

func TestEnvIgnoresUnparseable(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HKIMPORT_BATCH_SIZE", "not-a-number")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.BatchSize != 0 {
		t.Errorf("BatchSize = %d, want 0 for unparseable env value", loaded.BatchSize)
	}
}

func TestOpenStorage(t *testing.T) {
	tmpDir := t.TempDir()

	dbPath := filepath.Join(tmpDir, "health.db")
	cfg := &Config{DBPath: dbPath}

	store, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected health.db to be created")
	}
}
