package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitConfig(t *testing.T) {
	// Create temp directory for test config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	err := InitConfig(configPath)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	// Verify config file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}
}

func TestGetConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	InitConfig(configPath)

	if value := GetString("server.host"); value != "127.0.0.1" {
		t.Errorf("Expected default host to be 127.0.0.1, got %s", value)
	}
	if port := GetInt("server.port"); port != 7676 {
		t.Errorf("Expected default port to be 7676, got %d", port)
	}
	if scheme := GetString("gateway.scheme"); scheme != "vidmin" {
		t.Errorf("Expected default scheme vidmin, got %s", scheme)
	}
}

func TestSetConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	InitConfig(configPath)

	err := Set("server.port", "8080")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if value := GetInt("server.port"); value != 8080 {
		t.Errorf("Expected port to be 8080, got %d", value)
	}

	// Reload from disk and make sure the value stuck
	InitConfig(configPath)
	if value := GetInt("server.port"); value != 8080 {
		t.Errorf("Expected persisted port 8080, got %d", value)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("VIDMIN_LOG_LEVEL", "debug")

	InitConfig(filepath.Join(t.TempDir(), "config.yaml"))

	if level := GetString("log.level"); level != "debug" {
		t.Errorf("Expected env override debug, got %s", level)
	}
}

func TestGetPathExpandsHome(t *testing.T) {
	InitConfig(filepath.Join(t.TempDir(), "config.yaml"))

	got := GetPath("storage.data_dir")
	if got == "" || got[0] == '~' {
		t.Errorf("Expected ~ to be expanded, got %q", got)
	}
}

func TestDefaultPathHonorsEnv(t *testing.T) {
	t.Setenv("VIDMIN_CONFIG", "/tmp/custom.yaml")

	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath failed: %v", err)
	}
	if p != "/tmp/custom.yaml" {
		t.Errorf("Expected /tmp/custom.yaml, got %s", p)
	}
}
