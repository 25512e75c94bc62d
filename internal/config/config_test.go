package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "keylightctl") {
		t.Errorf("GetConfigDir() = %v, should contain 'keylightctl'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") && os.Getenv("XDG_CONFIG_HOME") == "" {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDGOverride(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies to Linux")
	}

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join(tmpDir, "keylightctl") {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, filepath.Join(tmpDir, "keylightctl"))
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.DiscoveryTimeout != DefaultDiscoveryTimeout {
		t.Errorf("DiscoveryTimeout = %d, want %d", cfg.DiscoveryTimeout, DefaultDiscoveryTimeout)
	}
	if cfg.BridgeListen != DefaultBridgeListen {
		t.Errorf("BridgeListen = %q, want %q", cfg.BridgeListen, DefaultBridgeListen)
	}
	if !cfg.Notifications {
		t.Error("Notifications should default to true")
	}
	if cfg.DefaultDevice != "" {
		t.Errorf("DefaultDevice = %q, want empty", cfg.DefaultDevice)
	}
}

func TestConfig_DiscoveryBudget(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{name: "configured", seconds: 3, want: 3 * time.Second},
		{name: "unset falls back", seconds: 0, want: DefaultDiscoveryTimeout * time.Second},
		{name: "negative falls back", seconds: -5, want: DefaultDiscoveryTimeout * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DiscoveryTimeout: tt.seconds}
			if got := cfg.DiscoveryBudget(); got != tt.want {
				t.Errorf("DiscoveryBudget() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_ListenAddr(t *testing.T) {
	cfg := &Config{BridgeListen: "127.0.0.1:8000"}
	if got := cfg.ListenAddr(); got != "127.0.0.1:8000" {
		t.Errorf("ListenAddr() = %q, want 127.0.0.1:8000", got)
	}

	cfg = &Config{}
	if got := cfg.ListenAddr(); got != DefaultBridgeListen {
		t.Errorf("ListenAddr() = %q, want default %q", got, DefaultBridgeListen)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.DefaultDevice = "Elgato Key Light 8D7C"
	cfg.DiscoveryTimeout = 5
	cfg.Notifications = false

	if err := cfg.saveToPath(path); err != nil {
		t.Fatalf("saveToPath() error = %v", err)
	}

	loaded, err := loadFromPath(path)
	if err != nil {
		t.Fatalf("loadFromPath() error = %v", err)
	}

	if loaded.DefaultDevice != "Elgato Key Light 8D7C" {
		t.Errorf("DefaultDevice = %q, want %q", loaded.DefaultDevice, "Elgato Key Light 8D7C")
	}
	if loaded.DiscoveryTimeout != 5 {
		t.Errorf("DiscoveryTimeout = %d, want 5", loaded.DiscoveryTimeout)
	}
	if loaded.Notifications {
		t.Error("Notifications should have round-tripped as false")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := DefaultConfig().saveToPath(path); err != nil {
		t.Fatalf("saveToPath() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("loadFromPath() error = %v, want nil for missing file", err)
	}
	if cfg.Version != 1 || cfg.DiscoveryTimeout != DefaultDiscoveryTimeout {
		t.Errorf("loadFromPath() = %+v, want defaults", cfg)
	}
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadFromPath(path); err == nil {
		t.Error("loadFromPath() error = nil, want unsupported version error")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadFromPath(path); err == nil {
		t.Error("loadFromPath() error = nil, want parse error")
	}
}
