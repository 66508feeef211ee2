package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/quadra/internal/insight"
	"github.com/sadopc/quadra/internal/store"
)

// clearEnv unsets every variable Load reads so the host environment does
// not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name := strings.SplitN(kv, "=", 2)[0]
		if strings.HasPrefix(name, EnvPrefix+"_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	for _, name := range fallbackKeyEnv {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfg, err := Load(Options{DataDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != dir {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
	if cfg.Storage.Backend != store.BackendDiskv || cfg.Storage.Slot != store.DefaultSlot {
		t.Fatalf("unexpected storage: %+v", cfg.Storage)
	}
	if cfg.Insight.APIKey != "" {
		t.Fatal("no key expected")
	}
	if cfg.Insight.Model != insight.DefaultModel || cfg.Insight.Timeout != insight.DefaultTimeout {
		t.Fatalf("unexpected insight config: %+v", cfg.Insight)
	}
	if cfg.Upgrade.Delay != time.Second {
		t.Fatalf("upgrade delay = %v", cfg.Upgrade.Delay)
	}
	if cfg.LogPath() != filepath.Join(dir, "quadra.log") {
		t.Fatalf("log path = %q", cfg.LogPath())
	}
}

func TestLoadConfigFileFromDataDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), `
storage:
  backend: sqlite
insight:
  model: test-model
  timeout: 3s
upgrade:
  delay: 0s
`)
	cfg, err := Load(Options{DataDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != store.BackendSQLite {
		t.Fatalf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Insight.Model != "test-model" || cfg.Insight.Timeout != 3*time.Second {
		t.Fatalf("unexpected insight config: %+v", cfg.Insight)
	}
	if cfg.Upgrade.Delay != 0 {
		t.Fatalf("delay = %v", cfg.Upgrade.Delay)
	}
}

func TestFlagOverridesFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "storage:\n  backend: sqlite\n")
	t.Setenv("QUADRA_STORAGE_SLOT", "other_slot")

	cfg, err := Load(Options{DataDir: dir, Backend: "memory", EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != store.BackendMemory {
		t.Fatalf("flag should win, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Slot != "other_slot" {
		t.Fatalf("env should set slot, got %q", cfg.Storage.Slot)
	}
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if _, err := Load(Options{ConfigFile: filepath.Join(dir, "nope.yaml"), DataDir: dir}); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestUnknownBackendRejected(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	_, err := Load(Options{DataDir: dir, Backend: "redis", EnvFile: filepath.Join(dir, "missing.env")})
	if err == nil || !strings.Contains(err.Error(), "storage.backend") {
		t.Fatalf("expected backend validation error, got %v", err)
	}
}

func TestAPIKeySources(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"nested", map[string]string{"QUADRA_INSIGHT_API_KEY": "a"}, "a"},
		{"short", map[string]string{"QUADRA_API_KEY": "b"}, "b"},
		{"gemini", map[string]string{"GEMINI_API_KEY": "c", "API_KEY": "d"}, "c"},
		{"generic", map[string]string{"API_KEY": "d"}, "d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := t.TempDir()
			cfg, err := Load(Options{DataDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Insight.APIKey != tt.want {
				t.Fatalf("key = %q, want %q", cfg.Insight.APIKey, tt.want)
			}
		})
	}
}

func TestDotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	writeFile(t, envFile, "GEMINI_API_KEY=from-dotenv\n")
	// godotenv does not register cleanups.
	t.Cleanup(func() { os.Unsetenv("GEMINI_API_KEY") })

	cfg, err := Load(Options{DataDir: dir, EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Insight.APIKey != "from-dotenv" {
		t.Fatalf("key = %q", cfg.Insight.APIKey)
	}
	if cfg.Gemini().APIKey != "from-dotenv" {
		t.Fatal("Gemini config should carry the key")
	}
}
