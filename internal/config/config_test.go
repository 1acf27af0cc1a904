package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Build.Output != DefaultOutput {
		t.Errorf("Build.Output = %q, want %q", cfg.Build.Output, DefaultOutput)
	}
	if cfg.Entry != DefaultEntry {
		t.Errorf("Entry = %q, want %q", cfg.Entry, DefaultEntry)
	}
	if !cfg.Dev.HotUpdate {
		t.Error("Dev.HotUpdate should default to true")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Loading from a directory without lumen.json fails.
	_, err := Load(tmpDir)
	if err == nil {
		t.Error("Expected error for missing config")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "name": "demo",
  "entry": "src/main.tsx",
  "dev": {
    "port": 8080,
    "host": "0.0.0.0",
    "openBrowser": false,
    "watch": ["src", "styles"]
  },
  "build": {
    "output": "build",
    "minify": true
  }
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want %q", cfg.Name, "demo")
	}
	if cfg.Entry != "src/main.tsx" {
		t.Errorf("Entry = %q, want %q", cfg.Entry, "src/main.tsx")
	}
	if cfg.Dev.Port != 8080 {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, 8080)
	}
	if cfg.Dev.Host != "0.0.0.0" {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, "0.0.0.0")
	}
	if cfg.Dev.OpenBrowser {
		t.Error("Dev.OpenBrowser should be false")
	}
	if len(cfg.Dev.Watch) != 2 {
		t.Errorf("Dev.Watch = %v, want two entries", cfg.Dev.Watch)
	}
	if cfg.Build.Output != "build" {
		t.Errorf("Build.Output = %q, want %q", cfg.Build.Output, "build")
	}
	// Unspecified fields still get defaults.
	if cfg.Target != DefaultTarget {
		t.Errorf("Target = %q, want %q", cfg.Target, DefaultTarget)
	}
	if cfg.Esbuild != "esbuild" {
		t.Errorf("Esbuild = %q, want %q", cfg.Esbuild, "esbuild")
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := os.WriteFile(configPath, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "L120") {
		t.Errorf("Expected L120 error, got: %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), ConfigFileName))
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if !strings.Contains(err.Error(), "L121") {
		t.Errorf("Expected L121 error, got: %v", err)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Dev.Port = 9000
	cfg.Name = "demo"

	// Save should fail without configPath set.
	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if loaded.Dev.Port != 9000 {
		t.Errorf("Dev.Port = %d, want %d", loaded.Dev.Port, 9000)
	}
	if loaded.Name != "demo" {
		t.Errorf("Name = %q, want %q", loaded.Name, "demo")
	}

	// Now Save should work.
	loaded.Dev.Port = 9001
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	reloaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if reloaded.Dev.Port != 9001 {
		t.Errorf("Dev.Port = %d, want %d", reloaded.Dev.Port, 9001)
	}
}

func TestValidate(t *testing.T) {
	cfg := New()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate should pass for valid config: %v", err)
	}

	cfg.Dev.Port = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail for negative port")
	}

	cfg.Dev.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail for port > 65535")
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	cfg.Dev.Port = 8080
	cfg.Dev.Host = "0.0.0.0"

	addr := cfg.DevAddress()
	if addr != "0.0.0.0:8080" {
		t.Errorf("DevAddress = %q, want %q", addr, "0.0.0.0:8080")
	}
}

func TestDevURL(t *testing.T) {
	cfg := New()

	url := cfg.DevURL()
	if url != "http://localhost:3000" {
		t.Errorf("DevURL = %q, want %q", url, "http://localhost:3000")
	}
}

func TestPaths(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.SaveTo(configPath)

	if got := cfg.OutputPath(); got != filepath.Join(tmpDir, "dist") {
		t.Errorf("OutputPath = %q, want %q", got, filepath.Join(tmpDir, "dist"))
	}
	if got := cfg.EntryPath(); got != filepath.Join(tmpDir, DefaultEntry) {
		t.Errorf("EntryPath = %q, want %q", got, filepath.Join(tmpDir, DefaultEntry))
	}
	if got := cfg.StaticPath(); got != filepath.Join(tmpDir, "public") {
		t.Errorf("StaticPath = %q, want %q", got, filepath.Join(tmpDir, "public"))
	}

	cfg.Build.Output = "/absolute/path"
	if got := cfg.OutputPath(); got != "/absolute/path" {
		t.Errorf("OutputPath absolute = %q, want %q", got, "/absolute/path")
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(tmpDir) {
		t.Error("Exists should be false for empty directory")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if !Exists(tmpDir) {
		t.Error("Exists should be true after creating config")
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}

	_, err := FindProjectRoot(nestedDir)
	if err == nil {
		t.Error("FindProjectRoot should fail when no config exists")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nestedDir)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("FindProjectRoot = %q, want %q", root, tmpDir)
	}

	root, err = FindProjectRoot(filepath.Join(tmpDir, "a"))
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("FindProjectRoot = %q, want %q", root, tmpDir)
	}
}

func TestItoa(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{1, "1"},
		{10, "10"},
		{123, "123"},
		{3000, "3000"},
		{65535, "65535"},
		{-1, "-1"},
		{-100, "-100"},
	}

	for _, tt := range tests {
		got := itoa(tt.n)
		if got != tt.want {
			t.Errorf("itoa(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Build.Output != DefaultOutput {
		t.Errorf("Build.Output = %q, want %q", cfg.Build.Output, DefaultOutput)
	}
	if cfg.Entry != DefaultEntry {
		t.Errorf("Entry = %q, want %q", cfg.Entry, DefaultEntry)
	}
	if len(cfg.Dev.Watch) != 1 || cfg.Dev.Watch[0] != "src" {
		t.Errorf("Dev.Watch = %v, want [src]", cfg.Dev.Watch)
	}
}
