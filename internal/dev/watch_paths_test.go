package dev

import (
	"path/filepath"
	"testing"

	"github.com/lumen-dev/lumen/internal/config"
)

func TestCollectWatchPaths(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.New()
	cfg.Dev.Watch = []string{"src", "styles", "src"}
	if err := cfg.SaveTo(filepath.Join(tmpDir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	paths := CollectWatchPaths(cfg)

	want := []string{
		filepath.Join(tmpDir, "public"),
		filepath.Join(tmpDir, "src"),
		filepath.Join(tmpDir, "styles"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestCollectWatchPaths_AbsoluteEntries(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.New()
	cfg.Dev.Watch = []string{"/abs/dir"}
	if err := cfg.SaveTo(filepath.Join(tmpDir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	paths := CollectWatchPaths(cfg)
	found := false
	for _, p := range paths {
		if p == "/abs/dir" {
			found = true
		}
	}
	if !found {
		t.Errorf("paths = %v, want /abs/dir preserved", paths)
	}
}
