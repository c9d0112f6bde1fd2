package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultWallClearance = 1200
	cfg.DefaultStrategy = "pipe-proximity"
	cfg.ShowASCII = true
	cfg.RecentProjects = []string{"/tmp/a.sprinkler.json", "/tmp/b.sprinkler.json"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultWallClearance != 1200 {
		t.Errorf("expected DefaultWallClearance=1200, got %f", loaded.DefaultWallClearance)
	}
	if loaded.Strategy() != model.StrategyPipeProximity {
		t.Errorf("expected pipe-proximity, got %s", loaded.Strategy())
	}
	if !loaded.ShowASCII {
		t.Error("expected ShowASCII=true")
	}
	if len(loaded.RecentProjects) != 2 {
		t.Errorf("expected 2 recent projects, got %d", len(loaded.RecentProjects))
	}
}

func TestSaveAndLoadAppConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := model.DefaultAppConfig()
	cfg.DefaultSprinklerSpacing = 3000
	cfg.ASCIIWidth = 100

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "default_sprinkler_spacing = 3000") {
		t.Errorf("expected TOML key in output, got:\n%s", data)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.DefaultSprinklerSpacing != 3000 || loaded.ASCIIWidth != 100 {
		t.Errorf("unexpected config after round trip: %+v", loaded)
	}
}

func TestLoadAppConfigPartialTOMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte("default_ceiling_height = 3200.0\nshow_ascii = true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultCeilingHeight != 3200 {
		t.Errorf("expected ceiling height 3200, got %f", cfg.DefaultCeilingHeight)
	}
	defaults := model.DefaultAppConfig()
	if cfg.DefaultSprinklerSpacing != defaults.DefaultSprinklerSpacing {
		t.Errorf("expected default spacing %f, got %f", defaults.DefaultSprinklerSpacing, cfg.DefaultSprinklerSpacing)
	}
	if cfg.ASCIIWidth != 80 {
		t.Errorf("expected default ASCII width 80, got %d", cfg.ASCIIWidth)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultWallClearance != defaults.DefaultWallClearance {
		t.Errorf("expected default wall clearance %f, got %f", defaults.DefaultWallClearance, cfg.DefaultWallClearance)
	}
	if cfg.Strategy() != model.StrategyGrid {
		t.Errorf("expected grid strategy, got %s", cfg.Strategy())
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAppConfig(path); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestLoadAppConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := os.WriteFile(path, []byte("default_wall_clearance = = 3"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAppConfig(path); err == nil {
		t.Fatal("expected error for invalid TOML, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.json")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentProjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	data := []byte(`{"default_wall_clearance":2000,"recent_projects":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after loading")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("expected config.json, got %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".sprinklerlayout" {
		t.Errorf("expected .sprinklerlayout directory, got %s", path)
	}
}
