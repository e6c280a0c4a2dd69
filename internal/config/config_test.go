package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
catalog:
  dir: "./catalog"
model:
  name: "gemini-2.5-pro"
  default_budget: 1500
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Model.Name != "gemini-2.5-pro" || cfg.Model.DefaultBudget != 1500 {
		t.Errorf("unexpected model config: %+v", cfg.Model)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: false\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Model.Name != "gemini-2.5-flash" {
		t.Errorf("model name default: got %q", cfg.Model.Name)
	}
	if cfg.Model.DefaultBudget != 1200 {
		t.Errorf("default budget: got %v, want 1200", cfg.Model.DefaultBudget)
	}
	if cfg.Model.Timeout() != 60*time.Second {
		t.Errorf("timeout: got %v", cfg.Model.Timeout())
	}
	if cfg.Model.MaxAttempts != 2 {
		t.Errorf("max attempts: got %d", cfg.Model.MaxAttempts)
	}
	if cfg.Model.RetryDelay() != 500*time.Millisecond {
		t.Errorf("retry delay: got %v", cfg.Model.RetryDelay())
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxLimit != 50 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Audit.DatabasePath == "" {
		t.Error("audit database path should have a default")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
catalog:
  dir: "./data/catalog"
audit:
  database_path: "./data/db/audit.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Catalog.Dir != filepath.Join(dir, "data/catalog") {
		t.Errorf("catalog dir: got %q", cfg.Catalog.Dir)
	}
	if cfg.Audit.DatabasePath != filepath.Join(dir, "data/db/audit.db") {
		t.Errorf("audit path: got %q", cfg.Audit.DatabasePath)
	}
}

func TestLoad_absolutePathsUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
catalog:
  dir: "/opt/buildbot/catalog"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Catalog.Dir != "/opt/buildbot/catalog" {
		t.Errorf("catalog dir: got %q", cfg.Catalog.Dir)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWatchOrDefault(t *testing.T) {
	var c CatalogConfig
	if !c.WatchOrDefault() {
		t.Error("watch should default to true")
	}
	off := false
	c.Watch = &off
	if c.WatchOrDefault() {
		t.Error("watch should respect explicit false")
	}
}
