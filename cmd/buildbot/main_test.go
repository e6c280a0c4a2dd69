package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/buildbot/internal/cli"
)

func TestLoadConfig_explicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("resolved path: got %q, want %q", resolved, path)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
}

func TestLoadConfig_cwdFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 7777\n"), 0600); err != nil {
		t.Fatal(err)
	}
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(orig)

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(resolved) != "config.yaml" || filepath.Dir(resolved) == filepath.Dir(defaultConfigPath) {
		t.Errorf("resolved path: got %q, expected cwd config.yaml", resolved)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
}

func TestOutputFormatOf(t *testing.T) {
	if outputFormatOf("json") != cli.OutputJSON {
		t.Error("json should map to OutputJSON")
	}
	for _, name := range []string{"text", "", "yaml"} {
		if outputFormatOf(name) != cli.OutputText {
			t.Errorf("%q should map to OutputText", name)
		}
	}
}

func TestPartFlags(t *testing.T) {
	var flags partFlags
	for _, v := range []string{"cpu=cpu-1", "gpu=gpu-1"} {
		if err := flags.Set(v); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual([]string(flags), []string{"cpu=cpu-1", "gpu=gpu-1"}) {
		t.Errorf("unexpected flags: %v", flags)
	}
	if flags.String() != "cpu=cpu-1,gpu=gpu-1" {
		t.Errorf("String(): got %q", flags.String())
	}
}
