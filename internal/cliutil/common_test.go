package cliutil

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.WorkDir != "." {
		t.Fatalf("default WorkDir = %q, want %q", cfg.WorkDir, ".")
	}
}

func TestSaveThenLoadConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := &Config{Verbose: true, Debug: true, WorkDir: "/tmp/critnib"}
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if *loaded != *cfg {
		t.Fatalf("LoadConfig = %+v, want %+v", loaded, cfg)
	}
}

func TestValidateArgs(t *testing.T) {
	if err := ValidateArgs([]string{"a", "b"}, 2, "usage"); err != nil {
		t.Fatalf("ValidateArgs with enough args = %v, want nil", err)
	}

	if err := ValidateArgs([]string{"a"}, 2, "usage"); err == nil {
		t.Fatal("ValidateArgs with too few args = nil, want error")
	}
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.Version != Version {
		t.Fatalf("GetVersionInfo().Version = %q, want %q", info.Version, Version)
	}

	if info.GoVersion == "" {
		t.Fatal("GetVersionInfo().GoVersion is empty")
	}
}
