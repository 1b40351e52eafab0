package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STRIDE_DATA", "")
	t.Setenv("STRIDE_ADMINS", "")
	t.Setenv("PORT", "")
	t.Setenv("STRIDE_LOG_LEVEL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "10000" {
		t.Errorf("expected default port 10000, got %q", cfg.Port)
	}
	if cfg.DataPath == "" {
		t.Error("expected a default data path")
	}
	if len(cfg.Admins) != 0 {
		t.Errorf("expected no admins by default, got %v", cfg.Admins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STRIDE_DATA", "/tmp/g.json")
	t.Setenv("STRIDE_ADMINS", " 123 , 456 ,,")
	t.Setenv("PORT", "8080")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataPath != "/tmp/g.json" {
		t.Errorf("expected /tmp/g.json, got %q", cfg.DataPath)
	}
	if len(cfg.Admins) != 2 || cfg.Admins[0] != "123" || cfg.Admins[1] != "456" {
		t.Errorf("expected [123 456], got %v", cfg.Admins)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
}

func TestLoadYAMLFileAndEnvPrecedence(t *testing.T) {
	t.Setenv("STRIDE_DATA", "")
	t.Setenv("STRIDE_ADMINS", "")
	t.Setenv("PORT", "9000")

	path := filepath.Join(t.TempDir(), "stride.yaml")
	body := "data_path: /var/lib/stride/glossary.json\nadmins:\n  - alice\n  - bob\nport: \"7777\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataPath != "/var/lib/stride/glossary.json" {
		t.Errorf("expected yaml data path, got %q", cfg.DataPath)
	}
	if len(cfg.Admins) != 2 || cfg.Admins[0] != "alice" {
		t.Errorf("expected yaml admins, got %v", cfg.Admins)
	}
	// Environment wins over the file.
	if cfg.Port != "9000" {
		t.Errorf("expected env port 9000, got %q", cfg.Port)
	}
}

func TestLoadBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride.yaml")
	if err := os.WriteFile(path, []byte(":\nnot yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unparseable config file")
	}
}
