// Package config loads service configuration from the environment and
// an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything read at startup. The privilege set is
// immutable for the process lifetime.
type Config struct {
	// DataPath is the glossary document location.
	DataPath string `yaml:"data_path"`
	// Admins lists the privileged actor IDs.
	Admins []string `yaml:"admins"`
	// Port is the HTTP listen port.
	Port string `yaml:"port"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Load builds the configuration: defaults, then the YAML file at path
// (if given), then environment variables on top. A .env file in the
// working directory is honored.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataPath: defaultDataPath(),
		Port:     "10000",
		LogLevel: "info",
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("STRIDE_DATA"); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv("STRIDE_ADMINS"); v != "" {
		cfg.Admins = splitIDs(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("STRIDE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "glossary.json"
	}
	return filepath.Join(home, ".stride", "glossary.json")
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
