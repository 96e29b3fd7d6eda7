package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/squadhub/squadgraph/internal/diagram"
)

// Config holds all squadgraph CLI configuration.
// Priority: flags > env vars > settings.json > defaults.
type Config struct {
	LogLevel    string `json:"log_level"`
	Format      string `json:"format"`
	Theme       string `json:"theme"`
	Strict      bool   `json:"strict"`
	CacheSize   int    `json:"cache_size"`
	ASCIIBinDir string `json:"ascii_bin_dir"`
	MetricsAddr string `json:"metrics_addr"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:    "info",
		Format:      formatMermaid,
		CacheSize:   diagram.DefaultCacheSize,
		ASCIIBinDir: filepath.Join(squadgraphDir(), "bin"),
	}
}

func squadgraphDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".squadgraph"
	}
	return filepath.Join(home, ".squadgraph")
}

func settingsPath() string {
	return filepath.Join(squadgraphDir(), "settings.json")
}

// loadConfig layers settings.json and SQUADGRAPH_* env vars over the defaults.
// A missing or malformed settings file is ignored.
func loadConfig() Config {
	cfg := defaultConfig()

	if data, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}

	if v := os.Getenv("SQUADGRAPH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SQUADGRAPH_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v, ok := os.LookupEnv("SQUADGRAPH_THEME"); ok {
		cfg.Theme = v
	}
	if v := os.Getenv("SQUADGRAPH_STRICT"); v != "" {
		cfg.Strict = v == "true" || v == "1"
	}
	if v := os.Getenv("SQUADGRAPH_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheSize = n
		}
	}
	if v := os.Getenv("SQUADGRAPH_ASCII_BIN_DIR"); v != "" {
		cfg.ASCIIBinDir = v
	}
	if v := os.Getenv("SQUADGRAPH_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	return cfg
}
