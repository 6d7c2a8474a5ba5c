package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the mods directory.
const ConfigFileName = ".modlate.yaml"

// Config is the top-level .modlate.yaml structure.
type Config struct {
	// SourceLang is the source language code (default "en_US").
	SourceLang string `yaml:"source_lang,omitempty"`
	// TargetLang is the default target language code.
	TargetLang string `yaml:"target_lang,omitempty"`
	// Provider selects the backend: "openai", "libretranslate", or "mock".
	Provider string `yaml:"provider,omitempty"`
	// Model is the model name for AI providers.
	Model string `yaml:"model,omitempty"`
	// BaseURL points AI or REST providers at a custom server.
	BaseURL string `yaml:"base_url,omitempty"`
	// CachePath is the SQLite cache file (default "<mods>/.modlate-cache.db").
	CachePath string `yaml:"cache_path,omitempty"`
	// RedisURL switches the cache to Redis when set.
	RedisURL string `yaml:"redis_url,omitempty"`
	// Workers is the number of files processed concurrently.
	Workers int `yaml:"workers,omitempty"`
	// RequestsPerMinute paces provider calls.
	RequestsPerMinute int `yaml:"requests_per_minute,omitempty"`
}

// LoadConfig reads .modlate.yaml from modsDir. A missing file yields the
// zero config; a malformed one is an error, not a silent fallback.
func LoadConfig(modsDir string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(filepath.Join(modsDir, ConfigFileName)) // #nosec G304 - user-chosen dir
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", ConfigFileName, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}
	return cfg, nil
}

// applyDefaults fills unset fields after flags and config merge.
func (c *Config) applyDefaults(modsDir string) {
	if c.SourceLang == "" {
		c.SourceLang = "en_US"
	}
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.CachePath == "" {
		c.CachePath = filepath.Join(modsDir, ".modlate-cache.db")
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 60
	}
}
