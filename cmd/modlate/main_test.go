package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hytale-tools/modlate/modpack"
)

func TestLangFileTarget(t *testing.T) {
	tests := []struct {
		path, source, target, want string
	}{
		{"assets/lang/en-US.lang", "en_US", "es_ES", filepath.Join("assets", "lang", "es-ES.lang")},
		{"assets/lang/en_US.lang", "en_US", "ja_JP", filepath.Join("assets", "lang", "ja-JP.lang")},
		{"assets/lang/custom.lang", "en_US", "es_ES", "assets/lang/custom.lang"},
		{"items/sword.json", "en_US", "es_ES", "items/sword.json"},
	}
	for _, tt := range tests {
		if got := langFileTarget(tt.path, tt.source, tt.target); got != tt.want {
			t.Errorf("langFileTarget(%q, %s, %s) = %q, want %q", tt.path, tt.source, tt.target, got, tt.want)
		}
	}
}

func TestSelectMods(t *testing.T) {
	mods := []modpack.Mod{
		{Name: "Dungeon Depths", Path: "/mods/depths.jar"},
		{Name: "plain", Path: "/mods/plain.zip"},
	}

	all, err := selectMods(mods, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("selectMods(nil) = %v, %v", all, err)
	}

	byName, err := selectMods(mods, []string{"Dungeon Depths"})
	if err != nil || len(byName) != 1 || byName[0].Path != "/mods/depths.jar" {
		t.Fatalf("select by name = %v, %v", byName, err)
	}

	byFile, err := selectMods(mods, []string{"plain.zip"})
	if err != nil || len(byFile) != 1 {
		t.Fatalf("select by file = %v, %v", byFile, err)
	}

	if _, err := selectMods(mods, []string{"missing"}); err == nil {
		t.Error("expected error for unknown mod")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	// Missing file: zero config, no error.
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig on empty dir: %v", err)
	}
	cfg.applyDefaults(dir)
	if cfg.SourceLang != "en_US" || cfg.Provider != "openai" || cfg.Workers != 4 {
		t.Errorf("defaults wrong: %+v", cfg)
	}
	if cfg.CachePath != filepath.Join(dir, ".modlate-cache.db") {
		t.Errorf("cache path = %q", cfg.CachePath)
	}

	// Present file overrides defaults.
	content := "target_lang: es_ES\nprovider: mock\nworkers: 2\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.applyDefaults(dir)
	if cfg.TargetLang != "es_ES" || cfg.Provider != "mock" || cfg.Workers != 2 {
		t.Errorf("config not applied: %+v", cfg)
	}

	// Malformed file is an error.
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Error("expected error for malformed config")
	}
}
