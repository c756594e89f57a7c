package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("expected missing config to be ignored, got %v", err)
	}
	if cfg.Quiz.Lang != nil || cfg.Speech.Enabled != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[quiz]
lang = "ua"
options = 4

[scramble]
data = "phrases.json"

[speech]
enabled = false
programs = ["espeak -v en"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Quiz.Lang == nil || *cfg.Quiz.Lang != "ua" {
		t.Fatalf("unexpected lang: %v", cfg.Quiz.Lang)
	}
	if cfg.Quiz.Options == nil || *cfg.Quiz.Options != 4 {
		t.Fatalf("unexpected options: %v", cfg.Quiz.Options)
	}
	if cfg.Quiz.Data != nil {
		t.Fatalf("expected quiz data to stay unset")
	}
	if cfg.Scramble.Data == nil || *cfg.Scramble.Data != "phrases.json" {
		t.Fatalf("unexpected scramble data: %v", cfg.Scramble.Data)
	}
	if cfg.Speech.Enabled == nil || *cfg.Speech.Enabled {
		t.Fatalf("expected speech disabled")
	}
	if len(cfg.Speech.Programs) != 1 || cfg.Speech.Programs[0] != "espeak -v en" {
		t.Fatalf("unexpected programs: %v", cfg.Speech.Programs)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[quiz]\nlanguage = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadEnvPrefersProcessEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LRN_LANG=ua\nLRN_DATA=from-file.json\n"), 0o644); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv(EnvData, "from-env.json")
	t.Setenv(EnvLang, "")
	if err := os.Unsetenv(EnvLang); err != nil {
		t.Fatalf("unset env: %v", err)
	}

	env, err := LoadEnv(path)
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if env.Lang != "ua" {
		t.Fatalf("expected lang from dotenv, got %q", env.Lang)
	}
	if env.Data != "from-env.json" {
		t.Fatalf("expected data from environment, got %q", env.Data)
	}
}

func TestLoadEnvScrambleDataSeparate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LRN_SCRAMBLE_DATA=phrases.json\n"), 0o644); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv(EnvData, "words.json")
	t.Setenv(EnvScrambleData, "")
	if err := os.Unsetenv(EnvScrambleData); err != nil {
		t.Fatalf("unset env: %v", err)
	}
	env, err := LoadEnv(path)
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if env.Data != "words.json" || env.ScrambleData != "phrases.json" {
		t.Fatalf("unexpected data overrides %+v", env)
	}
}

func TestLoadEnvMissingDotenv(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	if err := os.Unsetenv(EnvLogLevel); err != nil {
		t.Fatalf("unset env: %v", err)
	}
	env, err := LoadEnv(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("expected missing dotenv to be ignored, got %v", err)
	}
	if env.LogLevel != "" {
		t.Fatalf("unexpected log level %q", env.LogLevel)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "lrn", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "lrn", "lrn.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
