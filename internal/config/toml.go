// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz     QuizConfig     `toml:"quiz"`
	Scramble ScrambleConfig `toml:"scramble"`
	Speech   SpeechConfig   `toml:"speech"`
	UI       UIConfig       `toml:"ui"`
	History  HistoryConfig  `toml:"history"`
	Log      LogConfig      `toml:"log"`
}

// QuizConfig maps word quiz settings.
type QuizConfig struct {
	Lang    *string `toml:"lang"`
	Data    *string `toml:"data"`
	Options *int    `toml:"options"`
}

// ScrambleConfig maps sentence quiz settings.
type ScrambleConfig struct {
	Data *string `toml:"data"`
}

// SpeechConfig maps text-to-speech settings.
type SpeechConfig struct {
	Enabled  *bool    `toml:"enabled"`
	Programs []string `toml:"programs"`
}

// UIConfig maps terminal UI settings.
type UIConfig struct {
	Plain *bool `toml:"plain"`
}

// HistoryConfig maps session history settings.
type HistoryConfig struct {
	Enabled *bool `toml:"enabled"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
