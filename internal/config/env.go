package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvLang         = "LRN_LANG"
	EnvData         = "LRN_DATA"
	EnvScrambleData = "LRN_SCRAMBLE_DATA"
	EnvLogLevel     = "LRN_LOG_LEVEL"
)

// EnvOverrides holds values taken from the environment. Empty means unset.
type EnvOverrides struct {
	Lang         string
	Data         string
	ScrambleData string
	LogLevel     string
}

// LoadEnv reads overrides from the process environment, falling back to an
// optional dotenv file. The process environment is left untouched.
func LoadEnv(dotenvPath string) (EnvOverrides, error) {
	fileVars := map[string]string{}
	if dotenvPath != "" {
		vars, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return EnvOverrides{}, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
		if vars != nil {
			fileVars = vars
		}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileVars[key])
	}
	return EnvOverrides{
		Lang:         lookup(EnvLang),
		Data:         lookup(EnvData),
		ScrambleData: lookup(EnvScrambleData),
		LogLevel:     lookup(EnvLogLevel),
	}, nil
}
