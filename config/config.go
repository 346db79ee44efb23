// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvSeed      = "DRAGONROAD_SEED"
	EnvGameDir   = "DRAGONROAD_GAME_DIR"
	EnvSaveDir   = "DRAGONROAD_SAVE_DIR"
	EnvLogLevel  = "DRAGONROAD_LOG_LEVEL"
	EnvLogFile   = "DRAGONROAD_LOG_FILE"
	EnvAddr      = "DRAGONROAD_ADDR"
	EnvTelemetry = "DRAGONROAD_TELEMETRY"
)

// DefaultAddr is the web listen address when none is configured.
const DefaultAddr = ":8080"

// Config holds everything main needs to start a session.
type Config struct {
	Seed      int64     // 0 seeds from the clock
	GameDir   string    // empty uses the embedded classic game
	SaveDir   string
	LogLevel  log.Level
	LogFile   string // empty logs to stderr (discarded in the TUI)
	Addr      string
	Telemetry bool
}

// Load reads .env files (missing ones are ignored) and then the
// environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{
		GameDir:  os.Getenv(EnvGameDir),
		SaveDir:  os.Getenv(EnvSaveDir),
		LogLevel: log.InfoLevel,
		LogFile:  os.Getenv(EnvLogFile),
		Addr:     os.Getenv(EnvAddr),
	}

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		lvl, err := log.ParseLevel(strings.ToLower(v))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}

	if v := os.Getenv(EnvTelemetry); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTelemetry, err)
		}
		cfg.Telemetry = on
	}

	if cfg.SaveDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.SaveDir = filepath.Join(home, ".dragonroad", "saves")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	return cfg, nil
}
