package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvSeed, EnvGameDir, EnvSaveDir, EnvLogLevel, EnvLogFile, EnvAddr, EnvTelemetry} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
	if cfg.GameDir != "" {
		t.Errorf("GameDir = %q, want empty", cfg.GameDir)
	}
	if cfg.SaveDir != filepath.Join("/home/tester", ".dragonroad", "saves") {
		t.Errorf("SaveDir = %q", cfg.SaveDir)
	}
	if cfg.LogLevel != log.InfoLevel {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.Telemetry {
		t.Error("Telemetry should default to off")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSeed, "42")
	t.Setenv(EnvGameDir, "/games/mine")
	t.Setenv(EnvSaveDir, "/tmp/saves")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvLogFile, "/tmp/dragonroad.log")
	t.Setenv(EnvAddr, "127.0.0.1:9000")
	t.Setenv(EnvTelemetry, "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Seed != 42 || cfg.GameDir != "/games/mine" || cfg.SaveDir != "/tmp/saves" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != log.DebugLevel || cfg.LogFile != "/tmp/dragonroad.log" {
		t.Errorf("unexpected logging config %+v", cfg)
	}
	if cfg.Addr != "127.0.0.1:9000" || !cfg.Telemetry {
		t.Errorf("unexpected server config %+v", cfg)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvSeed)
	os.Unsetenv(EnvAddr)

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DRAGONROAD_SEED=7\nDRAGONROAD_ADDR=:7070\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7 from .env", cfg.Seed)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070 from .env", cfg.Addr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvSeed, "abc"},
		{EnvLogLevel, "loud"},
		{EnvTelemetry, "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should name %s", err, tt.key)
			}
		})
	}
}
