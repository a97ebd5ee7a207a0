package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StorePath != "BV.txt" {
		t.Errorf("expected default store BV.txt, got %s", cfg.StorePath)
	}
	if cfg.DiseaseDataPath != "du_lieu_benh.txt" {
		t.Errorf("expected default disease data du_lieu_benh.txt, got %s", cfg.DiseaseDataPath)
	}
	if cfg.PageSize != 20 {
		t.Errorf("expected default page size 20, got %d", cfg.PageSize)
	}
	if cfg.CommandTimeout != 5*time.Second {
		t.Errorf("expected default timeout 5s, got %s", cfg.CommandTimeout)
	}
	if cfg.AuditLogPath != "" {
		t.Errorf("expected no audit log by default, got %s", cfg.AuditLogPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_PATH", "/tmp/queue.txt")
	t.Setenv("PAGE_SIZE", "5")
	t.Setenv("COMMAND_TIMEOUT", "250ms")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorePath != "/tmp/queue.txt" {
		t.Errorf("expected STORE_PATH from env, got %s", cfg.StorePath)
	}
	if cfg.PageSize != 5 {
		t.Errorf("expected PAGE_SIZE 5, got %d", cfg.PageSize)
	}
	if cfg.CommandTimeout != 250*time.Millisecond {
		t.Errorf("expected COMMAND_TIMEOUT 250ms, got %s", cfg.CommandTimeout)
	}
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("STORE_PATH", "/tmp/env.txt")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("store", "", "")
	flags.String("diseases", "", "")
	if err := flags.Parse([]string{"--store", "/tmp/flag.txt"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorePath != "/tmp/flag.txt" {
		t.Errorf("expected flag to win, got %s", cfg.StorePath)
	}
	if cfg.DiseaseDataPath != "du_lieu_benh.txt" {
		t.Errorf("unset flag must not override default, got %s", cfg.DiseaseDataPath)
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_Level(t *testing.T) {
	if (&Config{LogLevel: "debug"}).Level() != zerolog.DebugLevel {
		t.Error("expected debug level")
	}
	if (&Config{LogLevel: "nonsense"}).Level() != zerolog.InfoLevel {
		t.Error("expected info fallback for bad level")
	}
}

func TestConfig_Validate(t *testing.T) {
	base := Config{StorePath: "BV.txt", DiseaseDataPath: "d.txt", PageSize: 10, LogLevel: "info"}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := base
	c.StorePath = ""
	if c.Validate() == nil {
		t.Error("expected error for empty STORE_PATH")
	}

	c = base
	c.PageSize = 0
	if c.Validate() == nil {
		t.Error("expected error for zero PAGE_SIZE")
	}

	c = base
	c.LogLevel = "loud"
	if c.Validate() == nil {
		t.Error("expected error for bad LOG_LEVEL")
	}
}
