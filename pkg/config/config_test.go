package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"scriptscore/pkg/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.MaxConcurrent != 4 || cfg.TopSpeakers != 50 {
		t.Fatalf("unexpected numeric defaults: %+v", cfg)
	}
	if cfg.FetchTimeout != 90*time.Second || cfg.PosTaggerTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts: %+v", cfg)
	}
	if cfg.MaxDocumentBytes != 50<<20 {
		t.Fatalf("MaxDocumentBytes = %d", cfg.MaxDocumentBytes)
	}
	if cfg.PosTaggerURL != "" || cfg.CatalogPath != "catalog.csv" || cfg.GroupsPath != "groups.yaml" {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
}

func TestLoadEnvironmentAndFlags(t *testing.T) {
	t.Setenv("MAX_CONCURRENT", "7")
	t.Setenv("FETCH_TIMEOUT", "2m")
	t.Setenv("PORT", "9000")
	t.Setenv("TOP_SPEAKERS", "not-a-number")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("port", "", "")
	flags.String("source", "", "")
	if err := flags.Parse([]string{"--source", "https://example.com/heat.pdf"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxConcurrent != 7 || cfg.FetchTimeout != 2*time.Minute {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Port != "9000" {
		t.Fatalf("unset flag should not override env, Port = %q", cfg.Port)
	}
	if cfg.DocumentSource != "https://example.com/heat.pdf" {
		t.Fatalf("DocumentSource = %q", cfg.DocumentSource)
	}
	if cfg.TopSpeakers != 50 {
		t.Fatalf("invalid TOP_SPEAKERS should fall back to default, got %d", cfg.TopSpeakers)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scriptscore.yaml")
	if err := os.WriteFile(path, []byte("catalog_path: /data/scripts.csv\nmax_concurrent: 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogPath != "/data/scripts.csv" || cfg.MaxConcurrent != 2 {
		t.Fatalf("config file not applied: %+v", cfg)
	}

	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := config.Load(nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	defer log.SetFormatter(&log.TextFormatter{})

	cfg := &config.Config{LogLevel: "debug", LogFormat: "json"}
	if err := cfg.ConfigureLogging(); err != nil {
		t.Fatalf("ConfigureLogging: %v", err)
	}
	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("level = %v", log.GetLevel())
	}

	if err := (&config.Config{LogLevel: "loud"}).ConfigureLogging(); err == nil {
		t.Fatal("expected invalid level error")
	}
	if err := (&config.Config{LogLevel: "info", LogFormat: "xml"}).ConfigureLogging(); err == nil {
		t.Fatal("expected invalid format error")
	}
}

func TestLoadCapsTopSpeakers(t *testing.T) {
	t.Setenv("TOP_SPEAKERS", "100")

	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TopSpeakers != 50 {
		t.Fatalf("TopSpeakers = %d, want 50", cfg.TopSpeakers)
	}
}
