package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("STORAGE_BACKEND", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Fatalf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "muawin.db" {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.LLM.Model != "gpt-3.5-turbo" {
		t.Fatalf("unexpected model default: %s", cfg.LLM.Model)
	}
	if cfg.Storage.Path != "data/prescription" {
		t.Fatalf("unexpected storage path: %s", cfg.Storage.Path)
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("LLM_TIMEOUT_SECONDS", "15")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.LLMTimeout().Seconds() != 15 {
		t.Fatalf("expected 15s timeout, got %s", cfg.LLMTimeout())
	}
}

func TestLoadConfigReadsYAMLFile(t *testing.T) {
	t.Setenv("PORT", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("port: \"7070\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected port from file, got %s", cfg.Port)
	}
}

func TestLoadConfigRejectsInvalidCombinations(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "oracle"}},
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "ftp"}},
		{name: "s3 without bucket", env: map[string]string{"STORAGE_BACKEND": "s3", "S3_BUCKET": ""}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
