package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("GROVE_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("GROVE_MODEL", "")
	t.Setenv("GROVE_API_BASE", "")
	t.Setenv("GROVE_STORE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Persona != DefaultPersona {
		t.Errorf("Expected default persona, got %q", cfg.Persona)
	}
	if cfg.Model.Name != DefaultModel {
		t.Errorf("Expected default model, got %q", cfg.Model.Name)
	}
	if cfg.Model.Temperature != 0.7 {
		t.Errorf("Expected default temperature 0.7, got %v", cfg.Model.Temperature)
	}
	if cfg.API.KeyEnv != DefaultKeyEnv {
		t.Errorf("Expected default key env, got %q", cfg.API.KeyEnv)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `persona: "You are a pirate."
model:
  name: local-model
  temperature: 0.2
api:
  base_url: http://localhost:8080/v1
store:
  path: /tmp/grove-test.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GROVE_CONFIG", path)
	t.Setenv("GROVE_MODEL", "")
	t.Setenv("GROVE_API_BASE", "")
	t.Setenv("GROVE_STORE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Persona != "You are a pirate." {
		t.Errorf("Persona not loaded: %q", cfg.Persona)
	}
	if cfg.Model.Name != "local-model" || cfg.Model.Temperature != 0.2 {
		t.Errorf("Model not loaded: %+v", cfg.Model)
	}
	if cfg.API.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("Base URL not loaded: %q", cfg.API.BaseURL)
	}
	// Fields the file omitted keep defaults.
	if cfg.API.KeyEnv != DefaultKeyEnv {
		t.Errorf("Expected default key env, got %q", cfg.API.KeyEnv)
	}

	sp, err := cfg.StorePath()
	if err != nil {
		t.Fatalf("StorePath failed: %v", err)
	}
	if sp != "/tmp/grove-test.db" {
		t.Errorf("Unexpected store path: %s", sp)
	}
}

func TestZeroTemperatureIsRespected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `model:
  temperature: 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GROVE_CONFIG", path)
	t.Setenv("GROVE_MODEL", "")
	t.Setenv("GROVE_API_BASE", "")
	t.Setenv("GROVE_STORE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model.Temperature != 0 {
		t.Errorf("Explicit temperature 0 was overridden: got %v", cfg.Model.Temperature)
	}
	// Omitting the field entirely still yields the default.
	if err := os.WriteFile(path, []byte("persona: p\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model.Temperature != 0.7 {
		t.Errorf("Expected default temperature 0.7 when absent, got %v", cfg.Model.Temperature)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GROVE_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("GROVE_MODEL", "override-model")
	t.Setenv("GROVE_API_BASE", "http://override:9999/v1")
	t.Setenv("GROVE_STORE", "/tmp/override.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model.Name != "override-model" {
		t.Errorf("GROVE_MODEL not applied: %q", cfg.Model.Name)
	}
	if cfg.API.BaseURL != "http://override:9999/v1" {
		t.Errorf("GROVE_API_BASE not applied: %q", cfg.API.BaseURL)
	}
	if cfg.Store.Path != "/tmp/override.db" {
		t.Errorf("GROVE_STORE not applied: %q", cfg.Store.Path)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	t.Setenv("GROVE_CONFIG", path)
	t.Setenv("GROVE_MODEL", "")
	t.Setenv("GROVE_API_BASE", "")
	t.Setenv("GROVE_STORE", "")

	cfg := DefaultConfig()
	cfg.Persona = "saved persona"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Persona != "saved persona" {
		t.Errorf("Persona not round-tripped: %q", loaded.Persona)
	}
}
