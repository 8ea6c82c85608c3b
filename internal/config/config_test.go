package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
upload:
  max_bytes: 5242880
pdf:
  engine: pdfcpu
llm:
  api_key: "file-key"
  temperature: 0.2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Upload.MaxBytes != 5<<20 {
		t.Errorf("max_bytes = %d, want %d", cfg.Upload.MaxBytes, 5<<20)
	}
	if cfg.PDF.Engine != "pdfcpu" {
		t.Errorf("engine = %q", cfg.PDF.Engine)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Errorf("api_key = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", cfg.LLM.Temperature)
	}
	if cfg.LLM.Model != DefaultModel {
		t.Errorf("model should default: got %q", cfg.LLM.Model)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	cfg, err := Load(writeConfig(t, "debug: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_envOverridesAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "  env-key ")
	cfg, err := Load(writeConfig(t, "llm:\n  api_key: file-key\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("api_key = %q, want env-key", cfg.LLM.APIKey)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Upload.MaxBytes != 10485760 {
		t.Errorf("default max_bytes: got %d", cfg.Upload.MaxBytes)
	}
	if cfg.PDF.Engine != "ledongthuc" {
		t.Errorf("default engine: got %s", cfg.PDF.Engine)
	}
	llm := cfg.LLM
	if llm.Model != "gemini-1.5-flash" || llm.Temperature != 0.7 || llm.TopK != 40 || llm.TopP != 0.95 || llm.MaxOutputTokens != 2000 {
		t.Errorf("llm defaults: got %+v", llm)
	}
}

func TestDefault(t *testing.T) {
	t.Setenv(EnvAPIKey, "k")
	cfg := Default()
	if cfg.LLM.APIKey != "k" || cfg.Server.Port != 8080 {
		t.Errorf("Default() = %+v", cfg)
	}
}

func TestSave(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := &Config{
		Server: ServerConfig{Host: "localhost", Port: 9090},
		PDF:    PDFConfig{Engine: "pdfcpu"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 || loaded.PDF.Engine != "pdfcpu" {
		t.Errorf("loaded = %+v", loaded)
	}
}
