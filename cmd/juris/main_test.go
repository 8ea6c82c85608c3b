package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/juris/internal/cli"
	"github.com/hyperjump/juris/internal/config"
	"github.com/hyperjump/juris/internal/extract"
	"github.com/hyperjump/juris/internal/models"
	"go.uber.org/zap"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after question are moved first",
			args:     []string{"how long is it", "--file", "nda.pdf"},
			expected: []string{"--file", "nda.pdf", "how long is it"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"--file", "nda.pdf", "question"},
			expected: []string{"--file", "nda.pdf", "question"},
		},
		{
			name:     "question only returns unchanged",
			args:     []string{"can I break my lease"},
			expected: []string{"can I break my lease"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "dash is positional",
			args:     []string{"-", "question", "-config", "c.yaml"},
			expected: []string{"-config", "c.yaml", "-", "question"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildQuestion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"consideration"}, "consideration"},
		{"multiple words", []string{"break", "my", "lease"}, "break my lease"},
		{"single quoted phrase", []string{"break my lease"}, "break my lease"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQuestion(tt.args)
			if got != tt.expected {
				t.Errorf("buildQuestion(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := parseFormat("json"); err != nil || f != cli.OutputJSON {
		t.Errorf("json: %v %v", f, err)
	}
	if f, err := parseFormat("text"); err != nil || f != cli.OutputText {
		t.Errorf("text: %v %v", f, err)
	}
	if _, err := parseFormat("compact"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_defaultsWhenNoFile(t *testing.T) {
	if _, err := os.Stat(defaultConfigPath); err == nil {
		t.Skip("system config present")
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty for built-in defaults", resolved)
	}
	if cfg.Upload.MaxBytes != config.DefaultMaxBytes || cfg.PDF.Engine != config.DefaultPDFEngine {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_explicitMissingPath(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("explicit missing path should fail")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "secret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := writeDefaultConfig(path, false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("environment API key must not be written to the file")
	}
	if err := writeDefaultConfig(path, false); err == nil {
		t.Error("existing file should not be overwritten without force")
	}
	if err := writeDefaultConfig(path, true); err != nil {
		t.Errorf("force overwrite: %v", err)
	}
}

func TestNewPipeline_unknownEngine(t *testing.T) {
	cfg := config.Default()
	cfg.PDF.Engine = "ghostscript"
	if _, err := newPipeline(cfg, zap.NewNop()); err == nil {
		t.Error("unknown engine should fail")
	}
}

func TestIngestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lease.md")
	if err := os.WriteFile(path, []byte("# Residential lease\n\nRent is due monthly."), 0600); err != nil {
		t.Fatal(err)
	}
	p, err := newPipeline(config.Default(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	doc, err := ingestFile(context.Background(), p, path)
	if err != nil {
		t.Fatalf("ingestFile: %v", err)
	}
	if doc.Name != "lease.md" || doc.Metadata.DocumentType != models.DocumentLease {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestReportIngestFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(path, []byte("   "), 0600); err != nil {
		t.Fatal(err)
	}
	p, err := newPipeline(config.Default(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	_, err = ingestFile(context.Background(), p, path)
	if !errors.Is(err, extract.ErrEmptyDocument) {
		t.Fatalf("got %v, want ErrEmptyDocument", err)
	}
	var buf bytes.Buffer
	reportIngestFailure(&buf, err)
	if !strings.HasPrefix(buf.String(), "No text found: ") {
		t.Errorf("got %q", buf.String())
	}
	buf.Reset()
	reportIngestFailure(&buf, errors.New("stat file: boom"))
	if buf.String() != "Failed: stat file: boom\n" {
		t.Errorf("got %q", buf.String())
	}
}
