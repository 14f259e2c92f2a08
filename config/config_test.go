package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type clientSettings struct {
	BaseURL string            `mapstructure:"base_url"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"`
}

type appConfig struct {
	Name   string         `mapstructure:"name"`
	Client clientSettings `mapstructure:"client"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", `
name: demo
client:
  base_url: https://api.example.com
  timeout: 15s
  headers:
    X-Env: test
`)

	var cfg appConfig
	if err := Load("demo", &cfg, WithConfigFile(cfgFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "demo" {
		t.Errorf("expected name demo, got %q", cfg.Name)
	}
	if cfg.Client.BaseURL != "https://api.example.com" {
		t.Errorf("unexpected base_url: %q", cfg.Client.BaseURL)
	}
	if cfg.Client.Timeout != 15*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.Client.Timeout)
	}
	if cfg.Client.Headers["X-Env"] != "test" {
		t.Errorf("unexpected headers: %v", cfg.Client.Headers)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", `
client:
  base_url: https://file.example.com
`)

	t.Setenv("CLIENT_BASE_URL", "https://env.example.com")

	var cfg appConfig
	if err := Load("demo", &cfg, WithConfigFile(cfgFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Client.BaseURL != "https://env.example.com" {
		t.Errorf("expected env override, got %q", cfg.Client.BaseURL)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", `
client:
  base_url: https://file.example.com
`)
	envFile := writeFile(t, dir, ".env", "CLIENT_BASE_URL=https://dotenv.example.com\n")

	t.Setenv("CLIENT_BASE_URL", "") // ensure godotenv's no-override rule is visible
	os.Unsetenv("CLIENT_BASE_URL")

	var cfg appConfig
	if err := Load("demo", &cfg, WithConfigFile(cfgFile), WithEnvFile(envFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Client.BaseURL != "https://dotenv.example.com" {
		t.Errorf("expected .env value, got %q", cfg.Client.BaseURL)
	}
}

func TestLoad_MissingFilesIsNotAnError(t *testing.T) {
	var cfg appConfig
	if err := Load("nonexistent-service", &cfg, WithConfigFile(""), WithFileSystem(&emptyFS{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", "client: [not: closed\n")

	var cfg appConfig
	if err := Load("demo", &cfg, WithConfigFile(cfgFile)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

// emptyFS reports every path as absent.
type emptyFS struct{}

func (*emptyFS) Exists(string) bool   { return false }
func (*emptyFS) LoadEnv(string) error { return nil }
