package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendDummyJSON {
		t.Errorf("expected backend %q, got %q", BackendDummyJSON, cfg.Backend)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected base url %q, got %q", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.PageSize != 30 {
		t.Errorf("expected page size 30, got %d", cfg.PageSize)
	}
	if !cfg.NewTaskCompleted {
		t.Error("expected new tasks to default to completed")
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("expected no request timeout, got %s", cfg.RequestTimeout)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
base_url = "http://localhost:9000/"
page_size = 10
new_task_completed = false
request_timeout = "3s"
log_level = "debug"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:9000/" {
		t.Errorf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.PageSize != 10 {
		t.Errorf("expected page size 10, got %d", cfg.PageSize)
	}
	if cfg.NewTaskCompleted {
		t.Error("expected new_task_completed=false from file")
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Backend != BackendDummyJSON {
		t.Errorf("expected default backend, got %q", cfg.Backend)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `page_size = 10`)
	t.Setenv("TODOS_PAGE_SIZE", "5")
	t.Setenv("TODOS_BASE_URL", "http://example.test/")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PageSize != 5 {
		t.Errorf("expected env page size 5, got %d", cfg.PageSize)
	}
	if cfg.BaseURL != "http://example.test/" {
		t.Errorf("expected env base url, got %q", cfg.BaseURL)
	}
}

func TestLoad_InvalidEnvPageSize(t *testing.T) {
	t.Setenv("TODOS_PAGE_SIZE", "lots")
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for non-numeric page size")
	}
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `page_size = "ten`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "loading config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		errSub string
	}{
		{"unknown backend", func(s *Settings) { s.Backend = "ftp" }, "unknown backend"},
		{"relative base url", func(s *Settings) { s.BaseURL = "dummyjson.com" }, "invalid base_url"},
		{"zero page size", func(s *Settings) { s.PageSize = 0 }, "page_size"},
		{"negative timeout", func(s *Settings) { s.RequestTimeout = -time.Second }, "request_timeout"},
		{"empty task list", func(s *Settings) { s.Backend = BackendGoogleTasks; s.TaskList = "" }, "task_list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Dir: t.TempDir(), Settings: DefaultSettings()}
			tt.mutate(&cfg.Settings)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("expected error containing %q, got %v", tt.errSub, err)
			}
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestPaths(t *testing.T) {
	cfg, _ := New("/cfg")
	if cfg.TokenPath() != "/cfg/token.json" {
		t.Errorf("unexpected token path %q", cfg.TokenPath())
	}
	if cfg.OAuthClientPath() != "/cfg/oauth_client.json" {
		t.Errorf("unexpected oauth path %q", cfg.OAuthClientPath())
	}
	if cfg.ConfigPath() != "/cfg/config.toml" {
		t.Errorf("unexpected config path %q", cfg.ConfigPath())
	}
}
