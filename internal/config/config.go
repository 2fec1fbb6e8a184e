// Package config handles the XDG configuration directory, the config file and
// environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "todos"

	// ConfigFile is the TOML settings filename.
	ConfigFile = "config.toml"

	// LogFile receives debug logs while the TUI owns the terminal.
	LogFile = "todos.log"

	// OAuthClientFile is the OAuth client credentials filename (googletasks).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (googletasks).
	TokenFile = "token.json"
)

// Backend names.
const (
	BackendDummyJSON   = "dummyjson"
	BackendGoogleTasks = "googletasks"
)

// Default values.
const (
	DefaultBaseURL  = "https://dummyjson.com/"
	DefaultPageSize = 30
	DefaultTaskList = "@default"
	DefaultLogLevel = "warn"
)

// Settings holds values read from config.toml and the environment.
type Settings struct {
	Backend          string        `toml:"backend"`
	BaseURL          string        `toml:"base_url"`
	PageSize         int           `toml:"page_size"`
	NewTaskCompleted bool          `toml:"new_task_completed"`
	RequestTimeout   time.Duration `toml:"request_timeout"`
	TaskList         string        `toml:"task_list"`
	LogLevel         string        `toml:"log_level"`
	LogFormat        string        `toml:"log_format"`
	MetricsAddr      string        `toml:"metrics_addr"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Backend:          BackendDummyJSON,
		BaseURL:          DefaultBaseURL,
		PageSize:         DefaultPageSize,
		NewTaskCompleted: true,
		TaskList:         DefaultTaskList,
		LogLevel:         DefaultLogLevel,
		LogFormat:        "text",
	}
}

// New creates a Config with default settings and the default or specified
// config directory. It does not read any file.
// If configDir is empty, uses XDG_CONFIG_HOME/todos or $HOME/.config/todos.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// Load creates a Config and applies, in order: defaults, config.toml (if
// present), environment variables. The result is validated.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.ConfigPath()); err == nil {
		if _, err := toml.DecodeFile(cfg.ConfigPath(), &cfg.Settings); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", cfg.ConfigPath(), err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := loadFromEnv(&cfg.Settings); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(s *Settings) error {
	if v := os.Getenv("TODOS_BACKEND"); v != "" {
		s.Backend = v
	}
	if v := os.Getenv("TODOS_BASE_URL"); v != "" {
		s.BaseURL = v
	}
	if v := os.Getenv("TODOS_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TODOS_PAGE_SIZE: %s", v)
		}
		s.PageSize = n
	}
	if v := os.Getenv("TODOS_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("TODOS_METRICS_ADDR"); v != "" {
		s.MetricsAddr = v
	}
	return nil
}

// Validate checks settings for values the backends cannot use.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendDummyJSON:
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base_url: %q", c.BaseURL)
		}
	case BackendGoogleTasks:
		if c.TaskList == "" {
			return fmt.Errorf("task_list must not be empty")
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path of the TUI debug log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
