// Package config loads postfeed settings from ~/.postfeed/config.yaml,
// environment variables, and CLI flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/postfeed/internal/pagination"
	"github.com/rshade/postfeed/internal/posts"
)

// Environment variable names.
const (
	EnvHome      = "POSTFEED_HOME"
	EnvBaseURL   = "POSTFEED_BASE_URL"
	EnvPageSize  = "POSTFEED_PAGE_SIZE"
	EnvLogLevel  = "POSTFEED_LOG_LEVEL"
	EnvLogFormat = "POSTFEED_LOG_FORMAT"
)

const (
	configDirName  = ".postfeed"
	configFileName = "config.yaml"
	logFileName    = "postfeed.log"

	// DefaultThreshold is the end-of-list distance, as a fraction of the
	// viewport height, at which the next page is requested.
	DefaultThreshold = 0.5
)

// Config is the full postfeed configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Pagination PaginationConfig `yaml:"pagination"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// APIConfig configures the posts API client.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PaginationConfig configures infinite scroll.
type PaginationConfig struct {
	PageSize  int     `yaml:"page_size"`
	Threshold float64 `yaml:"threshold"`
	Mode      string  `yaml:"mode"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: posts.DefaultBaseURL,
			Timeout: posts.DefaultTimeout,
		},
		Pagination: PaginationConfig{
			PageSize:  pagination.DefaultPageSize,
			Threshold: DefaultThreshold,
			Mode:      string(pagination.ModeSequential),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Dir returns the postfeed home directory ($POSTFEED_HOME or ~/.postfeed).
func Dir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(userHome, configDirName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultLogFile returns the log file used while the TUI owns the terminal.
func DefaultLogFile() string {
	dir, err := Dir()
	if err != nil {
		return filepath.Join(os.TempDir(), logFileName)
	}
	return filepath.Join(dir, logFileName)
}

// Load builds a Config from defaults, the YAML file at path (if present),
// and environment overrides. An empty path selects DefaultPath.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err = cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile builds a Config from defaults and the YAML file at path, if
// present, without environment overrides. An empty path selects DefaultPath.
func LoadFile(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies POSTFEED_* overrides using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookup(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvPageSize, err)
		}
		c.Pagination.PageSize = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must not be empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0, got %s", c.API.Timeout)
	}
	if err := pagination.ValidatePageSize(c.Pagination.PageSize); err != nil {
		return fmt.Errorf("pagination.page_size: %w", err)
	}
	if c.Pagination.Threshold <= 0 || c.Pagination.Threshold > 1 {
		return fmt.Errorf("pagination.threshold must be in (0, 1], got %g", c.Pagination.Threshold)
	}
	if _, err := pagination.ParseMode(c.Pagination.Mode); err != nil {
		return fmt.Errorf("pagination.mode: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be 'console' or 'json', got %q", c.Logging.Format)
	}
	return nil
}

// Save writes the config as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
