package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/fs"
)

// Config is the client configuration file.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Auth    AuthConfig    `toml:"auth"`
	Upload  UploadConfig  `toml:"upload"`
	Logging LoggingConfig `toml:"logging"`
}

type BackendConfig struct {
	URL        string `toml:"url"`
	TimeoutRaw string `toml:"timeout"`

	Timeout time.Duration `toml:"-"`
}

// AuthConfig selects where bearer tokens come from. A static token wins
// over a token file, which wins over OAuth2 client credentials.
type AuthConfig struct {
	Token     string       `toml:"token"`
	TokenFile string       `toml:"token_file"`
	Secret    string       `toml:"secret"`
	OAuth2    OAuth2Config `toml:"oauth2"`
}

type OAuth2Config struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	TokenURL     string   `toml:"token_url"`
	Scopes       []string `toml:"scopes"`
	Audience     string   `toml:"audience"`
}

type UploadConfig struct {
	Dept         string   `toml:"dept"`
	DocumentType string   `toml:"document_type"`
	Language     string   `toml:"language"`
	Extensions   []string `toml:"extensions"`
	TimeoutRaw   string   `toml:"timeout"`

	Timeout time.Duration `toml:"-"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	d := uniquest.DefaultUploadDefaults()
	return &Config{
		Backend: BackendConfig{
			URL:     "http://localhost:8000",
			Timeout: uniquest.DefaultTurnTimeout,
		},
		Upload: UploadConfig{
			Dept:         d.Dept,
			DocumentType: d.DocumentType,
			Language:     d.Language,
			Extensions:   slices.Clone(fs.DefaultExtensions),
			Timeout:      5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// configPath returns $UNIQUEST_CONFIG, or config.toml under the XDG config
// directory.
func configPath(getenv func(string) string) string {
	if p := getenv("UNIQUEST_CONFIG"); p != "" {
		return p
	}
	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "uniquest", "config.toml")
}

// LoadConfig reads the file at path over the defaults, expanding ${VAR}
// references, then applies environment overrides. A missing file is an
// error only when required is set.
func LoadConfig(path string, required bool, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := toml.Decode(expandEnvVars(string(data), getenv), cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		if err := parseDurations(cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
		// No config file; defaults plus environment.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnv(cfg, getenv)
	return cfg, nil
}

var envVarRE = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string, getenv func(string) string) string {
	return envVarRE.ReplaceAllStringFunc(s, func(match string) string {
		return getenv(strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}"))
	})
}

func parseDurations(cfg *Config) error {
	var err error
	if cfg.Backend.TimeoutRaw != "" {
		if cfg.Backend.Timeout, err = time.ParseDuration(cfg.Backend.TimeoutRaw); err != nil {
			return fmt.Errorf("backend.timeout: %w", err)
		}
	}
	if cfg.Upload.TimeoutRaw != "" {
		if cfg.Upload.Timeout, err = time.ParseDuration(cfg.Upload.TimeoutRaw); err != nil {
			return fmt.Errorf("upload.timeout: %w", err)
		}
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("UNIQUEST_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := getenv("UNIQUEST_TOKEN"); v != "" {
		cfg.Auth.Token = v
	}
	if v := getenv("UNIQUEST_TOKEN_FILE"); v != "" {
		cfg.Auth.TokenFile = v
	}
	if v := getenv("UNIQUEST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks that required config fields are present and valid.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend.url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.url must use http or https scheme")
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %s", strings.Join(logLevels, ", "))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json")
	}
	if c.Upload.Dept == "" || c.Upload.DocumentType == "" || c.Upload.Language == "" {
		return fmt.Errorf("upload.dept, upload.document_type and upload.language must not be empty")
	}
	return nil
}

// UploadDefaults returns the metadata applied to uploads.
func (c *Config) UploadDefaults() uniquest.UploadDefaults {
	return uniquest.UploadDefaults{
		Dept:         c.Upload.Dept,
		DocumentType: c.Upload.DocumentType,
		Language:     c.Upload.Language,
	}
}
