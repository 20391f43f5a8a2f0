package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Store   StoreConfig       `yaml:"store"`
	Session SessionConfig     `yaml:"session"`
	MCP     MCPConfig         `yaml:"mcp"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Session.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// UnmarshalYAML accepts level names (debug, info, warn, error) for
// log_level, which yaml cannot decode into slog.Level directly.
func (c *ApplicationConfig) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		LogLevel string     `yaml:"log_level"`
		HTTP     HTTPConfig `yaml:"http"`
	}{HTTP: c.HTTP}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.HTTP = raw.HTTP
	if raw.LogLevel != "" {
		if err := c.LogLevel.UnmarshalText([]byte(raw.LogLevel)); err != nil {
			return fmt.Errorf("app: parse log_level: %w", err)
		}
	}
	return nil
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig holds the on-disk locations of all durable state: the
// flat documents directory and the two YAML sidecar files.
type StoreConfig struct {
	DocumentsDir string `yaml:"documents_dir"`
	UsersFile    string `yaml:"users_file"`
	HistoryFile  string `yaml:"history_file"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DocumentsDir, validation.Required),
		validation.Field(&c.UsersFile, validation.Required),
		validation.Field(&c.HistoryFile, validation.Required),
	)
}

// SessionConfig holds browser session configuration.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Validate validates the session configuration.
func (c *SessionConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("session: ttl must be positive, got %s", c.TTL)
	}
	return nil
}

// UnmarshalYAML accepts duration strings (e.g. "30m") for ttl.
func (c *SessionConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TTL string `yaml:"ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.TTL == "" {
		return nil
	}
	d, err := time.ParseDuration(raw.TTL)
	if err != nil {
		return fmt.Errorf("session: parse ttl: %w", err)
	}
	c.TTL = d
	return nil
}

// MCPConfig controls the optional MCP stdio server.
type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			DocumentsDir: "./data",
			UsersFile:    "./users.yml",
			HistoryFile:  "./history.yml",
		},
		Session: SessionConfig{
			TTL: 30 * time.Minute,
		},
		MCP: MCPConfig{
			Enabled: false,
		},
	}
}
