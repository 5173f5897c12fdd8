// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (./pb-mcp.yaml)
//  3. Default values
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidURL indicates the PocketBase base URL is invalid.
	ErrInvalidURL = errors.New("invalid PocketBase URL")

	// ErrInvalidOutputFormat indicates an unsupported tool output format.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

// Output format identifiers used in Config.OutputFormat.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultURL is the conventional local PocketBase address.
const DefaultURL = "http://127.0.0.1:8090"

// Config stores application configuration.
// SENSITIVE: AdminToken and AdminPassword must never be logged.
type Config struct {
	// URL is the default PocketBase base URL, normalized (no trailing slash).
	// Tool calls may override it per call via their baseUrl parameter.
	URL string `mapstructure:"url" json:"url"`

	// AdminToken is a process-wide fallback superuser token. It is the
	// lowest-precedence credential: an explicit per-call token and a
	// stored session token both win over it.
	AdminToken string `mapstructure:"admin_token" json:"-"`

	// AdminEmail/AdminPassword drive one-shot auto-authentication at
	// startup. They are ignored when AdminToken is set.
	AdminEmail    string `mapstructure:"admin_email" json:"admin_email"`
	AdminPassword string `mapstructure:"admin_password" json:"-"`

	// OutputFormat selects the tool output encoding: "json" (default)
	// or "yaml". JSON remains the fallback if YAML encoding fails.
	OutputFormat string `mapstructure:"output_format" json:"output_format"`

	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug" json:"debug"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("pb-mcp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults and env apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	cfg.URL = NormalizeURL(cfg.URL)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("url", DefaultURL)
	v.SetDefault("output_format", FormatJSON)
	v.SetDefault("debug", false)
}

// bindEnvVariables binds environment variables explicitly.
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("url", "POCKETBASE_URL")
	mustBind("admin_token", "POCKETBASE_ADMIN_TOKEN")
	mustBind("admin_email", "POCKETBASE_ADMIN_EMAIL")
	mustBind("admin_password", "POCKETBASE_ADMIN_PASSWORD")
	mustBind("output_format", "PB_MCP_OUTPUT_FORMAT")
	mustBind("debug", "DEBUG")
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	switch c.OutputFormat {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: %q (want %q or %q)",
			ErrInvalidOutputFormat, c.OutputFormat, FormatJSON, FormatYAML)
	}
	return nil
}

// NormalizeURL strips all trailing slashes so that two spellings of the
// same endpoint collapse to one session store key. Idempotent.
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
