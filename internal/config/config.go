// =============================================================================
// I&C Cargo Billing Tool - Configuration Module
// =============================================================================
//
// This module loads the run configuration. The tool is designed to run with
// no configuration file at all: every setting has a default matching the
// business's fixed manifest export format. A YAML file can override the
// column layout, the container-header markers, and the output conventions,
// and a handful of settings can additionally be overridden through the
// environment (ICB_* variables, optionally from a .env file).
//
// CONFIGURATION SOURCES (later wins):
//   1. Built-in defaults
//   2. YAML file (--config)
//   3. Environment (ICB_LOG_LEVEL, ICB_LOG_FORMAT, ICB_CHROME_BIN)
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/iccargo/billing-tool/internal/manifest"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full run configuration.
type Config struct {
	// Columns maps manifest fields to 0-based spreadsheet column indices.
	// The manifest export format is fixed (columns A-F), so this exists to
	// make the positional contract visible and swappable, not because the
	// layout is expected to vary run to run.
	Columns *manifest.Columns `yaml:"columns"`

	// HeaderMarkers are literal substrings identifying container batch-header
	// lines in the customer-id column. Matching rows are dropped entirely.
	HeaderMarkers []string `yaml:"header_markers"`

	// Location is the customer location printed on every invoice unless the
	// --location flag overrides it.
	Location string `yaml:"location"`

	// InvoicePrefix is the literal prefix of generated invoice numbers.
	InvoicePrefix string `yaml:"invoice_prefix"`

	// OutputPrefix is the prefix of the timestamped run folder created under
	// the output directory, e.g. IC_OUTPUT_20260115_093000.
	OutputPrefix string `yaml:"output_prefix"`

	// PDF configures the HTML-to-PDF engine.
	PDF PDFConfig `yaml:"pdf"`
}

// PDFConfig configures the headless-Chrome PDF engine.
type PDFConfig struct {
	// ChromeBin is an explicit path to a Chrome/Chromium binary. When empty
	// the engine locates (or downloads) a browser itself.
	ChromeBin string `yaml:"chrome_bin"`

	// RenderTimeoutSeconds bounds the rendering of a single invoice.
	// Default: 30
	RenderTimeoutSeconds int `yaml:"render_timeout_seconds"`
}

// Env holds settings that can be overridden through the environment.
type Env struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
	ChromeBin string `envconfig:"CHROME_BIN"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the built-in configuration matching the fixed manifest
// export format.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from a YAML file. An empty path returns the
// defaults. A path that cannot be read or parsed is a fatal error: the run
// must not start on a half-understood configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadEnv reads the environment overrides, loading a .env file first when one
// exists in the working directory.
func LoadEnv() (*Env, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	var env Env
	if err := envconfig.Process("ICB", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &env, nil
}

// ParseLevel maps a level string to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

func applyDefaults(cfg *Config) {
	if cfg.Columns == nil {
		cols := manifest.DefaultColumns()
		cfg.Columns = &cols
	}
	if len(cfg.HeaderMarkers) == 0 {
		// Container batch tags as they appear in the manifest exports.
		cfg.HeaderMarkers = []string{"N005=", "N006="}
	}
	if cfg.Location == "" {
		cfg.Location = "ACCRA GHANA"
	}
	if cfg.InvoicePrefix == "" {
		cfg.InvoicePrefix = "1C"
	}
	if cfg.OutputPrefix == "" {
		cfg.OutputPrefix = "IC_OUTPUT"
	}
	if cfg.PDF.RenderTimeoutSeconds == 0 {
		cfg.PDF.RenderTimeoutSeconds = 30
	}
}

func validate(cfg *Config) error {
	if err := cfg.Columns.Validate(); err != nil {
		return err
	}
	for _, m := range cfg.HeaderMarkers {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("header_markers must not contain blank entries")
		}
	}
	if cfg.PDF.RenderTimeoutSeconds < 0 {
		return fmt.Errorf("pdf.render_timeout_seconds must not be negative")
	}
	return nil
}
