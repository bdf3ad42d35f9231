// Package config provides configuration loading for the converter.
// Supports YAML files, .env files, environment variables, and flag overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/pdf"
)

// Config holds all configuration for a conversion.
type Config struct {
	Render        RenderConfig        `yaml:"render"`
	Output        OutputConfig        `yaml:"output"`
	Limits        LimitsConfig        `yaml:"limits"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// RenderConfig holds rasterization settings.
type RenderConfig struct {
	Backend string  `yaml:"backend"` // fitz or pdfium
	Scale   float64 `yaml:"scale"`
}

// OutputConfig holds output image settings.
type OutputConfig struct {
	Mode    string `yaml:"mode"`   // separate or long
	Format  string `yaml:"format"` // png, jpeg, gif, tiff, bmp
	Quality int    `yaml:"quality"`
	Dir     string `yaml:"dir"`
}

// LimitsConfig holds input validation limits.
type LimitsConfig struct {
	MaxFileSizeMB int64 `yaml:"max_file_size_mb"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads .env files, then the YAML file at path, then environment overrides.
func Load(path string) (*Config, error) {
	// Ignore error if .env doesn't exist
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Backend: pdf.BackendFitz,
			Scale:   2.0,
		},
		Output: OutputConfig{
			Mode:    string(domain.ModeSeparate),
			Format:  string(domain.FormatPNG),
			Quality: domain.DefaultQuality,
			Dir:     ".",
		},
		Limits: LimitsConfig{
			MaxFileSizeMB: pdf.DefaultMaxFileSize / (1024 * 1024),
		},
		Observability: ObservabilityConfig{
			LogLevel:  "warn",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Render.Backend != pdf.BackendFitz && c.Render.Backend != pdf.BackendPDFium {
		return domain.ConfigError(fmt.Sprintf("invalid render backend: %s", c.Render.Backend), nil)
	}

	if err := domain.ValidateScale(c.Render.Scale); err != nil {
		return domain.ConfigError("invalid render scale", err)
	}

	if _, err := c.OutputConfig(); err != nil {
		return domain.ConfigError("invalid output settings", err)
	}

	if c.Limits.MaxFileSizeMB < 1 {
		return domain.ConfigError(fmt.Sprintf("max_file_size_mb must be positive, got %d", c.Limits.MaxFileSizeMB), nil)
	}

	if c.Observability.LogFormat != "console" && c.Observability.LogFormat != "json" {
		return domain.ConfigError(fmt.Sprintf("invalid log format: %s", c.Observability.LogFormat), nil)
	}

	return nil
}

// OutputConfig converts the output section into the domain configuration.
func (c *Config) OutputConfig() (domain.OutputConfig, error) {
	mode, err := domain.ParseOutputMode(c.Output.Mode)
	if err != nil {
		return domain.OutputConfig{}, err
	}
	format, err := domain.ParseImageFormat(c.Output.Format)
	if err != nil {
		return domain.OutputConfig{}, err
	}
	out := domain.OutputConfig{Mode: mode, Format: format, Quality: c.Output.Quality}
	if err := out.Validate(); err != nil {
		return domain.OutputConfig{}, err
	}
	return out, nil
}

// MaxFileSize returns the input size limit in bytes.
func (c *Config) MaxFileSize() int64 {
	return c.Limits.MaxFileSizeMB * 1024 * 1024
}

// applyEnvOverrides applies PDF2IMAGE_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PDF2IMAGE_BACKEND"); v != "" {
		cfg.Render.Backend = strings.ToLower(v)
	}

	if v := os.Getenv("PDF2IMAGE_SCALE"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.ConfigError(fmt.Sprintf("PDF2IMAGE_SCALE is not a number: %q", v), err)
		}
		cfg.Render.Scale = scale
	}

	if v := os.Getenv("PDF2IMAGE_MODE"); v != "" {
		cfg.Output.Mode = v
	}

	if v := os.Getenv("PDF2IMAGE_FORMAT"); v != "" {
		cfg.Output.Format = v
	}

	if v := os.Getenv("PDF2IMAGE_QUALITY"); v != "" {
		quality, err := strconv.Atoi(v)
		if err != nil {
			return domain.ConfigError(fmt.Sprintf("PDF2IMAGE_QUALITY is not an integer: %q", v), err)
		}
		cfg.Output.Quality = quality
	}

	if v := os.Getenv("PDF2IMAGE_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}

	if v := os.Getenv("PDF2IMAGE_MAX_FILE_SIZE_MB"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return domain.ConfigError(fmt.Sprintf("PDF2IMAGE_MAX_FILE_SIZE_MB is not an integer: %q", v), err)
		}
		cfg.Limits.MaxFileSizeMB = size
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	return nil
}
