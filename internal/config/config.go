package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the main configuration structure
type Config struct {
	InputDirectory  string `mapstructure:"input_directory" validate:"required"`
	OutputDirectory string `mapstructure:"output_directory" validate:"required"`

	Resize     ResizeConfig     `mapstructure:"resize"`
	Output     OutputConfig     `mapstructure:"output"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ResizeConfig contains the sizing rules for the batch.
// At most one sizing mode is active: explicit width/height or a scale
// percentage. When both are given, width/height wins and the percentage
// is ignored.
type ResizeConfig struct {
	Width          int     `mapstructure:"width"`
	Height         int     `mapstructure:"height"`
	ScalePercent   float64 `mapstructure:"scale_percent"`
	MaintainAspect bool    `mapstructure:"maintain_aspect"`
}

// OutputConfig contains output format and encoding settings
type OutputConfig struct {
	Format      string `mapstructure:"format"` // empty = keep source format
	JPEGQuality int    `mapstructure:"jpeg_quality"`
	WEBPQuality int    `mapstructure:"webp_quality"`
}

// ProcessingConfig contains batch processing settings
type ProcessingConfig struct {
	CreateMissingInput bool `mapstructure:"create_missing_input"`
	Overwrite          bool `mapstructure:"overwrite"`
	PreserveMetadata   bool `mapstructure:"preserve_metadata"`
	DryRun             bool `mapstructure:"dry_run"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// ConfigurationError marks a problem with the configuration itself.
// The batch never starts when one is returned; per-file failures use a
// different path and never surface as this type.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewConfigurationError returns a ConfigurationError for the given field.
func NewConfigurationError(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SupportedFormats lists the output formats the resizer can encode to.
func SupportedFormats() []string {
	return []string{"JPEG", "PNG", "WEBP", "GIF", "BMP", "TIFF"}
}

// SupportedExtensions lists the file extensions accepted as batch input.
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		InputDirectory:  "input_images",
		OutputDirectory: "output",
		Resize: ResizeConfig{
			MaintainAspect: true,
		},
		Output: OutputConfig{
			JPEGQuality: 90,
			WEBPQuality: 90,
		},
		Processing: ProcessingConfig{
			CreateMissingInput: false,
			Overwrite:          true,
			PreserveMetadata:   false,
			DryRun:             false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			FilePath:   "image-resizer.log",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Look for config file in current directory and home directory
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.image-resizer")
		viper.AddConfigPath("/etc/image-resizer")
	}

	// Enable environment variable support
	viper.SetEnvPrefix("IMAGE_RESIZER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Unmarshal config
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate and normalize config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.InputDirectory == "" {
		return NewConfigurationError("input_directory", "is required")
	}

	if c.OutputDirectory == "" {
		return NewConfigurationError("output_directory", "is required")
	}

	if c.Resize.Width < 0 {
		return NewConfigurationError("resize.width", "must be a positive integer, got %d", c.Resize.Width)
	}
	if c.Resize.Height < 0 {
		return NewConfigurationError("resize.height", "must be a positive integer, got %d", c.Resize.Height)
	}
	if c.Resize.ScalePercent < 0 {
		return NewConfigurationError("resize.scale_percent", "must be a positive number, got %v", c.Resize.ScalePercent)
	}

	if c.Output.Format != "" {
		normalized, ok := NormalizeFormat(c.Output.Format)
		if !ok {
			return NewConfigurationError("output.format", "unknown format %q (valid: %s)",
				c.Output.Format, strings.Join(SupportedFormats(), ", "))
		}
		c.Output.Format = normalized
	}

	if c.Output.JPEGQuality < 0 || c.Output.JPEGQuality > 100 {
		return NewConfigurationError("output.jpeg_quality", "must be between 1 and 100, got %d", c.Output.JPEGQuality)
	}
	if c.Output.JPEGQuality == 0 {
		c.Output.JPEGQuality = 90
	}
	if c.Output.WEBPQuality < 0 || c.Output.WEBPQuality > 100 {
		return NewConfigurationError("output.webp_quality", "must be between 1 and 100, got %d", c.Output.WEBPQuality)
	}
	if c.Output.WEBPQuality == 0 {
		c.Output.WEBPQuality = 90
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return NewConfigurationError("logging.level", "invalid log level %q (valid: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}

// NormalizeFormat canonicalizes a format name ("jpeg", "JPG", "Png"...)
// to its uppercase enum value. The second return value reports whether
// the format is one the resizer can encode to.
func NormalizeFormat(format string) (string, bool) {
	f := strings.ToUpper(strings.TrimSpace(format))
	switch f {
	case "JPG":
		f = "JPEG"
	case "TIF":
		f = "TIFF"
	}
	for _, known := range SupportedFormats() {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// HasExplicitSize reports whether an explicit width or height is configured.
func (c *Config) HasExplicitSize() bool {
	return c.Resize.Width > 0 || c.Resize.Height > 0
}

// IsSupportedExtension checks if the extension belongs to a supported image format
func (c *Config) IsSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supportedExt := range SupportedExtensions() {
		if ext == supportedExt {
			return true
		}
	}
	return false
}

// InputDirectoryExists reports whether the configured input directory exists.
func (c *Config) InputDirectoryExists() bool {
	return dirExists(c.InputDirectory)
}

// Helper functions

func dirExists(path string) bool {
	if path == "" {
		return false
	}

	expandedPath := os.ExpandEnv(path)
	if strings.HasPrefix(expandedPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return false
		}
		expandedPath = filepath.Join(home, expandedPath[1:])
	}

	stat, err := os.Stat(expandedPath)
	return err == nil && stat.IsDir()
}
